package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EmmanuelKeifala/LMS-SERVER/internal/domain"
	apperrors "github.com/EmmanuelKeifala/LMS-SERVER/pkg/errors"
)

func TestNotificationList(t *testing.T) {
	repo := new(mockNotificationRepository)
	svc := NewNotificationService(repo, newTestLogger())
	ctx := context.Background()

	repo.On("List", ctx).Return([]domain.Notification{
		{ID: "n-2", Title: "New Order"},
		{ID: "n-1", Title: "New Review Received"},
	}, nil)

	notifications, err := svc.List(ctx)

	require.NoError(t, err)
	require.Len(t, notifications, 2)
	assert.Equal(t, "n-2", notifications[0].ID)
}

func TestNotificationMarkRead_ReturnsRefreshedFeed(t *testing.T) {
	repo := new(mockNotificationRepository)
	svc := NewNotificationService(repo, newTestLogger())
	ctx := context.Background()

	repo.On("MarkRead", ctx, "n-1").Return(nil)
	repo.On("List", ctx).Return([]domain.Notification{
		{ID: "n-1", Status: domain.NotificationRead},
	}, nil)

	notifications, err := svc.MarkRead(ctx, "n-1")

	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, domain.NotificationRead, notifications[0].Status)
	repo.AssertExpectations(t)
}

func TestNotificationMarkRead_NotFound(t *testing.T) {
	repo := new(mockNotificationRepository)
	svc := NewNotificationService(repo, newTestLogger())
	ctx := context.Background()

	repo.On("MarkRead", ctx, "missing").Return(apperrors.NotFound("notification", "missing"))

	notifications, err := svc.MarkRead(ctx, "missing")

	assert.Nil(t, notifications)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
