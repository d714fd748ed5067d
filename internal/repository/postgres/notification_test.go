package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EmmanuelKeifala/LMS-SERVER/internal/domain"
	apperrors "github.com/EmmanuelKeifala/LMS-SERVER/pkg/errors"
)

func newNotificationTestFixture(t *testing.T) (*NotificationRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	repo := NewNotificationRepository(mock)
	return repo, mock
}

func sampleNotification() *domain.Notification {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Notification{
		ID:        "n-1",
		UserID:    "u-1234",
		Title:     "New Order",
		Message:   "You have a new order for Advanced Go",
		Status:    domain.NotificationUnread,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestNotificationRepository_Create_Success(t *testing.T) {
	repo, mock := newNotificationTestFixture(t)
	defer mock.Close()

	n := sampleNotification()

	mock.ExpectExec("INSERT INTO notifications").
		WithArgs(n.ID, n.UserID, n.Title, n.Message, n.Status, n.CreatedAt, n.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), n)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_List_Success(t *testing.T) {
	repo, mock := newNotificationTestFixture(t)
	defer mock.Close()

	n := sampleNotification()

	mock.ExpectQuery("SELECT .+ FROM notifications ORDER BY created_at DESC").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "title", "message", "status", "created_at", "updated_at"}).
			AddRow(n.ID, n.UserID, n.Title, n.Message, n.Status, n.CreatedAt, n.UpdatedAt))

	notifications, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, "New Order", notifications[0].Title)
	assert.Equal(t, domain.NotificationUnread, notifications[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_List_Empty(t *testing.T) {
	repo, mock := newNotificationTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM notifications ORDER BY created_at DESC").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "title", "message", "status", "created_at", "updated_at"}))

	notifications, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, notifications)
	assert.Empty(t, notifications)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_MarkRead_Success(t *testing.T) {
	repo, mock := newNotificationTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("UPDATE notifications").
		WithArgs(domain.NotificationRead, pgxmock.AnyArg(), "n-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.MarkRead(context.Background(), "n-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_MarkRead_NotFound(t *testing.T) {
	repo, mock := newNotificationTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("UPDATE notifications").
		WithArgs(domain.NotificationRead, pgxmock.AnyArg(), "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.MarkRead(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
