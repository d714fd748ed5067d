package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/EmmanuelKeifala/LMS-SERVER/internal/domain"
	"github.com/EmmanuelKeifala/LMS-SERVER/internal/repository"
)

// NotificationService manages the admin notification feed.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
	logger           *slog.Logger
}

// NewNotificationService creates a new notification service.
func NewNotificationService(notificationRepo repository.NotificationRepository, logger *slog.Logger) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// List returns all notifications newest first.
func (s *NotificationService) List(ctx context.Context) ([]domain.Notification, error) {
	notifications, err := s.notificationRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead marks a notification as read and returns the refreshed feed.
func (s *NotificationService) MarkRead(ctx context.Context, id string) ([]domain.Notification, error) {
	if err := s.notificationRepo.MarkRead(ctx, id); err != nil {
		return nil, fmt.Errorf("mark notification read: %w", err)
	}

	s.logger.InfoContext(ctx, "notification marked read",
		slog.String("notification_id", id),
	)

	notifications, err := s.notificationRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}
