package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/EmmanuelKeifala/LMS-SERVER/internal/cache"
	"github.com/EmmanuelKeifala/LMS-SERVER/internal/domain"
	"github.com/EmmanuelKeifala/LMS-SERVER/internal/repository"
	"github.com/EmmanuelKeifala/LMS-SERVER/internal/session"
	apperrors "github.com/EmmanuelKeifala/LMS-SERVER/pkg/errors"
)

// OrderService implements course purchases. A successful order grants the
// course to the buyer, bumps the purchase counter, raises an admin
// notification, and publishes an order.created event.
type OrderService struct {
	orderRepo        repository.OrderRepository
	userRepo         repository.UserRepository
	courseRepo       repository.CourseRepository
	notificationRepo repository.NotificationRepository
	sessions         *session.Store
	cache            *cache.CourseCache
	producer         EventPublisher
	logger           *slog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	courseRepo repository.CourseRepository,
	notificationRepo repository.NotificationRepository,
	sessions *session.Store,
	courseCache *cache.CourseCache,
	producer EventPublisher,
	logger *slog.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:        orderRepo,
		userRepo:         userRepo,
		courseRepo:       courseRepo,
		notificationRepo: notificationRepo,
		sessions:         sessions,
		cache:            courseCache,
		producer:         producer,
		logger:           logger,
	}
}

// Create purchases a course for the user. PaymentInfo is stored opaquely;
// charging happens upstream.
func (s *OrderService) Create(ctx context.Context, userID, courseID, paymentInfo string) (*domain.Order, error) {
	if courseID == "" {
		return nil, apperrors.InvalidInput("course id is required")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user for order: %w", err)
	}

	// The course list catches grants already visible on the user; the orders
	// table is the purchase authority and catches anything the list missed.
	for _, owned := range user.Courses {
		if owned == courseID {
			return nil, apperrors.AlreadyExists("order", "course", courseID)
		}
	}
	purchased, err := s.orderRepo.ExistsForUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("check existing order: %w", err)
	}
	if purchased {
		return nil, apperrors.AlreadyExists("order", "course", courseID)
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("get course for order: %w", err)
	}

	order := &domain.Order{
		ID:          uuid.New().String(),
		UserID:      user.ID,
		CourseID:    course.ID,
		PaymentInfo: paymentInfo,
		CreatedAt:   time.Now().UTC(),
	}

	// The repository lands the order and the course grant in one transaction;
	// the session write-through makes ownership checks see it immediately.
	user.Courses = append(user.Courses, course.ID)
	if err := s.orderRepo.Create(ctx, order, user.Courses); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	if err := s.sessions.Put(ctx, user); err != nil {
		return nil, fmt.Errorf("refresh session: %w", err)
	}

	course.Purchased++
	if err := s.courseRepo.Update(ctx, course); err != nil {
		s.logger.ErrorContext(ctx, "failed to bump purchase counter",
			slog.String("course_id", course.ID),
			slog.String("error", err.Error()),
		)
	}
	if err := s.cache.Invalidate(ctx, course.ID); err != nil {
		s.logger.WarnContext(ctx, "course cache invalidation failed",
			slog.String("course_id", course.ID),
			slog.String("error", err.Error()),
		)
	}

	now := time.Now().UTC()
	notification := &domain.Notification{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Title:     "New Order",
		Message:   fmt.Sprintf("You have a new order for %s", course.Name),
		Status:    domain.NotificationUnread,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		s.logger.ErrorContext(ctx, "failed to create order notification",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.producer.PublishOrderCreated(ctx, order, user.Email, course); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.created event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order created",
		slog.String("order_id", order.ID),
		slog.String("user_id", user.ID),
		slog.String("course_id", course.ID),
	)

	return order, nil
}

// List returns a page of orders newest first with the total count.
func (s *OrderService) List(ctx context.Context, limit, offset int) ([]domain.Order, int, error) {
	orders, total, err := s.orderRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	return orders, total, nil
}
