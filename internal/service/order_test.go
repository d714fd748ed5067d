package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/EmmanuelKeifala/LMS-SERVER/internal/domain"
	apperrors "github.com/EmmanuelKeifala/LMS-SERVER/pkg/errors"
)

type orderTestFixture struct {
	orderRepo        *mockOrderRepository
	userRepo         *mockUserRepository
	courseRepo       *mockCourseRepository
	notificationRepo *mockNotificationRepository
	producer         *mockEventPublisher
	svc              *OrderService
}

func newOrderFixture(t *testing.T) *orderTestFixture {
	t.Helper()
	f := &orderTestFixture{
		orderRepo:        new(mockOrderRepository),
		userRepo:         new(mockUserRepository),
		courseRepo:       new(mockCourseRepository),
		notificationRepo: new(mockNotificationRepository),
		producer:         new(mockEventPublisher),
	}
	f.svc = NewOrderService(
		f.orderRepo, f.userRepo, f.courseRepo, f.notificationRepo,
		newTestSessions(t), newTestCourseCache(t), f.producer, newTestLogger(),
	)
	return f
}

func TestOrderCreate_Success(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	buyer := &domain.User{ID: "u-1", Email: "john@example.com", Courses: []string{}}
	course := testCourse()

	f.userRepo.On("GetByID", ctx, "u-1").Return(buyer, nil)
	f.orderRepo.On("ExistsForUserAndCourse", ctx, "u-1", "c-1").Return(false, nil)
	f.courseRepo.On("GetByID", ctx, "c-1").Return(course, nil)
	f.orderRepo.On("Create", ctx, mock.AnythingOfType("*domain.Order"), []string{"c-1"}).Return(nil)
	f.courseRepo.On("Update", ctx, mock.AnythingOfType("*domain.Course")).Return(nil)
	f.notificationRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.Title == "New Order" && n.UserID == "u-1"
	})).Return(nil)
	f.producer.On("PublishOrderCreated", ctx, mock.AnythingOfType("*domain.Order"), "john@example.com", course).Return(nil)

	order, err := f.svc.Create(ctx, "u-1", "c-1", `{"id":"pi_1"}`)

	require.NoError(t, err)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, "c-1", order.CourseID)

	// The buyer now owns the course and the counter moved.
	assert.Contains(t, buyer.Courses, "c-1")
	assert.Equal(t, 1, course.Purchased)

	// The session snapshot sees the grant immediately.
	cached, err := f.svc.sessions.Get(ctx, "u-1")
	require.NoError(t, err)
	assert.Contains(t, cached.Courses, "c-1")

	f.orderRepo.AssertExpectations(t)
	f.notificationRepo.AssertExpectations(t)
	f.producer.AssertExpectations(t)
}

func TestOrderCreate_DuplicatePurchase(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	buyer := &domain.User{ID: "u-1", Courses: []string{"c-1"}}
	f.userRepo.On("GetByID", ctx, "u-1").Return(buyer, nil)

	order, err := f.svc.Create(ctx, "u-1", "c-1", "")

	assert.Nil(t, order)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	f.orderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderCreate_DuplicatePurchase_PriorOrder(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	// The buyer's course list is empty but an order is already on record;
	// the orders table wins.
	buyer := &domain.User{ID: "u-1", Courses: []string{}}
	f.userRepo.On("GetByID", ctx, "u-1").Return(buyer, nil)
	f.orderRepo.On("ExistsForUserAndCourse", ctx, "u-1", "c-1").Return(true, nil)

	order, err := f.svc.Create(ctx, "u-1", "c-1", "")

	assert.Nil(t, order)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	f.orderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderCreate_UnknownCourse(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	buyer := &domain.User{ID: "u-1", Courses: []string{}}
	f.userRepo.On("GetByID", ctx, "u-1").Return(buyer, nil)
	f.orderRepo.On("ExistsForUserAndCourse", ctx, "u-1", "c-404").Return(false, nil)
	f.courseRepo.On("GetByID", ctx, "c-404").Return(nil, apperrors.ErrNotFound)

	order, err := f.svc.Create(ctx, "u-1", "c-404", "")

	assert.Nil(t, order)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestOrderCreate_MissingCourseID(t *testing.T) {
	f := newOrderFixture(t)

	order, err := f.svc.Create(context.Background(), "u-1", "", "")

	assert.Nil(t, order)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestOrderList(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	f.orderRepo.On("List", ctx, 20, 0).Return([]domain.Order{{ID: "o-1"}}, 1, nil)

	orders, total, err := f.svc.List(ctx, 20, 0)

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, orders, 1)
}
