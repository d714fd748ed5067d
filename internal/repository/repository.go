package repository

import (
	"context"

	"github.com/EmmanuelKeifala/LMS-SERVER/internal/domain"
)

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create inserts a new user into the store.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// List returns users newest first, with total count for pagination.
	List(ctx context.Context, limit, offset int) ([]domain.User, int, error)

	// Update modifies an existing user in the store.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user from the store by their identifier.
	Delete(ctx context.Context, id string) error
}

// CourseRepository defines the interface for course persistence operations.
type CourseRepository interface {
	// Create inserts a new course into the store.
	Create(ctx context.Context, course *domain.Course) error

	// GetByID retrieves a course with its full nested content.
	GetByID(ctx context.Context, id string) (*domain.Course, error)

	// List returns all courses with their full nested content.
	List(ctx context.Context) ([]*domain.Course, error)

	// Update replaces an existing course, including nested content.
	Update(ctx context.Context, course *domain.Course) error

	// Delete removes a course from the store.
	Delete(ctx context.Context, id string) error
}

// OrderRepository defines the interface for order persistence operations.
type OrderRepository interface {
	// Create inserts the order and persists the buyer's updated course
	// list in one transaction, so a purchase never lands without its grant.
	Create(ctx context.Context, order *domain.Order, grantedCourses []string) error

	// ExistsForUserAndCourse reports whether the user already purchased the course.
	ExistsForUserAndCourse(ctx context.Context, userID, courseID string) (bool, error)

	// List returns orders newest first, with total count for pagination.
	List(ctx context.Context, limit, offset int) ([]domain.Order, int, error)
}

// LayoutRepository defines the interface for layout persistence operations.
type LayoutRepository interface {
	// Create inserts a layout document; each type may exist at most once.
	Create(ctx context.Context, layout *domain.Layout) error

	// GetByType retrieves the layout document for a type.
	GetByType(ctx context.Context, layoutType domain.LayoutType) (*domain.Layout, error)

	// Update replaces the layout document for a type.
	Update(ctx context.Context, layout *domain.Layout) error
}

// NotificationRepository defines the interface for notification persistence operations.
type NotificationRepository interface {
	// Create inserts a new notification into the store.
	Create(ctx context.Context, n *domain.Notification) error

	// List returns all notifications newest first.
	List(ctx context.Context) ([]domain.Notification, error)

	// MarkRead sets a notification's status to read.
	MarkRead(ctx context.Context, id string) error
}
