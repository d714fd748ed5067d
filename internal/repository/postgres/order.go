package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/EmmanuelKeifala/LMS-SERVER/internal/domain"
	"github.com/EmmanuelKeifala/LMS-SERVER/pkg/database"
	apperrors "github.com/EmmanuelKeifala/LMS-SERVER/pkg/errors"
)

// OrderRepository implements repository.OrderRepository using PostgreSQL.
type OrderRepository struct {
	db database.DBTX
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(db database.DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts the order and writes the buyer's updated course list in a
// single transaction. Either the purchase and the grant both land or neither
// does.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order, grantedCourses []string) error {
	coursesJSON, err := json.Marshal(courseList(grantedCourses))
	if err != nil {
		return fmt.Errorf("marshal courses: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin order tx: %w", err)
	}

	insert := `
		INSERT INTO orders (id, user_id, course_id, payment_info, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	if _, err := tx.Exec(ctx, insert,
		o.ID,
		o.UserID,
		o.CourseID,
		o.PaymentInfo,
		o.CreatedAt,
	); err != nil {
		_ = tx.Rollback(ctx)
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("order", "course", o.CourseID)
		}
		return fmt.Errorf("insert order: %w", err)
	}

	grant := `UPDATE users SET courses = $1, updated_at = $2 WHERE id = $3`
	if _, err := tx.Exec(ctx, grant, coursesJSON, time.Now().UTC(), o.UserID); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("grant course to user: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit order tx: %w", err)
	}

	return nil
}

// ExistsForUserAndCourse reports whether the user already purchased the course.
func (r *OrderRepository) ExistsForUserAndCourse(ctx context.Context, userID, courseID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM orders WHERE user_id = $1 AND course_id = $2)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, userID, courseID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check order exists: %w", err)
	}

	return exists, nil
}

// List returns orders newest first along with the total order count.
func (r *OrderRepository) List(ctx context.Context, limit, offset int) ([]domain.Order, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	query := `
		SELECT id, user_id, course_id, payment_info, created_at
		FROM orders
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(
			&o.ID,
			&o.UserID,
			&o.CourseID,
			&o.PaymentInfo,
			&o.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate order rows: %w", err)
	}

	return orders, total, nil
}
