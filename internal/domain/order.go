package domain

import (
	"time"
)

// Order records a course purchase. PaymentInfo passes through opaquely; this
// service never interprets or charges it.
type Order struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	CourseID    string    `json:"course_id"`
	PaymentInfo string    `json:"payment_info,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
