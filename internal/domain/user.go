package domain

import (
	"time"
)

// Avatar is a reference to an externally stored profile image.
type Avatar struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// User represents a registered user in the system.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	IsSocial     bool      `json:"is_social"`
	Avatar       *Avatar   `json:"avatar,omitempty"`
	Courses      []string  `json:"courses"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Principal is the immutable identity attached to an authenticated request.
// It carries everything authorization and ownership checks need so handlers
// never re-read the user record.
type Principal struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Role    Role     `json:"role"`
	Courses []string `json:"courses"`
}

// Principal returns the request-scoped identity projection of the user.
func (u *User) Principal() Principal {
	courses := make([]string, len(u.Courses))
	copy(courses, u.Courses)
	return Principal{
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Role:    u.Role,
		Courses: courses,
	}
}

// OwnsCourse reports whether the principal's course list contains the given course.
func (p Principal) OwnsCourse(courseID string) bool {
	for _, id := range p.Courses {
		if id == courseID {
			return true
		}
	}
	return false
}

// PendingRegistration is the not-yet-persisted registration payload embedded
// in activation token claims.
type PendingRegistration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenPair holds an access and refresh token pair.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
