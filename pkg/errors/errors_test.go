package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	err := NotFound("course", "c-123")
	assert.Contains(t, err.Error(), "NOT_FOUND")
	assert.Contains(t, err.Error(), "course with id c-123 not found")

	wrapped := Internal(errors.New("connection refused"))
	assert.Contains(t, wrapped.Error(), "connection refused")
}

func TestAppError_Unwrap(t *testing.T) {
	assert.ErrorIs(t, NotFound("user", "u-1"), ErrNotFound)
	assert.ErrorIs(t, AlreadyExists("user", "email", "a@x.com"), ErrAlreadyExists)
	assert.ErrorIs(t, InvalidInput("bad code"), ErrInvalidInput)
	assert.ErrorIs(t, Unauthorized("no token"), ErrUnauthorized)
	assert.ErrorIs(t, Forbidden("admins only"), ErrForbidden)
}

func TestHTTPStatus_AppError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", NotFound("user", "u-1"), http.StatusNotFound},
		{"already exists", AlreadyExists("user", "email", "a@x.com"), http.StatusConflict},
		{"invalid input", InvalidInput("missing field"), http.StatusBadRequest},
		{"unauthorized", Unauthorized("expired"), http.StatusUnauthorized},
		{"forbidden", Forbidden("role not allowed"), http.StatusForbidden},
		{"internal", Internal(errors.New("boom")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
		})
	}
}

func TestHTTPStatus_Sentinels(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(ErrNotFound))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(fmt.Errorf("auth: %w", ErrUnauthorized)))
	assert.Equal(t, http.StatusForbidden, HTTPStatus(fmt.Errorf("gate: %w", ErrForbidden)))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("unknown")))
}

func TestWrap(t *testing.T) {
	base := errors.New("base")
	wrapped := Wrap(base, "doing thing")
	assert.ErrorIs(t, wrapped, base)
	assert.Contains(t, wrapped.Error(), "doing thing")
}
