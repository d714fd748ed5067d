package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/EmmanuelKeifala/LMS-SERVER/pkg/errors"
	"github.com/EmmanuelKeifala/LMS-SERVER/pkg/logger"
	"github.com/EmmanuelKeifala/LMS-SERVER/pkg/validator"
)

// Response is the standard JSON envelope for every endpoint. Successful
// responses carry Data; failures carry only Message, so token contents and
// internals never reach the client.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// OK builds a success envelope around the given payload.
func OK(data any) Response {
	return Response{Success: true, Data: data}
}

// OKMessage builds a success envelope carrying only a message.
func OKMessage(message string) Response {
	return Response{Success: true, Message: message}
}

// WriteJSON writes a JSON response with the given status code.
// If encoding fails, the error is logged but headers are already sent so nothing can be done.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError converts any error into the uniform failure envelope
// {"success": false, "message": ...}. AppError messages pass through with
// their mapped status; everything else is reported as an internal error with
// a generic message and the underlying cause logged server-side only. It
// prefers the request-scoped logger from context over the fallback logger.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() {
		l = fallback
	}

	status := apperrors.HTTPStatus(err)
	message := "an internal error occurred"

	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr) && appErr.Status != http.StatusInternalServerError:
		message = appErr.Message
	case errors.Is(err, apperrors.ErrNotFound):
		message = "resource not found"
	case errors.Is(err, apperrors.ErrAlreadyExists):
		message = "resource already exists"
	case errors.Is(err, apperrors.ErrInvalidInput):
		message = err.Error()
	case errors.Is(err, apperrors.ErrUnauthorized):
		message = "please login to access this resource"
	case errors.Is(err, apperrors.ErrForbidden):
		message = "you are not allowed to access this resource"
	}

	if status == http.StatusInternalServerError {
		l.ErrorContext(r.Context(), "internal error",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	WriteJSON(w, status, Response{Success: false, Message: message})
}

// WriteValidationError writes a 400 failure envelope for request validation
// failures, joining the per-field messages into the single message string.
func WriteValidationError(w http.ResponseWriter, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		WriteJSON(w, http.StatusBadRequest, Response{Success: false, Message: valErr.Error()})
		return
	}

	WriteJSON(w, http.StatusBadRequest, Response{Success: false, Message: err.Error()})
}

// DecodeJSON reads and decodes the request body into dst, enforcing a 1MB
// body limit.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.InvalidInput("invalid request body: " + err.Error())
	}
	return nil
}
