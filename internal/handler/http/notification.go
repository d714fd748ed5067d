package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/EmmanuelKeifala/LMS-SERVER/internal/service"
	"github.com/EmmanuelKeifala/LMS-SERVER/pkg/httputil"
)

// NotificationHandler handles HTTP requests for the admin notification feed.
type NotificationHandler struct {
	service *service.NotificationService
	logger  *slog.Logger
}

// NewNotificationHandler creates a new notification HTTP handler.
func NewNotificationHandler(svc *service.NotificationService, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{service: svc, logger: logger}
}

// List handles GET /api/v1/admin/notifications
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.service.List(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.OK(notifications))
}

// MarkRead handles PUT /api/v1/admin/notifications/{notificationID}. The
// response carries the refreshed feed.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.service.MarkRead(r.Context(), chi.URLParam(r, "notificationID"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.OK(notifications))
}
