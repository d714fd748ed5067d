package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/EmmanuelKeifala/LMS-SERVER/internal/domain"
	"github.com/EmmanuelKeifala/LMS-SERVER/internal/service"
	"github.com/EmmanuelKeifala/LMS-SERVER/pkg/httputil"
	"github.com/EmmanuelKeifala/LMS-SERVER/pkg/validator"
)

// LayoutHandler handles HTTP requests for landing page layout documents.
type LayoutHandler struct {
	service *service.LayoutService
	logger  *slog.Logger
}

// NewLayoutHandler creates a new layout HTTP handler.
func NewLayoutHandler(svc *service.LayoutService, logger *slog.Logger) *LayoutHandler {
	return &LayoutHandler{service: svc, logger: logger}
}

// LayoutRequest is the JSON request body for creating or replacing a layout
// document. The field matching Type must be populated.
type LayoutRequest struct {
	Type       string            `json:"type" validate:"required,oneof=banner faq categories"`
	Banner     *domain.Banner    `json:"banner"`
	FAQs       []domain.FAQItem  `json:"faqs"`
	Categories []domain.Category `json:"categories"`
}

func (req *LayoutRequest) toLayout() *domain.Layout {
	return &domain.Layout{
		Type:       domain.LayoutType(req.Type),
		Banner:     req.Banner,
		FAQs:       req.FAQs,
		Categories: req.Categories,
	}
}

// Get handles GET /api/v1/layouts/{type}
func (h *LayoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	layoutType := domain.LayoutType(chi.URLParam(r, "type"))

	layout, err := h.service.Get(r.Context(), layoutType)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.OK(layout))
}

// Create handles POST /api/v1/admin/layouts
func (h *LayoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req LayoutRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	layout, err := h.service.Create(r.Context(), req.toLayout())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.OK(layout))
}

// Update handles PUT /api/v1/admin/layouts
func (h *LayoutHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req LayoutRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	layout, err := h.service.Update(r.Context(), req.toLayout())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.OK(layout))
}
