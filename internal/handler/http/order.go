package http

import (
	"log/slog"
	"net/http"

	"github.com/EmmanuelKeifala/LMS-SERVER/internal/service"
	apperrors "github.com/EmmanuelKeifala/LMS-SERVER/pkg/errors"
	"github.com/EmmanuelKeifala/LMS-SERVER/pkg/httputil"
	"github.com/EmmanuelKeifala/LMS-SERVER/pkg/pagination"
	"github.com/EmmanuelKeifala/LMS-SERVER/pkg/validator"
)

// OrderHandler handles HTTP requests for course purchases.
type OrderHandler struct {
	service *service.OrderService
	logger  *slog.Logger
}

// NewOrderHandler creates a new order HTTP handler.
func NewOrderHandler(svc *service.OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{service: svc, logger: logger}
}

// CreateOrderRequest is the JSON request body for purchasing a course.
// PaymentInfo is an opaque receipt from the payment provider and is stored
// as-is.
type CreateOrderRequest struct {
	CourseID    string `json:"course_id" validate:"required"`
	PaymentInfo string `json:"payment_info"`
}

// Create handles POST /api/v1/orders
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.Unauthorized("please login to access this resource"), h.logger)
		return
	}

	var req CreateOrderRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	order, err := h.service.Create(r.Context(), p.ID, req.CourseID, req.PaymentInfo)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.OK(order))
}

// List handles GET /api/v1/admin/orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	orders, total, err := h.service.List(r.Context(), params.PerPage, params.Offset)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.OK(pagination.NewResult(orders, total, params)))
}
