package http

import (
	"log/slog"
	"net/http"

	"github.com/EmmanuelKeifala/LMS-SERVER/internal/service"
	apperrors "github.com/EmmanuelKeifala/LMS-SERVER/pkg/errors"
	"github.com/EmmanuelKeifala/LMS-SERVER/pkg/httputil"
	"github.com/EmmanuelKeifala/LMS-SERVER/pkg/validator"
)

// AuthHandler handles HTTP requests for registration, activation, login,
// refresh, and logout.
type AuthHandler struct {
	service *service.AuthService
	cookies CookieConfig
	logger  *slog.Logger
}

// NewAuthHandler creates a new auth HTTP handler.
func NewAuthHandler(svc *service.AuthService, cookies CookieConfig, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{service: svc, cookies: cookies, logger: logger}
}

// --- Request DTOs ---

// RegisterRequest is the JSON request body for starting a registration.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// ActivateRequest is the JSON request body for completing a registration.
type ActivateRequest struct {
	ActivationToken string `json:"activation_token" validate:"required"`
	ActivationCode  string `json:"activation_code" validate:"required,len=4,numeric"`
}

// LoginRequest is the JSON request body for password login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SocialLoginRequest is the JSON request body for OAuth-backed login.
type SocialLoginRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=100"`
	Email     string `json:"email" validate:"required,email"`
	AvatarURL string `json:"avatar_url" validate:"omitempty,url"`
}

// --- Handlers ---

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	token, err := h.service.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{
		Success: true,
		Message: "check your email to activate your account",
		Data:    map[string]string{"activation_token": token},
	})
}

// Activate handles POST /api/v1/auth/activate
func (h *AuthHandler) Activate(w http.ResponseWriter, r *http.Request) {
	var req ActivateRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	user, err := h.service.Activate(r.Context(), req.ActivationToken, req.ActivationCode)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.OK(user))
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	user, pair, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	setAuthCookies(w, pair, h.cookies)
	httputil.WriteJSON(w, http.StatusOK, httputil.OK(user))
}

// SocialLogin handles POST /api/v1/auth/social
func (h *AuthHandler) SocialLogin(w http.ResponseWriter, r *http.Request) {
	var req SocialLoginRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	user, pair, err := h.service.SocialLogin(r.Context(), service.SocialLoginInput{
		Name:      req.Name,
		Email:     req.Email,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	setAuthCookies(w, pair, h.cookies)
	httputil.WriteJSON(w, http.StatusOK, httputil.OK(user))
}

// Refresh handles GET /api/v1/auth/refresh. It reads the refresh token
// cookie, never a body.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshTokenCookie)
	if err != nil || cookie.Value == "" {
		httputil.WriteError(w, r, apperrors.Unauthorized("please login to access this resource"), h.logger)
		return
	}

	user, pair, err := h.service.RefreshSession(r.Context(), cookie.Value)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	setAuthCookies(w, pair, h.cookies)
	httputil.WriteJSON(w, http.StatusOK, httputil.OK(user))
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.Unauthorized("please login to access this resource"), h.logger)
		return
	}

	if err := h.service.Logout(r.Context(), p.ID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	clearAuthCookies(w, h.cookies)
	httputil.WriteJSON(w, http.StatusOK, httputil.OKMessage("logged out successfully"))
}
