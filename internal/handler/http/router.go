package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/EmmanuelKeifala/LMS-SERVER/internal/auth"
	"github.com/EmmanuelKeifala/LMS-SERVER/internal/domain"
	"github.com/EmmanuelKeifala/LMS-SERVER/internal/repository"
	"github.com/EmmanuelKeifala/LMS-SERVER/internal/service"
	"github.com/EmmanuelKeifala/LMS-SERVER/internal/session"
	"github.com/EmmanuelKeifala/LMS-SERVER/pkg/health"
	"github.com/EmmanuelKeifala/LMS-SERVER/pkg/middleware"
)

// RouterDeps bundles everything the router needs to wire routes.
type RouterDeps struct {
	AuthService         *service.AuthService
	UserService         *service.UserService
	CourseService       *service.CourseService
	OrderService        *service.OrderService
	LayoutService       *service.LayoutService
	NotificationService *service.NotificationService

	Tokens   *auth.TokenManager
	Sessions *session.Store
	UserRepo repository.UserRepository

	HealthHandler *health.Handler
	Logger        *slog.Logger
	Cookies       CookieConfig
	CORS          middleware.CORSConfig
}

// NewRouter creates a chi router with all routes registered.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(deps.CORS))
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.Tracing("lms-server"))
	r.Use(middleware.RequestLogging(deps.Logger))
	r.Use(middleware.PrometheusMetrics("lms-server"))
	r.Use(middleware.RequestLogger(deps.Logger))

	// Health check endpoints
	r.Get("/health/live", deps.HealthHandler.LivenessHandler())
	r.Get("/health/ready", deps.HealthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	authHandler := NewAuthHandler(deps.AuthService, deps.Cookies, deps.Logger)
	userHandler := NewUserHandler(deps.UserService, deps.Logger)
	courseHandler := NewCourseHandler(deps.CourseService, deps.Logger)
	orderHandler := NewOrderHandler(deps.OrderService, deps.Logger)
	layoutHandler := NewLayoutHandler(deps.LayoutService, deps.Logger)
	notificationHandler := NewNotificationHandler(deps.NotificationService, deps.Logger)

	authenticate := Authenticator(deps.Tokens, deps.Sessions, deps.UserRepo, deps.Logger)
	adminOnly := RequireRole(deps.Logger, domain.RoleAdmin)

	// Auth endpoints (public)
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(ContentTypeJSON).Post("/register", authHandler.Register)
		r.With(ContentTypeJSON).Post("/activate", authHandler.Activate)
		r.With(ContentTypeJSON).Post("/login", authHandler.Login)
		r.With(ContentTypeJSON).Post("/social", authHandler.SocialLogin)

		// Refresh authenticates with the refresh cookie, not the access token.
		r.Get("/refresh", authHandler.Refresh)

		r.With(authenticate).Post("/logout", authHandler.Logout)
	})

	// Public layout endpoint
	r.Get("/api/v1/layouts/{type}", layoutHandler.Get)

	// Catalog endpoints: sanitized reads are public, content and discussion
	// require a session.
	r.Route("/api/v1/courses", func(r chi.Router) {
		r.Get("/", courseHandler.List)
		r.Get("/{courseID}", courseHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Use(authenticate)

			r.Get("/{courseID}/content", courseHandler.GetContent)
			r.Post("/{courseID}/questions", courseHandler.AddQuestion)
			r.Post("/{courseID}/answers", courseHandler.AddAnswer)
			r.Post("/{courseID}/reviews", courseHandler.AddReview)
		})
	})

	// Profile endpoints (auth required)
	r.Route("/api/v1/users", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(authenticate)

		r.Get("/me", userHandler.Me)
		r.Put("/me", userHandler.UpdateInfo)
		r.Put("/me/password", userHandler.UpdatePassword)
		r.Put("/me/avatar", userHandler.UpdateAvatar)
	})

	// Order endpoints (auth required)
	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(authenticate)

		r.Post("/", orderHandler.Create)
	})

	// Admin endpoints
	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(authenticate)
		r.Use(adminOnly)

		r.Get("/users", userHandler.List)
		r.Put("/users/{userID}/role", userHandler.UpdateRole)
		r.Delete("/users/{userID}", userHandler.Delete)

		r.Get("/courses", courseHandler.ListFull)
		r.Post("/courses", courseHandler.Create)
		r.Put("/courses/{courseID}", courseHandler.Update)
		r.Delete("/courses/{courseID}", courseHandler.Delete)
		r.Post("/courses/{courseID}/reviews/replies", courseHandler.AddReviewReply)

		r.Get("/orders", orderHandler.List)

		r.Post("/layouts", layoutHandler.Create)
		r.Put("/layouts", layoutHandler.Update)

		r.Get("/notifications", notificationHandler.List)
		r.Put("/notifications/{notificationID}", notificationHandler.MarkRead)
	})

	return r
}
