package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/EmmanuelKeifala/LMS-SERVER/internal/auth"
	"github.com/EmmanuelKeifala/LMS-SERVER/internal/domain"
	"github.com/EmmanuelKeifala/LMS-SERVER/internal/repository"
	"github.com/EmmanuelKeifala/LMS-SERVER/internal/session"
	apperrors "github.com/EmmanuelKeifala/LMS-SERVER/pkg/errors"
	"github.com/EmmanuelKeifala/LMS-SERVER/pkg/httputil"
)

type contextKey string

const principalKey contextKey = "principal"

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalKey).(domain.Principal)
	return p, ok
}

// ContextWithPrincipal attaches a principal to the context. Exported for
// handler tests.
func ContextWithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// Authenticator validates the access token cookie and attaches the principal
// to the request context. The principal is built from the session snapshot
// when one exists, falling back to the database; any failure along the way
// yields a 401, never a pass-through.
func Authenticator(tokens *auth.TokenManager, sessions *session.Store, userRepo repository.UserRepository, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(accessTokenCookie)
			if err != nil || cookie.Value == "" {
				httputil.WriteError(w, r, apperrors.Unauthorized("please login to access this resource"), logger)
				return
			}

			claims, err := tokens.ValidateAccessToken(cookie.Value)
			if err != nil {
				httputil.WriteError(w, r, apperrors.Unauthorized("access token is not valid"), logger)
				return
			}

			user, err := sessions.Get(r.Context(), claims.UserID)
			if err != nil {
				if !errors.Is(err, session.ErrNotFound) {
					logger.WarnContext(r.Context(), "session read failed during auth",
						slog.String("user_id", claims.UserID),
						slog.String("error", err.Error()),
					)
				}
				user, err = userRepo.GetByID(r.Context(), claims.UserID)
				if err != nil {
					httputil.WriteError(w, r, apperrors.Unauthorized("please login to access this resource"), logger)
					return
				}
			}

			ctx := ContextWithPrincipal(r.Context(), user.Principal())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole allows the request through only when the authenticated
// principal's role is in the allow-list. It must run after Authenticator.
func RequireRole(logger *slog.Logger, roles ...domain.Role) func(http.Handler) http.Handler {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				httputil.WriteError(w, r, apperrors.Unauthorized("please login to access this resource"), logger)
				return
			}

			if _, ok := allowed[p.Role]; !ok {
				httputil.WriteError(w, r, apperrors.Forbidden("you are not allowed to access this resource"), logger)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ContentTypeJSON enforces that requests with a body have Content-Type: application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 || r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if !strings.HasPrefix(ct, "application/json") {
				httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.Response{
					Success: false,
					Message: "Content-Type must be application/json",
				})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
