package middleware

import (
	"log/slog"
	"net/http"

	"github.com/EmmanuelKeifala/LMS-SERVER/pkg/logger"
)

// RequestLogger stashes a per-request logger in context, pre-enriched with
// the correlation ID and active span so handlers logging via
// logger.FromContext(ctx) get those fields for free.
//
// Mount after RequestLogging and Tracing; it reads what they put in context.
// Cookie auth has not run yet at this point in the chain, so user
// attribution here comes only from an explicit X-User-ID header.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if userID := r.Header.Get("X-User-ID"); userID != "" {
				ctx = logger.WithUserID(ctx, userID)
			}
			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
