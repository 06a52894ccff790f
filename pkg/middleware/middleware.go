package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/grassroots-wallet/gpay-pass-service/pkg/passerrors"
)

const RequestIDHeader = "X-Request-Id"

// AllowOrigins enforces the origin allow-list before any request
// processing. Allow-list entries are either exact origins or ".domain"
// suffix patterns matching any subdomain. Requests carrying a disallowed
// Origin header are rejected with 403 and never reach the handlers.
// Requests without an Origin header are not CORS requests and pass through.
func AllowOrigins(allowedOrigins []string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if origin == "" {
				next.ServeHTTP(w, r)

				return
			}

			if !originAllowed(origin, allowedOrigins) {
				logger.Error("Blocked request from disallowed origin.", zap.String("origin", origin), zap.Error(passerrors.ErrForbiddenOrigin))
				http.Error(w, "Forbidden by CORS", http.StatusForbidden)

				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
				w.WriteHeader(http.StatusNoContent)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(origin string, allowedOrigins []string) bool {
	for _, allowed := range allowedOrigins {
		if strings.HasPrefix(allowed, ".") {
			if strings.HasSuffix(origin, allowed) {
				return true
			}

			continue
		}

		if origin == allowed {
			return true
		}
	}

	return false
}

// RequestID tags every request with a correlation id. The id is the only
// value safe to tie log lines to a request; the request body never is.
func RequestID(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}

			w.Header().Set(RequestIDHeader, requestID)

			logger.Info("Request received.",
				zap.String("request-id", requestID),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
			)

			next.ServeHTTP(w, r)
		})
	}
}

func CombineMiddleware(middleware ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(final http.Handler) http.Handler {
		for i := len(middleware) - 1; i >= 0; i-- {
			final = middleware[i](final)
		}

		return final
	}
}
