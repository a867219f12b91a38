package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// requestIDHeader is set by upstream proxies and echoed back on every
// response so a client-reported failure can be matched to server logs.
const requestIDHeader = "X-Request-ID"

// RequestIDKey is the context key under which the correlation ID is stored.
const RequestIDKey contextKey = "request_id"

// CorrelationID assigns each request a correlation ID, honoring one supplied
// by an upstream proxy, and stores a logger enriched with that ID on the
// context. Everything downstream that logs via the context inherits the
// request_id field without further plumbing.
func CorrelationID(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(requestIDHeader)
			if requestID == "" {
				requestID = uuid.New().String()
			}
			w.Header().Set(requestIDHeader, requestID)

			reqLogger := logger.With().Str("request_id", requestID).Logger()

			ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
			ctx = reqLogger.WithContext(ctx)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetRequestID returns the correlation ID stored on ctx, or "" when the
// request never passed through CorrelationID.
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}
