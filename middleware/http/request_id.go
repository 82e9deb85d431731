package http

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// RequestIDHeader is the HTTP header name for request IDs
const RequestIDHeader = "X-Request-ID"

type contextKey string

// requestIDContextKey is the context key for storing request IDs
const requestIDContextKey contextKey = "request_id"

// WithRequestID generates or propagates request IDs for correlation.
//
// This middleware:
//   - Reads X-Request-ID from incoming request headers
//   - Generates a new UUID if no request ID is present
//   - Stores the request ID in the request context
//   - Adds X-Request-ID to the response headers
//
// Apply it early in the chi middleware chain, before logging.
func WithRequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(RequestIDHeader)

			if requestID == "" {
				requestID = uuid.New().String()
			}

			w.Header().Set(RequestIDHeader, requestID)

			ctx := context.WithValue(r.Context(), requestIDContextKey, requestID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetRequestID extracts the request ID from the request context.
// Returns empty string if no request ID is found.
func GetRequestID(r *http.Request) string {
	return GetRequestIDFromContext(r.Context())
}

// GetRequestIDFromContext extracts the request ID from a context.
func GetRequestIDFromContext(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDContextKey).(string); ok {
		return requestID
	}
	return ""
}

// ContextWithRequestID returns a context carrying the given request ID.
// Intended for tests and background tasks.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, requestID)
}
