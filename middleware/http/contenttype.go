package http

import (
	"net/http"
)

// WithContentType sets the Content-Type header for all responses. Handlers
// that write a different content type (e.g. the metrics endpoint) override it.
//
// Example:
//
//	r := chi.NewRouter()
//	r.Use(WithContentType("application/json"))
func WithContentType(contentType string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", contentType)
			next.ServeHTTP(w, r)
		})
	}
}
