package core

import (
	"errors"
	"log/slog"
	"net/http"
)

// HandlerFunc represents a handler that can return an error for cleaner composition
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// ServeHTTP converts our custom HandlerFunc to standard http.Handler
func (h HandlerFunc) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h(w, r); err != nil {
		HandleError(w, r, err)
	}
}

// HandleError writes an error response in a centralized way. APIError values
// are written as-is; anything else is logged and reported as a 500.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		WriteAPIError(w, r, apiErr)
		return
	}

	slog.Error("Unexpected error in handler",
		"original_error", err.Error(),
		"method", r.Method,
		"path", r.URL.Path,
	)

	WriteAPIError(w, r, NewAPIError(CodeInternal, "Internal Server Error").WithCause(err))
}
