package core

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Envelope is the uniform response wrapper carried by every non-204 response.
type Envelope struct {
	Data   any             `json:"data"`
	Error  *string         `json:"error"`
	Status string          `json:"status"`
	Meta   *PaginationMeta `json:"meta,omitempty"`
}

// Response is the typed success envelope returned by handlers.
type Response[T any] struct {
	Data   T               `json:"data"`
	Error  *string         `json:"error"`
	Status string          `json:"status"`
	Meta   *PaginationMeta `json:"meta,omitempty"`
}

// OK wraps a payload in a success envelope.
func OK[T any](data T) Response[T] {
	return Response[T]{Data: data, Status: "success"}
}

// OKPaginated wraps a page of results and its pagination metadata in a
// success envelope.
func OKPaginated[T any](data T, meta PaginationMeta) Response[T] {
	return Response[T]{Data: data, Status: "success", Meta: &meta}
}

// JSON sends a JSON response with the given status and data
func JSON[T any](w http.ResponseWriter, status int, data T) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// Success sends a 200 OK JSON response wrapped in a success envelope
func Success[T any](w http.ResponseWriter, data T) error {
	return JSON(w, http.StatusOK, OK(data))
}

// Created sends a 201 Created JSON response wrapped in a success envelope
func Created[T any](w http.ResponseWriter, data T) error {
	return JSON(w, http.StatusCreated, OK(data))
}

// NoContent sends a 204 No Content response
func NoContent(w http.ResponseWriter) error {
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// Health sends a health check response
func Health(w http.ResponseWriter, status string, checks map[string]bool) error {
	response := map[string]any{
		"status": status,
		"checks": checks,
	}
	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}
	return JSON(w, code, response)
}

// Error sends an error response with logging
func Error(w http.ResponseWriter, r *http.Request, code ErrorCode, message string) error {
	return WriteAPIError(w, r, NewAPIError(code, message))
}

// WriteAPIError sends an error envelope for APIError types with comprehensive
// logging. Only the category and message reach the client; the cause stays in
// the logs.
func WriteAPIError(w http.ResponseWriter, r *http.Request, apiErr *APIError) error {
	status := apiErr.HTTPStatus()

	// Build log fields
	logFields := []any{
		"status", status,
		"code", string(apiErr.Code),
		"message", apiErr.Message,
	}

	if cause := apiErr.Unwrap(); cause != nil {
		logFields = append(logFields, "cause", cause.Error())
	}

	if len(apiErr.Fields) > 0 {
		logFields = append(logFields, "validation_field_count", len(apiErr.Fields))
		logFields = append(logFields, "validation_fields", apiErr.Fields)
	}

	// Add request context
	logFields = append(logFields, extractRequestContext(r)...)

	// Log based on status code
	if status >= 500 {
		slog.Error("API error response", logFields...)
	} else if status >= 400 {
		slog.Warn("API error response", logFields...)
	} else {
		slog.Info("API error response", logFields...)
	}

	message := apiErr.Message
	return JSON(w, status, Envelope{
		Error:  &message,
		Status: "error",
	})
}

// extractRequestContext extracts useful request context for logging
func extractRequestContext(r *http.Request) []any {
	logFields := []any{
		"method", r.Method,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr,
		"user_agent", r.Header.Get("User-Agent"),
	}

	if r.URL.RawQuery != "" {
		logFields = append(logFields, "query", r.URL.RawQuery)
	}

	if requestID := r.Header.Get("X-Request-ID"); requestID != "" {
		logFields = append(logFields, "request_id", requestID)
	}

	return logFields
}
