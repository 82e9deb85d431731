package core

import (
	"fmt"
	"strings"
)

// APIError represents a structured API error. The category code determines
// the HTTP status; the wrapped cause is retained for logging and never
// serialized to the client.
type APIError struct {
	Code    ErrorCode         `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`

	cause error
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("API Error %s: %s", e.Code, e.Message)

	if len(e.Fields) > 0 {
		var fields []string
		for k, v := range e.Fields {
			fields = append(fields, fmt.Sprintf("%s=%s", k, v))
		}
		msg += fmt.Sprintf(" [fields: %s]", strings.Join(fields, ", "))
	}

	return msg
}

// Unwrap exposes the underlying cause to errors.Is/As for diagnostics.
func (e *APIError) Unwrap() error {
	return e.cause
}

// HTTPStatus returns the HTTP status code implied by the error category.
func (e *APIError) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// NewAPIError creates a new API error with the given category and message.
func NewAPIError(code ErrorCode, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

// WithCause attaches the underlying error and returns the APIError for chaining.
func (e *APIError) WithCause(cause error) *APIError {
	e.cause = cause
	return e
}

// NewValidationError creates a new validation error with field details.
func NewValidationError(message string) *APIError {
	return &APIError{
		Code:    CodeValidation,
		Message: message,
		Fields:  make(map[string]string),
	}
}

// AddField adds a field error to the APIError and returns the error for chaining.
func (e *APIError) AddField(fieldName, fieldError string) *APIError {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}

	// If field already has an error, join with " || " separator
	if existing, exists := e.Fields[fieldName]; exists && strings.TrimSpace(existing) != "" {
		e.Fields[fieldName] = existing + " || " + fieldError
	} else {
		e.Fields[fieldName] = fieldError
	}

	return e
}

// Common API errors
var (
	ErrBadRequest   = &APIError{Code: CodeValidation, Message: "Bad Request"}
	ErrUnauthorized = &APIError{Code: CodeUnauthorized, Message: "Unauthorized"}
	ErrNotFound     = &APIError{Code: CodeNotFound, Message: "Not Found"}
	ErrInternal     = &APIError{Code: CodeInternal, Message: "Internal Server Error"}
)
