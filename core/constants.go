package core

import "net/http"

// ErrorCode is the enumerated category carried by every APIError. The
// category is what clients can rely on; messages are informational only.
type ErrorCode string

const (
	CodeNotFound       ErrorCode = "NOT_FOUND"
	CodeConflict       ErrorCode = "CONFLICT"
	CodeDatabaseError  ErrorCode = "DATABASE_ERROR"
	CodeConnectionPool ErrorCode = "CONNECTION_POOL_ERROR"
	CodeValidation     ErrorCode = "VALIDATION_ERROR"
	CodeUnauthorized   ErrorCode = "UNAUTHORIZED"
	CodeInternal       ErrorCode = "INTERNAL_ERROR"
)

// Constraint violations (unique, foreign key, check) are reported as 400,
// all other database failures as 500.
const (
	StatusDatabaseConstraintViolation = http.StatusBadRequest
	StatusDatabaseError               = http.StatusInternalServerError
)

// HTTPStatus returns the HTTP status code for an error category.
func (c ErrorCode) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeValidation:
		return StatusDatabaseConstraintViolation
	case CodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return StatusDatabaseError
	}
}
