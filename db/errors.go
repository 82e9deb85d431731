package db

import (
	"database/sql"
	"errors"

	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/platform-smith-labs/orgapi/core"
)

// Kind is the finite set of low-level persistence failure categories.
type Kind int

const (
	KindConnection Kind = iota
	KindQuery
	KindNotFound
	KindUniqueViolation
	KindTransaction
	KindPool
)

func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "connection_failed"
	case KindQuery:
		return "query_failed"
	case KindNotFound:
		return "record_not_found"
	case KindUniqueViolation:
		return "unique_violation"
	case KindTransaction:
		return "transaction_failed"
	case KindPool:
		return "pool_error"
	default:
		return "unknown"
	}
}

// message is the client-safe description per kind. The original error text
// is never part of it.
func (k Kind) message() string {
	switch k {
	case KindConnection:
		return "Database connection failed"
	case KindQuery:
		return "Database query failed"
	case KindNotFound:
		return "Record not found"
	case KindUniqueViolation:
		return "Unique constraint violation"
	case KindTransaction:
		return "Transaction failed"
	case KindPool:
		return "Connection pool error"
	default:
		return "Database error"
	}
}

// Error is a classified persistence failure wrapping its cause.
type Error struct {
	Kind  Kind
	msg   string
	cause error
}

func newError(kind Kind, cause error) *Error {
	return &Error{Kind: kind, msg: kind.message(), cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.cause
}

// WithMessage replaces the client-safe description and returns the error for
// chaining. The cause is unaffected.
func (e *Error) WithMessage(msg string) *Error {
	e.msg = msg
	return e
}

// Classify maps a raw persistence error onto the failure taxonomy. Already
// classified errors pass through unchanged; nil stays nil.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var dbErr *Error
	if errors.As(err, &dbErr) {
		return dbErr
	}

	if sqlscan.NotFound(err) || errors.Is(err, sql.ErrNoRows) {
		return newError(KindNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgerrcode.UniqueViolation:
			return newError(KindUniqueViolation, err)
		case pgerrcode.IsConnectionException(pgErr.Code):
			return newError(KindConnection, err)
		case pgErr.Code == pgerrcode.SerializationFailure,
			pgErr.Code == pgerrcode.DeadlockDetected,
			pgerrcode.IsInvalidTransactionState(pgErr.Code):
			return newError(KindTransaction, err)
		default:
			return newError(KindQuery, err)
		}
	}

	return newError(KindQuery, err)
}

// IsNotFound reports whether err is a classified not-found failure.
func IsNotFound(err error) bool {
	var dbErr *Error
	return errors.As(err, &dbErr) && dbErr.Kind == KindNotFound
}

// IsUniqueViolation reports whether err is a classified uniqueness failure.
func IsUniqueViolation(err error) bool {
	var dbErr *Error
	return errors.As(err, &dbErr) && dbErr.Kind == KindUniqueViolation
}

// Translate maps a persistence failure onto the API error taxonomy. The
// mapping is total: every kind resolves to exactly one category, the cause is
// retained for logging and never serialized. Errors that are already
// APIErrors pass through so translation happens exactly once.
func Translate(err error) *core.APIError {
	if err == nil {
		return nil
	}

	var apiErr *core.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var dbErr *Error
	if !errors.As(err, &dbErr) {
		classified := Classify(err)
		if !errors.As(classified, &dbErr) {
			return core.NewAPIError(core.CodeDatabaseError, "Database error").WithCause(err)
		}
	}

	var code core.ErrorCode
	switch dbErr.Kind {
	case KindConnection, KindPool:
		code = core.CodeConnectionPool
	case KindNotFound:
		code = core.CodeNotFound
	case KindUniqueViolation:
		code = core.CodeConflict
	default:
		code = core.CodeDatabaseError
	}

	return core.NewAPIError(code, dbErr.msg).WithCause(dbErr)
}
