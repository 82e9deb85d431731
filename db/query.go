package db

import (
	"context"
	"database/sql"
	"log/slog"
	"reflect"

	"github.com/georgysavva/scany/v2/sqlscan"
)

// Querier interface that *sql.DB, *sql.Conn and *sql.Tx implement
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Beginner starts transactions. *sql.DB and *sql.Conn implement it.
type Beginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// WithTx executes a function within a database transaction
func WithTx[T any](ctx context.Context, b Beginner, fn func(*sql.Tx) (T, error)) (T, error) {
	var zero T

	tx, err := b.BeginTx(ctx, nil)
	if err != nil {
		return zero, newError(KindTransaction, err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	result, err := fn(tx)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return zero, newError(KindTransaction, rbErr)
		}
		return zero, err
	}

	if err := tx.Commit(); err != nil {
		return zero, newError(KindTransaction, err)
	}

	return result, nil
}

// QueryMany executes a query with positional parameters and uses automatic struct scanning
func QueryMany[T any](ctx context.Context, querier Querier, query string, args ...any) ([]T, error) {
	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, Classify(err)
	}
	defer rows.Close()

	var results []T
	if err := sqlscan.ScanAll(&results, rows); err != nil {
		return nil, Classify(err)
	}
	return results, nil
}

// QueryOne executes a single row query with positional parameters and uses automatic struct scanning
func QueryOne[T any](ctx context.Context, querier Querier, query string, args ...any) (T, error) {
	var zero T

	slog.Debug("QueryOne executing",
		"query", query,
		"args", args,
	)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return zero, Classify(err)
	}
	defer rows.Close()

	// Handle both pointer and non-pointer types
	typ := reflect.TypeOf(zero)
	if typ != nil && typ.Kind() == reflect.Ptr {
		// For pointer types, allocate memory
		result := reflect.New(typ.Elem()).Interface().(T)
		if err := sqlscan.ScanOne(result, rows); err != nil {
			return zero, Classify(err)
		}
		return result, nil
	}

	// For non-pointer types, scan into a stack value
	var result T
	if err := sqlscan.ScanOne(&result, rows); err != nil {
		return zero, Classify(err)
	}
	return result, nil
}

// Exec executes a query with positional parameters without returning results
func Exec(ctx context.Context, querier Querier, query string, args ...any) (sql.Result, error) {
	result, err := querier.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, Classify(err)
	}
	return result, nil
}
