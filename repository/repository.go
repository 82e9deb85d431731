// Package repository provides the persistence capability set implemented per
// entity type against a pooled relational connection.
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/platform-smith-labs/orgapi/core"
	"github.com/platform-smith-labs/orgapi/db"
)

// Repository is the generic capability set every persisted entity type
// implements. Implementations take the querier explicitly so callers control
// connection checkout and transaction scope.
//
// Semantics:
//   - FindByID fails with the not-found kind when no live row matches.
//   - Create fails with the unique-violation kind on a constraint collision.
//   - Update and SoftDelete fail with the not-found kind when the id does not
//     resolve to a live row; SoftDelete marks the row inactive, never removes it.
//   - List returns at most per_page rows for the given page, in insertion
//     order unless the concrete repository specifies a domain order.
type Repository[T any] interface {
	FindByID(ctx context.Context, q db.Querier, id uuid.UUID) (T, error)
	Create(ctx context.Context, q db.Querier, input T) (T, error)
	Update(ctx context.Context, q db.Querier, id uuid.UUID, input T) (T, error)
	SoftDelete(ctx context.Context, q db.Querier, id uuid.UUID) (T, error)
	List(ctx context.Context, q db.Querier, p core.PaginationParams) ([]T, error)
	Count(ctx context.Context, q db.Querier) (int64, error)
}
