package repository

import (
	"context"
	"errors"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/platform-smith-labs/orgapi/core"
	"github.com/platform-smith-labs/orgapi/db"
	"github.com/platform-smith-labs/orgapi/models"
)

const organizationsTable = "organizations"

var organizationColumns = []string{"id", "name", "created_at", "updated_at", "deleted_at"}

// builder produces PostgreSQL-flavored ($1, $2, ...) statements.
var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// OrganizationRepository is the organization-specific capability set.
type OrganizationRepository interface {
	Repository[models.Organization]
	FindByName(ctx context.Context, q db.Querier, name string) (*models.Organization, error)
}

// PostgresOrganizationRepository implements OrganizationRepository against a
// PostgreSQL schema with soft deletes. All reads consider live rows only.
type PostgresOrganizationRepository struct{}

func NewOrganizationRepository() *PostgresOrganizationRepository {
	return &PostgresOrganizationRepository{}
}

func (repo *PostgresOrganizationRepository) FindByID(ctx context.Context, q db.Querier, id uuid.UUID) (models.Organization, error) {
	query, args, err := builder.
		Select(organizationColumns...).
		From(organizationsTable).
		Where(sq.Eq{"id": id}).
		Where("deleted_at IS NULL").
		ToSql()
	if err != nil {
		return models.Organization{}, db.Classify(err)
	}

	org, err := db.QueryOne[models.Organization](ctx, q, query, args...)
	if err != nil {
		return models.Organization{}, asOrganizationError(err)
	}
	return org, nil
}

func (repo *PostgresOrganizationRepository) FindByName(ctx context.Context, q db.Querier, name string) (*models.Organization, error) {
	query, args, err := builder.
		Select(organizationColumns...).
		From(organizationsTable).
		Where("lower(name) = lower(?)", name).
		Where("deleted_at IS NULL").
		ToSql()
	if err != nil {
		return nil, db.Classify(err)
	}

	org, err := db.QueryOne[models.Organization](ctx, q, query, args...)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &org, nil
}

func (repo *PostgresOrganizationRepository) Create(ctx context.Context, q db.Querier, org models.Organization) (models.Organization, error) {
	query, args, err := builder.
		Insert(organizationsTable).
		Columns("id", "name").
		Values(org.ID, org.Name).
		Suffix("RETURNING " + strings.Join(organizationColumns, ", ")).
		ToSql()
	if err != nil {
		return models.Organization{}, db.Classify(err)
	}

	created, err := db.QueryOne[models.Organization](ctx, q, query, args...)
	if err != nil {
		return models.Organization{}, asOrganizationError(err)
	}
	return created, nil
}

func (repo *PostgresOrganizationRepository) Update(ctx context.Context, q db.Querier, id uuid.UUID, org models.Organization) (models.Organization, error) {
	query, args, err := builder.
		Update(organizationsTable).
		Set("name", org.Name).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Where("deleted_at IS NULL").
		Suffix("RETURNING " + strings.Join(organizationColumns, ", ")).
		ToSql()
	if err != nil {
		return models.Organization{}, db.Classify(err)
	}

	// RETURNING yields no row when the id is absent or already deleted.
	updated, err := db.QueryOne[models.Organization](ctx, q, query, args...)
	if err != nil {
		return models.Organization{}, asOrganizationError(err)
	}
	return updated, nil
}

func (repo *PostgresOrganizationRepository) SoftDelete(ctx context.Context, q db.Querier, id uuid.UUID) (models.Organization, error) {
	query, args, err := builder.
		Update(organizationsTable).
		Set("deleted_at", sq.Expr("now()")).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Where("deleted_at IS NULL").
		Suffix("RETURNING " + strings.Join(organizationColumns, ", ")).
		ToSql()
	if err != nil {
		return models.Organization{}, db.Classify(err)
	}

	deleted, err := db.QueryOne[models.Organization](ctx, q, query, args...)
	if err != nil {
		return models.Organization{}, asOrganizationError(err)
	}
	return deleted, nil
}

func (repo *PostgresOrganizationRepository) List(ctx context.Context, q db.Querier, p core.PaginationParams) ([]models.Organization, error) {
	query, args, err := builder.
		Select(organizationColumns...).
		From(organizationsTable).
		Where("deleted_at IS NULL").
		OrderBy("created_at", "id").
		Limit(uint64(p.PerPage)).
		Offset(uint64(p.Offset())).
		ToSql()
	if err != nil {
		return nil, db.Classify(err)
	}

	return db.QueryMany[models.Organization](ctx, q, query, args...)
}

func (repo *PostgresOrganizationRepository) Count(ctx context.Context, q db.Querier) (int64, error) {
	query, args, err := builder.
		Select("count(*)").
		From(organizationsTable).
		Where("deleted_at IS NULL").
		ToSql()
	if err != nil {
		return 0, db.Classify(err)
	}

	return db.QueryOne[int64](ctx, q, query, args...)
}

// asOrganizationError rewrites the client-safe description of classified
// failures with entity-specific wording; everything else passes through.
func asOrganizationError(err error) error {
	var dbErr *db.Error
	if !errors.As(err, &dbErr) {
		return err
	}
	switch dbErr.Kind {
	case db.KindNotFound:
		return dbErr.WithMessage("Organization not found")
	case db.KindUniqueViolation:
		return dbErr.WithMessage("An organization with this name already exists")
	}
	return err
}
