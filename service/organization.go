// Package service holds the thin orchestration layer between HTTP handlers
// and repositories: connection checkout, business rules, and the single
// translation of persistence failures into API errors.
package service

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/platform-smith-labs/orgapi/core"
	"github.com/platform-smith-labs/orgapi/db"
	"github.com/platform-smith-labs/orgapi/models"
	"github.com/platform-smith-labs/orgapi/repository"
)

// Pool abstracts connection checkout so tests can stub it.
type Pool interface {
	Acquire(ctx context.Context) (db.Conn, error)
}

// OrganizationService orchestrates organization operations. Each operation
// checks out one pooled connection and releases it on every exit path.
type OrganizationService struct {
	pool   Pool
	repo   repository.OrganizationRepository
	logger *slog.Logger
}

func NewOrganizationService(pool Pool, repo repository.OrganizationRepository, logger *slog.Logger) *OrganizationService {
	return &OrganizationService{
		pool:   pool,
		repo:   repo,
		logger: logger,
	}
}

// Get returns a live organization by id.
func (s *OrganizationService) Get(ctx context.Context, id uuid.UUID) (models.Organization, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return models.Organization{}, db.Translate(err)
	}
	defer conn.Close()

	org, err := s.repo.FindByID(ctx, conn, id)
	if err != nil {
		return models.Organization{}, db.Translate(err)
	}
	return org, nil
}

// Create inserts a new organization. A name colliding with an existing live
// organization yields Conflict; the partial unique index backs the check.
func (s *OrganizationService) Create(ctx context.Context, input models.CreateOrganizationInput) (models.Organization, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return models.Organization{}, db.Translate(err)
	}
	defer conn.Close()

	name := strings.TrimSpace(input.Name)

	existing, err := s.repo.FindByName(ctx, conn, name)
	if err != nil {
		return models.Organization{}, db.Translate(err)
	}
	if existing != nil {
		return models.Organization{}, core.NewAPIError(core.CodeConflict,
			"An organization with this name already exists")
	}

	org, err := s.repo.Create(ctx, conn, models.Organization{
		ID:   uuid.New(),
		Name: name,
	})
	if err != nil {
		return models.Organization{}, db.Translate(err)
	}
	return org, nil
}

// Update renames a live organization; a missing or soft-deleted id yields
// NotFound.
func (s *OrganizationService) Update(ctx context.Context, id uuid.UUID, input models.UpdateOrganizationInput) (models.Organization, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return models.Organization{}, db.Translate(err)
	}
	defer conn.Close()

	org, err := s.repo.Update(ctx, conn, id, models.Organization{
		Name: strings.TrimSpace(input.Name),
	})
	if err != nil {
		return models.Organization{}, db.Translate(err)
	}
	return org, nil
}

// Delete marks an organization inactive. Deleting an absent or already
// deleted id yields NotFound.
func (s *OrganizationService) Delete(ctx context.Context, id uuid.UUID) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return db.Translate(err)
	}
	defer conn.Close()

	if _, err := s.repo.SoftDelete(ctx, conn, id); err != nil {
		return db.Translate(err)
	}
	return nil
}

// List returns one page of live organizations in insertion order together
// with pagination metadata computed from the real total count.
func (s *OrganizationService) List(ctx context.Context, p core.PaginationParams) ([]models.Organization, core.PaginationMeta, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, core.PaginationMeta{}, db.Translate(err)
	}
	defer conn.Close()

	total, err := s.repo.Count(ctx, conn)
	if err != nil {
		return nil, core.PaginationMeta{}, db.Translate(err)
	}

	orgs, err := s.repo.List(ctx, conn, p)
	if err != nil {
		return nil, core.PaginationMeta{}, db.Translate(err)
	}

	return orgs, core.NewPaginationMeta(total, p), nil
}

// Import bulk-creates organizations inside a single transaction; any failure
// rolls back the whole batch.
func (s *OrganizationService) Import(ctx context.Context, inputs []models.CreateOrganizationInput) ([]models.Organization, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, db.Translate(err)
	}
	defer conn.Close()

	created, err := db.WithTx(ctx, conn, func(tx *sql.Tx) ([]models.Organization, error) {
		out := make([]models.Organization, 0, len(inputs))
		for _, input := range inputs {
			org, err := s.repo.Create(ctx, tx, models.Organization{
				ID:   uuid.New(),
				Name: strings.TrimSpace(input.Name),
			})
			if err != nil {
				return nil, err
			}
			out = append(out, org)
		}
		return out, nil
	})
	if err != nil {
		return nil, db.Translate(err)
	}

	s.logger.InfoContext(ctx, "Imported organizations", "count", len(created))
	return created, nil
}
