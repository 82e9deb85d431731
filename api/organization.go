// Package api translates HTTP requests into service calls and service
// results into enveloped HTTP responses.
package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/platform-smith-labs/orgapi/core"
	"github.com/platform-smith-labs/orgapi/handler"
	"github.com/platform-smith-labs/orgapi/middleware/typed"
	"github.com/platform-smith-labs/orgapi/models"
)

// BasePath is the common prefix of the versioned API surface.
const BasePath = "/api/v1"

// OrganizationService is the service surface the handlers depend on.
type OrganizationService interface {
	Get(ctx context.Context, id uuid.UUID) (models.Organization, error)
	Create(ctx context.Context, input models.CreateOrganizationInput) (models.Organization, error)
	Update(ctx context.Context, id uuid.UUID, input models.UpdateOrganizationInput) (models.Organization, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, p core.PaginationParams) ([]models.Organization, core.PaginationMeta, error)
	Import(ctx context.Context, inputs []models.CreateOrganizationInput) ([]models.Organization, error)
}

// RegisterRoutes records all organization routes in the registry. When
// jwtSecret is non-empty, mutating routes require a bearer token.
func RegisterRoutes(reg *handler.Registry, svc OrganizationService, jwtSecret string) {
	handler.MakeHandler(reg,
		handler.RouteInfo{
			Method:  "POST",
			Path:    BasePath + "/organizations",
			Summary: "Create an organization",
			Tags:    []string{"Organizations"},
		},
		createOrganization(svc),
		typed.WithRequestID,
		typed.WithLogging,
		typed.RequireAuth[struct{}, CreateOrganizationBody, core.Response[OrganizationPayload]](jwtSecret),
		typed.ParseBody,
		typed.ResponseJSON,
	)

	handler.MakeHandler(reg,
		handler.RouteInfo{
			Method:  "GET",
			Path:    BasePath + "/organizations/{id}",
			Summary: "Get an organization by id",
			Tags:    []string{"Organizations"},
		},
		getOrganization(svc),
		typed.WithRequestID,
		typed.WithLogging,
		typed.ParseParams,
		typed.ResponseJSON,
	)

	handler.MakeHandler(reg,
		handler.RouteInfo{
			Method:  "PUT",
			Path:    BasePath + "/organizations/{id}",
			Summary: "Update an organization",
			Tags:    []string{"Organizations"},
		},
		updateOrganization(svc),
		typed.WithRequestID,
		typed.WithLogging,
		typed.RequireAuth[OrganizationIDParams, UpdateOrganizationBody, core.Response[OrganizationPayload]](jwtSecret),
		typed.ParseParams,
		typed.ParseBody,
		typed.ResponseJSON,
	)

	handler.MakeHandler(reg,
		handler.RouteInfo{
			Method:  "DELETE",
			Path:    BasePath + "/organizations/{id}",
			Summary: "Soft-delete an organization",
			Tags:    []string{"Organizations"},
		},
		deleteOrganization(svc),
		typed.WithRequestID,
		typed.WithLogging,
		typed.RequireAuth[OrganizationIDParams, struct{}, struct{}](jwtSecret),
		typed.ParseParams,
		typed.ResponseNoContent,
	)

	handler.MakeHandler(reg,
		handler.RouteInfo{
			Method:  "GET",
			Path:    BasePath + "/organizations",
			Summary: "List organizations",
			Tags:    []string{"Organizations"},
		},
		listOrganizations(svc),
		typed.WithRequestID,
		typed.WithLogging,
		typed.ParseParams,
		typed.ResponseJSON,
	)

	handler.MakeHandler(reg,
		handler.RouteInfo{
			Method:  "POST",
			Path:    BasePath + "/organizations/import",
			Summary: "Bulk-import organizations from a CSV file",
			Tags:    []string{"Organizations"},
		},
		importOrganizations(svc),
		typed.WithRequestID,
		typed.WithLogging,
		typed.RequireAuth[struct{}, []OrganizationCSVRow, core.Response[[]models.Organization]](jwtSecret),
		typed.ParseCSV,
		typed.ResponseJSON,
	)
}

func createOrganization(svc OrganizationService) handler.Handler[struct{}, CreateOrganizationBody, core.Response[OrganizationPayload]] {
	return func(ctx handler.HandlerContext[struct{}, CreateOrganizationBody], w http.ResponseWriter, r *http.Request) (core.Response[OrganizationPayload], error) {
		body := ctx.Body.Value()

		ctx.Logger.Debug("Attempting to create organization", "name", body.Name)

		org, err := svc.Create(ctx.Context, models.CreateOrganizationInput{Name: body.Name})
		if err != nil {
			return core.Response[OrganizationPayload]{}, err
		}

		ctx.Logger.Info("Created organization", "organization_id", org.ID)
		return core.OK(OrganizationPayload{Organization: org}), nil
	}
}

func getOrganization(svc OrganizationService) handler.Handler[OrganizationIDParams, struct{}, core.Response[OrganizationPayload]] {
	return func(ctx handler.HandlerContext[OrganizationIDParams, struct{}], w http.ResponseWriter, r *http.Request) (core.Response[OrganizationPayload], error) {
		params := ctx.Params.Value()

		ctx.Logger.Debug("Attempting to retrieve organization", "organization_id", params.ID)

		org, err := svc.Get(ctx.Context, params.ID)
		if err != nil {
			return core.Response[OrganizationPayload]{}, err
		}

		ctx.Logger.Info("Retrieved organization", "organization_id", org.ID)
		return core.OK(OrganizationPayload{Organization: org}), nil
	}
}

func updateOrganization(svc OrganizationService) handler.Handler[OrganizationIDParams, UpdateOrganizationBody, core.Response[OrganizationPayload]] {
	return func(ctx handler.HandlerContext[OrganizationIDParams, UpdateOrganizationBody], w http.ResponseWriter, r *http.Request) (core.Response[OrganizationPayload], error) {
		params := ctx.Params.Value()
		body := ctx.Body.Value()

		ctx.Logger.Debug("Attempting to update organization", "organization_id", params.ID)

		org, err := svc.Update(ctx.Context, params.ID, models.UpdateOrganizationInput{Name: body.Name})
		if err != nil {
			return core.Response[OrganizationPayload]{}, err
		}

		ctx.Logger.Info("Updated organization", "organization_id", org.ID)
		return core.OK(OrganizationPayload{Organization: org}), nil
	}
}

func deleteOrganization(svc OrganizationService) handler.Handler[OrganizationIDParams, struct{}, struct{}] {
	return func(ctx handler.HandlerContext[OrganizationIDParams, struct{}], w http.ResponseWriter, r *http.Request) (struct{}, error) {
		params := ctx.Params.Value()

		ctx.Logger.Debug("Attempting to delete organization", "organization_id", params.ID)

		if err := svc.Delete(ctx.Context, params.ID); err != nil {
			return struct{}{}, err
		}

		ctx.Logger.Info("Deleted organization", "organization_id", params.ID)
		return struct{}{}, nil
	}
}

func listOrganizations(svc OrganizationService) handler.Handler[ListOrganizationsParams, struct{}, core.Response[[]models.Organization]] {
	return func(ctx handler.HandlerContext[ListOrganizationsParams, struct{}], w http.ResponseWriter, r *http.Request) (core.Response[[]models.Organization], error) {
		params := ctx.Params.ValueOrDefault()

		limit := params.Limit
		if limit == 0 {
			limit = 10
		}

		pagination := core.FromLimitOffset(limit, params.Offset)

		orgs, meta, err := svc.List(ctx.Context, pagination)
		if err != nil {
			return core.Response[[]models.Organization]{}, err
		}
		if orgs == nil {
			orgs = []models.Organization{}
		}

		ctx.Logger.Info("Retrieved organizations", "count", len(orgs), "total", meta.TotalItems)
		return core.OKPaginated(orgs, meta), nil
	}
}

func importOrganizations(svc OrganizationService) handler.Handler[struct{}, []OrganizationCSVRow, core.Response[[]models.Organization]] {
	return func(ctx handler.HandlerContext[struct{}, []OrganizationCSVRow], w http.ResponseWriter, r *http.Request) (core.Response[[]models.Organization], error) {
		rows := ctx.Body.Value()

		ctx.Logger.Debug("Attempting to import organizations", "rows", len(rows))

		inputs := make([]models.CreateOrganizationInput, 0, len(rows))
		for _, row := range rows {
			inputs = append(inputs, models.CreateOrganizationInput{Name: row.Name})
		}

		created, err := svc.Import(ctx.Context, inputs)
		if err != nil {
			return core.Response[[]models.Organization]{}, err
		}

		ctx.Logger.Info("Imported organizations", "count", len(created))
		return core.OK(created), nil
	}
}
