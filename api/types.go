package api

import (
	"github.com/google/uuid"

	"github.com/platform-smith-labs/orgapi/models"
)

// OrganizationIDParams identifies an organization by its path parameter.
type OrganizationIDParams struct {
	ID uuid.UUID `param:"id" validate:"required"`
}

// ListOrganizationsParams are the query parameters of the list endpoint.
// Absent values fall back to limit=10, offset=0.
type ListOrganizationsParams struct {
	Limit  int64 `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset int64 `query:"offset" validate:"omitempty,min=0"`
}

// CreateOrganizationBody is the JSON body accepted on creation.
type CreateOrganizationBody struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

// UpdateOrganizationBody is the JSON body accepted on update.
type UpdateOrganizationBody struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

// OrganizationCSVRow is one row of a bulk-import CSV file.
type OrganizationCSVRow struct {
	Name string `csv:"name" validate:"required,min=1,max=255"`
}

// OrganizationPayload wraps a single organization in the response envelope.
type OrganizationPayload struct {
	Organization models.Organization `json:"organization"`
}
