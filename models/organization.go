package models

import (
	"time"

	"github.com/google/uuid"
)

// Organization is a soft-deletable entity; rows are marked inactive rather
// than removed, and reads exclude inactive rows.
type Organization struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}

// CreateOrganizationInput carries the fields accepted on creation.
type CreateOrganizationInput struct {
	Name string
}

// UpdateOrganizationInput carries the fields accepted on update.
type UpdateOrganizationInput struct {
	Name string
}
