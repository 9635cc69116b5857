package models

import (
	"time"

	"github.com/google/uuid"
)

// TenantSearchFilter holds search and pagination criteria for tenant queries
type TenantSearchFilter struct {
	Query         string `json:"query,omitempty"`          // Full name search (substring match)
	AvailableOnly bool   `json:"available_only,omitempty"` // Only tenants without an active tenancy
	SortBy        string `json:"sort_by,omitempty"`        // Sort field: full_name, created_at, updated_at
	SortOrder     string `json:"sort_order,omitempty"`     // Sort order: asc, desc
	Limit         int    `json:"limit,omitempty"`          // Page size (default: 10)
	Offset        int    `json:"offset,omitempty"`         // Page offset
}

// Tenant is a renter. A tenant keeps its row across tenancies; history lives
// in the tenancies table.
type Tenant struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	FullName      string     `json:"full_name" db:"full_name"`
	Gender        string     `json:"gender" db:"gender"`
	DateOfBirth   time.Time  `json:"date_of_birth" db:"date_of_birth"`
	OriginCity    string     `json:"origin_city" db:"origin_city"`
	Occupation    string     `json:"occupation" db:"occupation"`
	WorkplaceName *string    `json:"workplace_name" db:"workplace_name"`
	PhoneNumber   *string    `json:"phone_number" db:"phone_number"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}
