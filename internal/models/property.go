package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PropertySearchFilter holds search and pagination criteria for property queries
type PropertySearchFilter struct {
	Query     string `json:"query,omitempty"`      // Name search (substring match)
	SortBy    string `json:"sort_by,omitempty"`    // Sort field: name, created_at, updated_at
	SortOrder string `json:"sort_order,omitempty"` // Sort order: asc, desc
	Limit     int    `json:"limit,omitempty"`      // Page size (default: 10)
	Offset    int    `json:"offset,omitempty"`     // Page offset
}

type Property struct {
	ID                  uuid.UUID       `json:"id" db:"id"`
	Name                string          `json:"name" db:"name"`
	Address             string          `json:"address" db:"address"`
	TotalCapacity       int             `json:"total_capacity" db:"total_capacity"`
	StandardMonthlyRate decimal.Decimal `json:"standard_monthly_rate" db:"standard_monthly_rate"`
	FacilityDescription *string         `json:"facility_description" db:"facility_description"`
	CreatedAt           time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at" db:"updated_at"`
	DeletedAt           *time.Time      `json:"deleted_at,omitempty" db:"deleted_at"`
}
