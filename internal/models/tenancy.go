package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tenancy status values. Stored as-is; must stay stable for existing data.
const (
	TenancyStatusActive    = "active"
	TenancyStatusFinished  = "finished"
	TenancyStatusCancelled = "cancelled"
)

// ValidTenancyStatus reports whether s is a known tenancy status.
func ValidTenancyStatus(s string) bool {
	return s == TenancyStatusActive || s == TenancyStatusFinished || s == TenancyStatusCancelled
}

// TenancySearchFilter holds search and filter criteria for tenancy queries
type TenancySearchFilter struct {
	Query      string     `json:"query,omitempty"`       // Tenant full name or property name (substring match)
	PropertyID *uuid.UUID `json:"property_id,omitempty"` // Property filter
	TenantID   *uuid.UUID `json:"tenant_id,omitempty"`   // Tenant filter
	Status     *string    `json:"status,omitempty"`      // Status filter (active, finished, cancelled)
	SortBy     string     `json:"sort_by,omitempty"`     // Sort field: start_date, rent_price, status, created_at
	SortOrder  string     `json:"sort_order,omitempty"`  // Sort order: asc, desc
	Limit      int        `json:"limit,omitempty"`       // Page size (default: 10)
	Offset     int        `json:"offset,omitempty"`      // Page offset
}

// Tenancy is a time-bounded rental contract linking one Tenant to one
// Property. RentPrice is fixed at check-in and does not follow later changes
// to the property's standard rate.
type Tenancy struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	TenantID      uuid.UUID       `json:"tenant_id" db:"tenant_id"`
	PropertyID    uuid.UUID       `json:"property_id" db:"property_id"`
	RoomNumber    *string         `json:"room_number" db:"room_number"`
	StartDate     time.Time       `json:"start_date" db:"start_date"`
	EndDate       *time.Time      `json:"end_date" db:"end_date"`
	RentPrice     decimal.Decimal `json:"rent_price" db:"rent_price"`
	Status        string          `json:"status" db:"status"`
	LeavingReason *string         `json:"leaving_reason" db:"leaving_reason"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
	DeletedAt     *time.Time      `json:"deleted_at,omitempty" db:"deleted_at"`

	// IsOverdue is derived on read from payment history, never stored.
	IsOverdue bool `json:"is_overdue" db:"-"`

	// Loaded associations (optional).
	Tenant   *Tenant   `json:"tenant,omitempty" db:"-"`
	Property *Property `json:"property,omitempty" db:"-"`
}

// CreateTenancyRequest is the check-in payload. Either TenantID references an
// existing tenant, or the inline tenant fields are set and a new tenant is
// created inside the same transaction.
type CreateTenancyRequest struct {
	TenantID   *uuid.UUID `json:"tenant_id"`
	PropertyID uuid.UUID  `json:"property_id"`

	// Inline new-tenant fields, used when TenantID is nil.
	FullName      string    `json:"full_name"`
	Gender        string    `json:"gender"`
	DateOfBirth   time.Time `json:"date_of_birth"`
	OriginCity    string    `json:"origin_city"`
	Occupation    string    `json:"occupation"`
	WorkplaceName *string   `json:"workplace_name"`
	PhoneNumber   *string   `json:"phone_number"`

	RoomNumber *string         `json:"room_number"`
	StartDate  time.Time       `json:"start_date"`
	RentPrice  decimal.Decimal `json:"rent_price"`

	PayInitialRent bool             `json:"pay_initial_rent"`
	PaymentAmount  *decimal.Decimal `json:"payment_amount"`
	PaymentDate    *time.Time       `json:"payment_date"`
	PaymentMethod  *string          `json:"payment_method"`
}

// NewTenant reports whether the payload asks for an inline tenant record.
func (r *CreateTenancyRequest) NewTenant() bool {
	return r.TenantID == nil
}

// UpdateTenancyRequest is a partial update; nil fields are left untouched.
type UpdateTenancyRequest struct {
	TenantID      *uuid.UUID       `json:"tenant_id"`
	PropertyID    *uuid.UUID       `json:"property_id"`
	RoomNumber    *string          `json:"room_number"`
	StartDate     *time.Time       `json:"start_date"`
	EndDate       *time.Time       `json:"end_date"`
	RentPrice     *decimal.Decimal `json:"rent_price"`
	Status        *string          `json:"status"`
	LeavingReason *string          `json:"leaving_reason"`
}
