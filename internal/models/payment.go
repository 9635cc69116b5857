package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment type values. Stored as-is.
const (
	PaymentTypeMonthlyRent = "monthly_rent"
	PaymentTypeDeposit     = "deposit"
	PaymentTypeOther       = "other"
)

// Payment method values. Stored as-is.
const (
	PaymentMethodCash     = "cash"
	PaymentMethodTransfer = "transfer"
	PaymentMethodOther    = "other"
)

// ValidPaymentType reports whether t is a known payment type.
func ValidPaymentType(t string) bool {
	return t == PaymentTypeMonthlyRent || t == PaymentTypeDeposit || t == PaymentTypeOther
}

// ValidPaymentMethod reports whether m is a known payment method.
func ValidPaymentMethod(m string) bool {
	return m == PaymentMethodCash || m == PaymentMethodTransfer || m == PaymentMethodOther
}

// Payment is a single money-in record against a tenancy. Payments are only
// ever appended or soft-deleted, never mutated.
type Payment struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	TenancyID   uuid.UUID       `json:"tenancy_id" db:"tenancy_id"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	PaymentDate time.Time       `json:"payment_date" db:"payment_date"`
	PaymentType string          `json:"payment_type" db:"payment_type"`
	Method      string          `json:"method" db:"method"`
	Notes       *string         `json:"notes" db:"notes"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
	DeletedAt   *time.Time      `json:"deleted_at,omitempty" db:"deleted_at"`
}
