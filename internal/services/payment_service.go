package services

import (
	"context"
	"fmt"
	"time"

	"kosmart/internal/models"
	"kosmart/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const paymentNotesMaxLen = 255

// RecordPaymentRequest is the payload for recording a payment against an
// existing tenancy.
type RecordPaymentRequest struct {
	TenancyID   uuid.UUID       `json:"tenancy_id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate time.Time       `json:"payment_date"`
	PaymentType string          `json:"payment_type"`
	Method      string          `json:"method"`
	Notes       *string         `json:"notes"`
}

// PaymentServiceInterface defines the interface for payment operations
type PaymentServiceInterface interface {
	RecordPayment(ctx context.Context, req *RecordPaymentRequest) (*models.Payment, error)
	GetByID(ctx context.Context, paymentID uuid.UUID) (*models.Payment, error)
	ListByTenancy(ctx context.Context, tenancyID uuid.UUID) ([]*models.Payment, error)
	Delete(ctx context.Context, paymentID uuid.UUID) error
}

type paymentService struct {
	paymentRepo repositories.PaymentRepository
	tenancyRepo repositories.TenancyRepository
}

// NewPaymentService creates a new payment service instance
func NewPaymentService(paymentRepo repositories.PaymentRepository, tenancyRepo repositories.TenancyRepository) PaymentServiceInterface {
	return &paymentService{
		paymentRepo: paymentRepo,
		tenancyRepo: tenancyRepo,
	}
}

// RecordPayment appends a payment row. Recording a payment never touches the
// tenancy row; it only shifts the derived overdue state on subsequent reads.
func (s *paymentService) RecordPayment(ctx context.Context, req *RecordPaymentRequest) (*models.Payment, error) {
	if req.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: amount must not be negative", models.ErrValidation)
	}
	if req.PaymentDate.IsZero() {
		return nil, fmt.Errorf("%w: payment_date is required", models.ErrValidation)
	}
	if !models.ValidPaymentType(req.PaymentType) {
		return nil, fmt.Errorf("%w: unknown payment_type %q", models.ErrValidation, req.PaymentType)
	}
	if !models.ValidPaymentMethod(req.Method) {
		return nil, fmt.Errorf("%w: unknown method %q", models.ErrValidation, req.Method)
	}
	if req.Notes != nil && len(*req.Notes) > paymentNotesMaxLen {
		return nil, fmt.Errorf("%w: notes must be at most %d characters", models.ErrValidation, paymentNotesMaxLen)
	}

	if _, err := s.tenancyRepo.GetByID(ctx, req.TenancyID); err != nil {
		return nil, err
	}

	payment := &models.Payment{
		ID:          uuid.New(),
		TenancyID:   req.TenancyID,
		Amount:      req.Amount,
		PaymentDate: req.PaymentDate,
		PaymentType: req.PaymentType,
		Method:      req.Method,
		Notes:       req.Notes,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}
	return s.paymentRepo.GetByID(ctx, payment.ID)
}

func (s *paymentService) GetByID(ctx context.Context, paymentID uuid.UUID) (*models.Payment, error) {
	return s.paymentRepo.GetByID(ctx, paymentID)
}

func (s *paymentService) ListByTenancy(ctx context.Context, tenancyID uuid.UUID) ([]*models.Payment, error) {
	if _, err := s.tenancyRepo.GetByID(ctx, tenancyID); err != nil {
		return nil, err
	}
	return s.paymentRepo.ListByTenancy(ctx, tenancyID)
}

// Delete soft-deletes a payment, which can swing the tenancy back to overdue
// on the next read.
func (s *paymentService) Delete(ctx context.Context, paymentID uuid.UUID) error {
	return s.paymentRepo.SoftDelete(ctx, paymentID)
}
