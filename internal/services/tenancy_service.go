package services

import (
	"context"
	"fmt"

	"kosmart/internal/models"
	"kosmart/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
)

// TenancyServiceInterface defines the interface for tenancy (check-in)
// operations
type TenancyServiceInterface interface {
	CreateTenancy(ctx context.Context, req *models.CreateTenancyRequest) (*models.Tenancy, error)
	UpdateTenancy(ctx context.Context, tenancyID uuid.UUID, req *models.UpdateTenancyRequest) (*models.Tenancy, error)
	GetTenancy(ctx context.Context, tenancyID uuid.UUID) (*models.Tenancy, error)
	ListTenancies(ctx context.Context, filter *models.TenancySearchFilter) ([]*models.Tenancy, error)
	SearchActive(ctx context.Context, query string, limit int) ([]*TenancyOption, error)
}

// TenancyOption is a picker entry for the payment form: one active tenancy
// labelled "tenant - property".
type TenancyOption struct {
	Value     string          `json:"value"`
	Label     string          `json:"label"`
	RentPrice decimal.Decimal `json:"rent_price"`
}

type tenancyService struct {
	db           repositories.DB
	tenancyRepo  repositories.TenancyRepository
	tenantRepo   repositories.TenantRepository
	propertyRepo repositories.PropertyRepository
	paymentRepo  repositories.PaymentRepository
	clock        clockwork.Clock
}

// NewTenancyService creates a new tenancy service instance
func NewTenancyService(db repositories.DB, tenancyRepo repositories.TenancyRepository, tenantRepo repositories.TenantRepository,
	propertyRepo repositories.PropertyRepository, paymentRepo repositories.PaymentRepository, clock clockwork.Clock) TenancyServiceInterface {
	return &tenancyService{
		db:           db,
		tenancyRepo:  tenancyRepo,
		tenantRepo:   tenantRepo,
		propertyRepo: propertyRepo,
		paymentRepo:  paymentRepo,
		clock:        clock,
	}
}

// CreateTenancy performs a check-in: resolve or create the tenant, create the
// active tenancy, and optionally record the first rent payment. All writes
// happen in one transaction; a failure at any step leaves no rows behind.
// The property row is locked so the deletion guard cannot interleave.
func (s *tenancyService) CreateTenancy(ctx context.Context, req *models.CreateTenancyRequest) (*models.Tenancy, error) {
	if err := s.validateCreate(req); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin check-in transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := s.propertyRepo.WithTx(tx).GetByIDForUpdate(ctx, req.PropertyID); err != nil {
		return nil, err
	}

	tenantID, err := s.resolveTenant(ctx, tx, req)
	if err != nil {
		return nil, err
	}

	tenancy := &models.Tenancy{
		ID:         uuid.New(),
		TenantID:   tenantID,
		PropertyID: req.PropertyID,
		RoomNumber: req.RoomNumber,
		StartDate:  req.StartDate,
		RentPrice:  req.RentPrice,
		Status:     models.TenancyStatusActive,
	}
	if err := s.tenancyRepo.WithTx(tx).Create(ctx, tenancy); err != nil {
		return nil, fmt.Errorf("create tenancy: %w", err)
	}

	if req.PayInitialRent || (req.PaymentAmount != nil && req.PaymentAmount.IsPositive()) {
		payment := s.initialPayment(req, tenancy.ID)
		if err := s.paymentRepo.WithTx(tx).Create(ctx, payment); err != nil {
			return nil, fmt.Errorf("create initial payment: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit check-in transaction: %w", err)
	}

	return s.GetTenancy(ctx, tenancy.ID)
}

// UpdateTenancy merges the non-nil fields of req onto the stored row. Setting
// end_date does not flip status; callers close a tenancy by sending both.
func (s *tenancyService) UpdateTenancy(ctx context.Context, tenancyID uuid.UUID, req *models.UpdateTenancyRequest) (*models.Tenancy, error) {
	if req.Status != nil && !models.ValidTenancyStatus(*req.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", models.ErrValidation, *req.Status)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tenancy update transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	txRepo := s.tenancyRepo.WithTx(tx)
	tenancy, err := txRepo.GetByID(ctx, tenancyID)
	if err != nil {
		return nil, err
	}

	if req.TenantID != nil {
		if _, err := s.tenantRepo.WithTx(tx).GetByID(ctx, *req.TenantID); err != nil {
			return nil, err
		}
		tenancy.TenantID = *req.TenantID
	}
	if req.PropertyID != nil {
		if _, err := s.propertyRepo.WithTx(tx).GetByID(ctx, *req.PropertyID); err != nil {
			return nil, err
		}
		tenancy.PropertyID = *req.PropertyID
	}
	if req.RoomNumber != nil {
		tenancy.RoomNumber = req.RoomNumber
	}
	if req.StartDate != nil {
		tenancy.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		tenancy.EndDate = req.EndDate
	}
	if req.RentPrice != nil {
		tenancy.RentPrice = *req.RentPrice
	}
	if req.Status != nil {
		tenancy.Status = *req.Status
	}
	if req.LeavingReason != nil {
		tenancy.LeavingReason = req.LeavingReason
	}

	// Validated upstream as well, but re-checked here so a bad merge can
	// never be committed.
	if tenancy.EndDate != nil && tenancy.EndDate.Before(tenancy.StartDate) {
		return nil, fmt.Errorf("%w: end_date before start_date", models.ErrValidation)
	}

	if err := txRepo.Update(ctx, tenancy); err != nil {
		return nil, fmt.Errorf("update tenancy: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tenancy update transaction: %w", err)
	}

	return s.GetTenancy(ctx, tenancyID)
}

// GetTenancy loads a tenancy with its tenant and property and the derived
// overdue flag.
func (s *tenancyService) GetTenancy(ctx context.Context, tenancyID uuid.UUID) (*models.Tenancy, error) {
	tenancy, err := s.tenancyRepo.GetWithRelations(ctx, tenancyID)
	if err != nil {
		return nil, err
	}
	if err := s.enrichOverdue(ctx, tenancy); err != nil {
		return nil, err
	}
	return tenancy, nil
}

// ListTenancies searches tenancies and enriches each row with the overdue
// flag, computed against a single clock reading for the whole page.
func (s *tenancyService) ListTenancies(ctx context.Context, filter *models.TenancySearchFilter) ([]*models.Tenancy, error) {
	tenancies, err := s.tenancyRepo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	for _, tenancy := range tenancies {
		lastPayment, err := s.paymentRepo.LatestByTenancy(ctx, tenancy.ID)
		if err != nil {
			return nil, fmt.Errorf("load latest payment for tenancy %s: %w", tenancy.ID, err)
		}
		tenancy.IsOverdue = IsOverdue(tenancy, lastPayment, now)
	}
	return tenancies, nil
}

// SearchActive returns active tenancies matching the query as picker options.
func (s *tenancyService) SearchActive(ctx context.Context, query string, limit int) ([]*TenancyOption, error) {
	if limit <= 0 {
		limit = 20
	}
	status := models.TenancyStatusActive
	tenancies, err := s.tenancyRepo.Search(ctx, &models.TenancySearchFilter{
		Query:     query,
		Status:    &status,
		SortBy:    "start_date",
		SortOrder: "desc",
		Limit:     limit,
	})
	if err != nil {
		return nil, err
	}

	options := make([]*TenancyOption, 0, len(tenancies))
	for _, tenancy := range tenancies {
		options = append(options, &TenancyOption{
			Value:     tenancy.ID.String(),
			Label:     tenancy.Tenant.FullName + " - " + tenancy.Property.Name,
			RentPrice: tenancy.RentPrice,
		})
	}
	return options, nil
}

func (s *tenancyService) enrichOverdue(ctx context.Context, tenancy *models.Tenancy) error {
	lastPayment, err := s.paymentRepo.LatestByTenancy(ctx, tenancy.ID)
	if err != nil {
		return fmt.Errorf("load latest payment for tenancy %s: %w", tenancy.ID, err)
	}
	tenancy.IsOverdue = IsOverdue(tenancy, lastPayment, s.clock.Now())
	return nil
}

func (s *tenancyService) validateCreate(req *models.CreateTenancyRequest) error {
	if req.PropertyID == uuid.Nil {
		return fmt.Errorf("%w: property_id is required", models.ErrValidation)
	}
	if req.StartDate.IsZero() {
		return fmt.Errorf("%w: start_date is required", models.ErrValidation)
	}
	if req.RentPrice.IsNegative() {
		return fmt.Errorf("%w: rent_price must not be negative", models.ErrValidation)
	}
	if req.NewTenant() {
		if req.FullName == "" || req.Gender == "" || req.OriginCity == "" || req.Occupation == "" {
			return fmt.Errorf("%w: full_name, gender, origin_city and occupation are required for a new tenant", models.ErrValidation)
		}
		if req.DateOfBirth.IsZero() {
			return fmt.Errorf("%w: date_of_birth is required for a new tenant", models.ErrValidation)
		}
	}
	if req.PaymentAmount != nil && req.PaymentAmount.IsNegative() {
		return fmt.Errorf("%w: payment_amount must not be negative", models.ErrValidation)
	}
	return nil
}

// resolveTenant locks and returns the referenced tenant, or creates a new one
// inside the transaction when the payload carries inline tenant fields.
func (s *tenancyService) resolveTenant(ctx context.Context, tx pgx.Tx, req *models.CreateTenancyRequest) (uuid.UUID, error) {
	if !req.NewTenant() {
		tenant, err := s.tenantRepo.WithTx(tx).GetByIDForUpdate(ctx, *req.TenantID)
		if err != nil {
			return uuid.Nil, err
		}
		return tenant.ID, nil
	}

	tenant := &models.Tenant{
		ID:            uuid.New(),
		FullName:      req.FullName,
		Gender:        req.Gender,
		DateOfBirth:   req.DateOfBirth,
		OriginCity:    req.OriginCity,
		Occupation:    req.Occupation,
		WorkplaceName: req.WorkplaceName,
		PhoneNumber:   req.PhoneNumber,
	}
	if err := s.tenantRepo.WithTx(tx).Create(ctx, tenant); err != nil {
		return uuid.Nil, fmt.Errorf("create tenant: %w", err)
	}
	return tenant.ID, nil
}

func (s *tenancyService) initialPayment(req *models.CreateTenancyRequest, tenancyID uuid.UUID) *models.Payment {
	amount := req.RentPrice
	if req.PaymentAmount != nil && req.PaymentAmount.IsPositive() {
		amount = *req.PaymentAmount
	}
	paymentDate := req.StartDate
	if req.PaymentDate != nil {
		paymentDate = *req.PaymentDate
	}
	method := models.PaymentMethodTransfer
	if req.PaymentMethod != nil && models.ValidPaymentMethod(*req.PaymentMethod) {
		method = *req.PaymentMethod
	}
	return &models.Payment{
		ID:          uuid.New(),
		TenancyID:   tenancyID,
		Amount:      amount,
		PaymentDate: paymentDate,
		PaymentType: models.PaymentTypeMonthlyRent,
		Method:      method,
	}
}
