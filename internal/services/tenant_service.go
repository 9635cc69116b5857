package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"kosmart/internal/caching"
	"kosmart/internal/models"
	"kosmart/internal/repositories"

	"github.com/google/uuid"
)

const tenantCacheTTL = 10 * time.Minute

// TenantServiceInterface defines the interface for tenant (renter) operations
type TenantServiceInterface interface {
	Create(ctx context.Context, tenant *models.Tenant) (*models.Tenant, error)
	GetByID(ctx context.Context, tenantID uuid.UUID) (*models.Tenant, error)
	Update(ctx context.Context, tenant *models.Tenant) (*models.Tenant, error)
	Delete(ctx context.Context, tenantID uuid.UUID) error
	Search(ctx context.Context, filter *models.TenantSearchFilter) ([]*models.Tenant, error)
}

type tenantService struct {
	db          repositories.DB
	tenantRepo  repositories.TenantRepository
	tenancyRepo repositories.TenancyRepository
	cacheSvc    caching.CacheService
}

// NewTenantService creates a new tenant service instance
func NewTenantService(db repositories.DB, tenantRepo repositories.TenantRepository,
	tenancyRepo repositories.TenancyRepository, cacheSvc caching.CacheService) TenantServiceInterface {
	return &tenantService{
		db:          db,
		tenantRepo:  tenantRepo,
		tenancyRepo: tenancyRepo,
		cacheSvc:    cacheSvc,
	}
}

func (s *tenantService) Create(ctx context.Context, tenant *models.Tenant) (*models.Tenant, error) {
	if tenant.FullName == "" || tenant.Gender == "" || tenant.OriginCity == "" || tenant.Occupation == "" {
		return nil, fmt.Errorf("%w: full_name, gender, origin_city and occupation are required", models.ErrValidation)
	}
	if tenant.DateOfBirth.IsZero() {
		return nil, fmt.Errorf("%w: date_of_birth is required", models.ErrValidation)
	}
	if tenant.ID == uuid.Nil {
		tenant.ID = uuid.New()
	}
	if err := s.tenantRepo.Create(ctx, tenant); err != nil {
		return nil, fmt.Errorf("create tenant: %w", err)
	}
	return s.tenantRepo.GetByID(ctx, tenant.ID)
}

func (s *tenantService) GetByID(ctx context.Context, tenantID uuid.UUID) (*models.Tenant, error) {
	if cached, err := s.cacheSvc.GetTenant(ctx, tenantID); err == nil {
		return cached, nil
	}

	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if err := s.cacheSvc.SetTenant(ctx, tenant, tenantCacheTTL); err != nil {
		log.Printf("WARN: failed to cache tenant %s: %v", tenantID, err)
	}
	return tenant, nil
}

func (s *tenantService) Update(ctx context.Context, tenant *models.Tenant) (*models.Tenant, error) {
	if tenant.FullName == "" {
		return nil, fmt.Errorf("%w: full_name is required", models.ErrValidation)
	}
	if err := s.tenantRepo.Update(ctx, tenant); err != nil {
		return nil, err
	}
	if err := s.cacheSvc.DeleteTenant(ctx, tenant.ID); err != nil {
		log.Printf("WARN: failed to invalidate tenant cache %s: %v", tenant.ID, err)
	}
	return s.tenantRepo.GetByID(ctx, tenant.ID)
}

// Delete soft-deletes a tenant unless an active tenancy references them. Row
// lock and check run in one transaction, mirroring the property guard.
func (s *tenantService) Delete(ctx context.Context, tenantID uuid.UUID) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tenant delete transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	txRepo := s.tenantRepo.WithTx(tx)
	if _, err := txRepo.GetByIDForUpdate(ctx, tenantID); err != nil {
		return err
	}

	active, err := s.tenancyRepo.WithTx(tx).ExistsActiveForTenant(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("check active tenancies for tenant %s: %w", tenantID, err)
	}
	if active {
		return models.ErrActiveTenancyExists
	}

	if err := txRepo.SoftDelete(ctx, tenantID); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tenant delete transaction: %w", err)
	}

	if err := s.cacheSvc.DeleteTenant(ctx, tenantID); err != nil {
		log.Printf("WARN: failed to invalidate tenant cache %s: %v", tenantID, err)
	}
	return nil
}

func (s *tenantService) Search(ctx context.Context, filter *models.TenantSearchFilter) ([]*models.Tenant, error) {
	return s.tenantRepo.Search(ctx, filter)
}
