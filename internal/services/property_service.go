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

const propertyCacheTTL = 10 * time.Minute

// PropertyServiceInterface defines the interface for property operations
type PropertyServiceInterface interface {
	Create(ctx context.Context, property *models.Property) (*models.Property, error)
	GetByID(ctx context.Context, propertyID uuid.UUID) (*models.Property, error)
	Update(ctx context.Context, property *models.Property) (*models.Property, error)
	Delete(ctx context.Context, propertyID uuid.UUID) error
	Search(ctx context.Context, filter *models.PropertySearchFilter) ([]*models.Property, error)
}

type propertyService struct {
	db           repositories.DB
	propertyRepo repositories.PropertyRepository
	tenancyRepo  repositories.TenancyRepository
	cacheSvc     caching.CacheService
}

// NewPropertyService creates a new property service instance
func NewPropertyService(db repositories.DB, propertyRepo repositories.PropertyRepository,
	tenancyRepo repositories.TenancyRepository, cacheSvc caching.CacheService) PropertyServiceInterface {
	return &propertyService{
		db:           db,
		propertyRepo: propertyRepo,
		tenancyRepo:  tenancyRepo,
		cacheSvc:     cacheSvc,
	}
}

func (s *propertyService) Create(ctx context.Context, property *models.Property) (*models.Property, error) {
	if property.Name == "" || property.Address == "" {
		return nil, fmt.Errorf("%w: name and address are required", models.ErrValidation)
	}
	if property.TotalCapacity <= 0 {
		return nil, fmt.Errorf("%w: total_capacity must be positive", models.ErrValidation)
	}
	if property.StandardMonthlyRate.IsNegative() {
		return nil, fmt.Errorf("%w: standard_monthly_rate must not be negative", models.ErrValidation)
	}
	if property.ID == uuid.Nil {
		property.ID = uuid.New()
	}
	if err := s.propertyRepo.Create(ctx, property); err != nil {
		return nil, fmt.Errorf("create property: %w", err)
	}
	return s.propertyRepo.GetByID(ctx, property.ID)
}

func (s *propertyService) GetByID(ctx context.Context, propertyID uuid.UUID) (*models.Property, error) {
	if cached, err := s.cacheSvc.GetProperty(ctx, propertyID); err == nil {
		return cached, nil
	}

	property, err := s.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if err := s.cacheSvc.SetProperty(ctx, property, propertyCacheTTL); err != nil {
		log.Printf("WARN: failed to cache property %s: %v", propertyID, err)
	}
	return property, nil
}

func (s *propertyService) Update(ctx context.Context, property *models.Property) (*models.Property, error) {
	if property.TotalCapacity <= 0 {
		return nil, fmt.Errorf("%w: total_capacity must be positive", models.ErrValidation)
	}
	if property.StandardMonthlyRate.IsNegative() {
		return nil, fmt.Errorf("%w: standard_monthly_rate must not be negative", models.ErrValidation)
	}
	// Rate changes never cascade into existing tenancies; rent_price is fixed
	// at check-in.
	if err := s.propertyRepo.Update(ctx, property); err != nil {
		return nil, err
	}
	if err := s.cacheSvc.DeleteProperty(ctx, property.ID); err != nil {
		log.Printf("WARN: failed to invalidate property cache %s: %v", property.ID, err)
	}
	return s.propertyRepo.GetByID(ctx, property.ID)
}

// Delete soft-deletes a property. The row is locked before the active-tenancy
// check so a concurrent check-in on the same property cannot slip between the
// check and the delete.
func (s *propertyService) Delete(ctx context.Context, propertyID uuid.UUID) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin property delete transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	txRepo := s.propertyRepo.WithTx(tx)
	if _, err := txRepo.GetByIDForUpdate(ctx, propertyID); err != nil {
		return err
	}

	active, err := s.tenancyRepo.WithTx(tx).ExistsActiveForProperty(ctx, propertyID)
	if err != nil {
		return fmt.Errorf("check active tenancies for property %s: %w", propertyID, err)
	}
	if active {
		return models.ErrActiveTenancyExists
	}

	if err := txRepo.SoftDelete(ctx, propertyID); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit property delete transaction: %w", err)
	}

	if err := s.cacheSvc.DeleteProperty(ctx, propertyID); err != nil {
		log.Printf("WARN: failed to invalidate property cache %s: %v", propertyID, err)
	}
	return nil
}

func (s *propertyService) Search(ctx context.Context, filter *models.PropertySearchFilter) ([]*models.Property, error) {
	return s.propertyRepo.Search(ctx, filter)
}
