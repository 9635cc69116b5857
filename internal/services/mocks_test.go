package services

import (
	"context"
	"time"

	"kosmart/internal/models"
	"kosmart/internal/repositories"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) WithTx(tx pgx.Tx) repositories.PropertyRepository {
	m.Called(tx)
	return m
}

func (m *MockPropertyRepository) Create(ctx context.Context, property *models.Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}

func (m *MockPropertyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyRepository) Update(ctx context.Context, property *models.Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}

func (m *MockPropertyRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPropertyRepository) Search(ctx context.Context, filter *models.PropertySearchFilter) ([]*models.Property, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Property), args.Error(1)
}

type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) WithTx(tx pgx.Tx) repositories.TenantRepository {
	m.Called(tx)
	return m
}

func (m *MockTenantRepository) Create(ctx context.Context, tenant *models.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantRepository) Update(ctx context.Context, tenant *models.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTenantRepository) Search(ctx context.Context, filter *models.TenantSearchFilter) ([]*models.Tenant, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Tenant), args.Error(1)
}

type MockTenancyRepository struct {
	mock.Mock
}

func (m *MockTenancyRepository) WithTx(tx pgx.Tx) repositories.TenancyRepository {
	m.Called(tx)
	return m
}

func (m *MockTenancyRepository) Create(ctx context.Context, tenancy *models.Tenancy) error {
	args := m.Called(ctx, tenancy)
	return args.Error(0)
}

func (m *MockTenancyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenancy, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenancy), args.Error(1)
}

func (m *MockTenancyRepository) GetWithRelations(ctx context.Context, id uuid.UUID) (*models.Tenancy, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenancy), args.Error(1)
}

func (m *MockTenancyRepository) Update(ctx context.Context, tenancy *models.Tenancy) error {
	args := m.Called(ctx, tenancy)
	return args.Error(0)
}

func (m *MockTenancyRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTenancyRepository) Search(ctx context.Context, filter *models.TenancySearchFilter) ([]*models.Tenancy, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Tenancy), args.Error(1)
}

func (m *MockTenancyRepository) ExistsActiveForProperty(ctx context.Context, propertyID uuid.UUID) (bool, error) {
	args := m.Called(ctx, propertyID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTenancyRepository) ExistsActiveForTenant(ctx context.Context, tenantID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID)
	return args.Bool(0), args.Error(1)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) WithTx(tx pgx.Tx) repositories.PaymentRepository {
	m.Called(tx)
	return m
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListByTenancy(ctx context.Context, tenancyID uuid.UUID) ([]*models.Payment, error) {
	args := m.Called(ctx, tenancyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) LatestByTenancy(ctx context.Context, tenancyID uuid.UUID) (*models.Payment, error) {
	args := m.Called(ctx, tenancyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetProperty(ctx context.Context, propertyID uuid.UUID) (*models.Property, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockCacheService) SetProperty(ctx context.Context, property *models.Property, ttl time.Duration) error {
	args := m.Called(ctx, property, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteProperty(ctx context.Context, propertyID uuid.UUID) error {
	args := m.Called(ctx, propertyID)
	return args.Error(0)
}

func (m *MockCacheService) GetTenant(ctx context.Context, tenantID uuid.UUID) (*models.Tenant, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockCacheService) SetTenant(ctx context.Context, tenant *models.Tenant, ttl time.Duration) error {
	args := m.Called(ctx, tenant, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteTenant(ctx context.Context, tenantID uuid.UUID) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}

func (m *MockCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheService) GetString(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheService) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
