package services

import (
	"context"
	"testing"

	"kosmart/internal/caching"
	"kosmart/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type PropertyServiceTestSuite struct {
	suite.Suite
	db           pgxmock.PgxPoolIface
	propertyRepo *MockPropertyRepository
	tenancyRepo  *MockTenancyRepository
	cacheSvc     *MockCacheService
	service      PropertyServiceInterface
	ctx          context.Context
}

func (suite *PropertyServiceTestSuite) SetupTest() {
	db, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.db = db

	suite.propertyRepo = &MockPropertyRepository{}
	suite.tenancyRepo = &MockTenancyRepository{}
	suite.cacheSvc = &MockCacheService{}
	suite.service = NewPropertyService(db, suite.propertyRepo, suite.tenancyRepo, suite.cacheSvc)
	suite.ctx = context.Background()
}

func (suite *PropertyServiceTestSuite) TearDownTest() {
	suite.propertyRepo.AssertExpectations(suite.T())
	suite.tenancyRepo.AssertExpectations(suite.T())
	suite.cacheSvc.AssertExpectations(suite.T())
	suite.db.Close()
}

func TestPropertyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PropertyServiceTestSuite))
}

func (suite *PropertyServiceTestSuite) validProperty() *models.Property {
	return &models.Property{
		Name:                "Kos Melati",
		Address:             "Jl. Kenanga 12",
		TotalCapacity:       20,
		StandardMonthlyRate: decimal.NewFromInt(1000000),
	}
}

func (suite *PropertyServiceTestSuite) TestCreate_Success() {
	property := suite.validProperty()

	suite.propertyRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.Property")).
		Return(nil).Run(func(args mock.Arguments) {
		p := args.Get(1).(*models.Property)
		assert.NotEqual(suite.T(), uuid.Nil, p.ID)
	})
	suite.propertyRepo.On("GetByID", suite.ctx, mock.AnythingOfType("uuid.UUID")).
		Return(property, nil)

	created, err := suite.service.Create(suite.ctx, property)
	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), created)
}

func (suite *PropertyServiceTestSuite) TestCreate_Validation() {
	cases := []struct {
		name   string
		mutate func(*models.Property)
	}{
		{"missing name", func(p *models.Property) { p.Name = "" }},
		{"missing address", func(p *models.Property) { p.Address = "" }},
		{"zero capacity", func(p *models.Property) { p.TotalCapacity = 0 }},
		{"negative rate", func(p *models.Property) { p.StandardMonthlyRate = decimal.NewFromInt(-1) }},
	}

	for _, tc := range cases {
		property := suite.validProperty()
		tc.mutate(property)
		created, err := suite.service.Create(suite.ctx, property)
		assert.Nil(suite.T(), created, tc.name)
		assert.ErrorIs(suite.T(), err, models.ErrValidation, tc.name)
	}
}

func (suite *PropertyServiceTestSuite) TestGetByID_CacheHit() {
	propertyID := uuid.New()
	cached := &models.Property{ID: propertyID, Name: "Kos Melati"}

	suite.cacheSvc.On("GetProperty", suite.ctx, propertyID).Return(cached, nil)

	property, err := suite.service.GetByID(suite.ctx, propertyID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), cached, property)
	suite.propertyRepo.AssertNotCalled(suite.T(), "GetByID", mock.Anything, mock.Anything)
}

func (suite *PropertyServiceTestSuite) TestGetByID_CacheMissFillsCache() {
	propertyID := uuid.New()
	stored := &models.Property{ID: propertyID, Name: "Kos Melati"}

	suite.cacheSvc.On("GetProperty", suite.ctx, propertyID).Return(nil, caching.ErrCacheMiss)
	suite.propertyRepo.On("GetByID", suite.ctx, propertyID).Return(stored, nil)
	suite.cacheSvc.On("SetProperty", suite.ctx, stored, propertyCacheTTL).Return(nil)

	property, err := suite.service.GetByID(suite.ctx, propertyID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), stored, property)
}

func (suite *PropertyServiceTestSuite) TestDelete_BlockedByActiveTenancy() {
	propertyID := uuid.New()

	suite.db.ExpectBegin()
	suite.db.ExpectRollback()

	suite.propertyRepo.On("WithTx", mock.Anything).Return()
	suite.propertyRepo.On("GetByIDForUpdate", suite.ctx, propertyID).
		Return(&models.Property{ID: propertyID}, nil)
	suite.tenancyRepo.On("WithTx", mock.Anything).Return()
	suite.tenancyRepo.On("ExistsActiveForProperty", suite.ctx, propertyID).Return(true, nil)

	err := suite.service.Delete(suite.ctx, propertyID)
	assert.ErrorIs(suite.T(), err, models.ErrActiveTenancyExists)
	suite.propertyRepo.AssertNotCalled(suite.T(), "SoftDelete", mock.Anything, mock.Anything)
	assert.NoError(suite.T(), suite.db.ExpectationsWereMet())
}

func (suite *PropertyServiceTestSuite) TestDelete_Success() {
	propertyID := uuid.New()

	suite.db.ExpectBegin()
	suite.db.ExpectCommit()

	suite.propertyRepo.On("WithTx", mock.Anything).Return()
	suite.propertyRepo.On("GetByIDForUpdate", suite.ctx, propertyID).
		Return(&models.Property{ID: propertyID}, nil)
	suite.tenancyRepo.On("WithTx", mock.Anything).Return()
	suite.tenancyRepo.On("ExistsActiveForProperty", suite.ctx, propertyID).Return(false, nil)
	suite.propertyRepo.On("SoftDelete", suite.ctx, propertyID).Return(nil)
	suite.cacheSvc.On("DeleteProperty", suite.ctx, propertyID).Return(nil)

	err := suite.service.Delete(suite.ctx, propertyID)
	assert.NoError(suite.T(), err)
}

func (suite *PropertyServiceTestSuite) TestDelete_NotFound() {
	propertyID := uuid.New()

	suite.db.ExpectBegin()
	suite.db.ExpectRollback()

	suite.propertyRepo.On("WithTx", mock.Anything).Return()
	suite.propertyRepo.On("GetByIDForUpdate", suite.ctx, propertyID).
		Return(nil, models.ErrNotFound)

	err := suite.service.Delete(suite.ctx, propertyID)
	assert.ErrorIs(suite.T(), err, models.ErrNotFound)
}
