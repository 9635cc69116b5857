package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"kosmart/internal/models"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type TenancyServiceTestSuite struct {
	suite.Suite
	db           pgxmock.PgxPoolIface
	tenancyRepo  *MockTenancyRepository
	tenantRepo   *MockTenantRepository
	propertyRepo *MockPropertyRepository
	paymentRepo  *MockPaymentRepository
	clock        *clockwork.FakeClock
	service      TenancyServiceInterface
	ctx          context.Context
}

func (suite *TenancyServiceTestSuite) SetupTest() {
	db, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.db = db

	suite.tenancyRepo = &MockTenancyRepository{}
	suite.tenantRepo = &MockTenantRepository{}
	suite.propertyRepo = &MockPropertyRepository{}
	suite.paymentRepo = &MockPaymentRepository{}
	suite.clock = clockwork.NewFakeClockAt(time.Date(2024, time.February, 15, 12, 0, 0, 0, time.UTC))

	suite.service = NewTenancyService(db, suite.tenancyRepo, suite.tenantRepo,
		suite.propertyRepo, suite.paymentRepo, suite.clock)
	suite.ctx = context.Background()
}

func (suite *TenancyServiceTestSuite) TearDownTest() {
	suite.tenancyRepo.AssertExpectations(suite.T())
	suite.tenantRepo.AssertExpectations(suite.T())
	suite.propertyRepo.AssertExpectations(suite.T())
	suite.paymentRepo.AssertExpectations(suite.T())
	suite.db.Close()
}

func TestTenancyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TenancyServiceTestSuite))
}

func (suite *TenancyServiceTestSuite) checkInRequest(tenantID uuid.UUID) *models.CreateTenancyRequest {
	return &models.CreateTenancyRequest{
		TenantID:   &tenantID,
		PropertyID: uuid.New(),
		StartDate:  time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
		RentPrice:  decimal.NewFromInt(1500000),
	}
}

func (suite *TenancyServiceTestSuite) TestCreateTenancy_ExistingTenantWithInitialPayment() {
	tenantID := uuid.New()
	req := suite.checkInRequest(tenantID)
	req.PayInitialRent = true

	suite.db.ExpectBegin()
	suite.db.ExpectCommit()

	suite.propertyRepo.On("WithTx", mock.Anything).Return()
	suite.propertyRepo.On("GetByIDForUpdate", suite.ctx, req.PropertyID).
		Return(&models.Property{ID: req.PropertyID, Name: "Kos Melati"}, nil)

	suite.tenantRepo.On("WithTx", mock.Anything).Return()
	suite.tenantRepo.On("GetByIDForUpdate", suite.ctx, tenantID).
		Return(&models.Tenant{ID: tenantID, FullName: "Budi Santoso"}, nil)

	var createdID uuid.UUID
	suite.tenancyRepo.On("WithTx", mock.Anything).Return()
	suite.tenancyRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.Tenancy")).
		Return(nil).Run(func(args mock.Arguments) {
		tenancy := args.Get(1).(*models.Tenancy)
		createdID = tenancy.ID
		assert.Equal(suite.T(), tenantID, tenancy.TenantID)
		assert.Equal(suite.T(), req.PropertyID, tenancy.PropertyID)
		assert.Equal(suite.T(), models.TenancyStatusActive, tenancy.Status)
	})

	suite.paymentRepo.On("WithTx", mock.Anything).Return()
	suite.paymentRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.Payment")).
		Return(nil).Run(func(args mock.Arguments) {
		payment := args.Get(1).(*models.Payment)
		assert.True(suite.T(), req.RentPrice.Equal(payment.Amount))
		assert.Equal(suite.T(), req.StartDate, payment.PaymentDate)
		assert.Equal(suite.T(), models.PaymentTypeMonthlyRent, payment.PaymentType)
		assert.Equal(suite.T(), models.PaymentMethodTransfer, payment.Method)
	})

	suite.tenancyRepo.On("GetWithRelations", suite.ctx, mock.AnythingOfType("uuid.UUID")).
		Return(&models.Tenancy{
			TenantID:   tenantID,
			PropertyID: req.PropertyID,
			StartDate:  req.StartDate,
			Status:     models.TenancyStatusActive,
			Tenant:     &models.Tenant{ID: tenantID, FullName: "Budi Santoso"},
			Property:   &models.Property{ID: req.PropertyID, Name: "Kos Melati"},
		}, nil)
	suite.paymentRepo.On("LatestByTenancy", suite.ctx, mock.AnythingOfType("uuid.UUID")).
		Return(&models.Payment{PaymentDate: req.StartDate}, nil)

	tenancy, err := suite.service.CreateTenancy(suite.ctx, req)
	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), tenancy)
	assert.NotEqual(suite.T(), uuid.Nil, createdID)
	assert.False(suite.T(), tenancy.IsOverdue)
}

func (suite *TenancyServiceTestSuite) TestCreateTenancy_InlineTenant() {
	req := &models.CreateTenancyRequest{
		PropertyID:  uuid.New(),
		FullName:    "Siti Rahma",
		Gender:      "female",
		DateOfBirth: time.Date(1995, time.June, 20, 0, 0, 0, 0, time.UTC),
		OriginCity:  "Bandung",
		Occupation:  "teacher",
		StartDate:   time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
		RentPrice:   decimal.NewFromInt(900000),
	}

	suite.db.ExpectBegin()
	suite.db.ExpectCommit()

	suite.propertyRepo.On("WithTx", mock.Anything).Return()
	suite.propertyRepo.On("GetByIDForUpdate", suite.ctx, req.PropertyID).
		Return(&models.Property{ID: req.PropertyID}, nil)

	suite.tenantRepo.On("WithTx", mock.Anything).Return()
	suite.tenantRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.Tenant")).
		Return(nil).Run(func(args mock.Arguments) {
		tenant := args.Get(1).(*models.Tenant)
		assert.Equal(suite.T(), "Siti Rahma", tenant.FullName)
		assert.NotEqual(suite.T(), uuid.Nil, tenant.ID)
	})

	suite.tenancyRepo.On("WithTx", mock.Anything).Return()
	suite.tenancyRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.Tenancy")).Return(nil)

	suite.tenancyRepo.On("GetWithRelations", suite.ctx, mock.AnythingOfType("uuid.UUID")).
		Return(&models.Tenancy{Status: models.TenancyStatusActive, StartDate: req.StartDate}, nil)
	suite.paymentRepo.On("LatestByTenancy", suite.ctx, mock.AnythingOfType("uuid.UUID")).
		Return(nil, nil)

	tenancy, err := suite.service.CreateTenancy(suite.ctx, req)
	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), tenancy)
	// No payments yet and the start date has passed, so the new tenancy
	// already reads as overdue.
	assert.True(suite.T(), tenancy.IsOverdue)
}

func (suite *TenancyServiceTestSuite) TestCreateTenancy_PropertyNotFound() {
	req := suite.checkInRequest(uuid.New())

	suite.db.ExpectBegin()
	suite.db.ExpectRollback()

	suite.propertyRepo.On("WithTx", mock.Anything).Return()
	suite.propertyRepo.On("GetByIDForUpdate", suite.ctx, req.PropertyID).
		Return(nil, models.ErrNotFound)

	tenancy, err := suite.service.CreateTenancy(suite.ctx, req)
	assert.Nil(suite.T(), tenancy)
	assert.ErrorIs(suite.T(), err, models.ErrNotFound)
	suite.tenancyRepo.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *TenancyServiceTestSuite) TestCreateTenancy_PaymentFailureLeavesNothingCommitted() {
	tenantID := uuid.New()
	req := suite.checkInRequest(tenantID)
	req.PayInitialRent = true

	suite.db.ExpectBegin()
	suite.db.ExpectRollback()

	suite.propertyRepo.On("WithTx", mock.Anything).Return()
	suite.propertyRepo.On("GetByIDForUpdate", suite.ctx, req.PropertyID).
		Return(&models.Property{ID: req.PropertyID}, nil)
	suite.tenantRepo.On("WithTx", mock.Anything).Return()
	suite.tenantRepo.On("GetByIDForUpdate", suite.ctx, tenantID).
		Return(&models.Tenant{ID: tenantID}, nil)
	suite.tenancyRepo.On("WithTx", mock.Anything).Return()
	suite.tenancyRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.Tenancy")).Return(nil)
	suite.paymentRepo.On("WithTx", mock.Anything).Return()
	suite.paymentRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.Payment")).
		Return(errors.New("constraint violation"))

	tenancy, err := suite.service.CreateTenancy(suite.ctx, req)
	assert.Nil(suite.T(), tenancy)
	assert.Error(suite.T(), err)
	assert.NoError(suite.T(), suite.db.ExpectationsWereMet())
}

func (suite *TenancyServiceTestSuite) TestCreateTenancy_ValidationFailures() {
	cases := []struct {
		name string
		req  *models.CreateTenancyRequest
	}{
		{
			name: "missing property",
			req: &models.CreateTenancyRequest{
				TenantID:  uuidPtr(uuid.New()),
				StartDate: time.Now(),
				RentPrice: decimal.NewFromInt(100),
			},
		},
		{
			name: "missing start date",
			req: &models.CreateTenancyRequest{
				TenantID:   uuidPtr(uuid.New()),
				PropertyID: uuid.New(),
				RentPrice:  decimal.NewFromInt(100),
			},
		},
		{
			name: "negative rent",
			req: &models.CreateTenancyRequest{
				TenantID:   uuidPtr(uuid.New()),
				PropertyID: uuid.New(),
				StartDate:  time.Now(),
				RentPrice:  decimal.NewFromInt(-1),
			},
		},
		{
			name: "inline tenant missing fields",
			req: &models.CreateTenancyRequest{
				PropertyID: uuid.New(),
				StartDate:  time.Now(),
				RentPrice:  decimal.NewFromInt(100),
				FullName:   "only a name",
			},
		},
	}

	for _, tc := range cases {
		tenancy, err := suite.service.CreateTenancy(suite.ctx, tc.req)
		assert.Nil(suite.T(), tenancy, tc.name)
		assert.ErrorIs(suite.T(), err, models.ErrValidation, tc.name)
	}
}

func (suite *TenancyServiceTestSuite) TestUpdateTenancy_InvalidStatus() {
	bad := "evicted"
	tenancy, err := suite.service.UpdateTenancy(suite.ctx, uuid.New(), &models.UpdateTenancyRequest{Status: &bad})
	assert.Nil(suite.T(), tenancy)
	assert.ErrorIs(suite.T(), err, models.ErrValidation)
}

func (suite *TenancyServiceTestSuite) TestUpdateTenancy_EndDateBeforeStartDate() {
	tenancyID := uuid.New()
	endDate := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	suite.db.ExpectBegin()
	suite.db.ExpectRollback()

	suite.tenancyRepo.On("WithTx", mock.Anything).Return()
	suite.tenancyRepo.On("GetByID", suite.ctx, tenancyID).
		Return(&models.Tenancy{
			ID:        tenancyID,
			StartDate: time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
			Status:    models.TenancyStatusActive,
		}, nil)

	tenancy, err := suite.service.UpdateTenancy(suite.ctx, tenancyID, &models.UpdateTenancyRequest{EndDate: &endDate})
	assert.Nil(suite.T(), tenancy)
	assert.ErrorIs(suite.T(), err, models.ErrValidation)
	suite.tenancyRepo.AssertNotCalled(suite.T(), "Update", mock.Anything, mock.Anything)
}

func (suite *TenancyServiceTestSuite) TestUpdateTenancy_CloseTenancy() {
	tenancyID := uuid.New()
	endDate := time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)
	finished := models.TenancyStatusFinished
	reason := "moved to another city"

	stored := &models.Tenancy{
		ID:        tenancyID,
		StartDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		Status:    models.TenancyStatusActive,
	}

	suite.db.ExpectBegin()
	suite.db.ExpectCommit()

	suite.tenancyRepo.On("WithTx", mock.Anything).Return()
	suite.tenancyRepo.On("GetByID", suite.ctx, tenancyID).Return(stored, nil)
	suite.tenancyRepo.On("Update", suite.ctx, mock.AnythingOfType("*models.Tenancy")).
		Return(nil).Run(func(args mock.Arguments) {
		updated := args.Get(1).(*models.Tenancy)
		assert.Equal(suite.T(), models.TenancyStatusFinished, updated.Status)
		assert.Equal(suite.T(), endDate, *updated.EndDate)
		assert.Equal(suite.T(), reason, *updated.LeavingReason)
	})
	suite.tenancyRepo.On("GetWithRelations", suite.ctx, tenancyID).
		Return(&models.Tenancy{ID: tenancyID, Status: models.TenancyStatusFinished}, nil)
	suite.paymentRepo.On("LatestByTenancy", suite.ctx, tenancyID).Return(nil, nil)

	tenancy, err := suite.service.UpdateTenancy(suite.ctx, tenancyID, &models.UpdateTenancyRequest{
		EndDate:       &endDate,
		Status:        &finished,
		LeavingReason: &reason,
	})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.TenancyStatusFinished, tenancy.Status)
	assert.False(suite.T(), tenancy.IsOverdue)
}

func (suite *TenancyServiceTestSuite) TestListTenancies_OverdueFlags() {
	staleID := uuid.New()
	freshID := uuid.New()

	suite.tenancyRepo.On("Search", suite.ctx, mock.AnythingOfType("*models.TenancySearchFilter")).
		Return([]*models.Tenancy{
			{ID: staleID, Status: models.TenancyStatusActive, StartDate: day(2024, time.January, 1)},
			{ID: freshID, Status: models.TenancyStatusActive, StartDate: day(2024, time.January, 1)},
		}, nil)
	suite.paymentRepo.On("LatestByTenancy", suite.ctx, staleID).
		Return(&models.Payment{PaymentDate: day(2024, time.January, 10)}, nil)
	suite.paymentRepo.On("LatestByTenancy", suite.ctx, freshID).
		Return(&models.Payment{PaymentDate: day(2024, time.February, 12)}, nil)

	tenancies, err := suite.service.ListTenancies(suite.ctx, &models.TenancySearchFilter{})
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), tenancies, 2)
	assert.True(suite.T(), tenancies[0].IsOverdue)
	assert.False(suite.T(), tenancies[1].IsOverdue)
}

func (suite *TenancyServiceTestSuite) TestSearchActive_BuildsOptions() {
	tenancyID := uuid.New()
	rent := decimal.NewFromInt(1200000)

	suite.tenancyRepo.On("Search", suite.ctx, mock.MatchedBy(func(f *models.TenancySearchFilter) bool {
		return f.Status != nil && *f.Status == models.TenancyStatusActive && f.Query == "budi"
	})).Return([]*models.Tenancy{
		{
			ID:        tenancyID,
			RentPrice: rent,
			Status:    models.TenancyStatusActive,
			Tenant:    &models.Tenant{FullName: "Budi Santoso"},
			Property:  &models.Property{Name: "Kos Melati"},
		},
	}, nil)

	options, err := suite.service.SearchActive(suite.ctx, "budi", 20)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), options, 1)
	assert.Equal(suite.T(), tenancyID.String(), options[0].Value)
	assert.Equal(suite.T(), "Budi Santoso - Kos Melati", options[0].Label)
	assert.True(suite.T(), rent.Equal(options[0].RentPrice))
}

func uuidPtr(id uuid.UUID) *uuid.UUID {
	return &id
}
