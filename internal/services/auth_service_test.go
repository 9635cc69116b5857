package services

import (
	"context"
	"testing"
	"time"

	"kosmart/internal/models"
	"kosmart/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

var _ repositories.UserRepository = (*MockUserRepository)(nil)

type AuthServiceTestSuite struct {
	suite.Suite
	userRepo *MockUserRepository
	clock    *clockwork.FakeClock
	service  AuthServiceInterface
	ctx      context.Context
}

const testJWTSecret = "test-secret"

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.userRepo = &MockUserRepository{}
	suite.clock = clockwork.NewFakeClockAt(time.Date(2024, time.February, 15, 12, 0, 0, 0, time.UTC))
	suite.service = NewAuthService(suite.userRepo, testJWTSecret, suite.clock)
	suite.ctx = context.Background()
}

func (suite *AuthServiceTestSuite) TearDownTest() {
	suite.userRepo.AssertExpectations(suite.T())
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func (suite *AuthServiceTestSuite) TestSignup_Success() {
	req := &SignupRequest{Email: "owner@example.com", Name: "Owner", Password: "secret1"}

	suite.userRepo.On("GetByEmail", suite.ctx, req.Email).Return(nil, models.ErrNotFound)
	suite.userRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.User")).
		Return(nil).Run(func(args mock.Arguments) {
		user := args.Get(1).(*models.User)
		assert.NotEqual(suite.T(), uuid.Nil, user.ID)
		assert.NoError(suite.T(), bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)))
	})

	resp, err := suite.service.Signup(suite.ctx, req)
	assert.NoError(suite.T(), err)
	assert.NotEmpty(suite.T(), resp.Token)
	assert.Equal(suite.T(), suite.clock.Now().Add(tokenTTL), resp.ExpiresAt)

	// Token subject carries the user id.
	parsed, err := jwt.ParseWithClaims(resp.Token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		return []byte(testJWTSecret), nil
	}, jwt.WithTimeFunc(suite.clock.Now))
	assert.NoError(suite.T(), err)
	claims := parsed.Claims.(*jwt.RegisteredClaims)
	assert.Equal(suite.T(), resp.User.ID.String(), claims.Subject)
}

func (suite *AuthServiceTestSuite) TestSignup_DuplicateEmail() {
	req := &SignupRequest{Email: "owner@example.com", Name: "Owner", Password: "secret1"}

	suite.userRepo.On("GetByEmail", suite.ctx, req.Email).
		Return(&models.User{Email: req.Email}, nil)

	resp, err := suite.service.Signup(suite.ctx, req)
	assert.Nil(suite.T(), resp)
	assert.ErrorIs(suite.T(), err, models.ErrValidation)
}

func (suite *AuthServiceTestSuite) TestSignup_ShortPassword() {
	resp, err := suite.service.Signup(suite.ctx, &SignupRequest{
		Email: "owner@example.com", Name: "Owner", Password: "abc",
	})
	assert.Nil(suite.T(), resp)
	assert.ErrorIs(suite.T(), err, models.ErrValidation)
}

func (suite *AuthServiceTestSuite) TestLogin_Success() {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.DefaultCost)
	assert.NoError(suite.T(), err)
	user := &models.User{ID: uuid.New(), Email: "owner@example.com", PasswordHash: string(hash)}

	suite.userRepo.On("GetByEmail", suite.ctx, user.Email).Return(user, nil)

	resp, err := suite.service.Login(suite.ctx, &LoginRequest{Email: user.Email, Password: "secret1"})
	assert.NoError(suite.T(), err)
	assert.NotEmpty(suite.T(), resp.Token)
}

func (suite *AuthServiceTestSuite) TestLogin_WrongPassword() {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.DefaultCost)
	assert.NoError(suite.T(), err)
	user := &models.User{ID: uuid.New(), Email: "owner@example.com", PasswordHash: string(hash)}

	suite.userRepo.On("GetByEmail", suite.ctx, user.Email).Return(user, nil)

	resp, err := suite.service.Login(suite.ctx, &LoginRequest{Email: user.Email, Password: "wrong"})
	assert.Nil(suite.T(), resp)
	assert.ErrorIs(suite.T(), err, models.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestLogin_UnknownEmail() {
	suite.userRepo.On("GetByEmail", suite.ctx, "nobody@example.com").
		Return(nil, models.ErrNotFound)

	resp, err := suite.service.Login(suite.ctx, &LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.Nil(suite.T(), resp)
	assert.ErrorIs(suite.T(), err, models.ErrUnauthorized)
}
