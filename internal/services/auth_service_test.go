package services_test

import (
	"io/ioutil"
	"log"
	"os"
	"testing"
	"time"

	"shop/internal/apperr"
	"shop/internal/models"
	"shop/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// TestMain suppresses service logging for cleaner test output.
func TestMain(m *testing.M) {
	log.SetOutput(ioutil.Discard)
	os.Exit(m.Run())
}

func TestAuthService_RegisterUser(t *testing.T) {
	users := new(MockUserRepository)
	svc := services.NewAuthService(users, "test_jwt_secret")

	user := &models.User{Username: "testuser", Email: "test@example.com", Password: "password123"}
	users.On("GetByUsername", "testuser").Return(nil, apperr.ErrNotFound).Once()
	users.On("GetByEmail", "test@example.com").Return(nil, apperr.ErrNotFound).Once()
	users.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	require.NoError(t, svc.RegisterUser(user))
	users.AssertExpectations(t)

	// the stored password is a bcrypt hash, not the plaintext
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))

	// taken username
	users.On("GetByUsername", "testuser").Return(&models.User{ID: "1"}, nil).Once()
	err := svc.RegisterUser(&models.User{Username: "testuser", Email: "other@example.com", Password: "password123"})
	assert.ErrorIs(t, err, apperr.ErrAccountExists)

	// taken email
	users.On("GetByUsername", "testuser").Return(nil, apperr.ErrNotFound).Once()
	users.On("GetByEmail", "test@example.com").Return(&models.User{ID: "1"}, nil).Once()
	err = svc.RegisterUser(&models.User{Username: "testuser", Email: "test@example.com", Password: "password123"})
	assert.ErrorIs(t, err, apperr.ErrAccountExists)
	users.AssertExpectations(t)
}

func TestAuthService_LoginUser(t *testing.T) {
	users := new(MockUserRepository)
	svc := services.NewAuthService(users, "test_jwt_secret")

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := &models.User{ID: "user-123", Username: "testuser", Password: string(hashed)}

	users.On("GetByUsername", "testuser").Return(user, nil).Once()
	token, err := svc.LoginUser("testuser", "password123")
	assert.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", claims["user_id"])
	assert.Equal(t, "testuser", claims["username"])

	// wrong password
	users.On("GetByUsername", "testuser").Return(user, nil).Once()
	_, err = svc.LoginUser("testuser", "wrongpassword")
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)

	// an unknown username fails indistinguishably
	users.On("GetByUsername", "nobody").Return(nil, apperr.ErrNotFound).Once()
	_, err = svc.LoginUser("nobody", "password123")
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
	users.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	svc := services.NewAuthService(new(MockUserRepository), "test_jwt_secret")

	valid, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  "user-123",
		"username": "testuser",
		"exp":      time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test_jwt_secret"))
	require.NoError(t, err)

	claims, err := svc.ValidateToken(valid)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", claims["user_id"])
	assert.Equal(t, "testuser", claims["username"])

	// garbage
	_, err = svc.ValidateToken("not.a.token")
	assert.Error(t, err)

	// signed with another secret
	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-123",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("other_secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(foreign)
	assert.Error(t, err)

	// expired
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-123",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	}).SignedString([]byte("test_jwt_secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(expired)
	assert.Error(t, err)
}
