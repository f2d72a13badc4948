package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"reviewdb/internal/api/authz"
	"reviewdb/internal/api/models"
	"reviewdb/internal/api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockAuthService mocks the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) RequestCode(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockAuthService) ExchangeCode(ctx context.Context, email, code string) (string, string, error) {
	args := m.Called(ctx, email, code)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockAuthService) RefreshAccessToken(refreshToken string) (string, error) {
	args := m.Called(refreshToken)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) List(search string, page, pageSize int) ([]models.User, int64, error) {
	args := m.Called(search, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) DeleteByUsername(username string) error {
	args := m.Called(username)
	return args.Error(0)
}

func okHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func TestRequireAuth_ValidToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockAuthService := new(MockAuthService)
	mockUserRepo := new(MockUserRepository)

	user := &models.User{ID: "user-id", Username: "reader", Role: models.RoleUser}
	mockAuthService.On("ValidateToken", "good-token").
		Return(&service.Claims{UserID: "user-id", Username: "reader", Role: models.RoleUser}, nil)
	mockUserRepo.On("FindByID", "user-id").Return(user, nil)

	router := gin.New()
	router.GET("/me", RequireAuth(mockAuthService, mockUserRepo), func(c *gin.Context) {
		actor := Actor(c)
		assert.NotNil(t, actor)
		assert.Equal(t, "reader", actor.Username)
		c.Status(http.StatusOK)
	})

	req, _ := http.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockAuthService.AssertExpectations(t)
	mockUserRepo.AssertExpectations(t)
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockAuthService := new(MockAuthService)
	mockUserRepo := new(MockUserRepository)

	router := gin.New()
	router.GET("/me", RequireAuth(mockAuthService, mockUserRepo), okHandler)

	req, _ := http.NewRequest("GET", "/me", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockAuthService := new(MockAuthService)
	mockUserRepo := new(MockUserRepository)

	router := gin.New()
	router.GET("/me", RequireAuth(mockAuthService, mockUserRepo), okHandler)

	req, _ := http.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "NotBearer token")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_DeletedUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockAuthService := new(MockAuthService)
	mockUserRepo := new(MockUserRepository)

	// Token still valid but the account is gone.
	mockAuthService.On("ValidateToken", "stale-token").
		Return(&service.Claims{UserID: "gone-id"}, nil)
	mockUserRepo.On("FindByID", "gone-id").Return(nil, gorm.ErrRecordNotFound)

	router := gin.New()
	router.GET("/me", RequireAuth(mockAuthService, mockUserRepo), okHandler)

	req, _ := http.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer stale-token")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalAuth_AnonymousPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockAuthService := new(MockAuthService)
	mockUserRepo := new(MockUserRepository)

	router := gin.New()
	router.GET("/titles", OptionalAuth(mockAuthService, mockUserRepo), func(c *gin.Context) {
		assert.Nil(t, Actor(c))
		c.Status(http.StatusOK)
	})

	req, _ := http.NewRequest("GET", "/titles", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequirePermission_Anonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/categories", RequirePermission(authz.ResourceCategory, authz.ActionCreate), okHandler)

	req, _ := http.NewRequest("POST", "/categories", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequirePermission_WrongRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	user := &models.User{ID: "user-id", Role: models.RoleUser}
	router := gin.New()
	router.POST("/categories", func(c *gin.Context) {
		c.Set(actorKey, user)
		c.Next()
	}, RequirePermission(authz.ResourceCategory, authz.ActionCreate), okHandler)

	req, _ := http.NewRequest("POST", "/categories", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequirePermission_Admin(t *testing.T) {
	gin.SetMode(gin.TestMode)

	admin := &models.User{ID: "admin-id", Role: models.RoleAdmin}
	router := gin.New()
	router.POST("/categories", func(c *gin.Context) {
		c.Set(actorKey, admin)
		c.Next()
	}, RequirePermission(authz.ResourceCategory, authz.ActionCreate), okHandler)

	req, _ := http.NewRequest("POST", "/categories", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
