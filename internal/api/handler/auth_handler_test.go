package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"reviewdb/internal/api/dto"
	"reviewdb/internal/api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
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

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestRequestCode_Success(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService, 900)
	router := setupRouter()
	router.POST("/auth/email", handler.RequestCode)

	mockAuthService.On("RequestCode", mock.Anything, "test@example.com").Return(nil)

	body, _ := json.Marshal(dto.EmailRequest{Email: "test@example.com"})
	req, _ := http.NewRequest("POST", "/auth/email", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.EmailResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "test@example.com", response.Email)

	mockAuthService.AssertExpectations(t)
}

func TestRequestCode_UnknownEmail(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService, 900)
	router := setupRouter()
	router.POST("/auth/email", handler.RequestCode)

	mockAuthService.On("RequestCode", mock.Anything, "nobody@example.com").
		Return(service.ErrNotFound)

	body, _ := json.Marshal(dto.EmailRequest{Email: "nobody@example.com"})
	req, _ := http.NewRequest("POST", "/auth/email", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockAuthService.AssertExpectations(t)
}

func TestRequestCode_Throttled(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService, 900)
	router := setupRouter()
	router.POST("/auth/email", handler.RequestCode)

	mockAuthService.On("RequestCode", mock.Anything, "test@example.com").
		Return(service.ErrTooManyCodeRequests)

	body, _ := json.Marshal(dto.EmailRequest{Email: "test@example.com"})
	req, _ := http.NewRequest("POST", "/auth/email", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	mockAuthService.AssertExpectations(t)
}

func TestRequestCode_InvalidJSON(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService, 900)
	router := setupRouter()
	router.POST("/auth/email", handler.RequestCode)

	req, _ := http.NewRequest("POST", "/auth/email", bytes.NewBuffer([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestToken_Success(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService, 900)
	router := setupRouter()
	router.POST("/auth/token", handler.Token)

	mockAuthService.On("ExchangeCode", mock.Anything, "test@example.com", "valid-code").
		Return("access-token", "refresh-token", nil)

	body, _ := json.Marshal(dto.TokenRequest{
		Email:            "test@example.com",
		ConfirmationCode: "valid-code",
	})
	req, _ := http.NewRequest("POST", "/auth/token", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.TokenResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "access-token", response.AccessToken)
	assert.Equal(t, "refresh-token", response.RefreshToken)
	assert.Equal(t, "Bearer", response.TokenType)
	assert.EqualValues(t, 900, response.ExpiresIn)

	mockAuthService.AssertExpectations(t)
}

func TestToken_InvalidCredentials(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService, 900)
	router := setupRouter()
	router.POST("/auth/token", handler.Token)

	mockAuthService.On("ExchangeCode", mock.Anything, "test@example.com", "wrong-code").
		Return("", "", service.ErrInvalidCredentials)

	body, _ := json.Marshal(dto.TokenRequest{
		Email:            "test@example.com",
		ConfirmationCode: "wrong-code",
	})
	req, _ := http.NewRequest("POST", "/auth/token", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockAuthService.AssertExpectations(t)
}

func TestToken_InvalidJSON(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService, 900)
	router := setupRouter()
	router.POST("/auth/token", handler.Token)

	req, _ := http.NewRequest("POST", "/auth/token", bytes.NewBuffer([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRefresh_Success(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService, 900)
	router := setupRouter()
	router.POST("/auth/token/refresh", handler.Refresh)

	mockAuthService.On("RefreshAccessToken", "old-refresh-token").
		Return("new-access-token", nil)

	body, _ := json.Marshal(dto.RefreshTokenRequest{RefreshToken: "old-refresh-token"})
	req, _ := http.NewRequest("POST", "/auth/token/refresh", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.RefreshResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "new-access-token", response.AccessToken)
	assert.Equal(t, "Bearer", response.TokenType)

	mockAuthService.AssertExpectations(t)
}

func TestRefresh_InvalidToken(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService, 900)
	router := setupRouter()
	router.POST("/auth/token/refresh", handler.Refresh)

	mockAuthService.On("RefreshAccessToken", "bad-token").
		Return("", service.ErrInvalidToken)

	body, _ := json.Marshal(dto.RefreshTokenRequest{RefreshToken: "bad-token"})
	req, _ := http.NewRequest("POST", "/auth/token/refresh", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockAuthService.AssertExpectations(t)
}
