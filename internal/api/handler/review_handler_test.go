package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"reviewdb/internal/api/dto"
	"reviewdb/internal/api/models"
	"reviewdb/internal/api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockReviewService mocks the ReviewService interface
type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) List(ctx context.Context, titleID int64, page, pageSize int) (*dto.PaginatedReviewResponse, error) {
	args := m.Called(ctx, titleID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PaginatedReviewResponse), args.Error(1)
}

func (m *MockReviewService) Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error) {
	args := m.Called(ctx, titleID, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) Create(ctx context.Context, actor *models.User, titleID int64, req dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	args := m.Called(ctx, actor, titleID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) Update(ctx context.Context, actor *models.User, titleID, reviewID int64, req dto.UpdateReviewRequest) (*dto.ReviewResponse, error) {
	args := m.Called(ctx, actor, titleID, reviewID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) Delete(ctx context.Context, actor *models.User, titleID, reviewID int64) error {
	args := m.Called(ctx, actor, titleID, reviewID)
	return args.Error(0)
}

// asActor injects the user under the key the auth middleware uses.
func asActor(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("actor", user)
		c.Next()
	}
}

func TestReviewCreateEndpoint_Success(t *testing.T) {
	mockService := new(MockReviewService)
	handler := NewReviewHandler(mockService)
	actor := &models.User{ID: "author-id", Username: "reader", Role: models.RoleUser}

	router := setupRouter()
	router.POST("/titles/:title_id/reviews", asActor(actor), handler.Create)

	mockService.On("Create", mock.Anything, actor, int64(7), dto.CreateReviewRequest{Text: "great", Score: 8}).
		Return(&dto.ReviewResponse{ID: 42, Text: "great", Author: "reader", Score: 8}, nil)

	body, _ := json.Marshal(dto.CreateReviewRequest{Text: "great", Score: 8})
	req, _ := http.NewRequest("POST", "/titles/7/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response dto.ReviewResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, int64(42), response.ID)
	assert.Equal(t, "reader", response.Author)

	mockService.AssertExpectations(t)
}

func TestReviewCreateEndpoint_Duplicate(t *testing.T) {
	mockService := new(MockReviewService)
	handler := NewReviewHandler(mockService)
	actor := &models.User{ID: "author-id", Role: models.RoleUser}

	router := setupRouter()
	router.POST("/titles/:title_id/reviews", asActor(actor), handler.Create)

	mockService.On("Create", mock.Anything, actor, int64(7), dto.CreateReviewRequest{Text: "again", Score: 6}).
		Return(nil, service.ErrDuplicateReview)

	body, _ := json.Marshal(dto.CreateReviewRequest{Text: "again", Score: 6})
	req, _ := http.NewRequest("POST", "/titles/7/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	mockService.AssertExpectations(t)
}

func TestReviewCreateEndpoint_ScoreOutOfRange(t *testing.T) {
	mockService := new(MockReviewService)
	handler := NewReviewHandler(mockService)
	actor := &models.User{ID: "author-id", Role: models.RoleUser}

	router := setupRouter()
	router.POST("/titles/:title_id/reviews", asActor(actor), handler.Create)

	body, _ := json.Marshal(map[string]any{"text": "way too good", "score": 11})
	req, _ := http.NewRequest("POST", "/titles/7/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewCreateEndpoint_BadTitleID(t *testing.T) {
	mockService := new(MockReviewService)
	handler := NewReviewHandler(mockService)
	actor := &models.User{ID: "author-id", Role: models.RoleUser}

	router := setupRouter()
	router.POST("/titles/:title_id/reviews", asActor(actor), handler.Create)

	body, _ := json.Marshal(dto.CreateReviewRequest{Text: "x", Score: 5})
	req, _ := http.NewRequest("POST", "/titles/abc/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewDeleteEndpoint_Forbidden(t *testing.T) {
	mockService := new(MockReviewService)
	handler := NewReviewHandler(mockService)
	actor := &models.User{ID: "author-id", Role: models.RoleUser}

	router := setupRouter()
	router.DELETE("/titles/:title_id/reviews/:review_id", asActor(actor), handler.Delete)

	mockService.On("Delete", mock.Anything, actor, int64(7), int64(42)).
		Return(service.ErrForbidden)

	req, _ := http.NewRequest("DELETE", "/titles/7/reviews/42", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockService.AssertExpectations(t)
}

func TestReviewDeleteEndpoint_Success(t *testing.T) {
	mockService := new(MockReviewService)
	handler := NewReviewHandler(mockService)
	moderator := &models.User{ID: "mod-id", Role: models.RoleModerator}

	router := setupRouter()
	router.DELETE("/titles/:title_id/reviews/:review_id", asActor(moderator), handler.Delete)

	mockService.On("Delete", mock.Anything, moderator, int64(7), int64(42)).Return(nil)

	req, _ := http.NewRequest("DELETE", "/titles/7/reviews/42", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockService.AssertExpectations(t)
}

func TestReviewGetEndpoint_NotFound(t *testing.T) {
	mockService := new(MockReviewService)
	handler := NewReviewHandler(mockService)

	router := setupRouter()
	router.GET("/titles/:title_id/reviews/:review_id", handler.Get)

	mockService.On("Get", mock.Anything, int64(7), int64(404)).Return(nil, service.ErrNotFound)

	req, _ := http.NewRequest("GET", "/titles/7/reviews/404", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockService.AssertExpectations(t)
}
