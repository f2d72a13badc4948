package service

import (
	"context"
	"testing"

	"reviewdb/internal/api/dto"
	"reviewdb/internal/api/models"
	"reviewdb/internal/api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockTitleStore mocks the TitleStore interface
type MockTitleStore struct {
	mock.Mock
}

func (m *MockTitleStore) List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) ([]models.Title, int64, error) {
	args := m.Called(ctx, filter, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Title), args.Get(1).(int64), args.Error(2)
}

func (m *MockTitleStore) GetByID(ctx context.Context, id int64) (*models.Title, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Title), args.Error(1)
}

func (m *MockTitleStore) Create(ctx context.Context, title *models.Title) error {
	args := m.Called(ctx, title)
	return args.Error(0)
}

func (m *MockTitleStore) Update(ctx context.Context, title *models.Title) error {
	args := m.Called(ctx, title)
	return args.Error(0)
}

func (m *MockTitleStore) ReplaceGenres(ctx context.Context, title *models.Title, genres []models.Genre) error {
	args := m.Called(ctx, title, genres)
	return args.Error(0)
}

func (m *MockTitleStore) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCategoryFinder mocks the CategoryFinder interface
type MockCategoryFinder struct {
	mock.Mock
}

func (m *MockCategoryFinder) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

// MockGenreResolver mocks the GenreResolver interface
type MockGenreResolver struct {
	mock.Mock
}

func (m *MockGenreResolver) GetBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error) {
	args := m.Called(ctx, slugs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Genre), args.Error(1)
}

func floatPtr(f float64) *float64 { return &f }

func TestTitleGet_NoReviewsNilRating(t *testing.T) {
	mockTitleStore := new(MockTitleStore)
	mockReviewRepo := new(MockReviewRepository)
	titleService := NewTitleService(mockTitleStore, new(MockCategoryFinder), new(MockGenreResolver), mockReviewRepo)

	title := &models.Title{ID: 7, Name: "Dune", Year: 1965, Category: models.Category{ID: 1, Name: "Books", Slug: "books"}}
	mockTitleStore.On("GetByID", mock.Anything, int64(7)).Return(title, nil)
	mockReviewRepo.On("AverageScore", int64(7)).Return(nil, nil)

	resp, err := titleService.Get(context.Background(), 7)

	assert.NoError(t, err)
	// No reviews means null, never zero.
	assert.Nil(t, resp.Rating)
	mockReviewRepo.AssertExpectations(t)
}

func TestTitleGet_WithRating(t *testing.T) {
	mockTitleStore := new(MockTitleStore)
	mockReviewRepo := new(MockReviewRepository)
	titleService := NewTitleService(mockTitleStore, new(MockCategoryFinder), new(MockGenreResolver), mockReviewRepo)

	title := &models.Title{ID: 7, Name: "Dune", Year: 1965}
	mockTitleStore.On("GetByID", mock.Anything, int64(7)).Return(title, nil)
	mockReviewRepo.On("AverageScore", int64(7)).Return(floatPtr(6.0), nil)

	resp, err := titleService.Get(context.Background(), 7)

	assert.NoError(t, err)
	assert.NotNil(t, resp.Rating)
	assert.Equal(t, 6.0, *resp.Rating)
}

func TestTitleGet_NotFound(t *testing.T) {
	mockTitleStore := new(MockTitleStore)
	mockReviewRepo := new(MockReviewRepository)
	titleService := NewTitleService(mockTitleStore, new(MockCategoryFinder), new(MockGenreResolver), mockReviewRepo)

	mockTitleStore.On("GetByID", mock.Anything, int64(404)).Return(nil, gorm.ErrRecordNotFound)

	resp, err := titleService.Get(context.Background(), 404)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, resp)
}

func TestTitleList_RatingPerTitle(t *testing.T) {
	mockTitleStore := new(MockTitleStore)
	mockReviewRepo := new(MockReviewRepository)
	titleService := NewTitleService(mockTitleStore, new(MockCategoryFinder), new(MockGenreResolver), mockReviewRepo)

	titles := []models.Title{
		{ID: 1, Name: "Rated", Year: 2000},
		{ID: 2, Name: "Unrated", Year: 2001},
	}
	mockTitleStore.On("List", mock.Anything, repository.TitleFilter{}, 1, 20).Return(titles, int64(2), nil)
	mockReviewRepo.On("AverageScore", int64(1)).Return(floatPtr(7.5), nil)
	mockReviewRepo.On("AverageScore", int64(2)).Return(nil, nil)

	resp, err := titleService.List(context.Background(), repository.TitleFilter{}, 1, 20)

	assert.NoError(t, err)
	assert.Len(t, resp.Data, 2)
	assert.Equal(t, 7.5, *resp.Data[0].Rating)
	assert.Nil(t, resp.Data[1].Rating)
	mockReviewRepo.AssertExpectations(t)
}

func TestTitleCreate_Success(t *testing.T) {
	mockTitleStore := new(MockTitleStore)
	mockCategoryFinder := new(MockCategoryFinder)
	mockGenreResolver := new(MockGenreResolver)
	mockReviewRepo := new(MockReviewRepository)
	titleService := NewTitleService(mockTitleStore, mockCategoryFinder, mockGenreResolver, mockReviewRepo)

	category := &models.Category{ID: 3, Name: "Books", Slug: "books"}
	genres := []models.Genre{{ID: 1, Name: "Sci-Fi", Slug: "sci-fi"}}

	mockCategoryFinder.On("GetBySlug", mock.Anything, "books").Return(category, nil)
	mockGenreResolver.On("GetBySlugs", mock.Anything, []string{"sci-fi"}).Return(genres, nil)
	mockTitleStore.On("Create", mock.Anything, mock.AnythingOfType("*models.Title")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.Title).ID = 11
		}).
		Return(nil)
	mockTitleStore.On("GetByID", mock.Anything, int64(11)).Return(&models.Title{
		ID:         11,
		Name:       "Dune",
		Year:       1965,
		CategoryID: 3,
		Category:   *category,
		Genres:     genres,
	}, nil)

	resp, err := titleService.Create(context.Background(), dto.CreateTitleRequest{
		Name:     "Dune",
		Year:     1965,
		Category: "books",
		Genre:    []string{"sci-fi"},
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(11), resp.ID)
	assert.Equal(t, "books", resp.Category.Slug)
	assert.Nil(t, resp.Rating)
	mockTitleStore.AssertExpectations(t)
}

func TestTitleCreate_UnknownCategory(t *testing.T) {
	mockTitleStore := new(MockTitleStore)
	mockCategoryFinder := new(MockCategoryFinder)
	titleService := NewTitleService(mockTitleStore, mockCategoryFinder, new(MockGenreResolver), new(MockReviewRepository))

	mockCategoryFinder.On("GetBySlug", mock.Anything, "missing").Return(nil, gorm.ErrRecordNotFound)

	resp, err := titleService.Create(context.Background(), dto.CreateTitleRequest{
		Name:     "Dune",
		Year:     1965,
		Category: "missing",
	})

	assert.ErrorIs(t, err, ErrUnknownCategory)
	assert.Nil(t, resp)
	mockTitleStore.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTitleCreate_UnknownGenre(t *testing.T) {
	mockTitleStore := new(MockTitleStore)
	mockCategoryFinder := new(MockCategoryFinder)
	mockGenreResolver := new(MockGenreResolver)
	titleService := NewTitleService(mockTitleStore, mockCategoryFinder, mockGenreResolver, new(MockReviewRepository))

	mockCategoryFinder.On("GetBySlug", mock.Anything, "books").Return(&models.Category{ID: 3, Slug: "books"}, nil)
	// Two slugs requested, only one row comes back.
	mockGenreResolver.On("GetBySlugs", mock.Anything, []string{"sci-fi", "nope"}).
		Return([]models.Genre{{ID: 1, Slug: "sci-fi"}}, nil)

	resp, err := titleService.Create(context.Background(), dto.CreateTitleRequest{
		Name:     "Dune",
		Year:     1965,
		Category: "books",
		Genre:    []string{"sci-fi", "nope"},
	})

	assert.ErrorIs(t, err, ErrUnknownGenre)
	assert.Nil(t, resp)
	mockTitleStore.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTitleDelete_NotFound(t *testing.T) {
	mockTitleStore := new(MockTitleStore)
	titleService := NewTitleService(mockTitleStore, new(MockCategoryFinder), new(MockGenreResolver), new(MockReviewRepository))

	mockTitleStore.On("Delete", mock.Anything, int64(404)).Return(gorm.ErrRecordNotFound)

	err := titleService.Delete(context.Background(), 404)

	assert.ErrorIs(t, err, ErrNotFound)
}
