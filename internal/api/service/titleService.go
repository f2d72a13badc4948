package service

import (
	"context"
	"errors"

	"reviewdb/internal/api/dto"
	"reviewdb/internal/api/models"
	"reviewdb/internal/api/repository"

	"gorm.io/gorm"
)

type TitleService interface {
	List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) (*dto.PaginatedTitleResponse, error)
	Get(ctx context.Context, id int64) (*dto.TitleResponse, error)
	Create(ctx context.Context, req dto.CreateTitleRequest) (*dto.TitleResponse, error)
	Update(ctx context.Context, id int64, req dto.UpdateTitleRequest) (*dto.TitleResponse, error)
	Delete(ctx context.Context, id int64) error
}

// TitleStore is the slice of the title repository the service needs.
type TitleStore interface {
	List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) ([]models.Title, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Title, error)
	Create(ctx context.Context, title *models.Title) error
	Update(ctx context.Context, title *models.Title) error
	ReplaceGenres(ctx context.Context, title *models.Title, genres []models.Genre) error
	Delete(ctx context.Context, id int64) error
}

// CategoryFinder resolves a category by slug.
type CategoryFinder interface {
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
}

// GenreResolver resolves genre rows for a set of slugs.
type GenreResolver interface {
	GetBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error)
}

type titleService struct {
	titleRepo    TitleStore
	categoryRepo CategoryFinder
	genreRepo    GenreResolver
	reviewRepo   repository.ReviewRepository
}

func NewTitleService(
	titleRepo TitleStore,
	categoryRepo CategoryFinder,
	genreRepo GenreResolver,
	reviewRepo repository.ReviewRepository,
) TitleService {
	return &titleService{
		titleRepo:    titleRepo,
		categoryRepo: categoryRepo,
		genreRepo:    genreRepo,
		reviewRepo:   reviewRepo,
	}
}

// List returns titles with the derived rating attached to each row. The
// average is recomputed on every read so it is never stale; review counts
// per title are small enough that this beats maintaining a stored aggregate.
func (s *titleService) List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) (*dto.PaginatedTitleResponse, error) {
	titles, total, err := s.titleRepo.List(ctx, filter, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TitleResponse, 0, len(titles))
	for i := range titles {
		rating, err := s.reviewRepo.AverageScore(titles[i].ID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, *dto.FromModelToTitleResponse(&titles[i], rating))
	}

	return dto.NewPaginatedTitleResponse(responses, int(total), page, pageSize), nil
}

func (s *titleService) Get(ctx context.Context, id int64) (*dto.TitleResponse, error) {
	title, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rating, err := s.reviewRepo.AverageScore(title.ID)
	if err != nil {
		return nil, err
	}

	return dto.FromModelToTitleResponse(title, rating), nil
}

func (s *titleService) Create(ctx context.Context, req dto.CreateTitleRequest) (*dto.TitleResponse, error) {
	category, err := s.categoryRepo.GetBySlug(ctx, req.Category)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownCategory
		}
		return nil, err
	}

	genres, err := s.resolveGenres(ctx, req.Genre)
	if err != nil {
		return nil, err
	}

	title := &models.Title{
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
		CategoryID:  category.ID,
		Genres:      genres,
	}
	if err := s.titleRepo.Create(ctx, title); err != nil {
		return nil, err
	}

	created, err := s.titleRepo.GetByID(ctx, title.ID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToTitleResponse(created, nil), nil
}

func (s *titleService) Update(ctx context.Context, id int64, req dto.UpdateTitleRequest) (*dto.TitleResponse, error) {
	existing, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.Year != nil {
		existing.Year = *req.Year
	}
	if req.Description != nil {
		existing.Description = req.Description
	}
	if req.Category != nil {
		category, err := s.categoryRepo.GetBySlug(ctx, *req.Category)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUnknownCategory
			}
			return nil, err
		}
		existing.CategoryID = category.ID
		existing.Category = *category
	}

	if err := s.titleRepo.Update(ctx, existing); err != nil {
		return nil, err
	}

	if req.Genre != nil {
		genres, err := s.resolveGenres(ctx, *req.Genre)
		if err != nil {
			return nil, err
		}
		if err := s.titleRepo.ReplaceGenres(ctx, existing, genres); err != nil {
			return nil, err
		}
	}

	updated, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rating, err := s.reviewRepo.AverageScore(id)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToTitleResponse(updated, rating), nil
}

func (s *titleService) Delete(ctx context.Context, id int64) error {
	err := s.titleRepo.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// resolveGenres maps slugs to genre rows, rejecting the request when any
// slug is unknown.
func (s *titleService) resolveGenres(ctx context.Context, slugs []string) ([]models.Genre, error) {
	genres, err := s.genreRepo.GetBySlugs(ctx, slugs)
	if err != nil {
		return nil, err
	}
	if len(genres) != len(slugs) {
		return nil, ErrUnknownGenre
	}
	return genres, nil
}
