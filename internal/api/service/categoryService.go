package service

import (
	"context"
	"errors"

	"reviewdb/internal/api/models"
	"reviewdb/internal/api/repository"

	"gorm.io/gorm"
)

type CategoryService interface {
	GetAll(ctx context.Context, search string) ([]models.Category, error)
	Create(ctx context.Context, name, slug string) (*models.Category, error)
	Delete(ctx context.Context, slug string) error
}

type categoryService struct {
	repo *repository.CategoryRepo
}

func NewCategoryService(repo *repository.CategoryRepo) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) GetAll(ctx context.Context, search string) ([]models.Category, error) {
	return s.repo.GetAll(ctx, search)
}

func (s *categoryService) Create(ctx context.Context, name, slug string) (*models.Category, error) {
	category := &models.Category{Name: name, Slug: slug}
	if err := s.repo.Create(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSlugInUse
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Delete(ctx context.Context, slug string) error {
	err := s.repo.DeleteBySlug(ctx, slug)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		// PROTECT semantics: titles still reference this category.
		return ErrCategoryInUse
	default:
		return err
	}
}
