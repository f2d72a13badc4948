package service

import (
	"context"
	"errors"

	"reviewdb/internal/api/models"
	"reviewdb/internal/api/repository"

	"gorm.io/gorm"
)

type GenreService interface {
	GetAll(ctx context.Context, search string) ([]models.Genre, error)
	Create(ctx context.Context, name, slug string) (*models.Genre, error)
	Delete(ctx context.Context, slug string) error
}

type genreService struct {
	repo *repository.GenreRepo
}

func NewGenreService(repo *repository.GenreRepo) GenreService {
	return &genreService{repo: repo}
}

func (s *genreService) GetAll(ctx context.Context, search string) ([]models.Genre, error) {
	return s.repo.GetAll(ctx, search)
}

func (s *genreService) Create(ctx context.Context, name, slug string) (*models.Genre, error) {
	genre := &models.Genre{Name: name, Slug: slug}
	if err := s.repo.Create(ctx, genre); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSlugInUse
		}
		return nil, err
	}
	return genre, nil
}

func (s *genreService) Delete(ctx context.Context, slug string) error {
	err := s.repo.DeleteBySlug(ctx, slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
