package repository

import (
	"context"
	"fmt"

	"reviewdb/internal/api/models"

	"gorm.io/gorm"
)

type GenreRepo struct {
	db *gorm.DB
}

func NewGenreRepo(db *gorm.DB) *GenreRepo {
	return &GenreRepo{db: db}
}

func (r *GenreRepo) GetAll(ctx context.Context, search string) ([]models.Genre, error) {
	var list []models.Genre
	query := r.db.WithContext(ctx).Order("name asc")
	if search != "" {
		query = query.Where("name = ?", search)
	}
	if err := query.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get genres: %w", err)
	}
	return list, nil
}

func (r *GenreRepo) GetBySlug(ctx context.Context, slug string) (*models.Genre, error) {
	var genre models.Genre
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&genre).Error; err != nil {
		return nil, err
	}
	return &genre, nil
}

// GetBySlugs resolves a set of genre slugs to rows, preserving no particular
// order. Callers check len against the request to spot unknown slugs.
func (r *GenreRepo) GetBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error) {
	var list []models.Genre
	if len(slugs) == 0 {
		return list, nil
	}
	if err := r.db.WithContext(ctx).Where("slug IN ?", slugs).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get genres by slugs: %w", err)
	}
	return list, nil
}

func (r *GenreRepo) Create(ctx context.Context, g *models.Genre) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *GenreRepo) DeleteBySlug(ctx context.Context, slug string) error {
	result := r.db.WithContext(ctx).Where("slug = ?", slug).Delete(&models.Genre{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
