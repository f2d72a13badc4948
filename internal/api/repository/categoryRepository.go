package repository

import (
	"context"
	"fmt"

	"reviewdb/internal/api/models"

	"gorm.io/gorm"
)

type CategoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

// GetAll returns categories ordered by name. search, when non-empty, matches
// the name exactly (original API exposes exact-name search on this resource).
func (r *CategoryRepo) GetAll(ctx context.Context, search string) ([]models.Category, error) {
	var list []models.Category
	query := r.db.WithContext(ctx).Order("name asc")
	if search != "" {
		query = query.Where("name = ?", search)
	}
	if err := query.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get categories: %w", err)
	}
	return list, nil
}

func (r *CategoryRepo) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepo) Create(ctx context.Context, c *models.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// DeleteBySlug removes a category. The RESTRICT foreign key on titles makes
// this fail while any title still references the category.
func (r *CategoryRepo) DeleteBySlug(ctx context.Context, slug string) error {
	result := r.db.WithContext(ctx).Where("slug = ?", slug).Delete(&models.Category{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
