package repository

import (
	"database/sql"

	"reviewdb/internal/api/models"

	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(review *models.Review) error
	Update(review *models.Review) error
	Delete(reviewID int64) error
	GetByID(reviewID int64) (*models.Review, error)
	GetByTitle(titleID int64, page, pageSize int) ([]models.Review, int64, error)
	AverageScore(titleID int64) (*float64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create inserts the review. The unique index on (author_id, title_id) makes
// a second review by the same author for the same title fail with
// gorm.ErrDuplicatedKey; callers translate that into the conflict error.
func (r *reviewRepository) Create(review *models.Review) error {
	return r.db.Create(review).Error
}

func (r *reviewRepository) Update(review *models.Review) error {
	return r.db.Save(review).Error
}

func (r *reviewRepository) Delete(reviewID int64) error {
	result := r.db.Delete(&models.Review{}, reviewID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *reviewRepository) GetByID(reviewID int64) (*models.Review, error) {
	var review models.Review
	err := r.db.Where("id = ?", reviewID).
		Preload("Author").
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// GetByTitle retrieves all reviews for a title with pagination
func (r *reviewRepository) GetByTitle(titleID int64, page, pageSize int) ([]models.Review, int64, error) {
	var reviews []models.Review
	var total int64

	if err := r.db.Model(&models.Review{}).Where("title_id = ?", titleID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := r.db.Where("title_id = ?", titleID).
		Preload("Author").
		Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&reviews).Error

	if err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

// AverageScore computes the mean score across the title's reviews. Returns
// nil when the title has no reviews; callers must not coerce that to zero.
func (r *reviewRepository) AverageScore(titleID int64) (*float64, error) {
	var avg sql.NullFloat64

	err := r.db.Model(&models.Review{}).
		Select("AVG(score)").
		Where("title_id = ?", titleID).
		Scan(&avg).Error
	if err != nil {
		return nil, err
	}

	if !avg.Valid {
		return nil, nil
	}
	return &avg.Float64, nil
}
