package repository

import (
	"context"

	"reviewdb/internal/api/models"

	"gorm.io/gorm"
)

// TitleFilter narrows List results. Zero values mean "no filter".
type TitleFilter struct {
	Name         string // substring, case-insensitive
	CategorySlug string // exact
	GenreSlug    string // exact
	Year         int    // exact
}

type TitleRepo struct {
	db *gorm.DB
}

func NewTitleRepo(db *gorm.DB) *TitleRepo {
	return &TitleRepo{db: db}
}

func (r *TitleRepo) List(ctx context.Context, filter TitleFilter, page, pageSize int) ([]models.Title, int64, error) {
	var list []models.Title
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Title{})

	if filter.Name != "" {
		query = query.Where("titles.name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.Year != 0 {
		query = query.Where("titles.year = ?", filter.Year)
	}
	if filter.CategorySlug != "" {
		query = query.Joins("JOIN categories ON categories.id = titles.category_id").
			Where("categories.slug = ?", filter.CategorySlug)
	}
	if filter.GenreSlug != "" {
		query = query.Joins("JOIN title_genres tg ON tg.title_id = titles.id").
			Joins("JOIN genres ON genres.id = tg.genre_id").
			Where("genres.slug = ?", filter.GenreSlug)
	}

	if err := query.Distinct("titles.id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.
		Preload("Category").
		Preload("Genres").
		Order("titles.id asc").
		Limit(pageSize).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (r *TitleRepo) GetByID(ctx context.Context, id int64) (*models.Title, error) {
	var title models.Title
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Genres").
		First(&title, "titles.id = ?", id).Error; err != nil {
		return nil, err
	}
	return &title, nil
}

func (r *TitleRepo) Create(ctx context.Context, t *models.Title) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TitleRepo) Update(ctx context.Context, t *models.Title) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: false}).Save(t).Error
}

// ReplaceGenres swaps the title's genre set for the given rows.
func (r *TitleRepo) ReplaceGenres(ctx context.Context, t *models.Title, genres []models.Genre) error {
	return r.db.WithContext(ctx).Model(t).Association("Genres").Replace(genres)
}

func (r *TitleRepo) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Title{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
