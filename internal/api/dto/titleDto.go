package dto

import "reviewdb/internal/api/models"

// CreateTitleRequest references category and genres by slug, matching the
// original wire format.
type CreateTitleRequest struct {
	Name        string   `json:"name" binding:"required,max=200"`
	Year        int      `json:"year" binding:"required"`
	Description *string  `json:"description"`
	Category    string   `json:"category" binding:"required"`
	Genre       []string `json:"genre"`
}

// UpdateTitleRequest: partial update, nil fields untouched.
type UpdateTitleRequest struct {
	Name        *string   `json:"name" binding:"omitempty,max=200"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Genre       *[]string `json:"genre"`
}

// TitleResponse carries the derived rating: nil (JSON null) when the title
// has no reviews, never zero.
type TitleResponse struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Year        int              `json:"year"`
	Rating      *float64         `json:"rating"`
	Description *string          `json:"description,omitempty"`
	Genres      []GenreResponse  `json:"genre"`
	Category    CategoryResponse `json:"category"`
}

func FromModelToTitleResponse(t *models.Title, rating *float64) *TitleResponse {
	genres := make([]GenreResponse, 0, len(t.Genres))
	for i := range t.Genres {
		genres = append(genres, *FromModelToGenreResponse(&t.Genres[i]))
	}

	return &TitleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Rating:      rating,
		Description: t.Description,
		Genres:      genres,
		Category:    *FromModelToCategoryResponse(&t.Category),
	}
}

// PaginatedTitleResponse for title listings
type PaginatedTitleResponse struct {
	Data       []TitleResponse `json:"data"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	Total      int             `json:"total"`
	TotalPages int             `json:"total_pages"`
}

func NewPaginatedTitleResponse(data []TitleResponse, total, page, pageSize int) *PaginatedTitleResponse {
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}

	return &PaginatedTitleResponse{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
