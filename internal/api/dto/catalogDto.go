package dto

import "reviewdb/internal/api/models"

// Categories and genres share the same wire shape: name + unique slug.

type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,max=100"`
	Slug string `json:"slug" binding:"required,max=50,lowercase"`
}

type CategoryResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func FromModelToCategoryResponse(c *models.Category) *CategoryResponse {
	return &CategoryResponse{Name: c.Name, Slug: c.Slug}
}

type CreateGenreRequest struct {
	Name string `json:"name" binding:"required,max=100"`
	Slug string `json:"slug" binding:"required,max=50,lowercase"`
}

type GenreResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func FromModelToGenreResponse(g *models.Genre) *GenreResponse {
	return &GenreResponse{Name: g.Name, Slug: g.Slug}
}
