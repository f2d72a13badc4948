package handler

import (
	"errors"
	"net/http"

	"reviewdb/internal/api/dto"
	"reviewdb/internal/api/service"

	"github.com/gin-gonic/gin"
)

type GenreHandler struct {
	genreService service.GenreService
}

func NewGenreHandler(genreService service.GenreService) *GenreHandler {
	return &GenreHandler{genreService: genreService}
}

// List retrieves all genres, optionally filtered by exact name
// GET /api/v1/genres?search=Rock
func (h *GenreHandler) List(c *gin.Context) {
	genres, err := h.genreService.GetAll(c.Request.Context(), c.Query("search"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]dto.GenreResponse, 0, len(genres))
	for i := range genres {
		responses = append(responses, *dto.FromModelToGenreResponse(&genres[i]))
	}
	c.JSON(http.StatusOK, responses)
}

// Create adds a genre (admin only)
// POST /api/v1/genres
func (h *GenreHandler) Create(c *gin.Context) {
	var req dto.CreateGenreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	genre, err := h.genreService.Create(c.Request.Context(), req.Name, req.Slug)
	if err != nil {
		if errors.Is(err, service.ErrSlugInUse) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, dto.FromModelToGenreResponse(genre))
}

// Delete removes a genre by slug (admin only)
// DELETE /api/v1/genres/:slug
func (h *GenreHandler) Delete(c *gin.Context) {
	err := h.genreService.Delete(c.Request.Context(), c.Param("slug"))
	switch {
	case err == nil:
		c.Status(http.StatusNoContent)
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
