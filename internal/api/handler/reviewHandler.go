package handler

import (
	"errors"
	"net/http"

	"reviewdb/internal/api/dto"
	"reviewdb/internal/api/middleware"
	"reviewdb/internal/api/service"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewService service.ReviewService
}

func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// List retrieves all reviews for a title with pagination
// GET /api/v1/titles/:title_id/reviews?page=1&page_size=20
func (h *ReviewHandler) List(c *gin.Context) {
	titleID, ok := paramID(c, "title_id")
	if !ok {
		return
	}

	page, pageSize := pagination(c)

	reviews, err := h.reviewService.List(c.Request.Context(), titleID, page, pageSize)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// Get retrieves a single review
// GET /api/v1/titles/:title_id/reviews/:review_id
func (h *ReviewHandler) Get(c *gin.Context) {
	titleID, ok := paramID(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := paramID(c, "review_id")
	if !ok {
		return
	}

	review, err := h.reviewService.Get(c.Request.Context(), titleID, reviewID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, review)
}

// Create submits a review for a title
// POST /api/v1/titles/:title_id/reviews
func (h *ReviewHandler) Create(c *gin.Context) {
	titleID, ok := paramID(c, "title_id")
	if !ok {
		return
	}

	var req dto.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.reviewService.Create(c.Request.Context(), middleware.Actor(c), titleID, req)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, review)
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrDuplicateReview):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// Update partially updates a review (owner or staff)
// PATCH /api/v1/titles/:title_id/reviews/:review_id
func (h *ReviewHandler) Update(c *gin.Context) {
	titleID, ok := paramID(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := paramID(c, "review_id")
	if !ok {
		return
	}

	var req dto.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.reviewService.Update(c.Request.Context(), middleware.Actor(c), titleID, reviewID, req)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, review)
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// Delete removes a review (moderator/admin only)
// DELETE /api/v1/titles/:title_id/reviews/:review_id
func (h *ReviewHandler) Delete(c *gin.Context) {
	titleID, ok := paramID(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := paramID(c, "review_id")
	if !ok {
		return
	}

	err := h.reviewService.Delete(c.Request.Context(), middleware.Actor(c), titleID, reviewID)
	switch {
	case err == nil:
		c.Status(http.StatusNoContent)
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
