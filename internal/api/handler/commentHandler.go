package handler

import (
	"errors"
	"net/http"

	"reviewdb/internal/api/dto"
	"reviewdb/internal/api/middleware"
	"reviewdb/internal/api/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// List retrieves all comments on a review with pagination
// GET /api/v1/titles/:title_id/reviews/:review_id/comments
func (h *CommentHandler) List(c *gin.Context) {
	titleID, ok := paramID(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := paramID(c, "review_id")
	if !ok {
		return
	}

	page, pageSize := pagination(c)

	comments, err := h.commentService.List(c.Request.Context(), titleID, reviewID, page, pageSize)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, comments)
}

// Get retrieves a single comment
// GET /api/v1/titles/:title_id/reviews/:review_id/comments/:comment_id
func (h *CommentHandler) Get(c *gin.Context) {
	titleID, ok := paramID(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := paramID(c, "review_id")
	if !ok {
		return
	}
	commentID, ok := paramID(c, "comment_id")
	if !ok {
		return
	}

	comment, err := h.commentService.Get(c.Request.Context(), titleID, reviewID, commentID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, comment)
}

// Create posts a comment on a review
// POST /api/v1/titles/:title_id/reviews/:review_id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	titleID, ok := paramID(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := paramID(c, "review_id")
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.commentService.Create(c.Request.Context(), middleware.Actor(c), titleID, reviewID, req)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, comment)
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// Update partially updates a comment (owner or staff)
// PATCH /api/v1/titles/:title_id/reviews/:review_id/comments/:comment_id
func (h *CommentHandler) Update(c *gin.Context) {
	titleID, ok := paramID(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := paramID(c, "review_id")
	if !ok {
		return
	}
	commentID, ok := paramID(c, "comment_id")
	if !ok {
		return
	}

	var req dto.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.commentService.Update(c.Request.Context(), middleware.Actor(c), titleID, reviewID, commentID, req)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, comment)
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// Delete removes a comment (moderator/admin only)
// DELETE /api/v1/titles/:title_id/reviews/:review_id/comments/:comment_id
func (h *CommentHandler) Delete(c *gin.Context) {
	titleID, ok := paramID(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := paramID(c, "review_id")
	if !ok {
		return
	}
	commentID, ok := paramID(c, "comment_id")
	if !ok {
		return
	}

	err := h.commentService.Delete(c.Request.Context(), middleware.Actor(c), titleID, reviewID, commentID)
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
