package handler

import (
	"errors"
	"net/http"

	"reviewdb/internal/api/dto"
	"reviewdb/internal/api/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService    service.AuthService
	accessTokenTTL int64 // seconds, echoed in token responses
}

func NewAuthHandler(authService service.AuthService, accessTokenTTLSeconds int64) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		accessTokenTTL: accessTokenTTLSeconds,
	}
}

// RequestCode emails a confirmation code to an existing account.
// POST /api/v1/auth/email
func (h *AuthHandler) RequestCode(c *gin.Context) {
	var req dto.EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.authService.RequestCode(c.Request.Context(), req.Email)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, dto.EmailResponse{Email: req.Email})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrTooManyCodeRequests):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	default:
		// Includes mail delivery failures; nothing to retry here.
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not send confirmation code"})
	}
}

// Token exchanges an (email, confirmation code) pair for tokens.
// POST /api/v1/auth/token
func (h *AuthHandler) Token(c *gin.Context) {
	var req dto.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	accessToken, refreshToken, err := h.authService.ExchangeCode(c.Request.Context(), req.Email, req.ConfirmationCode)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    h.accessTokenTTL,
	})
}

// Refresh trades a refresh token for a new access token.
// POST /api/v1/auth/token/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	accessToken, err := h.authService.RefreshAccessToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}

	c.JSON(http.StatusOK, dto.RefreshResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   h.accessTokenTTL,
	})
}
