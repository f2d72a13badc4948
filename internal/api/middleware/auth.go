package middleware

import (
	"net/http"
	"strings"

	"reviewdb/internal/api/authz"
	"reviewdb/internal/api/models"
	"reviewdb/internal/api/repository"
	"reviewdb/internal/api/service"

	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

// Actor returns the authenticated user resolved by RequireAuth/OptionalAuth,
// or nil for an anonymous request.
func Actor(c *gin.Context) *models.User {
	if v, exists := c.Get(actorKey); exists {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// RequireAuth validates the Bearer token and loads the user row behind it.
// Loading from the store (instead of trusting the role claim) means role
// changes apply immediately, without waiting for token expiry.
func RequireAuth(authService service.AuthService, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := resolveActor(c, authService, userRepo)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing token"})
			c.Abort()
			return
		}

		c.Set(actorKey, user)
		c.Set("userID", user.ID)
		c.Next()
	}
}

// OptionalAuth resolves an actor when a valid token is present, and lets the
// request through anonymously otherwise. Used on public read routes so that
// handlers still know who is asking.
func OptionalAuth(authService service.AuthService, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, ok := resolveActor(c, authService, userRepo); ok {
			c.Set(actorKey, user)
			c.Set("userID", user.ID)
		}
		c.Next()
	}
}

func resolveActor(c *gin.Context, authService service.AuthService, userRepo repository.UserRepository) (*models.User, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	// Expected format: "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}

	claims, err := authService.ValidateToken(parts[1])
	if err != nil {
		return nil, false
	}

	user, err := userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, false
	}

	return user, true
}

// RequirePermission gates a route by the static authorization table. An
// anonymous request gets 401, an authenticated one with the wrong role 403;
// neither response says more than that.
func RequirePermission(resource authz.Resource, action authz.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := Actor(c)
		if authz.Allowed(actor, resource, action) {
			c.Next()
			return
		}

		if actor == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		} else {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		}
		c.Abort()
	}
}
