// Package api wires handlers, middleware and routes into the HTTP surface.
package api

import (
	"net/http"

	"reviewdb/internal/api/authz"
	"reviewdb/internal/api/handler"
	"reviewdb/internal/api/middleware"
	"reviewdb/internal/api/repository"
	"reviewdb/internal/api/service"
	"reviewdb/internal/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouterConfig carries everything the route table needs.
type RouterConfig struct {
	Config *config.Config
	Logger *zap.Logger

	AuthService service.AuthService
	UserRepo    repository.UserRepository

	AuthHandler     *handler.AuthHandler
	UserHandler     *handler.UserHandler
	CategoryHandler *handler.CategoryHandler
	GenreHandler    *handler.GenreHandler
	TitleHandler    *handler.TitleHandler
	ReviewHandler   *handler.ReviewHandler
	CommentHandler  *handler.CommentHandler
}

// NewRouter builds the Gin engine with the full v1 route table.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(cfg.Config.RateLimitRPS, cfg.Config.RateLimitBurst))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	// Every route sees the actor when a valid token is presented; the
	// permission middleware decides who gets past each verb.
	v1.Use(middleware.OptionalAuth(cfg.AuthService, cfg.UserRepo))

	registerAuthRoutes(v1, cfg)
	registerCatalogRoutes(v1, cfg)
	registerTitleRoutes(v1, cfg)
	registerUserRoutes(v1, cfg)

	return r
}

func registerAuthRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	auth := rg.Group("/auth")
	{
		auth.POST("/email", cfg.AuthHandler.RequestCode)
		auth.POST("/token", cfg.AuthHandler.Token)
		auth.POST("/token/refresh", cfg.AuthHandler.Refresh)
	}
}

func registerCatalogRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	categories := rg.Group("/categories")
	{
		categories.GET("", cfg.CategoryHandler.List)
		categories.POST("",
			middleware.RequirePermission(authz.ResourceCategory, authz.ActionCreate),
			cfg.CategoryHandler.Create)
		categories.DELETE("/:slug",
			middleware.RequirePermission(authz.ResourceCategory, authz.ActionDestroy),
			cfg.CategoryHandler.Delete)
	}

	genres := rg.Group("/genres")
	{
		genres.GET("", cfg.GenreHandler.List)
		genres.POST("",
			middleware.RequirePermission(authz.ResourceGenre, authz.ActionCreate),
			cfg.GenreHandler.Create)
		genres.DELETE("/:slug",
			middleware.RequirePermission(authz.ResourceGenre, authz.ActionDestroy),
			cfg.GenreHandler.Delete)
	}
}

func registerTitleRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	titles := rg.Group("/titles")
	{
		titles.GET("", cfg.TitleHandler.List)
		titles.GET("/:title_id", cfg.TitleHandler.Get)
		titles.POST("",
			middleware.RequirePermission(authz.ResourceTitle, authz.ActionCreate),
			cfg.TitleHandler.Create)
		titles.PATCH("/:title_id",
			middleware.RequirePermission(authz.ResourceTitle, authz.ActionPartialUpdate),
			cfg.TitleHandler.Update)
		titles.DELETE("/:title_id",
			middleware.RequirePermission(authz.ResourceTitle, authz.ActionDestroy),
			cfg.TitleHandler.Delete)
	}

	reviews := rg.Group("/titles/:title_id/reviews")
	{
		reviews.GET("", cfg.ReviewHandler.List)
		reviews.GET("/:review_id", cfg.ReviewHandler.Get)
		reviews.POST("",
			middleware.RequirePermission(authz.ResourceReview, authz.ActionCreate),
			cfg.ReviewHandler.Create)
		reviews.PATCH("/:review_id",
			middleware.RequirePermission(authz.ResourceReview, authz.ActionPartialUpdate),
			cfg.ReviewHandler.Update)
		reviews.DELETE("/:review_id",
			middleware.RequirePermission(authz.ResourceReview, authz.ActionDestroy),
			cfg.ReviewHandler.Delete)
	}

	comments := rg.Group("/titles/:title_id/reviews/:review_id/comments")
	{
		comments.GET("", cfg.CommentHandler.List)
		comments.GET("/:comment_id", cfg.CommentHandler.Get)
		comments.POST("",
			middleware.RequirePermission(authz.ResourceComment, authz.ActionCreate),
			cfg.CommentHandler.Create)
		comments.PATCH("/:comment_id",
			middleware.RequirePermission(authz.ResourceComment, authz.ActionPartialUpdate),
			cfg.CommentHandler.Update)
		comments.DELETE("/:comment_id",
			middleware.RequirePermission(authz.ResourceComment, authz.ActionDestroy),
			cfg.CommentHandler.Delete)
	}
}

func registerUserRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	users := rg.Group("/users")
	{
		// Static "me" wins over the :username wildcard in Gin's tree.
		me := users.Group("/me")
		me.Use(middleware.RequireAuth(cfg.AuthService, cfg.UserRepo))
		{
			me.GET("", cfg.UserHandler.Me)
			me.PATCH("", cfg.UserHandler.UpdateMe)
		}

		users.GET("",
			middleware.RequirePermission(authz.ResourceUser, authz.ActionList),
			cfg.UserHandler.List)
		users.POST("",
			middleware.RequirePermission(authz.ResourceUser, authz.ActionCreate),
			cfg.UserHandler.Create)
		users.GET("/:username",
			middleware.RequirePermission(authz.ResourceUser, authz.ActionRetrieve),
			cfg.UserHandler.Get)
		users.PATCH("/:username",
			middleware.RequirePermission(authz.ResourceUser, authz.ActionPartialUpdate),
			cfg.UserHandler.Update)
		users.DELETE("/:username",
			middleware.RequirePermission(authz.ResourceUser, authz.ActionDestroy),
			cfg.UserHandler.Delete)
	}
}
