package main

import (
	"fmt"
	"log"

	"reviewdb/database"
	"reviewdb/internal/api"
	"reviewdb/internal/api/handler"
	"reviewdb/internal/api/repository"
	"reviewdb/internal/api/service"
	"reviewdb/internal/cache"
	"reviewdb/internal/config"
	"reviewdb/internal/mailer"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("could not build logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}

	redisCache, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		logger.Fatal("redis connection failed", zap.Error(err))
	}
	defer redisCache.Close()

	mail := mailer.NewSMTPMailer(mailer.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		From:     cfg.SMTPFrom,
		FromName: cfg.SMTPFromName,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
	})

	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	categoryRepo := repository.NewCategoryRepo(db)
	genreRepo := repository.NewGenreRepo(db)
	titleRepo := repository.NewTitleRepo(db)
	reviewRepo := repository.NewReviewRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	authService := service.NewAuthService(
		userRepo, refreshTokenRepo, mail,
		redisCache, cache.MakeConfirmationThrottleKey, cfg, logger,
	)
	userService := service.NewUserService(userRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	genreService := service.NewGenreService(genreRepo)
	titleService := service.NewTitleService(titleRepo, categoryRepo, genreRepo, reviewRepo)
	reviewService := service.NewReviewService(reviewRepo, titleRepo)
	commentService := service.NewCommentService(commentRepo, reviewRepo)

	router := api.NewRouter(api.RouterConfig{
		Config:      cfg,
		Logger:      logger,
		AuthService: authService,
		UserRepo:    userRepo,

		AuthHandler:     handler.NewAuthHandler(authService, int64(cfg.AccessTokenTTL.Seconds())),
		UserHandler:     handler.NewUserHandler(userService),
		CategoryHandler: handler.NewCategoryHandler(categoryService),
		GenreHandler:    handler.NewGenreHandler(genreService),
		TitleHandler:    handler.NewTitleHandler(titleService),
		ReviewHandler:   handler.NewReviewHandler(reviewService),
		CommentHandler:  handler.NewCommentHandler(commentService),
	})

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.GoEnv))
	if err := router.Run(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}
