package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"bookmise/database"
	"bookmise/internal/cache"
	"bookmise/internal/config"
	"bookmise/internal/http-api/handler"
	"bookmise/internal/http-api/middleware"
	"bookmise/internal/http-api/repository"
	"bookmise/internal/http-api/service"
	"bookmise/internal/logging"
	"bookmise/internal/realtime"
	"bookmise/internal/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("could not load config", "error", err)
		os.Exit(1)
	}

	logger := logging.InitLogger(cfg.LogLevel, cfg.LogFormat)

	if cfg.GoEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("could not connect to database", "error", err)
		os.Exit(1)
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Error("invalid redis url", "error", err)
		os.Exit(1)
	}
	if cfg.RedisPassword != "" {
		redisOpts.Password = cfg.RedisPassword
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unreachable, caching and feed events degraded", "error", err)
	}
	pingCancel()

	store, err := storage.NewMinioStore(
		cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey,
		cfg.MinioBucket, cfg.MinioUseSSL,
	)
	if err != nil {
		logger.Error("could not connect to object storage", "error", err)
		os.Exit(1)
	}

	progressCache := cache.NewProgressCache(redisClient, cfg.CacheTTL)
	statsCache := cache.NewStatsCache(redisClient, cfg.CacheTTL)
	feedBroker := realtime.NewFeedBroker(redisClient, logger)

	// repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	bookRepo := repository.NewBookRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	pomodoroRepo := repository.NewPomodoroRepository(db)

	// services
	authService := service.NewAuthService(userRepo, refreshTokenRepo, cfg)
	bookService := service.NewBookService(bookRepo, noteRepo, progressRepo, store, progressCache, statsCache)
	progressService := service.NewProgressService(progressRepo, bookRepo, progressCache, statsCache)
	noteService := service.NewNoteService(noteRepo)
	statsService := service.NewStatsService(bookRepo, progressRepo, statsCache)
	postService := service.NewPostService(postRepo, feedBroker)
	commentService := service.NewCommentService(commentRepo, postRepo)
	pomodoroService := service.NewPomodoroService(pomodoroRepo)

	// handlers
	authHandler := handler.NewAuthHandler(authService)
	bookHandler := handler.NewBookHandler(bookService, cfg.UploadMaxBytes)
	progressHandler := handler.NewProgressHandler(progressService)
	noteHandler := handler.NewNoteHandler(noteService)
	statsHandler := handler.NewStatsHandler(statsService)
	postHandler := handler.NewPostHandler(postService, commentService)
	pomodoroHandler := handler.NewPomodoroHandler(pomodoroService)
	readerHandler := handler.NewReaderHandler(progressService, noteService)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimiter.Middleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	authHandler.RegisterRoutes(api.Group("/auth"))

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(authService))
	bookHandler.RegisterRoutes(authed.Group("/books"))
	progressHandler.RegisterRoutes(authed.Group("/progress"))
	noteHandler.RegisterRoutes(authed.Group("/notes"))
	statsHandler.RegisterRoutes(authed.Group("/profile"))
	postHandler.RegisterRoutes(authed.Group("/posts"))
	postHandler.RegisterCommentRoutes(authed.Group("/comments"))
	pomodoroHandler.RegisterRoutes(authed.Group("/pomodoro"))
	readerHandler.RegisterRoutes(authed.Group("/reader"))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.HTTPPort, "env", cfg.GoEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}
	logger.Info("server stopped")
}
