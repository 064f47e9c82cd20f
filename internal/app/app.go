package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lumina_backend/internal/auth"
	"lumina_backend/internal/config"
	"lumina_backend/internal/handlers"
	"lumina_backend/internal/logger"
	"lumina_backend/internal/middleware"
	"lumina_backend/internal/repositories"
	"lumina_backend/internal/routes"
	"lumina_backend/internal/services"
	"lumina_backend/internal/storage"
	"lumina_backend/internal/validator"
	"lumina_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Deps - внешние зависимости роутера (подменяются в тестах)
type Deps struct {
	Repo    repositories.SubmissionRepository
	Storage storage.Storage
	Clock   services.Clock
}

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env, cfg.Log.Level)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	repo, closeDB, err := openRepository(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize repository", "error", err)
	}
	defer closeDB()

	st, err := newStorage(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	ginRouter := SetupRouter(cfg, Deps{Repo: repo, Storage: st})

	srv := &http.Server{
		Addr:              cfg.Address(),
		Handler:           ginRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info(fmt.Sprintf("🚀 Server starting on %s", cfg.Address()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
}

// SetupRouter собирает сервисы, хэндлеры и gin
func SetupRouter(cfg *config.Config, deps Deps) *gin.Engine {
	apperrors.SetDebug(cfg.Server.Env == "development")

	serviceContainer := services.NewServiceContainer(deps.Repo, deps.Storage, services.UploadConfig{
		MaxFileSize:  cfg.Upload.MaxSize,
		AllowedTypes: cfg.Upload.AllowedTypes,
	}, deps.Clock)

	appHandlers := initializeHandlers(serviceContainer)

	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.TokenTTL())
	ginRouter := initializeGinRouter(cfg, tokens)

	routes.RegisterRoutes(ginRouter, appHandlers)
	return ginRouter
}

func initializeHandlers(services *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		HealthHandler:     handlers.NewHealthHandler(baseHandler, services.ModerationService),
		SubmissionHandler: handlers.NewSubmissionHandler(baseHandler, services.ModerationService),
	}
}

func initializeGinRouter(cfg *config.Config, tokens *auth.TokenManager) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	// Multipart сверх лимита уходит во временные файлы, а не в память
	router.MaxMultipartMemory = 8 << 20
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.IdentityMiddleware(tokens))
	return router
}

// openRepository выбирает реализацию по database.driver
func openRepository(cfg *config.Config) (repositories.SubmissionRepository, func(), error) {
	if cfg.Database.Driver == "memory" {
		logger.Warn("Using in-memory repository: data is lost on restart")
		return repositories.NewMemorySubmissionRepository(), func() {}, nil
	}

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to GORM: %w", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get *sql.DB from GORM: %w", err)
	}
	if err = sqlDB.Ping(); err != nil {
		return nil, nil, fmt.Errorf("database unavailable: %w", err)
	}
	logger.Info("Database connected")

	if cfg.Database.AutoMigrate {
		if err := repositories.AutoMigrate(gormDB); err != nil {
			return nil, nil, fmt.Errorf("auto-migrate: %w", err)
		}
		logger.Info("Database schema migrated")
	}

	return repositories.NewSubmissionRepository(gormDB), func() { sqlDB.Close() }, nil
}

func newStorage(cfg *config.Config) (storage.Storage, error) {
	return storage.NewStorage(storage.Config{
		Type:      cfg.Storage.Type,
		BasePath:  cfg.Storage.BasePath,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Endpoint:  cfg.Storage.Endpoint,
	})
}
