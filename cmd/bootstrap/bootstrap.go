package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"family-health-dashboard/config"
	"family-health-dashboard/internal/dashboard"
	deliveryHttp "family-health-dashboard/internal/delivery/http"
	"family-health-dashboard/internal/delivery/http/handler"
	"family-health-dashboard/internal/delivery/http/middleware"
	"family-health-dashboard/internal/infrastructure/blob"
	"family-health-dashboard/internal/infrastructure/cache"
	"family-health-dashboard/internal/infrastructure/database"
	"family-health-dashboard/internal/repository"
	"family-health-dashboard/internal/service"
	"family-health-dashboard/internal/usecase"
	"family-health-dashboard/pkg/jwt"
	"family-health-dashboard/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Feed        *service.ChangeFeed
	Registry    *dashboard.Registry
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	setupLogger(cfg.Log)
	logrus.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	if err := database.Migrate(db); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	logrus.Info("Database migrated successfully")

	// Initialize Redis
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	// Initialize change feed
	feed, err := newChangeFeed(ctx, cfg.Feed, redisClient)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to start change feed: %w", err)
	}
	app.Feed = feed
	logrus.Infof("Change feed started over %s", cfg.Feed.Transport)

	// Initialize all layers
	if err := app.initializeServer(cfg, db, redisClient, feed); err != nil {
		app.Close()
		return nil, err
	}

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(cfg config.LogConfig) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

func newChangeFeed(ctx context.Context, cfg config.FeedConfig, redisClient *redis.Client) (*service.ChangeFeed, error) {
	log := logrus.StandardLogger()

	var notifier service.Notifier
	switch cfg.Transport {
	case "", "redis":
		notifier = service.NewRedisNotifier(redisClient, log)
	case "memory":
		notifier = service.NewMemoryNotifier()
	default:
		return nil, fmt.Errorf("unsupported feed transport %q", cfg.Transport)
	}

	feed := service.NewChangeFeed(notifier, log)
	if err := feed.Start(ctx); err != nil {
		feed.Stop()
		return nil, err
	}
	return feed, nil
}

// initializeServer creates and configures the HTTP server
func (app *App) initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, feed *service.ChangeFeed) error {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize blob store
	blobStore, err := blob.NewLocalStore(cfg.Blob)
	if err != nil {
		return fmt.Errorf("failed to prepare blob store: %w", err)
	}

	// Initialize repositories
	profileRepo := repository.NewProfileRepository()
	recordRepo := repository.NewRecordRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)

	// Initialize usecases
	sessionUsecase := usecase.NewSessionUsecase(db, log, cfg.App.DeploymentID, jwtService, redisClient, auditService)
	profileUsecase := usecase.NewProfileUsecase(db, log, profileRepo, auditService, feed)
	recordQueryUsecase := usecase.NewRecordQueryUsecase(db, log, recordRepo)
	mutationUsecase := usecase.NewMutationUsecase(db, log, profileRepo, recordRepo, auditService, feed, blobStore)
	exportUsecase := usecase.NewExportUsecase(log)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Initialize dashboards
	registry := dashboard.NewRegistry(dashboard.Deps{
		Sessions:  sessionUsecase,
		Profiles:  profileUsecase,
		Records:   recordQueryUsecase,
		Mutations: mutationUsecase,
		Exports:   exportUsecase,
		Feed:      feed,
		Log:       log,
	}, cfg.Session.IdleTimeout)
	registry.Start()
	app.Registry = registry

	// Initialize handlers
	sessionHandler := handler.NewSessionHandler(sessionUsecase, registry, log)
	dashboardHandler := handler.NewDashboardHandler(customValidator)
	profileHandler := handler.NewProfileHandler(customValidator)
	recordHandler := handler.NewRecordHandler(customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)
	prescriptionHandler := handler.NewPrescriptionHandler(blobStore, log)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, sessionUsecase, registry, log)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigins)

	// Initialize router
	router := deliveryHttp.NewRouter(
		sessionHandler,
		dashboardHandler,
		profileHandler,
		recordHandler,
		auditLogHandler,
		prescriptionHandler,
		authMiddleware,
		corsMiddleware,
		blobStore.URLPath(),
	)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	app.Server = &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return nil
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close stops dashboards and the change feed, then closes the database and redis.
func (app *App) Close() {
	if app.Registry != nil {
		app.Registry.Stop()
	}

	if app.Feed != nil {
		app.Feed.Stop()
	}

	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
