package main

import (
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jstyp/storefront-backend/internal/ai"
	"github.com/jstyp/storefront-backend/internal/cache"
	"github.com/jstyp/storefront-backend/internal/config"
	"github.com/jstyp/storefront-backend/internal/database"
	"github.com/jstyp/storefront-backend/internal/dto"
	"github.com/jstyp/storefront-backend/internal/handlers"
	"github.com/jstyp/storefront-backend/internal/jobs"
	"github.com/jstyp/storefront-backend/internal/logging"
	"github.com/jstyp/storefront-backend/internal/middleware"
	"github.com/jstyp/storefront-backend/internal/repository"
	"github.com/jstyp/storefront-backend/internal/routes"
	"github.com/jstyp/storefront-backend/internal/services"
	"github.com/jstyp/storefront-backend/internal/storage"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}
	if cfg.MasterPIN == "" {
		slog.Warn("MASTER_PIN is not set; master login is disabled")
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	logging.Setup(pgLogHandler)

	// Cache: Redis when configured, otherwise in-process
	var appCache cache.Cache = cache.NewMemoryCache()
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			slog.Error("redis connection failed, using in-memory cache", "error", err)
		} else {
			appCache = redisCache
			defer redisCache.Close()
		}
	}

	store, uploadDir, err := newStore(cfg)
	if err != nil {
		slog.Error("blob storage init failed", "driver", cfg.StorageDriver, "error", err)
		os.Exit(1)
	}

	// Repositories
	appRepo := repository.NewAppRepo(database.DB)
	pinRepo := repository.NewPinRepo(database.DB)
	clientRepo := repository.NewClientRepo(database.DB)
	redownloadRepo := repository.NewRedownloadRepo(database.DB)
	teamRepo := repository.NewTeamRepo(database.DB)

	// Login lockout
	clientGuard := middleware.NewBruteForceProtection(appCache, "client_login")
	adminGuard := middleware.NewBruteForceProtection(appCache, "admin_login")

	// Services
	filter := services.NewContentFilter()
	// One bucket for every outbound AI call.
	limiter := ai.NewLimiter(cfg.AIRatePerMinute)
	authService := services.NewAuthService(clientRepo, teamRepo, repository.NewTokenRepo(database.DB), cfg)
	catalogService := services.NewCatalogService(appRepo, pinRepo, redownloadRepo, store, appCache, cfg.CatalogCacheTTL)
	pinService := services.NewPinService(pinRepo, appRepo, clientRepo, cfg.MasterOverridePIN)
	clientService := services.NewClientService(clientRepo)
	appRequestService := services.NewAppRequestService(repository.NewAppRequestRepo(database.DB), filter)
	redownloadService := services.NewRedownloadService(redownloadRepo, appRepo, pinRepo)
	teamService := services.NewTeamService(teamRepo, store)
	websiteService := services.NewWebsiteService(repository.NewWebsiteRepo(database.DB), store, appCache, cfg.CatalogCacheTTL)
	aiService := services.NewAIService(ai.NewChatClient(cfg, limiter), ai.NewImageClient(cfg, limiter), appRepo, filter)
	videoService := services.NewVideoService(repository.NewVideoRepo(database.DB), ai.NewVideoClient(cfg, limiter), store, cfg.VideoMaxPolls)

	// Background jobs
	scheduler := jobs.NewManager()
	for _, job := range []jobs.Job{
		jobs.VideoPollJob(videoService, cfg.VideoPollInterval),
		jobs.LogRetentionJob(database.DB),
	} {
		if err := scheduler.Register(job); err != nil {
			slog.Error("cron registration failed", "error", err)
			os.Exit(1)
		}
	}
	scheduler.Start()

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app; body limit covers base64 image payloads
	app := fiber.New(fiber.Config{
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(middleware.Metrics())
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	routes.Setup(app, cfg, routes.Handlers{
		Health:      handlers.NewHealthHandler(database.Ping, appCache),
		Auth:        handlers.NewAuthHandler(authService, clientGuard, adminGuard),
		Apps:        handlers.NewAppHandler(catalogService, pinService),
		Pins:        handlers.NewPinHandler(pinService),
		Clients:     handlers.NewClientHandler(clientService, pinService),
		Requests:    handlers.NewRequestHandler(appRequestService, redownloadService),
		Team:        handlers.NewTeamHandler(teamService),
		Website:     handlers.NewWebsiteHandler(websiteService),
		AI:          handlers.NewAIHandler(aiService),
		Videos:      handlers.NewVideoHandler(videoService),
		Upload:      handlers.NewUploadHandler(store),
		ClientGuard: clientGuard,
		AdminGuard:  adminGuard,
	}, uploadDir)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "storage", cfg.StorageDriver)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
	scheduler.Stop()
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := database.Close(); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}

// newStore picks the blob backend. The returned directory is non-empty
// only for the local backend, which the server also serves at /uploads.
func newStore(cfg *config.Config) (storage.Store, string, error) {
	switch cfg.StorageDriver {
	case "s3":
		s, err := storage.NewS3Store(storage.S3Config{
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			CDNURL:    cfg.S3CDNURL,
		})
		return s, "", err
	case "memory":
		return storage.NewMemoryStore(cfg.PublicBaseURL + "/uploads"), "", nil
	case "local", "":
		s, err := storage.NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL)
		if err != nil {
			return nil, "", err
		}
		return s, s.Dir(), nil
	default:
		return nil, "", errors.New("unknown STORAGE_DRIVER " + cfg.StorageDriver)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{Error: true, Message: message})
}
