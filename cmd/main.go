package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"draperads/docs/swagger"
	"draperads/internal/api"
	"draperads/internal/auth"
	"draperads/internal/config"
	"draperads/internal/db"
	"draperads/internal/events"
	"draperads/internal/meta"
	"draperads/internal/metrics"
	"draperads/internal/models"
	"draperads/internal/services"
	"draperads/internal/session"
	"draperads/internal/suggest"
	"draperads/internal/tasks"
	"draperads/internal/utils/logger"
)

// 🚀 Main function
// @title DraperAds API
// @version 1.0
// @description Ad builder API: creatives, ad sets, media upload and publishing.
// @host localhost:5000
// @BasePath /
func main() {
	logger := logger.New("draperads")

	// check if .env file exists
	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		logger.Info("No .env file found, skipping environment variable loading")
	} else {
		logger.Info("Loading environment variables from .env file")
		if err := godotenv.Load(); err != nil {
			log.Fatalf("Failed to load environment variables: %v", err)
		}
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := tasks.ValidateSpec(cfg.Session.PruneCron); err != nil {
		log.Fatalf("Invalid SESSION_PRUNE_CRON: %v", err)
	}

	// Connect to database
	if err := db.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	stopTracking := metrics.TrackEvents(events.Default(), events.Lifecycle...)
	defer stopTracking()

	dbInstance := db.GetDB()
	if err := models.SeedCatalog(dbInstance); err != nil {
		logger.Warn("Failed to seed catalog: %v", err)
	}

	sessions, err := session.NewManager(dbInstance, cfg.Session, cfg.Server.IsProduction())
	if err != nil {
		log.Fatalf("Failed to create session manager: %v", err)
	}

	ctx := context.Background()
	deps := api.Deps{
		DB:       dbInstance,
		Sessions: sessions,
		Meta:     meta.NewClient(cfg.Meta, nil),
	}

	// Identity provider
	if cfg.Auth.ClientID != "" && len(cfg.Auth.Domains) > 0 {
		discoveryCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		provider, err := auth.NewProvider(discoveryCtx, cfg.Auth, nil)
		cancel()
		if err != nil {
			logger.Warn("Login is disabled: %v", err)
		} else {
			deps.Identity = provider
			deps.Refresher = provider
			logger.Info("Login enabled for %v", provider.Domains())
		}
	} else {
		logger.Warn("AUTH_CLIENT_ID or AUTH_DOMAINS not set, login is disabled")
	}

	analyzer, err := suggest.NewAnthropic(cfg.AI)
	if err != nil {
		log.Fatalf("Failed to initialize image analyzer: %v", err)
	}
	deps.Analyzer = analyzer

	// Media storage
	switch cfg.Storage.Provider {
	case "s3":
		s3Service, err := services.NewS3Service(ctx, cfg.Storage.S3)
		if err != nil {
			log.Fatalf("Failed to initialize S3 service: %v", err)
		}
		deps.Storage = s3Service
	default:
		local, err := services.NewLocalStorage(cfg.Storage.UploadDir)
		if err != nil {
			log.Fatalf("Failed to initialize upload directory: %v", err)
		}
		deps.Storage = local
		deps.UploadDir = local.Dir()
	}

	// Background tasks
	taskClient := tasks.NewTaskClient(cfg.Redis)
	defer taskClient.Close()
	deps.Redis = taskClient.Redis()
	if err := taskClient.Ping(ctx); err != nil {
		logger.Warn("Redis is unreachable, background tasks will retry: %v", err)
	}

	taskServer := tasks.NewServer(cfg.Redis, tasks.NewTaskHandler(sessions), logger)
	serverCtx, serverCancel := context.WithCancel(ctx)
	defer serverCancel()

	go func() {
		if err := taskServer.Start(serverCtx); err != nil {
			logger.Error("Task server error", err)
		}
	}()

	taskScheduler := tasks.NewScheduler(cfg.Redis, cfg.Session.PruneCron, logger)
	go func() {
		if err := taskScheduler.Start(); err != nil {
			logger.Error("Task scheduler error", err)
		}
	}()

	if err := taskClient.EnqueueSessionPrune(ctx); err != nil {
		logger.Warn("Initial session prune not queued: %v", err)
	}

	// Swagger documentation
	swagger.SwaggerInfo.Title = "DraperAds API Documentation"
	if public, err := url.Parse(cfg.Server.PublicURL); err == nil && public.Host != "" {
		swagger.SwaggerInfo.Host = public.Host
		swagger.SwaggerInfo.Schemes = []string{public.Scheme}
	}

	// Initialize API server
	apiServer, err := api.NewServer(cfg, deps)
	if err != nil {
		log.Fatalf("Failed to create API server: %v", err)
	}
	go func() {
		logger.Success("API server listening on %s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := apiServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("API server error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the servers
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Create a deadline for graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Stop task scheduler
	taskScheduler.Stop()

	// Stop task server
	serverCancel()

	// Shutdown API server
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown API server", err)
	}

	logger.Info("Servers shutdown gracefully")
}
