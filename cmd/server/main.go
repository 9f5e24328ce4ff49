package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"esport-events-backend/internal/config"
	"esport-events-backend/internal/handlers"
	"esport-events-backend/internal/repositories"
	"esport-events-backend/internal/services"
	"esport-events-backend/internal/utils"
	"esport-events-backend/pkg/database"
	"esport-events-backend/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logrus.Warnf(".env file not found: %v", err)
	}

	// Load configuration
	cfg, err := config.NewConfigFromEnv()
	if err != nil {
		logrus.Fatalf("Config error: %v", err)
	}

	// Initialize logger
	logger.Init(cfg.LogLevel, cfg.Env)

	// Initialize database
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		logrus.Fatalf("Database connection error: %v", err)
	}

	// Run migrations
	if err := repositories.AutoMigrate(db); err != nil {
		logrus.Fatalf("Migration error: %v", err)
	}

	// Create upload directory
	if err := os.MkdirAll(cfg.UploadDir, 0755); err != nil {
		logrus.Fatalf("Failed to create upload directory: %v", err)
	}

	// Initialize repositories
	repo := repositories.NewRepository(db)

	// Initialize services
	authSvc := services.NewAuthService(repo, cfg)
	imageSvc := services.NewImageService(repo, cfg, utils.NewDiskStore(cfg.UploadDir))
	eventSvc := services.NewEventService(repo, cfg, imageSvc)
	participationSvc := services.NewParticipationService(repo, cfg)
	commentSvc := services.NewCommentService(repo)
	lifecycleSvc := services.NewLifecycleService(repo)

	// Initialize handlers
	handler := handlers.NewHandler(authSvc, eventSvc, participationSvc, commentSvc, imageSvc, lifecycleSvc, cfg)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:               "Esport Events API",
		ErrorHandler:          handlers.ErrorHandler,
		BodyLimit:             int(cfg.MaxUploadSize) * 10,
		DisableStartupMessage: cfg.IsProduction(),
	})

	// Global middlewares
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.Middleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Static file serving
	app.Static(services.UploadURLPrefix, cfg.UploadDir)

	// Register routes
	api := app.Group("/api/v1")
	handler.RegisterRoutes(api)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.StatusSweepInterval > 0 {
		go runStatusSweep(ctx, lifecycleSvc, cfg.StatusSweepInterval)
	}

	// Start server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		logrus.Infof("Server starting on %s", addr)
		if err := app.Listen(addr); err != nil {
			logrus.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")
	cancel()

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logrus.Fatalf("Server shutdown error: %v", err)
	}
	logrus.Info("Server stopped gracefully")
}

// runStatusSweep applies the event lifecycle on a fixed interval until ctx is
// cancelled. A failed run is logged and retried on the next tick.
func runStatusSweep(ctx context.Context, lifecycle *services.LifecycleService, interval time.Duration) {
	logrus.WithField("interval", interval.String()).Info("status sweep enabled")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := lifecycle.UpdateAll(); err != nil {
				logrus.WithError(err).Error("status sweep failed")
			}
		}
	}
}
