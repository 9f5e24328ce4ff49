package main

import (
	"esport-events-backend/internal/config"
	"esport-events-backend/internal/repositories"
	"esport-events-backend/internal/services"
	"esport-events-backend/pkg/database"
	"esport-events-backend/pkg/logger"

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
	logrus.Info("Database migrations completed")

	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		logrus.Warn("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin seed")
		return
	}

	// Create default admin user if not exists
	authSvc := services.NewAuthService(repositories.NewRepository(db), cfg)
	admin, created, err := authSvc.EnsureAdmin(cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		logrus.Fatalf("Failed to create default admin: %v", err)
	}

	entry := logrus.WithFields(logrus.Fields{
		"email": admin.Email,
		"role":  admin.Role,
	})
	if created {
		entry.Info("Default admin user created")
	} else {
		entry.Info("Default admin user already exists")
	}
}
