package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DBHost        string        `yaml:"db_host"`
	DBPort        string        `yaml:"db_port"`
	DBUser        string        `yaml:"db_user"`
	DBPass        string        `yaml:"db_password"`
	DBName        string        `yaml:"db_name"`
	DBSSLMode     string        `yaml:"db_sslmode"`
	JWTSecret     string        `yaml:"jwt_secret"`
	JWTTTL        time.Duration `yaml:"jwt_ttl"`
	Port          string        `yaml:"port"`
	Env           string        `yaml:"env"`
	UploadDir     string        `yaml:"upload_dir"`
	MaxUploadSize int64         `yaml:"max_upload_size"`
	LogLevel      string        `yaml:"log_level"`
	PublicBaseURL string        `yaml:"public_base_url"`

	// StatusSweepInterval enables the in-process lifecycle sweep when > 0.
	StatusSweepInterval time.Duration `yaml:"status_sweep_interval"`
	EnforceCapacity     bool          `yaml:"enforce_capacity"`

	AdminEmail    string `yaml:"admin_email"`
	AdminPassword string `yaml:"admin_password"`
}

func NewConfigFromEnv() (*Config, error) {
	maxUploadSize, _ := strconv.ParseInt(getenv("MAX_UPLOAD_SIZE", "5242880"), 10, 64)
	jwtTTL, err := time.ParseDuration(getenv("JWT_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	sweepInterval, err := time.ParseDuration(getenv("STATUS_SWEEP_INTERVAL", "0s"))
	if err != nil {
		return nil, fmt.Errorf("invalid STATUS_SWEEP_INTERVAL: %w", err)
	}
	enforceCapacity, _ := strconv.ParseBool(getenv("ENFORCE_CAPACITY", "false"))

	cfg := &Config{
		DBHost:              getenv("DB_HOST", "localhost"),
		DBPort:              getenv("DB_PORT", "5432"),
		DBUser:              getenv("DB_USER", "postgres"),
		DBPass:              getenv("DB_PASSWORD", "postgres"),
		DBName:              getenv("DB_NAME", "esportdb"),
		DBSSLMode:           getenv("DB_SSLMODE", "disable"),
		JWTSecret:           getenv("JWT_SECRET", ""),
		JWTTTL:              jwtTTL,
		Port:                getenv("PORT", "3000"),
		Env:                 getenv("ENV", "development"),
		UploadDir:           getenv("UPLOAD_DIR", "./uploads/images"),
		MaxUploadSize:       maxUploadSize,
		LogLevel:            getenv("LOG_LEVEL", "info"),
		PublicBaseURL:       getenv("PUBLIC_BASE_URL", "http://localhost:3000"),
		StatusSweepInterval: sweepInterval,
		EnforceCapacity:     enforceCapacity,
		AdminEmail:          getenv("ADMIN_EMAIL", "admin@esport.local"),
		AdminPassword:       getenv("ADMIN_PASSWORD", ""),
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// overlayFile applies the non-zero values of a YAML file on top of the
// environment-derived configuration.
func (c *Config) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	overlayString(&c.DBHost, file.DBHost)
	overlayString(&c.DBPort, file.DBPort)
	overlayString(&c.DBUser, file.DBUser)
	overlayString(&c.DBPass, file.DBPass)
	overlayString(&c.DBName, file.DBName)
	overlayString(&c.DBSSLMode, file.DBSSLMode)
	overlayString(&c.JWTSecret, file.JWTSecret)
	overlayString(&c.Port, file.Port)
	overlayString(&c.Env, file.Env)
	overlayString(&c.UploadDir, file.UploadDir)
	overlayString(&c.LogLevel, file.LogLevel)
	overlayString(&c.PublicBaseURL, file.PublicBaseURL)
	overlayString(&c.AdminEmail, file.AdminEmail)
	overlayString(&c.AdminPassword, file.AdminPassword)

	if file.JWTTTL > 0 {
		c.JWTTTL = file.JWTTTL
	}
	if file.MaxUploadSize > 0 {
		c.MaxUploadSize = file.MaxUploadSize
	}
	if file.StatusSweepInterval > 0 {
		c.StatusSweepInterval = file.StatusSweepInterval
	}
	if file.EnforceCapacity {
		c.EnforceCapacity = true
	}
	return nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.MaxUploadSize <= 0 {
		return errors.New("MAX_UPLOAD_SIZE must be positive")
	}
	if c.StatusSweepInterval < 0 {
		return errors.New("STATUS_SWEEP_INTERVAL cannot be negative")
	}
	return nil
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// DSN builds the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		c.DBHost, c.DBPort, c.DBUser, c.DBPass, c.DBName, c.DBSSLMode,
	)
}

func overlayString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

func getenv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
