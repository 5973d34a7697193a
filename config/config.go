package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Env         string
	LogLevel    string
	LogFilePath string
	CORSOrigins string

	BodyLimit          int
	RateLimitPerMinute int
	ShutdownTimeout    time.Duration

	DBDriver          string
	DatabaseURL       string
	DBPath            string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	MirrorDir         string
	ReconcileSchedule string
}

var AppConfig *Config

// Load reads .env (if present) and the process environment into AppConfig
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        GetEnv("PORT", "3000"),
		Env:         GetEnv("ENV", "development"),
		LogLevel:    GetEnv("LOG_LEVEL", "info"),
		LogFilePath: GetEnv("LOG_FILE_PATH", ""),
		CORSOrigins: GetEnv("CORS_ORIGINS", "*"),

		BodyLimit:          GetEnvInt("BODY_LIMIT", 2*1024*1024),
		RateLimitPerMinute: GetEnvInt("RATE_LIMIT_PER_MINUTE", 200),
		ShutdownTimeout:    GetEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		DBDriver:          GetEnv("DB_DRIVER", "postgres"),
		DatabaseURL:       GetEnv("DATABASE_URL", ""),
		DBPath:            GetEnv("DB_PATH", "./data/notes.db"),
		DBMaxOpenConns:    GetEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:    GetEnvInt("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxLifetime: GetEnvDuration("DB_CONN_MAX_LIFETIME", time.Hour),

		MirrorDir:         GetEnv("MIRROR_DIR", "./notes"),
		ReconcileSchedule: os.Getenv("RECONCILE_SCHEDULE"),
	}
	if _, set := os.LookupEnv("RECONCILE_SCHEDULE"); !set {
		cfg.ReconcileSchedule = "@every 5m"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	AppConfig = cfg
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case "postgres":
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when DB_DRIVER=postgres")
		}
	case "sqlite3":
		if c.DBPath == "" {
			return errors.New("DB_PATH is required when DB_DRIVER=sqlite3")
		}
	default:
		return errors.New("DB_DRIVER must be postgres or sqlite3")
	}
	if c.BodyLimit < 0 || c.RateLimitPerMinute < 0 {
		return errors.New("BODY_LIMIT and RATE_LIMIT_PER_MINUTE must not be negative")
	}
	if c.MirrorDir == "" {
		return errors.New("MIRROR_DIR is required")
	}
	return nil
}

// IsProduction reports whether ENV=production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// DataSource returns the DSN for the configured driver
func (c *Config) DataSource() string {
	if c.DBDriver == "sqlite3" {
		return c.DBPath
	}
	return c.DatabaseURL
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetEnvInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}
