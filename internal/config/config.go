package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	App struct {
		Port        string
		Debug       bool
		FrontendURL string
	}
	DB struct {
		Host     string
		Port     string
		User     string
		Password string
		DBName   string
		SSLMode  string
	}
	Redis struct {
		Host     string
		Port     string
		Password string
		DB       int
	}
	JWT struct {
		Secret string
	}
	HCPass struct {
		LoginURL string
	}
	Upload struct {
		Dir     string
		BaseURL string
	}
	Workers struct {
		DonationEnabled    bool
		RelocationEnabled  bool
		DonationInterval   time.Duration
		RelocationInterval time.Duration
		// Initial delays stagger the two daily jobs so they never share
		// a trigger window.
		DonationDelay   time.Duration
		RelocationDelay time.Duration
	}
	RateLimit struct {
		RequestsPerSecond int
		Burst             int
	}
}

func Load() *Config {
	cfg := &Config{}

	// App
	cfg.App.Port = getEnv("PORT", "8080")
	cfg.App.Debug = getEnvAsBool("DEBUG", false)
	cfg.App.FrontendURL = getEnv("FRONTEND_URL", "http://localhost:3000")

	// DB
	cfg.DB.Host = getEnv("DB_HOST", "localhost")
	cfg.DB.Port = getEnv("DB_PORT", "5432")
	cfg.DB.User = getEnv("DB_USER", "postgres")
	cfg.DB.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.DB.DBName = getEnv("DB_NAME", "prefeitura")
	cfg.DB.SSLMode = getEnv("DB_SSLMODE", "disable")

	// Redis
	cfg.Redis.Host = getEnv("REDIS_HOST", "localhost")
	cfg.Redis.Port = getEnv("REDIS_PORT", "6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", 0)

	// Auth
	cfg.JWT.Secret = getEnv("JWT_SECRET", "dev-secret-change-me")
	cfg.HCPass.LoginURL = getEnv("HCPASS_LOGIN_URL", "https://hcpass.example.gov.br/api/login")

	// Uploads
	cfg.Upload.Dir = getEnv("UPLOAD_DIR", "./data/uploads")
	cfg.Upload.BaseURL = getEnv("UPLOAD_BASE_URL", "http://localhost:8080/uploads")

	// Workers
	cfg.Workers.DonationEnabled = getEnvAsBool("DONATION_WORKER_ENABLED", true)
	cfg.Workers.RelocationEnabled = getEnvAsBool("RELOCATION_WORKER_ENABLED", true)
	cfg.Workers.DonationInterval = getEnvAsDuration("DONATION_WORKER_INTERVAL", 24*time.Hour)
	cfg.Workers.RelocationInterval = getEnvAsDuration("RELOCATION_WORKER_INTERVAL", 24*time.Hour)
	cfg.Workers.DonationDelay = getEnvAsDuration("DONATION_WORKER_DELAY", 0)
	cfg.Workers.RelocationDelay = getEnvAsDuration("RELOCATION_WORKER_DELAY", 30*time.Minute)

	// Rate Limit
	cfg.RateLimit.RequestsPerSecond = getEnvAsInt("RATE_LIMIT_RPS", 10)
	cfg.RateLimit.Burst = getEnvAsInt("RATE_LIMIT_BURST", 20)

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if dur, err := time.ParseDuration(value); err == nil {
			return dur
		}
	}
	return defaultValue
}
