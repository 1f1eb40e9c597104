package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Firebase FirebaseConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Notify   NotifyConfig
	App      AppConfig
}

type ServerConfig struct {
	Port        string
	CORSOrigins []string
}

type FirebaseConfig struct {
	CredentialsPath string
	ProjectID       string
	// WebAPIKey is required for password sign-in through the Identity
	// Toolkit REST endpoint; the Admin SDK cannot verify passwords.
	WebAPIKey string
}

type DatabaseConfig struct {
	DSN            string
	MigrationsPath string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type NotifyConfig struct {
	AWSRegion   string
	FromEmail   string
	FromName    string
	MaxAttempts int
	RatePerSec  float64
}

type AppConfig struct {
	Environment     string
	LogLevel        string
	Version         string
	ProviderTimeout time.Duration
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			CORSOrigins: []string{
				getEnv("CORS_ORIGIN", "http://localhost:5173"),
				getEnv("CORS_ORIGIN_ALT", "http://localhost:5174"),
			},
		},
		Firebase: FirebaseConfig{
			CredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
			ProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
			WebAPIKey:       getEnv("FIREBASE_WEB_API_KEY", ""),
		},
		Database: DatabaseConfig{
			DSN:            getEnv("DB_DSN", ""),
			MigrationsPath: getEnv("DB_MIGRATIONS_PATH", "migrations"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Notify: NotifyConfig{
			AWSRegion:   getEnv("AWS_REGION", "eu-north-1"),
			FromEmail:   getEnv("NOTIFY_FROM_EMAIL", ""),
			FromName:    getEnv("NOTIFY_FROM_NAME", "Domuus"),
			MaxAttempts: getEnvAsInt("NOTIFY_MAX_ATTEMPTS", 5),
			RatePerSec:  getEnvAsFloat("NOTIFY_RATE_PER_SEC", 5),
		},
		App: AppConfig{
			Environment:     getEnv("APP_ENV", "development"),
			LogLevel:        getEnv("LOG_LEVEL", "info"),
			Version:         getEnv("APP_VERSION", "1.0.0"),
			ProviderTimeout: getEnvAsDuration("PROVIDER_TIMEOUT", 10*time.Second),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Firebase.CredentialsPath == "" {
		return fmt.Errorf("FIREBASE_CREDENTIALS_PATH is required")
	}

	if c.Firebase.WebAPIKey == "" {
		return fmt.Errorf("FIREBASE_WEB_API_KEY is required")
	}

	if c.Database.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}
