package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Окружение
	GoEnv         string
	ServerAddress string
	LogLevel      string

	// База данных
	PostgresConn string

	// Аутентификация
	JWTSecret      string
	AccessTokenTTL time.Duration

	// HTTP
	RequestTimeout time.Duration
	AuthRateLimit  float64
	AuthRateBurst  int

	// Хранилище изображений
	S3Bucket        string
	S3Region        string
	S3Endpoint      string
	S3AccessKey     string
	S3SecretKey     string
	S3PublicBaseURL string
	PresignTTL      time.Duration
}

// Load читает .env (если есть) и переменные окружения
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	c := &Config{}

	loadEnvString(&c.GoEnv, "GO_ENV", "development")
	loadEnvString(&c.ServerAddress, "SERVER_ADDRESS", "0.0.0.0:8080")
	loadEnvString(&c.LogLevel, "LOG_LEVEL", "info")

	if err := loadEnvStringRequired(&c.PostgresConn, "POSTGRES_CONN"); err != nil {
		return nil, err
	}
	if err := loadEnvStringRequired(&c.JWTSecret, "JWT_SECRET"); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&c.AccessTokenTTL, "ACCESS_TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&c.RequestTimeout, "REQUEST_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if err := loadEnvFloat(&c.AuthRateLimit, "AUTH_RATE_LIMIT", 5); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&c.AuthRateBurst, "AUTH_RATE_BURST", 10); err != nil {
		return nil, err
	}

	loadEnvString(&c.S3Bucket, "S3_BUCKET", "")
	loadEnvString(&c.S3Region, "S3_REGION", "us-east-1")
	loadEnvString(&c.S3Endpoint, "S3_ENDPOINT", "")
	loadEnvString(&c.S3AccessKey, "S3_ACCESS_KEY", "")
	loadEnvString(&c.S3SecretKey, "S3_SECRET_KEY", "")
	loadEnvString(&c.S3PublicBaseURL, "S3_PUBLIC_BASE_URL", "")
	if err := loadEnvDuration(&c.PresignTTL, "PRESIGN_TTL", 15*time.Minute); err != nil {
		return nil, err
	}

	return c, nil
}

func loadEnvString(target *string, key, defaultValue string) {
	if value := os.Getenv(key); value != "" {
		*target = value
	} else {
		*target = defaultValue
	}
}

func loadEnvStringRequired(target *string, key string) error {
	value := os.Getenv(key)
	if value == "" {
		return fmt.Errorf("required environment variable %s is not set", key)
	}
	*target = value
	return nil
}

func loadEnvInt(target *int, key string, defaultValue int) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %w", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvFloat(target *float64, key string, defaultValue float64) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid number value for %s: %w", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvDuration(target *time.Duration, key string, defaultValue time.Duration) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration value for %s: %w", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

// Validate проверяет загруженную конфигурацию
func (c *Config) Validate() error {
	var problems []string

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.LogLevel) {
		problems = append(problems, fmt.Sprintf("LOG_LEVEL must be one of: %s", strings.Join(validLogLevels, ", ")))
	}
	if len(c.JWTSecret) < 32 {
		problems = append(problems, "JWT_SECRET should be at least 32 characters long")
	}
	if c.AccessTokenTTL <= 0 {
		problems = append(problems, "ACCESS_TOKEN_TTL must be positive")
	}
	if c.RequestTimeout <= 0 {
		problems = append(problems, "REQUEST_TIMEOUT must be positive")
	}
	if c.AuthRateLimit <= 0 || c.AuthRateBurst <= 0 {
		problems = append(problems, "AUTH_RATE_LIMIT and AUTH_RATE_BURST must be positive")
	}
	if c.S3Bucket != "" && (c.S3AccessKey == "" || c.S3SecretKey == "") {
		problems = append(problems, "S3_ACCESS_KEY and S3_SECRET_KEY are required when S3_BUCKET is set")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// ImagesEnabled - включена ли загрузка изображений в S3
func (c *Config) ImagesEnabled() bool {
	return c.S3Bucket != ""
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
