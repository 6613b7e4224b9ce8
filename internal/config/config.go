package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	Port     string
	DBPath   string
	LogLevel string

	// S3
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3BucketName      string
	S3UseSSL          bool

	// OpenAI
	OpenAIAPIKey string
	OpenAIModel  string

	// Auth
	JWTSecret    string
	JWTExpiresIn time.Duration

	// CORS
	AllowedOrigin string

	// Upload limits
	MaxFileSize int64
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		DBPath:            getEnv("DB_PATH", "data/documents.db"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		S3Endpoint:        getEnv("S3_ENDPOINT", "localhost:9000"),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", "minioadmin"),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", "minioadmin"),
		S3BucketName:      getEnv("S3_BUCKET_NAME", "documents"),
		S3UseSSL:          getEnv("S3_USE_SSL", "false") == "true",
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:       getEnv("OPENAI_MODEL", "gpt-4-turbo-preview"),
		JWTSecret:         getEnv("JWT_SECRET", "dev-secret"),
		AllowedOrigin:     getEnv("ALLOWED_ORIGIN", "*"),
		MaxFileSize:       10 * 1024 * 1024,
	}

	expiresIn := getEnv("JWT_EXPIRES_IN", "168h")
	d, err := time.ParseDuration(expiresIn)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRES_IN %q: %w", expiresIn, err)
	}
	cfg.JWTExpiresIn = d

	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
