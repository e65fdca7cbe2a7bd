package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	ServerHost string
	ServerPort string

	DBDriver string
	DBDSN    string

	// Korea Investment & Securities OpenAPI credentials
	KISBaseURL   string
	KISAppKey    string
	KISAppSecret string

	JWTSecret      string
	TokenExpiry    time.Duration
	NewsCacheTTL   time.Duration
	LogLevel       string
	AllowedOrigins string
}

func Load() (*Config, error) {
	appKey := os.Getenv("KIS_APP_KEY")
	if appKey == "" {
		return nil, fmt.Errorf("KIS_APP_KEY environment variable is required")
	}

	appSecret := os.Getenv("KIS_APP_SECRET")
	if appSecret == "" {
		return nil, fmt.Errorf("KIS_APP_SECRET environment variable is required")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		return nil, fmt.Errorf("DB_DSN environment variable is required")
	}

	tokenExpiry, err := time.ParseDuration(getEnvOrDefault("TOKEN_EXPIRY", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_EXPIRY: %w", err)
	}

	newsCacheTTL, err := time.ParseDuration(getEnvOrDefault("NEWS_CACHE_TTL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("invalid NEWS_CACHE_TTL: %w", err)
	}

	return &Config{
		ServerHost:     getEnvOrDefault("SERVER_HOST", "localhost"),
		ServerPort:     getEnvOrDefault("SERVER_PORT", "8080"),
		DBDriver:       getEnvOrDefault("DB_DRIVER", "postgres"),
		DBDSN:          dsn,
		KISBaseURL:     getEnvOrDefault("KIS_BASE_URL", "https://openapi.koreainvestment.com:9443"),
		KISAppKey:      appKey,
		KISAppSecret:   appSecret,
		JWTSecret:      jwtSecret,
		TokenExpiry:    tokenExpiry,
		NewsCacheTTL:   newsCacheTTL,
		LogLevel:       getEnvOrDefault("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvOrDefault("ALLOWED_ORIGINS", "http://localhost:5173"),
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
