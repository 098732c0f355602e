package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	NodeEnv    string
	Port       string
	JWTSecret  string
	Gemini     GeminiConfig
	Orders     OrdersConfig
	Chat       ChatConfig
	Database   DatabaseConfig
	Backoffice BackofficeConfig
}

// GeminiConfig holds completion-service configuration
type GeminiConfig struct {
	APIKey        string
	Model         string
	MaxConcurrent int
}

// OrdersConfig holds the order-export dataset configuration
type OrdersConfig struct {
	PrimaryPath  string
	FallbackPath string
	MaxAge       time.Duration
}

// ChatConfig holds dialogue defaults; the persisted admin settings
// override these at runtime.
type ChatConfig struct {
	DefaultLanguage string
	Gated           bool
	ResponseLength  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
	Alter    bool
}

// BackofficeConfig holds the XML-RPC order-export source; sync is
// disabled when URL is empty.
type BackofficeConfig struct {
	URL          string
	Username     string
	Password     string
	SyncInterval int // minutes
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	maxAgeMin, _ := strconv.Atoi(getEnv("ORDERS_MAX_AGE_MINUTES", "10"))
	if maxAgeMin <= 0 {
		maxAgeMin = 10
	}
	maxConcurrent, _ := strconv.Atoi(getEnv("GEMINI_MAX_CONCURRENT", "4"))
	syncInterval, _ := strconv.Atoi(getEnv("BACKOFFICE_SYNC_INTERVAL", "60"))

	return &Config{
		NodeEnv:   getEnv("NODE_ENV", "development"),
		Port:      getEnv("PORT", "3000"),
		JWTSecret: jwtSecret,
		Gemini: GeminiConfig{
			APIKey:        os.Getenv("GEMINI_API_KEY"),
			Model:         getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			MaxConcurrent: maxConcurrent,
		},
		Orders: OrdersConfig{
			PrimaryPath:  getEnv("ORDERS_CSV", "@order.csv"),
			FallbackPath: getEnv("ORDERS_CSV_FALLBACK", "order.csv"),
			MaxAge:       time.Duration(maxAgeMin) * time.Minute,
		},
		Chat: ChatConfig{
			DefaultLanguage: getEnv("DEFAULT_LANGUAGE", "English"),
			Gated:           getEnv("CHAT_GATED", "true") == "true",
			ResponseLength:  getEnv("CHAT_RESPONSE_LENGTH", "brief"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("PG_HOST", "localhost"),
			Port:     getEnv("PG_PORT", "5432"),
			Username: getEnv("PG_USERNAME", "postgres"),
			Password: os.Getenv("PG_PASSWORD"),
			Database: getEnv("PG_DATABASE", "esimchat"),
			Alter:    getEnv("DB_ALTER", "false") == "true",
		},
		Backoffice: BackofficeConfig{
			URL:          os.Getenv("BACKOFFICE_URL"),
			Username:     os.Getenv("BACKOFFICE_USERNAME"),
			Password:     os.Getenv("BACKOFFICE_PASSWORD"),
			SyncInterval: syncInterval,
		},
	}, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
