package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir       string
	PortfolioPath string
	SettingsPath  string
	CachePath     string
	HistoryDir    string
	SnapshotsPath string
	LogLevel      string
	LogFile       string
	RiskFreeRate  float64
	Port          int
	DevMode       bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("DATA_DIR", "./data")

	cfg := &Config{
		DataDir:       dataDir,
		PortfolioPath: getEnv("PORTFOLIO_PATH", filepath.Join(dataDir, "portfolio.json")),
		SettingsPath:  getEnv("SETTINGS_PATH", filepath.Join(dataDir, "config.json")),
		CachePath:     getEnv("PRICE_CACHE_PATH", filepath.Join(dataDir, "cache", "prices.json")),
		HistoryDir:    getEnv("HISTORY_DIR", filepath.Join(dataDir, "history")),
		SnapshotsPath: getEnv("SNAPSHOTS_DB_PATH", filepath.Join(dataDir, "snapshots.db")),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFile:       getEnv("LOG_FILE", ""),
		RiskFreeRate:  getEnvAsFloat("RISK_FREE_RATE", 0.0),
		Port:          getEnvAsInt("PORT", 8040),
		DevMode:       getEnvAsBool("DEV_MODE", false),
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("DATA_DIR is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.RiskFreeRate < 0 {
		return fmt.Errorf("RISK_FREE_RATE must not be negative, got %f", c.RiskFreeRate)
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
