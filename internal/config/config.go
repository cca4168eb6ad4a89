// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir        string        // Base directory for the NAV cache database (always absolute)
	Port           int           // HTTP listen port
	LogLevel       string        // debug, info, warn, error
	DevMode        bool          // Disables response compression, enables verbose output
	CORSOrigins    []string      // Allowed CORS origins ("*" by default)
	ProviderURL    string        // Base URL of the NAV data provider
	APITimeout     time.Duration // Timeout for upstream provider requests
	NAVCacheTTL    time.Duration // TTL for cached NAV series
	SearchCacheTTL time.Duration // TTL for the cached online fund list
	RiskFreeRate   float64       // Annual risk-free rate used by risk metrics (fraction, e.g. 0.06)
	WorkerCount    int           // Bounded worker pool size for multi-fund simulation
	SIPDayOfMonth  int           // Nominal day of month for SIP contributions
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("SIP_DATA_DIR", "./data")
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:        absDataDir,
		Port:           getEnvAsInt("APP_PORT", 5000),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DevMode:        getEnvAsBool("DEV_MODE", false),
		CORSOrigins:    getEnvAsSlice("CORS_ORIGINS", []string{"*"}),
		ProviderURL:    getEnv("MFAPI_BASE_URL", "https://api.mfapi.in"),
		APITimeout:     time.Duration(getEnvAsInt("API_TIMEOUT", 30)) * time.Second,
		NAVCacheTTL:    time.Duration(getEnvAsInt("CACHE_DURATION", 3600)) * time.Second,
		SearchCacheTTL: time.Duration(getEnvAsInt("SEARCH_CACHE_DURATION", 86400)) * time.Second,
		RiskFreeRate:   getEnvAsFloat("RISK_FREE_RATE", 0.06),
		WorkerCount:    getEnvAsInt("SIM_WORKERS", 4),
		SIPDayOfMonth:  getEnvAsInt("SIP_DAY_OF_MONTH", 1),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present and sane
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.WorkerCount <= 0 {
		return fmt.Errorf("worker count must be positive, got %d", c.WorkerCount)
	}
	if c.SIPDayOfMonth < 1 || c.SIPDayOfMonth > 31 {
		return fmt.Errorf("SIP day of month must be in [1,31], got %d", c.SIPDayOfMonth)
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

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
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

func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
