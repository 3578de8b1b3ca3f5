package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/elysia/ecocycle/internal/domain"
)

// Config holds application configuration
type Config struct {
	Port              int
	DevMode           bool
	LogLevel          string
	DatabasePath      string
	ReferenceDataPath string // optional TOML overriding the built-in reference data
	SnapshotSchedule  string // cron spec for the fleet snapshot job

	// Scoring configuration. The two weights arbitrate every
	// recommendation and must sum to 1.0.
	FinancialWeight     float64
	EnvironmentalWeight float64

	// Personas above this lag sensitivity are excluded from the
	// refurbished scenario. Strict >, so 2.0 exactly stays eligible.
	LagSensitivityThreshold float64
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:                    getEnvAsInt("PORT", 8080),
		DevMode:                 getEnvAsBool("DEV_MODE", false),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		DatabasePath:            getEnv("DATABASE_PATH", "./data/ecocycle.db"),
		ReferenceDataPath:       getEnv("REFERENCE_DATA_PATH", ""),
		SnapshotSchedule:        getEnv("SNAPSHOT_SCHEDULE", "0 0 3 * * *"), // 3 AM daily
		FinancialWeight:         getEnvAsFloat("FINANCIAL_WEIGHT", 0.5),
		EnvironmentalWeight:     getEnvAsFloat("ENVIRONMENTAL_WEIGHT", 0.5),
		LagSensitivityThreshold: getEnvAsFloat("LAG_SENSITIVITY_THRESHOLD", 2.0),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration before anything computes with it
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return domain.NewValidationError("DATABASE_PATH", "is required")
	}
	if c.LagSensitivityThreshold < 0 {
		return domain.NewValidationError("LAG_SENSITIVITY_THRESHOLD", "must be non-negative")
	}
	return c.Weights().Validate()
}

// Weights returns the configured scoring weights
func (c *Config) Weights() domain.ScoringWeights {
	return domain.ScoringWeights{
		Financial:     c.FinancialWeight,
		Environmental: c.EnvironmentalWeight,
	}
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
