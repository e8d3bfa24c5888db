package config

import (
	"os"
	"strconv"

	"kenrich/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Paths      PathConfig
	Thresholds ThresholdConfig
	Database   DatabaseConfig
}

// PathConfig holds reference data and output locations
type PathConfig struct {
	KEMapFile  string
	KEDescFile string
	OutputDir  string
	StoreDir   string
}

// ThresholdConfig holds the default analysis cutoffs
type ThresholdConfig struct {
	PadjCutoff   float64
	Log2FCCutoff float64
	FDRThreshold float64
}

// DatabaseConfig holds the optional result-store connection. Persistence
// stays file-based unless DATABASE_URL is set.
type DatabaseConfig struct {
	URL string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Paths: PathConfig{
			KEMapFile:  getEnvOrDefault("KE_MAP_FILE", "data/Genes_to_KEs.txt"),
			KEDescFile: getEnvOrDefault("KE_DESC_FILE", "data/ke_descriptions.csv"),
			OutputDir:  getEnvOrDefault("OUTPUT_DIR", "out"),
			StoreDir:   getEnvOrDefault("STORE_DIR", "out/runs"),
		},
		Thresholds: ThresholdConfig{
			PadjCutoff:   getEnvFloatOrDefault("PADJ_CUTOFF", 0.05),
			Log2FCCutoff: getEnvFloatOrDefault("LOG2FC_CUTOFF", 1.0),
			FDRThreshold: getEnvFloatOrDefault("FDR_THRESHOLD", 0.05),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Paths.KEMapFile == "" {
		return errors.ConfigInvalid("KE mapping file path is required")
	}
	if config.Thresholds.PadjCutoff <= 0 || config.Thresholds.PadjCutoff > 1 {
		return errors.ConfigInvalid("PADJ_CUTOFF must be in (0, 1]")
	}
	if config.Thresholds.FDRThreshold <= 0 || config.Thresholds.FDRThreshold > 1 {
		return errors.ConfigInvalid("FDR_THRESHOLD must be in (0, 1]")
	}
	if config.Thresholds.Log2FCCutoff < 0 {
		return errors.ConfigInvalid("LOG2FC_CUTOFF must be >= 0")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
