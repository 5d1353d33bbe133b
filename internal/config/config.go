package config

import (
	"os"
	"strconv"

	"prismaflow/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Output OutputConfig
	Review ReviewConfig
}

// OutputConfig holds artifact destination settings
type OutputConfig struct {
	Dir            string
	FilePrefix     string
	TimestampFiles bool
}

// ReviewConfig holds the methodology configuration source
type ReviewConfig struct {
	// ConfigFile optionally points at a JSON methodology config that
	// replaces the built-in default review numbers.
	ConfigFile string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Output: OutputConfig{
			Dir:            getEnvOrDefault("PRISMA_OUTPUT_DIR", "."),
			FilePrefix:     getEnvOrDefault("PRISMA_FILE_PREFIX", "prisma_study_selection"),
			TimestampFiles: getEnvBoolOrDefault("PRISMA_TIMESTAMP_FILES", false),
		},
		Review: ReviewConfig{
			ConfigFile: getEnvOrDefault("PRISMA_CONFIG_FILE", ""),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Output.Dir == "" {
		return errors.ConfigInvalid("output directory is required")
	}
	if config.Output.FilePrefix == "" {
		return errors.ConfigInvalid("file prefix is required")
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

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
