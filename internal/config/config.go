package config

import (
	"os"
	"strconv"

	"missingmech/domain/missing"
	"missingmech/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Study  StudyConfig
	Output OutputConfig
}

// StudyConfig holds the demonstration parameters
type StudyConfig struct {
	Rows     int
	Seed     int64
	Fraction float64
	Form     string
	Target   string
	WeightBy string
}

// OutputConfig holds report output settings
type OutputConfig struct {
	Dir       string
	WriteXLSX bool
	WriteHTML bool
	WriteCSV  bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Study: StudyConfig{
			Rows:     getEnvIntOrDefault("STUDY_ROWS", 1000),
			Seed:     getEnvInt64OrDefault("STUDY_SEED", 42),
			Fraction: getEnvFloatOrDefault("STUDY_FRACTION", 0.3),
			Form:     getEnvOrDefault("STUDY_FORM", string(missing.FormLinear)),
			Target:   getEnvOrDefault("STUDY_TARGET", "income"),
			WeightBy: getEnvOrDefault("STUDY_WEIGHT_BY", "age"),
		},
		Output: OutputConfig{
			Dir:       getEnvOrDefault("OUTPUT_DIR", "out"),
			WriteXLSX: getEnvBoolOrDefault("OUTPUT_XLSX", true),
			WriteHTML: getEnvBoolOrDefault("OUTPUT_HTML", true),
			WriteCSV:  getEnvBoolOrDefault("OUTPUT_CSV", false),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Study.Rows < 1 {
		return errors.ConfigInvalid("STUDY_ROWS must be >= 1")
	}
	if config.Study.Fraction < 0 || config.Study.Fraction > 1 {
		return errors.ConfigInvalid("STUDY_FRACTION must be in [0, 1]")
	}
	switch missing.Form(config.Study.Form) {
	case missing.FormLinear, missing.FormQuadratic:
	default:
		return errors.ConfigInvalid("STUDY_FORM must be 'linear' or 'quadratic'")
	}
	if config.Study.Target == "" {
		return errors.ConfigInvalid("STUDY_TARGET is required")
	}
	if config.Study.WeightBy == "" {
		return errors.ConfigInvalid("STUDY_WEIGHT_BY is required")
	}
	if config.Output.Dir == "" {
		return errors.ConfigInvalid("OUTPUT_DIR is required")
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

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
