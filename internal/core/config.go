package core

import (
	"fmt"
	"os"
	"strconv"

	"envirocheck/pkg/schema"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	LogLevel     string  `yaml:"log_level"`     // debug, info, warn, error
	DataDir      string  `yaml:"data_dir"`      // Regulation store directory
	Seed         string  `yaml:"seed"`          // Default dataset seed
	Samples      int     `yaml:"samples"`       // Default sample columns per parameter
	SafetyMargin float64 `yaml:"safety_margin"` // Warning threshold as a fraction of the limit
	AnalyticsURL string  `yaml:"analytics_url"` // Empty disables forecasting
}

const (
	defaultLogLevel = "info"
	defaultDataDir  = ".envirocheck"
	defaultSeed     = "enviro-2024"
	defaultSamples  = 3
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:     defaultLogLevel,
		DataDir:      defaultDataDir,
		Seed:         defaultSeed,
		Samples:      defaultSamples,
		SafetyMargin: schema.DefaultSafetyMargin,
	}
}

// LoadConfig loads configuration from an optional YAML file named by
// ENVIROCHECK_CONFIG, then from environment variables, which take precedence.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	if path := os.Getenv("ENVIROCHECK_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", cfg.LogLevel)

	// DEBUG flag overrides log level
	if os.Getenv("DEBUG") == "1" {
		cfg.LogLevel = "debug"
	}

	cfg.DataDir = getEnvOrDefault("ENVIROCHECK_DATA_DIR", cfg.DataDir)
	cfg.Seed = getEnvOrDefault("ENVIROCHECK_SEED", cfg.Seed)
	cfg.AnalyticsURL = getEnvOrDefault("ENVIROCHECK_ANALYTICS_URL", cfg.AnalyticsURL)

	if v := os.Getenv("ENVIROCHECK_SAMPLES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, &ValidationError{Field: "ENVIROCHECK_SAMPLES", Message: "must be an integer", Err: err}
		}
		cfg.Samples = n
	}

	if v := os.Getenv("ENVIROCHECK_SAFETY_MARGIN"); v != "" {
		m, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, &ValidationError{Field: "ENVIROCHECK_SAFETY_MARGIN", Message: "must be a number", Err: err}
		}
		cfg.SafetyMargin = m
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the ranges the generator and assessor accept.
func (c *Config) Validate() error {
	if err := schema.ValidateSampleCount(c.Samples); err != nil {
		return &ValidationError{Field: "samples", Message: err.Error(), Err: err}
	}
	if !(c.SafetyMargin > 0 && c.SafetyMargin <= 1) {
		return &ValidationError{Field: "safety_margin", Message: "must be in (0, 1]"}
	}
	if c.DataDir == "" {
		return &ValidationError{Field: "data_dir", Message: "is required"}
	}
	return nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return &ValidationError{Field: "config", Message: fmt.Sprintf("invalid YAML in %s", path), Err: err}
	}
	return nil
}

// getEnvOrDefault returns the value of an environment variable or a default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
