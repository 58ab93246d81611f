// Package config loads application settings from an optional .env file and
// the environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Environment variables read by Load.
const (
	EnvAPIURL      = "GITHUB_API_URL"
	EnvLogLevel    = "LOG_LEVEL"
	EnvConcurrency = "GITHUB_ACTIVITY_CONCURRENCY"
)

const (
	defaultAPIURL      = "https://api.github.com/"
	defaultConcurrency = 4
)

// Config holds the settings of a run. Command-line flags may override them.
type Config struct {
	APIURL      string
	LogLevel    logrus.Level
	Concurrency int
}

// Load reads .env from the working directory if present, then the
// environment. Variables already set in the environment win over .env.
func Load() (*Config, error) {
	return LoadFiles(".env")
}

// LoadFiles is Load with explicit dotenv files. Missing files are ignored.
func LoadFiles(filenames ...string) (*Config, error) {
	for _, f := range filenames {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cfg := &Config{
		APIURL:      getEnv(EnvAPIURL, defaultAPIURL),
		LogLevel:    logrus.InfoLevel,
		Concurrency: defaultConcurrency,
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		level, err := logrus.ParseLevel(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvLogLevel, err)
		}
		cfg.LogLevel = level
	}

	if v := os.Getenv(EnvConcurrency); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: must be a positive integer", EnvConcurrency, v)
		}
		if err := ValidateConcurrency(n); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvConcurrency, err)
		}
		cfg.Concurrency = n
	}

	return cfg, nil
}

// ValidateConcurrency rejects limits below one.
func ValidateConcurrency(n int) error {
	if n < 1 {
		return fmt.Errorf("concurrency must be a positive integer, got %d", n)
	}
	return nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
