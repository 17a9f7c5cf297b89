// ABOUTME: Centralized configuration for the datastory pipeline
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for an analysis run
type Config struct {
	// OpenAI settings
	OpenAIKey     string
	OpenAIBaseURL string
	ChatModel     string
	Timeout       time.Duration
	MaxRetries    int
	RetryDelay    time.Duration
	RateLimit     float64 // requests per second, 0 disables limiting
	MaxTokens     int

	// Pipeline settings
	MaxRows      int
	QueryTimeout time.Duration
	Concurrency  int
	PromptsPath  string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		ChatModel:     getEnv("DATASTORY_MODEL", "gpt-4o-mini"),
		Timeout:       getEnvDuration("OPENAI_TIMEOUT", 60*time.Second),
		MaxRetries:    getEnvInt("OPENAI_MAX_RETRIES", 3),
		RetryDelay:    getEnvDuration("OPENAI_RETRY_DELAY", 2*time.Second),
		RateLimit:     getEnvFloat("OPENAI_RATE_LIMIT", 2),
		MaxTokens:     getEnvInt("DATASTORY_MAX_TOKENS", 2048),
		MaxRows:       getEnvInt("DATASTORY_MAX_ROWS", 10),
		QueryTimeout:  getEnvDuration("DATASTORY_QUERY_TIMEOUT", 15*time.Second),
		Concurrency:   getEnvInt("DATASTORY_CONCURRENCY", 4),
		PromptsPath:   getEnv("DATASTORY_PROMPTS", DefaultPromptsPath()),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("OPENAI_RATE_LIMIT must be >= 0, got %f", c.RateLimit)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("DATASTORY_MAX_TOKENS must be positive, got %d", c.MaxTokens)
	}
	if c.MaxRows <= 0 {
		return fmt.Errorf("DATASTORY_MAX_ROWS must be positive, got %d", c.MaxRows)
	}
	if c.Concurrency < 1 || c.Concurrency > 64 {
		return fmt.Errorf("DATASTORY_CONCURRENCY must be 1-64, got %d", c.Concurrency)
	}
	return nil
}

// DefaultPromptsPath returns the XDG location of the optional prompt override file
func DefaultPromptsPath() string {
	return filepath.Join(xdg.ConfigHome, "datastory", "prompts.yaml")
}

// LoadPromptOverrides reads a YAML map of stage name to template text.
// A missing file is not an error and yields no overrides.
func LoadPromptOverrides(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts file: %w", err)
	}

	var overrides map[string]string
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse prompts file %s: %w", path, err)
	}
	return overrides, nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
