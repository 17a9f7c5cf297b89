// ABOUTME: Shared helpers for CLI commands
// ABOUTME: Logger setup, generator construction, and output formatting
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/harper/datastory/internal/config"
	"github.com/harper/datastory/internal/llm"
)

// newLogger builds the stderr console logger. Reports go to stdout, so
// logs never interleave with them.
func newLogger(w io.Writer, verbose, quiet bool) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case verbose:
		level = slog.LevelDebug
	case quiet:
		level = slog.LevelError
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if s, ok := a.Value.Any().(string); ok && s == "" {
				return slog.Attr{}
			}
			return a
		},
	}))
}

// loadConfig reads .env and the environment
func loadConfig() (*config.Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded", "error", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// newGenerator builds the OpenAI-backed stages, applying any prompt
// overrides found at cfg.PromptsPath
func newGenerator(cfg *config.Config) (*llm.Stages, error) {
	client, err := llm.NewOpenAIClientWithConfig(&llm.ClientConfig{
		APIKey:     cfg.OpenAIKey,
		BaseURL:    cfg.OpenAIBaseURL,
		ChatModel:  cfg.ChatModel,
		Timeout:    cfg.Timeout,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		RateLimit:  cfg.RateLimit,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing OpenAI client: %w", err)
	}

	overrides, err := config.LoadPromptOverrides(cfg.PromptsPath)
	if err != nil {
		return nil, err
	}
	prompts, err := llm.DefaultPrompts().Override(overrides)
	if err != nil {
		return nil, fmt.Errorf("applying prompt overrides from %s: %w", cfg.PromptsPath, err)
	}
	if len(overrides) > 0 {
		logger.Debug("prompt overrides applied", "path", cfg.PromptsPath, "count", len(overrides))
	}

	return llm.NewStages(client, prompts, cfg.MaxTokens)
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	fmt.Fprintf(w, "%s\n", data)
	return nil
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// validatePositiveInt returns error if n is not positive
func validatePositiveInt(n int, name string) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}
