// ABOUTME: OpenAI chat-completion client implementing the Completer interface
// ABOUTME: Adds per-call timeouts, rate limiting, and bounded retry with backoff
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/harper/datastory/internal/util"
	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

const (
	// DefaultChatModel is the default model for chat completions
	DefaultChatModel = openai.GPT4oMini

	// go-openai omits a zero temperature from the request, which the API
	// reads as its default of 1.0
	minTemperature float32 = 0.0001
)

// ClientConfig holds configuration for the OpenAI client
type ClientConfig struct {
	APIKey     string
	BaseURL    string
	ChatModel  string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
	RateLimit  float64 // requests per second; 0 means unlimited
	Logger     *slog.Logger
}

// DefaultConfig returns the default client configuration
func DefaultConfig(apiKey string) *ClientConfig {
	return &ClientConfig{
		APIKey:     apiKey,
		ChatModel:  DefaultChatModel,
		Timeout:    60 * time.Second,
		MaxRetries: 3,
		RetryDelay: 2 * time.Second,
		RateLimit:  2,
	}
}

// chatAPI is the slice of the go-openai client used here
type chatAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIClient wraps the OpenAI API client with retry logic
type OpenAIClient struct {
	client     chatAPI
	chatModel  string
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
	limiter    *rate.Limiter
	log        *slog.Logger
}

// NewOpenAIClient creates a new OpenAI client with the given API key using default configuration
func NewOpenAIClient(apiKey string) (*OpenAIClient, error) {
	return NewOpenAIClientWithConfig(DefaultConfig(apiKey))
}

// NewOpenAIClientWithConfig creates a new OpenAI client with custom configuration
func NewOpenAIClientWithConfig(config *ClientConfig) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	oaiConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		oaiConfig.BaseURL = config.BaseURL
	}

	return newClient(openai.NewClientWithConfig(oaiConfig), config), nil
}

func newClient(api chatAPI, config *ClientConfig) *OpenAIClient {
	model := config.ChatModel
	if model == "" {
		model = DefaultChatModel
	}
	log := config.Logger
	if log == nil {
		log = slog.Default()
	}
	retries := config.MaxRetries
	if retries < 0 {
		retries = 0
	}

	return &OpenAIClient{
		client:     api,
		chatModel:  model,
		timeout:    config.Timeout,
		maxRetries: retries,
		retryDelay: config.RetryDelay,
		limiter:    newLimiter(config.RateLimit),
		log:        log,
	}
}

func newLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	burst := int(math.Ceil(perSecond))
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

// Complete sends a single-message prompt and returns the response text.
// Transient failures are retried; exhausting retries is an error.
func (c *OpenAIClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	temperature := req.Temperature
	if temperature < minTemperature {
		temperature = minTemperature
	}

	chatReq := openai.ChatCompletionRequest{
		Model: c.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: req.Prompt,
			},
		},
		Temperature: temperature,
		MaxTokens:   req.MaxTokens,
	}

	op := func() (string, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", backoff.Permanent(fmt.Errorf("rate limiter: %w", err))
		}

		callCtx := ctx
		if c.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}

		start := time.Now()
		resp, err := c.client.CreateChatCompletion(callCtx, chatReq)
		if err != nil {
			c.log.Warn("completion failed", "stage", req.Stage, "duration", time.Since(start), "error", err)
			if isPermanent(err) {
				return "", backoff.Permanent(err)
			}
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", errors.New("no completion choices returned")
		}

		c.log.Debug("completion finished",
			"stage", req.Stage,
			"duration", time.Since(start),
			"finish_reason", resp.Choices[0].FinishReason,
			"tokens", resp.Usage.TotalTokens)
		return strings.TrimSpace(resp.Choices[0].Message.Content), nil
	}

	content, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(util.NewExponentialBackOff(c.retryDelay)),
		backoff.WithMaxTries(uint(c.maxRetries+1)))
	if err != nil {
		return "", fmt.Errorf("completion for %s stage: %w", req.Stage, err)
	}
	return content, nil
}

// isPermanent reports API errors that retrying will not fix
func isPermanent(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
			return true
		}
	}
	return false
}
