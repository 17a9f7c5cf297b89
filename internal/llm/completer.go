// ABOUTME: Completer is the opaque text-generation capability the pipeline consumes
// ABOUTME: Implemented by OpenAIClient in production and by fakes in tests
package llm

import "context"

// CompletionRequest is one prompt-in, text-out call
type CompletionRequest struct {
	Stage       string // stage name, for logging
	Prompt      string
	Temperature float32
	MaxTokens   int
}

// Completer generates text for a rendered prompt
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// CompleterFunc adapts a function to the Completer interface
type CompleterFunc func(ctx context.Context, req CompletionRequest) (string, error)

// Complete calls f
func (f CompleterFunc) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	return f(ctx, req)
}
