package driven

import (
	"context"

	"github.com/maestro-chat/maestro/internal/core/domain"
)

// LLMService drives the language model provider.
//
// Implementations may include:
//   - Gemini (generateContent / streamGenerateContent)
//   - OpenAI-compatible APIs (chat completions)
//
// Implementations must be safe for concurrent use. Per-request sampling
// configuration travels in CompleteOptions; a shared client field is
// never mutated between calls.
type LLMService interface {
	// Complete sends the prompt and blocks until the full answer is
	// produced.
	Complete(ctx context.Context, prompt domain.Prompt, opts CompleteOptions) (string, error)

	// StreamComplete sends the prompt and returns a lazy, single-pass
	// sequence of text fragments in provider emission order. The content
	// channel is closed when the stream ends; a failure is delivered on
	// the error channel, which is also closed afterwards. Cancelling ctx
	// stops consumption promptly and releases the provider connection.
	StreamComplete(ctx context.Context, prompt domain.Prompt, opts CompleteOptions) (<-chan string, <-chan error)

	// ModelName returns the name of the chat model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// CompleteOptions configures one generation call.
type CompleteOptions struct {
	// Temperature controls randomness for this call only. Nil means the
	// provider's configured default.
	Temperature *float64

	// MaxTokens is the maximum number of tokens to generate. Zero means
	// the provider default.
	MaxTokens int
}
