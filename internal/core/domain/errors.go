package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input. Requests
	// failing with this error are rejected before any external call.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyConversation indicates a chat request with no messages.
	// Wraps ErrInvalidInput so transports classify it with errors.Is.
	ErrEmptyConversation = fmt.Errorf("%w: conversation must not be empty", ErrInvalidInput)

	// ErrTemperatureRange indicates a sampling temperature outside [0, 2].
	// Wraps ErrInvalidInput so transports classify it with errors.Is.
	ErrTemperatureRange = fmt.Errorf("%w: temperature must be between 0 and 2", ErrInvalidInput)

	// ErrLLMUnavailable indicates the language model service is not
	// configured or unreachable.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured or unreachable.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorStoreUnavailable indicates the vector store is not
	// configured or unreachable.
	ErrVectorStoreUnavailable = errors.New("vector store unavailable")

	// ErrRetrievalFailed indicates context retrieval failed outright.
	// The orchestrator never proceeds with partial context.
	ErrRetrievalFailed = errors.New("context retrieval failed")

	// ErrGenerationFailed indicates the model provider failed to produce
	// a single-shot answer.
	ErrGenerationFailed = errors.New("response generation failed")
)

// IsUnavailable reports whether err classifies as an external dependency
// being unreachable, letting the transport layer pick a status signal.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrLLMUnavailable) ||
		errors.Is(err, ErrEmbeddingUnavailable) ||
		errors.Is(err, ErrVectorStoreUnavailable) ||
		errors.Is(err, ErrRetrievalFailed) ||
		errors.Is(err, ErrGenerationFailed)
}
