package driving

import (
	"context"

	"github.com/maestro-chat/maestro/internal/core/domain"
)

// ChatService is the sole entry point for conversational requests. It is
// safe to invoke repeatedly and concurrently.
type ChatService interface {
	// Chat answers the most recent user turn in single-shot mode.
	Chat(ctx context.Context, req domain.ChatRequest) (*domain.ChatResponse, error)

	// ChatStream answers the most recent user turn incrementally. The
	// returned channel delivers envelope events in emission order and is
	// closed after the end-of-stream marker. Input validation failures
	// are returned directly, before any event is produced.
	ChatStream(ctx context.Context, req domain.ChatRequest) (<-chan domain.StreamEvent, error)
}
