package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/maestro-chat/maestro/internal/core/domain"
	"github.com/maestro-chat/maestro/internal/core/ports/driven"
	"github.com/maestro-chat/maestro/internal/logger"
)

// StreamErrorCode identifies a mid-stream provider failure in the error
// envelope.
const StreamErrorCode = "STREAM_ERROR"

// ResponseGenerator drives the language model in single-shot or
// incremental mode and wraps the output in normalized envelopes. The
// sampling temperature travels with every call; the shared client is
// never reconfigured between requests.
type ResponseGenerator struct {
	llm driven.LLMService

	// now is swappable for tests.
	now func() time.Time
}

// NewResponseGenerator creates a generator over the shared model client.
func NewResponseGenerator(llm driven.LLMService) *ResponseGenerator {
	return &ResponseGenerator{
		llm: llm,
		now: time.Now,
	}
}

// newResponseID builds a globally unique response identifier carrying a
// short namespace prefix, e.g. "toc-9303a5a3-...".
func newResponseID(namespace domain.Namespace) string {
	return fmt.Sprintf("%s-%s", namespace.IDPrefix(), uuid.New())
}

// GenerateOnce sends the prompt synchronously and wraps the full answer
// into one envelope. Usage counters are zero-filled when the provider
// does not report them; they are never estimated.
func (g *ResponseGenerator) GenerateOnce(
	ctx context.Context,
	prompt domain.Prompt,
	namespace domain.Namespace,
	temperature *float64,
) (*domain.ChatResponse, error) {
	content, err := g.llm.Complete(ctx, prompt, driven.CompleteOptions{Temperature: temperature})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGenerationFailed, err)
	}

	return &domain.ChatResponse{
		Result: domain.ResponseResult{
			Message: domain.ResponseMessage{
				Role:    domain.RoleAssistant,
				Content: content,
			},
			FinishReason: domain.FinishReasonStop,
		},
		Usage:   domain.TokenUsage{},
		Created: g.now().Unix(),
		ID:      newResponseID(namespace),
	}, nil
}

// GenerateStream produces the envelope sequence for one incremental
// response: an opening chunk announcing the assistant role, one chunk
// per provider fragment in emission order, a closing chunk with the
// finish reason, a usage chunk, then the end-of-stream marker. On any
// mid-stream failure it emits exactly one error event followed by the
// marker; the sequence is never left open. The returned channel is
// unbuffered, so the generator never runs ahead of the consumer, and it
// is closed after the marker.
func (g *ResponseGenerator) GenerateStream(
	ctx context.Context,
	prompt domain.Prompt,
	namespace domain.Namespace,
	temperature *float64,
) <-chan domain.StreamEvent {
	out := make(chan domain.StreamEvent)

	go func() {
		defer close(out)

		id := newResponseID(namespace)
		created := g.now().Unix()

		chunk := func(result *domain.StreamResult, usage *domain.TokenUsage) *domain.StreamChunk {
			return &domain.StreamChunk{Result: result, Usage: usage, Created: created, ID: id}
		}

		// Opening chunk: establishes the identifier and role.
		if !g.emit(ctx, out, domain.StreamEvent{Chunk: chunk(&domain.StreamResult{
			Delta: domain.StreamDelta{Role: domain.RoleAssistant, Content: ""},
		}, nil)}) {
			return
		}

		contentCh, errCh := g.llm.StreamComplete(ctx, prompt, driven.CompleteOptions{Temperature: temperature})

		for contentCh != nil || errCh != nil {
			select {
			case <-ctx.Done():
				// Consumer is gone; stop iterating the provider promptly.
				logger.Debug("stream %s cancelled: %v", id, ctx.Err())
				return

			case fragment, ok := <-contentCh:
				if !ok {
					contentCh = nil
					continue
				}
				if !g.emit(ctx, out, domain.StreamEvent{Chunk: chunk(&domain.StreamResult{
					Delta: domain.StreamDelta{Content: fragment},
				}, nil)}) {
					return
				}

			case err, ok := <-errCh:
				if !ok {
					errCh = nil
					continue
				}
				if err != nil {
					logger.Error("stream %s failed: %v", id, err)
					g.emit(ctx, out, domain.StreamEvent{Err: &domain.ErrorDetail{
						Code:    StreamErrorCode,
						Message: err.Error(),
					}})
					g.emit(ctx, out, domain.StreamEvent{Done: true})
					return
				}
			}
		}

		// Closing chunk: finish reason.
		finish := domain.FinishReasonStop
		if !g.emit(ctx, out, domain.StreamEvent{Chunk: chunk(&domain.StreamResult{
			Delta:        domain.StreamDelta{Content: ""},
			FinishReason: &finish,
		}, nil)}) {
			return
		}

		// Usage chunk: zero-filled, never estimated.
		if !g.emit(ctx, out, domain.StreamEvent{Chunk: chunk(nil, &domain.TokenUsage{})}) {
			return
		}

		g.emit(ctx, out, domain.StreamEvent{Done: true})
	}()

	return out
}

// emit delivers one event unless the consumer has gone away.
func (g *ResponseGenerator) emit(ctx context.Context, out chan<- domain.StreamEvent, ev domain.StreamEvent) bool {
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
