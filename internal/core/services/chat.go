package services

import (
	"context"

	"github.com/maestro-chat/maestro/internal/core/domain"
	"github.com/maestro-chat/maestro/internal/core/ports/driving"
	"github.com/maestro-chat/maestro/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// ChatService orchestrates one conversational request end to end:
// validation, namespace resolution, context retrieval, prompt
// composition and generation dispatch. It holds no mutable state of its
// own and is safe for concurrent use.
type ChatService struct {
	resolver  *NamespaceResolver
	retriever *Retriever
	composer  *PromptComposer
	generator *ResponseGenerator
	routing   RoutingMode

	defaultTemp *float64
}

// NewChatService wires the pipeline components together. An empty or
// unknown routing mode falls back to direct resolution.
func NewChatService(
	resolver *NamespaceResolver,
	retriever *Retriever,
	composer *PromptComposer,
	generator *ResponseGenerator,
	routing RoutingMode,
) *ChatService {
	if routing != RoutingQuery {
		routing = RoutingDirect
	}
	return &ChatService{
		resolver:  resolver,
		retriever: retriever,
		composer:  composer,
		generator: generator,
		routing:   routing,
	}
}

// SetDefaultTemperature sets the sampling temperature applied when a
// request does not carry its own.
func (s *ChatService) SetDefaultTemperature(temp *float64) {
	s.defaultTemp = temp
}

// temperature picks the request override or the configured default.
func (s *ChatService) temperature(req domain.ChatRequest) *float64 {
	if req.Temperature != nil {
		return req.Temperature
	}
	return s.defaultTemp
}

// prepare runs the shared front half of both modes: validation (before
// any external call), resolution, retrieval and composition.
func (s *ChatService) prepare(ctx context.Context, req domain.ChatRequest) (domain.Prompt, domain.Namespace, error) {
	if err := req.Validate(); err != nil {
		return domain.Prompt{}, "", err
	}

	question, err := domain.LastUserMessage(req.Messages)
	if err != nil {
		return domain.Prompt{}, "", err
	}

	var namespace domain.Namespace
	switch s.routing {
	case RoutingQuery:
		namespace = s.resolver.ResolveByQuery(ctx, question)
	default:
		namespace = s.resolver.ResolveDirect(req.Character)
	}
	logger.Debug("resolved namespace %q for character %q", namespace, req.Character)

	contextBlock, err := s.retriever.Retrieve(ctx, namespace, question)
	if err != nil {
		return domain.Prompt{}, "", err
	}

	return s.composer.Compose(question, contextBlock, namespace), namespace, nil
}

// Chat answers the most recent user turn in single-shot mode.
func (s *ChatService) Chat(ctx context.Context, req domain.ChatRequest) (*domain.ChatResponse, error) {
	prompt, namespace, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.generator.GenerateOnce(ctx, prompt, namespace, s.temperature(req))
}

// ChatStream answers the most recent user turn incrementally. Validation
// and retrieval failures are returned directly; once the stream starts,
// failures surface as an error envelope followed by the end-of-stream
// marker.
func (s *ChatService) ChatStream(ctx context.Context, req domain.ChatRequest) (<-chan domain.StreamEvent, error) {
	prompt, namespace, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.generator.GenerateStream(ctx, prompt, namespace, s.temperature(req)), nil
}
