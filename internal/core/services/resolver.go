package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/maestro-chat/maestro/internal/core/domain"
	"github.com/maestro-chat/maestro/internal/core/ports/driven"
	"github.com/maestro-chat/maestro/internal/logger"
)

// RoutingMode selects how a request is mapped to a namespace.
type RoutingMode string

// Routing modes. Direct is the default: one character maps to one
// namespace deterministically, with no extra model round-trip. Query
// routing classifies the question content instead and is opt-in.
const (
	RoutingDirect RoutingMode = "direct"
	RoutingQuery  RoutingMode = "query"
)

// routerTemperature pins classification sampling to deterministic.
var routerTemperature = 0.0

// defaultRouterPrompt is the fallback template when no PromptStore is
// configured. Placeholders: namespace list, default namespace, question.
const defaultRouterPrompt = `You are a top-tier analysis assistant. Classify the user's question and decide which knowledge namespace it should be answered from.
Return ONLY the single most relevant namespace name, with no other text or explanation.
If the question spans several domains or is unclear, return '%s'.

Available namespaces: %s

Question: "%s"

Most relevant namespace:`

// NamespaceResolver maps requests to knowledge partitions. Resolution
// never fails: anything unrecognised falls back to the configured
// default, with the fallback reported through the logger.
type NamespaceResolver struct {
	namespaces  domain.NamespaceSet
	llm         driven.LLMService
	promptStore driven.PromptStore
}

// NewNamespaceResolver creates a resolver over the configured namespace
// set. The LLM service is only used by query routing and may be nil when
// only direct routing is in play.
func NewNamespaceResolver(namespaces domain.NamespaceSet, llm driven.LLMService) *NamespaceResolver {
	return &NamespaceResolver{
		namespaces: namespaces,
		llm:        llm,
	}
}

// SetPromptStore sets the prompt store for loading the router template.
// If not set, the resolver uses the hardcoded default prompt.
func (r *NamespaceResolver) SetPromptStore(store driven.PromptStore) {
	r.promptStore = store
}

// ResolveDirect maps a caller-supplied character identifier to a
// namespace. Unknown characters resolve to the default.
func (r *NamespaceResolver) ResolveDirect(character string) domain.Namespace {
	ns := domain.CanonicalNamespace(character)
	if r.namespaces.Contains(ns) {
		return ns
	}
	logger.Warn("character %q is not a configured namespace, falling back to %q",
		character, r.namespaces.Default())
	return r.namespaces.Default()
}

// ResolveByQuery classifies the question content into a namespace with a
// deterministic model call. Any failure, including an unreachable model
// or an unrecognised reply, resolves to the default.
func (r *NamespaceResolver) ResolveByQuery(ctx context.Context, question string) domain.Namespace {
	if r.llm == nil {
		logger.Warn("query routing requested without an LLM service, falling back to %q",
			r.namespaces.Default())
		return r.namespaces.Default()
	}

	prompt := domain.Prompt{
		User: fmt.Sprintf(r.routerTemplate(),
			r.namespaces.Default(),
			strings.Join(r.namespaces.Names(), ", "),
			question),
	}

	reply, err := r.llm.Complete(ctx, prompt, driven.CompleteOptions{
		Temperature: &routerTemperature,
		MaxTokens:   32,
	})
	if err != nil {
		logger.Warn("namespace classification failed (%v), falling back to %q",
			err, r.namespaces.Default())
		return r.namespaces.Default()
	}

	ns := domain.CanonicalNamespace(reply)
	if r.namespaces.Contains(ns) {
		return ns
	}
	logger.Warn("namespace classification returned %q, falling back to %q",
		reply, r.namespaces.Default())
	return r.namespaces.Default()
}

// routerTemplate loads the router prompt, falling back to the default.
func (r *NamespaceResolver) routerTemplate() string {
	if r.promptStore == nil {
		return defaultRouterPrompt
	}
	tmpl, err := r.promptStore.Load(driven.PromptRouter)
	if err != nil || tmpl == "" {
		return defaultRouterPrompt
	}
	return tmpl
}
