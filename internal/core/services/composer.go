package services

import (
	"fmt"

	"github.com/maestro-chat/maestro/internal/core/domain"
	"github.com/maestro-chat/maestro/internal/core/ports/driven"
)

// DefaultLanguage is the output language when none is configured.
const DefaultLanguage = "Chinese"

// defaultPersonaSystemPrompt is the fallback system template when no
// PromptStore is configured. Placeholders: persona, persona, language.
const defaultPersonaSystemPrompt = `You are a retrieval-grounded master companion. Your task is to portray the designated role and provide precise, insightful answers.

Active persona: "%s"

Core principles, in strict priority order:
1. Identity internalisation: treat the provided [Context] as your own first-hand observations, recollections and written thought as %s. Never use the words "context", "retrieved passage", "document" or "footnote" in your answer.
2. Knowledge merging: prefer the details contained in [Context]. When the context is highly relevant to the question, ground your answer in it and elaborate.
3. General knowledge fallback: when the context is missing or insufficient to answer, do not refuse; draw on your own background knowledge as this persona to give a complete, insightful answer.
4. Speak in the first person throughout, with the persona's perspective, voice and depth.
5. Unless the user requests otherwise, answer in %s.`

// defaultUserTurnPrompt is the fallback user template when no
// PromptStore is configured. Placeholders: context, question.
const defaultUserTurnPrompt = `[Context]:
%s

[Question]:
%s

Answer based on the context above and your persona.`

// PromptComposer builds the instruction pair for one request. The
// context and question strings are interpolated verbatim; the composer
// performs no sanitisation, escaping or truncation, so an over-long
// context surfaces as a generation failure rather than being silently
// cut.
type PromptComposer struct {
	language    string
	promptStore driven.PromptStore
}

// NewPromptComposer creates a composer targeting the deployment's
// primary output language.
func NewPromptComposer(language string) *PromptComposer {
	if language == "" {
		language = DefaultLanguage
	}
	return &PromptComposer{language: language}
}

// SetPromptStore sets the prompt store for loading customisable
// templates. If not set, the composer uses hardcoded defaults.
func (c *PromptComposer) SetPromptStore(store driven.PromptStore) {
	c.promptStore = store
}

// Compose renders the system and user turns for the question. An empty
// context is embedded as-is; the fallback principle in the system turn
// keeps the prompt well-formed without any placeholder text.
func (c *PromptComposer) Compose(question, context string, namespace domain.Namespace) domain.Prompt {
	persona := namespace.Persona()

	return domain.Prompt{
		System: fmt.Sprintf(c.loadPrompt(driven.PromptPersonaSystem, defaultPersonaSystemPrompt),
			persona, persona, c.language),
		User: fmt.Sprintf(c.loadPrompt(driven.PromptUserTurn, defaultUserTurnPrompt),
			context, question),
	}
}

// loadPrompt loads a template from the store, falling back to the default if unavailable.
func (c *PromptComposer) loadPrompt(name, fallback string) string {
	if c.promptStore == nil {
		return fallback
	}
	tmpl, err := c.promptStore.Load(name)
	if err != nil || tmpl == "" {
		return fallback
	}
	return tmpl
}
