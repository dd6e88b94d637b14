package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestPromptComposer_Compose tests persona, context and question interpolation
func TestPromptComposer_Compose(t *testing.T) {
	composer := NewPromptComposer("Chinese")

	prompt := composer.Compose("What is democracy?", "observed context", "tocqueville")

	assert.Contains(t, prompt.System, `"Tocqueville Master"`)
	assert.Contains(t, prompt.System, "first person")
	assert.Contains(t, prompt.System, "do not refuse")
	assert.Contains(t, prompt.System, "answer in Chinese")
	assert.Contains(t, prompt.User, "[Context]:\nobserved context")
	assert.Contains(t, prompt.User, "[Question]:\nWhat is democracy?")
}

// TestPromptComposer_Compose_PriorityOrder tests that the behavioural
// rules appear in their strict priority order
func TestPromptComposer_Compose_PriorityOrder(t *testing.T) {
	composer := NewPromptComposer("English")
	prompt := composer.Compose("q", "c", "common")

	identity := strings.Index(prompt.System, "Identity internalisation")
	merging := strings.Index(prompt.System, "Knowledge merging")
	fallback := strings.Index(prompt.System, "General knowledge fallback")
	firstPerson := strings.Index(prompt.System, "first person")
	language := strings.Index(prompt.System, "answer in English")

	assert.Positive(t, identity)
	assert.Greater(t, merging, identity)
	assert.Greater(t, fallback, merging)
	assert.Greater(t, firstPerson, fallback)
	assert.Greater(t, language, firstPerson)
}

// TestPromptComposer_Compose_EmptyContext tests tolerance of zero retrieval
func TestPromptComposer_Compose_EmptyContext(t *testing.T) {
	composer := NewPromptComposer("")

	prompt := composer.Compose("a question", "", "common")

	assert.Contains(t, prompt.User, "[Context]:\n\n")
	assert.Contains(t, prompt.User, "[Question]:\na question")
	assert.NotContains(t, prompt.User, "None")
	assert.NotContains(t, prompt.User, "null")
	assert.NotEmpty(t, prompt.System)
}

// TestPromptComposer_Compose_VerbatimContext tests that context is not
// escaped or truncated
func TestPromptComposer_Compose_VerbatimContext(t *testing.T) {
	composer := NewPromptComposer("Chinese")
	raw := "line one\n---\nline <two> & \"three\""

	prompt := composer.Compose("q", raw, "common")

	assert.Contains(t, prompt.User, raw)
}

// TestPromptComposer_DefaultLanguage tests the configured fallback
func TestPromptComposer_DefaultLanguage(t *testing.T) {
	composer := NewPromptComposer("")
	prompt := composer.Compose("q", "c", "common")
	assert.Contains(t, prompt.System, "answer in "+DefaultLanguage)
}

// TestPromptComposer_CustomTemplates tests PromptStore override
func TestPromptComposer_CustomTemplates(t *testing.T) {
	composer := NewPromptComposer("English")
	composer.SetPromptStore(&mockPromptStore{prompts: map[string]string{
		"persona_system": "persona=%s again=%s lang=%s",
		"user_turn":      "ctx=%s q=%s",
	}})

	prompt := composer.Compose("why", "because", "tocqueville")

	assert.Equal(t, "persona=Tocqueville Master again=Tocqueville Master lang=English", prompt.System)
	assert.Equal(t, "ctx=because q=why", prompt.User)
}

// TestPromptComposer_MissingStorePromptFallsBack tests default templates
// when the store has no entry
func TestPromptComposer_MissingStorePromptFallsBack(t *testing.T) {
	composer := NewPromptComposer("English")
	composer.SetPromptStore(&mockPromptStore{prompts: map[string]string{}})

	prompt := composer.Compose("q", "c", "common")

	assert.Contains(t, prompt.System, `"Common Master"`)
	assert.Contains(t, prompt.User, "[Context]:")
}
