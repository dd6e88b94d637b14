package services

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maestro-chat/maestro/internal/core/domain"
	"github.com/maestro-chat/maestro/internal/logger"
)

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	m.Run()
}

// TestNamespaceResolver_ResolveDirect tests direct character mapping
func TestNamespaceResolver_ResolveDirect(t *testing.T) {
	resolver := NewNamespaceResolver(testNamespaces(), nil)

	tests := []struct {
		name      string
		character string
		want      domain.Namespace
	}{
		{name: "known namespace", character: "tocqueville", want: "tocqueville"},
		{name: "uppercase input", character: "TOCQUEVILLE", want: "tocqueville"},
		{name: "surrounding whitespace", character: "  tocqueville  ", want: "tocqueville"},
		{name: "mixed case and whitespace", character: " Tocqueville\t", want: "tocqueville"},
		{name: "unknown character falls back", character: "nonexistent-school", want: "common"},
		{name: "empty character falls back", character: "", want: "common"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolver.ResolveDirect(tt.character))
		})
	}
}

// TestNamespaceResolver_ResolveDirect_CaseInsensitiveEquivalence tests
// that inputs differing only in case or whitespace resolve identically
func TestNamespaceResolver_ResolveDirect_CaseInsensitiveEquivalence(t *testing.T) {
	resolver := NewNamespaceResolver(testNamespaces(), nil)

	variants := []string{"tocqueville", "Tocqueville", "TOCQUEVILLE", " tocqueville ", "\ttocqueville\n"}
	want := resolver.ResolveDirect(variants[0])
	for _, v := range variants {
		assert.Equal(t, want, resolver.ResolveDirect(v), "variant %q", v)
	}
}

// TestNamespaceResolver_ResolveByQuery tests LLM-based classification
func TestNamespaceResolver_ResolveByQuery(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
		want  domain.Namespace
	}{
		{name: "valid classification", reply: "tocqueville", want: "tocqueville"},
		{name: "reply needs canonicalising", reply: "  Tocqueville\n", want: "tocqueville"},
		{name: "unknown reply falls back", reply: "durkheim", want: "common"},
		{name: "empty reply falls back", reply: "", want: "common"},
		{name: "model failure falls back", err: errors.New("connection refused"), want: "common"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &mockLLM{reply: tt.reply, completeErr: tt.err}
			resolver := NewNamespaceResolver(testNamespaces(), llm)

			got := resolver.ResolveByQuery(context.Background(), "What did you observe about democracy?")
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestNamespaceResolver_ResolveByQuery_DeterministicSampling tests that
// classification pins temperature to zero
func TestNamespaceResolver_ResolveByQuery_DeterministicSampling(t *testing.T) {
	llm := &mockLLM{reply: "tocqueville"}
	resolver := NewNamespaceResolver(testNamespaces(), llm)

	resolver.ResolveByQuery(context.Background(), "a question")

	require.NotNil(t, llm.lastOpts.Temperature)
	assert.Zero(t, *llm.lastOpts.Temperature)
	assert.Contains(t, llm.lastPrompt.User, "tocqueville, common")
	assert.Contains(t, llm.lastPrompt.User, "a question")
}

// TestNamespaceResolver_ResolveByQuery_NilLLM tests fallback without a model
func TestNamespaceResolver_ResolveByQuery_NilLLM(t *testing.T) {
	resolver := NewNamespaceResolver(testNamespaces(), nil)
	assert.Equal(t, domain.Namespace("common"), resolver.ResolveByQuery(context.Background(), "anything"))
}

// TestNamespaceResolver_CustomRouterPrompt tests PromptStore override
func TestNamespaceResolver_CustomRouterPrompt(t *testing.T) {
	llm := &mockLLM{reply: "common"}
	resolver := NewNamespaceResolver(testNamespaces(), llm)
	resolver.SetPromptStore(&mockPromptStore{prompts: map[string]string{
		"router": "default=%s list=%s q=%s",
	}})

	resolver.ResolveByQuery(context.Background(), "hello")

	assert.Equal(t, "default=common list=tocqueville, common q=hello", llm.lastPrompt.User)
}
