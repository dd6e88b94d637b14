// Package ai provides factory functions for creating provider-backed
// service adapters from configuration.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/maestro-chat/maestro/internal/adapters/driven/config/file"
	geminiembed "github.com/maestro-chat/maestro/internal/adapters/driven/embedding/gemini"
	ollamaembed "github.com/maestro-chat/maestro/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/maestro-chat/maestro/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/maestro-chat/maestro/internal/adapters/driven/llm/anthropic"
	geminillm "github.com/maestro-chat/maestro/internal/adapters/driven/llm/gemini"
	ollamallm "github.com/maestro-chat/maestro/internal/adapters/driven/llm/ollama"
	openaillm "github.com/maestro-chat/maestro/internal/adapters/driven/llm/openai"
	vectormemory "github.com/maestro-chat/maestro/internal/adapters/driven/vectorstore/memory"
	"github.com/maestro-chat/maestro/internal/adapters/driven/vectorstore/pinecone"
	"github.com/maestro-chat/maestro/internal/core/domain"
	"github.com/maestro-chat/maestro/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for connectivity validation.
const pingTimeout = 5 * time.Second

// CreateLLMService builds the chat model client named by the config.
func CreateLLMService(cfg *file.Config) (driven.LLMService, error) {
	switch cfg.LLM.Provider {
	case "gemini", "":
		return geminillm.NewLLMService(geminillm.LLMConfig{
			APIKey:            cfg.LLM.APIKey,
			BaseURL:           cfg.LLM.BaseURL,
			Model:             cfg.LLM.Model,
			Timeout:           cfg.LLM.Timeout.Duration,
			RequestsPerMinute: cfg.LLM.RequestsPerMinute,
		})
	case "openai":
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:            cfg.LLM.APIKey,
			BaseURL:           cfg.LLM.BaseURL,
			Model:             cfg.LLM.Model,
			Timeout:           cfg.LLM.Timeout.Duration,
			RequestsPerMinute: cfg.LLM.RequestsPerMinute,
		})
	case "anthropic":
		return anthropicllm.NewLLMService(anthropicllm.LLMConfig{
			APIKey:  cfg.LLM.APIKey,
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
			Timeout: cfg.LLM.Timeout.Duration,
		})
	case "ollama":
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
			Timeout: cfg.LLM.Timeout.Duration,
		}), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
}

// CreateEmbeddingService builds the embedding client named by the
// config, following the chat provider when no embedding provider is
// set.
func CreateEmbeddingService(cfg *file.Config) (driven.EmbeddingService, error) {
	switch cfg.EmbeddingProvider() {
	case "gemini", "":
		return geminiembed.NewEmbeddingService(geminiembed.Config{
			APIKey:     cfg.EmbeddingAPIKey(),
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Timeout:    cfg.Embedding.Timeout.Duration,
			Dimensions: cfg.Embedding.Dimensions,
		})
	case "openai":
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     cfg.EmbeddingAPIKey(),
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Timeout:    cfg.Embedding.Timeout.Duration,
			Dimensions: cfg.Embedding.Dimensions,
		})
	case "ollama":
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Timeout:    cfg.Embedding.Timeout.Duration,
			Dimensions: cfg.Embedding.Dimensions,
		}), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.EmbeddingProvider())
	}
}

// CreateVectorStore builds the vector store named by the config.
func CreateVectorStore(cfg *file.Config) (driven.VectorStore, error) {
	switch cfg.Vector.Provider {
	case "pinecone", "":
		return pinecone.NewStore(pinecone.Config{
			APIKey:    cfg.Vector.APIKey,
			IndexName: cfg.Vector.IndexName,
			IndexHost: cfg.Vector.IndexHost,
			Cloud:     cfg.Vector.Cloud,
			Region:    cfg.Vector.Region,
		})
	case "memory":
		return vectormemory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unknown vector store provider %q", cfg.Vector.Provider)
	}
}

// CreateAndValidateLLMService builds the chat client and verifies
// connectivity before handing it out.
func CreateAndValidateLLMService(cfg *file.Config) (driven.LLMService, error) {
	svc, err := CreateLLMService(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable: %w", domain.ErrLLMUnavailable, err)
	}
	return svc, nil
}

// CreateAndValidateEmbeddingService builds the embedding client and
// verifies connectivity before handing it out.
func CreateAndValidateEmbeddingService(cfg *file.Config) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable: %w", domain.ErrEmbeddingUnavailable, err)
	}
	return svc, nil
}
