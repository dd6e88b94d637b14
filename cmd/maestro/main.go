// Command maestro is the retrieval-augmented persona chat service.
package main

import (
	"fmt"
	"os"

	"github.com/maestro-chat/maestro/internal/adapters/driven/ai"
	"github.com/maestro-chat/maestro/internal/adapters/driven/config/file"
	storagememory "github.com/maestro-chat/maestro/internal/adapters/driven/storage/memory"
	"github.com/maestro-chat/maestro/internal/adapters/driven/storage/sqlite"
	"github.com/maestro-chat/maestro/internal/adapters/driving/cli"
	"github.com/maestro-chat/maestro/internal/core/domain"
	"github.com/maestro-chat/maestro/internal/core/ports/driven"
	"github.com/maestro-chat/maestro/internal/core/services"
	"github.com/maestro-chat/maestro/internal/logger"
)

func main() {
	cli.SetInitializer(initApp)
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// initApp loads configuration and wires the application services. It
// runs after flag parsing, once per invocation.
func initApp(configPath string) error {
	cfg, err := file.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cli.SetConfig(cfg)

	llm, err := ai.CreateLLMService(cfg)
	if err != nil {
		return fmt.Errorf("creating llm service: %w", err)
	}

	embedder, err := ai.CreateEmbeddingService(cfg)
	if err != nil {
		return fmt.Errorf("creating embedding service: %w", err)
	}

	vectors, err := ai.CreateVectorStore(cfg)
	if err != nil {
		return fmt.Errorf("creating vector store: %w", err)
	}

	feedbackStore, err := createFeedbackStore(cfg)
	if err != nil {
		return fmt.Errorf("creating feedback store: %w", err)
	}

	namespaces := domain.NewNamespaceSet(cfg.Chat.DefaultNamespace, cfg.Chat.Namespaces)

	resolver := services.NewNamespaceResolver(namespaces, llm)
	retriever := services.NewRetriever(embedder, vectors, cfg.Chat.TopK)
	composer := services.NewPromptComposer(cfg.Chat.Language)
	generator := services.NewResponseGenerator(llm)

	// Prompt templates are optional; services fall back to their builtin
	// ones when the files are absent.
	if prompts, err := file.NewPromptStore(cfg.Prompts.Dir); err == nil {
		resolver.SetPromptStore(prompts)
		composer.SetPromptStore(prompts)
	} else {
		logger.Debug("prompt store unavailable: %v", err)
	}

	chat := services.NewChatService(resolver, retriever, composer, generator,
		services.RoutingMode(cfg.Chat.RoutingMode))
	chat.SetDefaultTemperature(cfg.Chat.Temperature)

	feedback := services.NewFeedbackService(feedbackStore)
	indexer := services.NewIndexerService(embedder, vectors, services.NewChunker(), namespaces)

	cli.SetServices(chat, feedback, indexer)
	return nil
}

func createFeedbackStore(cfg *file.Config) (driven.FeedbackStore, error) {
	switch cfg.Storage.Driver {
	case "sqlite", "":
		return sqlite.NewStore(cfg.Storage.DataDir)
	case "memory":
		return storagememory.NewFeedbackStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
