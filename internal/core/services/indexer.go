package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/maestro-chat/maestro/internal/core/domain"
	"github.com/maestro-chat/maestro/internal/core/ports/driven"
	"github.com/maestro-chat/maestro/internal/core/ports/driving"
	"github.com/maestro-chat/maestro/internal/logger"
)

// Ensure IndexerService implements the interface.
var _ driving.IndexerService = (*IndexerService)(nil)

// embedBatchSize caps how many chunks go to the embedding provider in
// one request.
const embedBatchSize = 64

// IndexerService walks a data directory and loads its text files into
// the vector store: each subdirectory names a namespace, files directly
// under the root belong to the default namespace, and only .txt files
// are processed.
type IndexerService struct {
	embedder   driven.EmbeddingService
	store      driven.VectorStore
	chunker    *Chunker
	namespaces domain.NamespaceSet
}

// NewIndexerService creates a batch indexer.
func NewIndexerService(
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	chunker *Chunker,
	namespaces domain.NamespaceSet,
) *IndexerService {
	return &IndexerService{
		embedder:   embedder,
		store:      store,
		chunker:    chunker,
		namespaces: namespaces,
	}
}

// BuildIndex chunks, embeds and upserts every .txt file under dataDir.
// With reset true the backing index is dropped and recreated first,
// avoiding duplicate data on rebuilds.
func (s *IndexerService) BuildIndex(ctx context.Context, dataDir string, reset bool) (*driving.IndexStats, error) {
	info, err := os.Stat(dataDir)
	if err != nil {
		return nil, fmt.Errorf("%w: data directory %q: %w", domain.ErrInvalidInput, dataDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %q is not a directory", domain.ErrInvalidInput, dataDir)
	}

	dims := s.embedder.Dimensions()
	if reset {
		logger.Info("resetting vector index (dimensions=%d)", dims)
		if err := s.store.Reset(ctx, dims); err != nil {
			return nil, fmt.Errorf("resetting index: %w", err)
		}
	} else if err := s.store.EnsureIndex(ctx, dims); err != nil {
		return nil, fmt.Errorf("ensuring index: %w", err)
	}

	stats := &driving.IndexStats{}
	seen := make(map[domain.Namespace]bool)

	err = filepath.WalkDir(dataDir, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			return nil
		}

		namespace := s.namespaceFor(dataDir, path)

		if err := s.indexFile(ctx, namespace, path, stats); err != nil {
			return fmt.Errorf("indexing %q: %w", path, err)
		}

		stats.Files++
		if !seen[namespace] {
			seen[namespace] = true
			stats.Namespaces = append(stats.Namespaces, namespace)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("index build complete: %d files, %d chunks, %d namespaces",
		stats.Files, stats.Chunks, len(stats.Namespaces))
	return stats, nil
}

// namespaceFor maps a file path to its partition: the immediate
// subdirectory name under the data root, or the default for root-level
// files.
func (s *IndexerService) namespaceFor(dataDir, path string) domain.Namespace {
	rel, err := filepath.Rel(dataDir, path)
	if err != nil {
		return s.namespaces.Default()
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) < 2 {
		return s.namespaces.Default()
	}
	return domain.CanonicalNamespace(parts[0])
}

// indexFile splits one file and upserts its chunks in batches.
func (s *IndexerService) indexFile(ctx context.Context, namespace domain.Namespace, path string, stats *driving.IndexStats) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	texts := s.chunker.Split(string(data))
	if len(texts) == 0 {
		logger.Debug("skipping empty file %q", path)
		return nil
	}

	base := filepath.Base(path)
	for offset := 0; offset < len(texts); offset += embedBatchSize {
		end := offset + embedBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[offset:end]

		vectors, err := s.embedder.EmbedBatch(ctx, batch)
		if err != nil {
			return fmt.Errorf("embedding batch: %w", err)
		}

		chunks := make([]domain.Chunk, len(batch))
		for i, text := range batch {
			position := offset + i
			chunks[i] = domain.Chunk{
				ID:         ChunkID(base, position),
				SourceFile: base,
				Position:   position,
				Text:       text,
			}
		}

		if err := s.store.Upsert(ctx, namespace, chunks, vectors); err != nil {
			return fmt.Errorf("upserting batch: %w", err)
		}
		stats.Chunks += len(batch)
	}

	logger.Info("indexed %q into namespace %q (%d chunks)", path, namespace, len(texts))
	return nil
}
