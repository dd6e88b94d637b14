package driving

import (
	"context"

	"github.com/maestro-chat/maestro/internal/core/domain"
)

// IndexStats reports the outcome of one batch indexing run.
type IndexStats struct {
	// Files is the number of text files processed.
	Files int

	// Chunks is the number of chunks upserted.
	Chunks int

	// Namespaces lists the partitions that received data.
	Namespaces []domain.Namespace
}

// IndexerService builds the vector index from a directory of text files.
// Each subdirectory names a namespace; files directly under the root go
// to the default namespace.
type IndexerService interface {
	// BuildIndex chunks, embeds and upserts every .txt file under dataDir.
	// With reset true the backing index is dropped and recreated first.
	BuildIndex(ctx context.Context, dataDir string, reset bool) (*IndexStats, error)
}
