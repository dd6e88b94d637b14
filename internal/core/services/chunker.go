package services

import "fmt"

// DefaultChunkSize is the default number of runes per chunk.
const DefaultChunkSize = 1500

// DefaultChunkOverlap is the default number of overlapping runes.
const DefaultChunkOverlap = 200

// Chunker splits text into fixed-size overlapping chunks for indexing.
type Chunker struct {
	chunkSize int
	overlap   int
}

// ChunkerOption configures the chunker.
type ChunkerOption func(*Chunker)

// WithChunkSize sets the chunk size in runes.
func WithChunkSize(size int) ChunkerOption {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in runes.
func WithOverlap(overlap int) ChunkerOption {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// NewChunker creates a chunker with the given options.
func NewChunker(opts ...ChunkerOption) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Ensure overlap doesn't exceed chunk size
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// Split breaks text into overlapping chunks. Splitting happens on rune
// boundaries so multi-byte scripts are never cut mid-character. Empty
// text produces no chunks.
func (c *Chunker) Split(text string) []string {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	total := len(runes)

	estimated := (total / (c.chunkSize - c.overlap)) + 1
	chunks := make([]string, 0, estimated)

	start := 0
	for start < total {
		end := start + c.chunkSize
		if end > total {
			end = total
		}

		chunks = append(chunks, string(runes[start:end]))

		if end == total {
			break
		}
		start += c.chunkSize - c.overlap
	}

	return chunks
}

// ChunkID derives a stable chunk identifier from its source file and
// position, unique within a namespace.
func ChunkID(sourceFile string, position int) string {
	return fmt.Sprintf("%s:%d", sourceFile, position)
}
