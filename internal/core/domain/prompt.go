package domain

// Prompt is the composed instruction pair sent to the language model.
// It is rebuilt for every request and never cached or shared.
type Prompt struct {
	// System carries the persona binding and behavioural rules.
	System string

	// User carries the labeled context block and the question.
	User string
}

// Passage is one text chunk returned by the vector store, in store
// relevance order.
type Passage struct {
	// Text is the chunk content.
	Text string

	// Score is the similarity score reported by the store.
	Score float64
}

// ContextSeparator joins retrieved passages into a single context block.
const ContextSeparator = "\n---\n"

// Chunk is one indexing unit produced by the chunker and upserted into
// the vector store during batch indexing.
type Chunk struct {
	// ID is the unique identifier for the chunk within its namespace.
	ID string

	// SourceFile is the file the chunk was split from.
	SourceFile string

	// Position is the ordinal position within the source file.
	Position int

	// Text is the chunk content.
	Text string
}

// ChatRequest is the single inbound operation of the service.
type ChatRequest struct {
	// Character is the caller-supplied domain identifier, mapped to a
	// namespace by the resolver.
	Character string `json:"character"`

	// Messages is the conversation history; the most recent user turn is
	// the question.
	Messages []Message `json:"messages"`

	// Stream selects incremental delivery.
	Stream bool `json:"stream"`

	// Temperature optionally overrides the configured sampling
	// temperature for this request only.
	Temperature *float64 `json:"temperature,omitempty"`
}

// Validate rejects malformed requests before any external call is made.
func (r ChatRequest) Validate() error {
	if len(r.Messages) == 0 {
		return ErrEmptyConversation
	}
	for _, m := range r.Messages {
		if err := m.Validate(); err != nil {
			return err
		}
	}
	if r.Temperature != nil && (*r.Temperature < 0 || *r.Temperature > 2) {
		return ErrTemperatureRange
	}
	return nil
}
