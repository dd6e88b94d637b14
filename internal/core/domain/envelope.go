package domain

// FinishReasonStop is the normal completion marker on response envelopes.
const FinishReasonStop = "stop"

// TokenUsage reports token counters for one generation. Providers that do
// not report usage get zero values; counters are never estimated.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ResponseMessage is the assembled assistant message of a single-shot
// response.
type ResponseMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ResponseResult wraps the message with its finish reason.
type ResponseResult struct {
	Message      ResponseMessage `json:"message"`
	FinishReason string          `json:"finish_reason"`
}

// ChatResponse is the envelope returned to callers in single-shot mode.
type ChatResponse struct {
	Result  ResponseResult `json:"result"`
	Usage   TokenUsage     `json:"usage"`
	Created int64          `json:"created"`
	ID      string         `json:"id"`
}

// StreamDelta carries one incremental fragment of a streamed response.
// Role is set only on the opening chunk.
type StreamDelta struct {
	Role    Role   `json:"role,omitempty"`
	Content string `json:"content"`
}

// StreamResult wraps a delta with an optional finish reason. FinishReason
// is nil on every chunk except the closing one.
type StreamResult struct {
	Delta        StreamDelta `json:"delta"`
	FinishReason *string     `json:"finish_reason"`
}

// StreamChunk is one envelope within a streamed response. Result is nil
// on the trailing usage chunk; Usage is nil everywhere else. All chunks
// of one response share the same ID and Created timestamp.
type StreamChunk struct {
	Result  *StreamResult `json:"result"`
	Usage   *TokenUsage   `json:"usage,omitempty"`
	Created int64         `json:"created"`
	ID      string        `json:"id"`
}

// ErrorDetail carries a stable error code and a caller-safe message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// StreamEvent is one element of a streamed response sequence. Exactly one
// of Chunk, Err or Done is set. Done is the explicit end-of-stream marker,
// distinct from any envelope; it is always the final event, emitted
// exactly once, including after a mid-stream failure.
type StreamEvent struct {
	Chunk *StreamChunk
	Err   *ErrorDetail
	Done  bool
}
