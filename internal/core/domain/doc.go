// Package domain defines the core business entities for Maestro.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Namespace: A knowledge partition of the vector store
//   - Message: A single conversation turn with a validated role
//   - Prompt: The composed system/user instruction pair
//   - ChatResponse / StreamEvent: The normalized response envelopes
//   - Feedback: A user rating tied to a conversation
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
