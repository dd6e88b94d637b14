package domain

import "fmt"

// Role identifies the author of a conversation turn.
// It is a closed enumeration; any other value is rejected at validation time.
type Role string

// Valid roles.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Validate returns ErrInvalidInput if the role is not one of the
// enumerated values.
func (r Role) Validate() error {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return nil
	default:
		return fmt.Errorf("%w: role must be one of system, user, assistant (got %q)", ErrInvalidInput, string(r))
	}
}

// Message is a single conversation turn. Messages are immutable once
// constructed; the core never persists them.
type Message struct {
	// Role is the author of the turn.
	Role Role `json:"role"`

	// Content is the message text.
	Content string `json:"content"`
}

// Validate checks the role against the closed enumeration.
func (m Message) Validate() error {
	return m.Role.Validate()
}

// LastUserMessage returns the content of the most recent turn with the
// user role, or ErrInvalidInput if the conversation contains none.
func LastUserMessage(messages []Message) (string, error) {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			return messages[i].Content, nil
		}
	}
	return "", fmt.Errorf("%w: conversation contains no user message", ErrInvalidInput)
}
