package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRole_Validate tests the closed role enumeration
func TestRole_Validate(t *testing.T) {
	tests := []struct {
		name    string
		role    Role
		wantErr bool
	}{
		{name: "system", role: RoleSystem, wantErr: false},
		{name: "user", role: RoleUser, wantErr: false},
		{name: "assistant", role: RoleAssistant, wantErr: false},
		{name: "unknown role", role: Role("moderator"), wantErr: true},
		{name: "empty role", role: Role(""), wantErr: true},
		{name: "case sensitive", role: Role("User"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.role.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestLastUserMessage tests question extraction from conversations
func TestLastUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		messages []Message
		want     string
		wantErr  bool
	}{
		{
			name: "single user turn",
			messages: []Message{
				{Role: RoleUser, Content: "What did you observe about democracy in America?"},
			},
			want: "What did you observe about democracy in America?",
		},
		{
			name: "most recent user turn wins",
			messages: []Message{
				{Role: RoleUser, Content: "first question"},
				{Role: RoleAssistant, Content: "an answer"},
				{Role: RoleUser, Content: "second question"},
			},
			want: "second question",
		},
		{
			name: "trailing assistant turn ignored",
			messages: []Message{
				{Role: RoleUser, Content: "the question"},
				{Role: RoleAssistant, Content: "the answer"},
			},
			want: "the question",
		},
		{
			name: "no user turn",
			messages: []Message{
				{Role: RoleSystem, Content: "be helpful"},
				{Role: RoleAssistant, Content: "hello"},
			},
			wantErr: true,
		},
		{
			name:     "empty conversation",
			messages: nil,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LastUserMessage(tt.messages)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestChatRequest_Validate tests request validation before any external call
func TestChatRequest_Validate(t *testing.T) {
	temp := func(v float64) *float64 { return &v }

	tests := []struct {
		name    string
		req     ChatRequest
		wantErr error
	}{
		{
			name: "valid request",
			req: ChatRequest{
				Character: "tocqueville",
				Messages:  []Message{{Role: RoleUser, Content: "hi"}},
			},
		},
		{
			name:    "empty conversation",
			req:     ChatRequest{Character: "tocqueville"},
			wantErr: ErrEmptyConversation,
		},
		{
			name: "invalid role",
			req: ChatRequest{
				Character: "tocqueville",
				Messages:  []Message{{Role: Role("bot"), Content: "hi"}},
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "temperature too high",
			req: ChatRequest{
				Character:   "tocqueville",
				Messages:    []Message{{Role: RoleUser, Content: "hi"}},
				Temperature: temp(2.5),
			},
			wantErr: ErrTemperatureRange,
		},
		{
			name: "temperature zero is valid",
			req: ChatRequest{
				Character:   "tocqueville",
				Messages:    []Message{{Role: RoleUser, Content: "hi"}},
				Temperature: temp(0),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
