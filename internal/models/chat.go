package models

import "encoding/json"

// Roles accepted at the public boundary. RoleModel is the assistant synonym
// some clients (and Gemini) use.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleModel     = "model"
	RoleSystem    = "system"
)

// MaxHistoryTurns caps the conversation context sent upstream.
const MaxHistoryTurns = 20

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// UnmarshalJSON tolerates non-string role/content values by leaving the
// field empty, so a single malformed turn is dropped instead of failing the
// whole request.
func (m *ChatMessage) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		// Non-object entries (null, numbers, strings) become empty turns.
		*m = ChatMessage{}
		return nil
	}

	*m = ChatMessage{
		Role:    stringField(raw["role"]),
		Content: stringField(raw["content"]),
	}
	return nil
}

func stringField(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

// ChatRequest is the payload sent to the chat endpoint.
type ChatRequest struct {
	Message string        `json:"message"`
	History []ChatMessage `json:"history"`
}

// UnmarshalJSON treats a history that is not an array as empty. The message
// still has to be a string.
func (r *ChatRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		Message string          `json:"message"`
		History json.RawMessage `json:"history"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var history []ChatMessage
	if json.Unmarshal(raw.History, &history) != nil {
		history = nil
	}
	*r = ChatRequest{Message: raw.Message, History: history}
	return nil
}

// ChatResponse is the reply from the AI chat.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// TrimHistory keeps the newest max turns, evicting the oldest first.
func TrimHistory(history []ChatMessage, max int) []ChatMessage {
	if max <= 0 {
		return nil
	}
	if len(history) <= max {
		return history
	}
	return history[len(history)-max:]
}
