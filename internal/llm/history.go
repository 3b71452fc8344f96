package llm

import (
	"strings"

	"clarity-gateway/internal/models"
)

// NormalizeHistory drops turns without a usable role or content, maps the
// assistant synonyms to assistantRole, and keeps the newest MaxHistoryTurns.
// Normalizing its own output is a no-op.
func NormalizeHistory(history []models.ChatMessage, assistantRole string) []models.ChatMessage {
	out := make([]models.ChatMessage, 0, len(history))
	for _, turn := range history {
		if strings.TrimSpace(turn.Content) == "" {
			continue
		}

		var role string
		switch strings.ToLower(strings.TrimSpace(turn.Role)) {
		case models.RoleUser:
			role = models.RoleUser
		case models.RoleAssistant, models.RoleModel:
			role = assistantRole
		default:
			// Missing roles and client-supplied system turns are dropped.
			continue
		}

		out = append(out, models.ChatMessage{Role: role, Content: turn.Content})
	}
	return models.TrimHistory(out, models.MaxHistoryTurns)
}

// lastIsUserTurn reports whether turns already ends with the user sending message.
func lastIsUserTurn(turns []models.ChatMessage, message string) bool {
	if len(turns) == 0 {
		return false
	}
	last := turns[len(turns)-1]
	return last.Role == models.RoleUser && last.Content == message
}

// MergedSystemMessages builds the chat-completions payload: one system entry
// followed by the history and the new user turn. The user turn is appended
// only if the history does not already end with it.
func MergedSystemMessages(p Prompt) []models.ChatMessage {
	history := NormalizeHistory(p.History, models.RoleAssistant)

	messages := make([]models.ChatMessage, 0, len(history)+2)
	messages = append(messages, models.ChatMessage{Role: models.RoleSystem, Content: SystemText(p)})
	messages = append(messages, history...)

	if !lastIsUserTurn(messages, p.Message) {
		messages = append(messages, models.ChatMessage{Role: models.RoleUser, Content: p.Message})
	}
	return messages
}
