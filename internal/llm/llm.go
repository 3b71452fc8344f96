// Package llm assembles backend-specific chat payloads and performs the single
// outbound language-model call per chat request.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"clarity-gateway/internal/models"
)

var (
	// ErrEmptyReply is returned when the backend answered but no text could be extracted.
	ErrEmptyReply = errors.New("no response generated")
	// ErrMissingCredentials is returned by New when the selected backend lacks a credential.
	ErrMissingCredentials = errors.New("backend credentials not configured")
)

// Backend is one configured language-model service. Exactly one is selected
// at startup; the request path never inspects which.
type Backend interface {
	Name() string
	Generate(ctx context.Context, p Prompt) (string, error)
}

// Prompt is the backend-neutral input to a chat completion.
type Prompt struct {
	System   string
	Document string
	History  []models.ChatMessage
	Message  string
}

// UpstreamError is a non-2xx answer from the backend. Body is for server-side
// logs only and must never be written to clients.
type UpstreamError struct {
	Backend    string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Backend, e.StatusCode)
}

const documentHeading = "Reference Document (excerpt):\n"

// SystemText merges the system prompt and the optional document excerpt into
// one system entry.
func SystemText(p Prompt) string {
	if p.Document == "" {
		return p.System
	}
	return p.System + "\n\n" + documentHeading + p.Document
}

// JoinParts concatenates text parts in order with newlines, dropping empty ones.
func JoinParts(parts []string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		kept = append(kept, part)
	}
	return strings.Join(kept, "\n")
}

// truncateForLog cuts s to at most n bytes without splitting a UTF-8
// sequence.
func truncateForLog(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
