package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clarity-gateway/internal/models"
)

type recordedChatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newOpenAIServer(t *testing.T, status int, body string, seen *recordedChatRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		if seen != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAI_Generate(t *testing.T) {
	var seen recordedChatRequest
	srv := newOpenAIServer(t, http.StatusOK, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"model": "llama",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "Labels live in the Transactions tab."}, "finish_reason": "stop"}]
	}`, &seen)

	backend := NewOpenAI(OpenAIConfig{APIKey: "k", BaseURL: srv.URL + "/v1", Model: "llama"}, srv.Client())
	reply, err := backend.Generate(context.Background(), Prompt{
		System:   "persona",
		Document: "doc",
		History:  []models.ChatMessage{{Role: "user", Content: "How do I label transactions?"}},
		Message:  "How do I label transactions?",
	})

	require.NoError(t, err)
	assert.Equal(t, "Labels live in the Transactions tab.", reply)
	assert.Equal(t, "llama", seen.Model)
	require.Len(t, seen.Messages, 2, "duplicate trailing user turn must not be appended")
	assert.Equal(t, "system", seen.Messages[0].Role)
	assert.Contains(t, seen.Messages[0].Content, "Reference Document (excerpt):\ndoc")
	assert.Equal(t, "user", seen.Messages[1].Role)
}

func TestOpenAI_NoChoices(t *testing.T) {
	srv := newOpenAIServer(t, http.StatusOK, `{"id":"x","object":"chat.completion","choices":[]}`, nil)

	backend := NewOpenAI(OpenAIConfig{APIKey: "k", BaseURL: srv.URL + "/v1"}, srv.Client())
	_, err := backend.Generate(context.Background(), Prompt{System: "s", Message: "m"})

	assert.ErrorIs(t, err, ErrEmptyReply)
}

func TestOpenAI_UpstreamStatus(t *testing.T) {
	srv := newOpenAIServer(t, http.StatusServiceUnavailable,
		`{"error":{"message":"overloaded","type":"server_error"}}`, nil)

	backend := NewOpenAI(OpenAIConfig{APIKey: "k", BaseURL: srv.URL + "/v1"}, srv.Client())
	_, err := backend.Generate(context.Background(), Prompt{System: "s", Message: "m"})

	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream), "expected UpstreamError, got %v", err)
	assert.Equal(t, http.StatusServiceUnavailable, upstream.StatusCode)
	assert.Equal(t, "openai", upstream.Backend)
}
