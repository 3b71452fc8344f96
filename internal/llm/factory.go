package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Backend names accepted by New.
const (
	BackendWorkersAI = "workers-ai"
	BackendOpenAI    = "openai"
	BackendGemini    = "gemini"
	BackendNone      = "none"
)

// Options selects and configures the one backend for this deployment.
type Options struct {
	Backend   string
	Model     string
	APIKey    string
	BaseURL   string
	AccountID string
}

// New builds the configured backend. It returns a nil Backend and nil error
// when chat is deliberately disabled.
func New(ctx context.Context, opts Options, client *http.Client) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendNone:
		return nil, nil

	case BackendWorkersAI:
		if opts.APIKey == "" || opts.AccountID == "" {
			return nil, fmt.Errorf("%s: %w (need LLM_API_KEY and CF_ACCOUNT_ID)", BackendWorkersAI, ErrMissingCredentials)
		}
		return NewWorkersAI(WorkersAIConfig{
			APIBase:   opts.BaseURL,
			AccountID: opts.AccountID,
			APIToken:  opts.APIKey,
			Model:     opts.Model,
		}, client), nil

	case BackendOpenAI:
		// Local OpenAI-compatible servers (Ollama) accept requests without a key.
		if opts.APIKey == "" && opts.BaseURL == "" {
			return nil, fmt.Errorf("%s: %w (need LLM_API_KEY or LLM_BASE_URL)", BackendOpenAI, ErrMissingCredentials)
		}
		return NewOpenAI(OpenAIConfig{
			APIKey:  opts.APIKey,
			BaseURL: opts.BaseURL,
			Model:   opts.Model,
		}, client), nil

	case BackendGemini:
		if opts.APIKey == "" {
			return nil, fmt.Errorf("%s: %w (need LLM_API_KEY)", BackendGemini, ErrMissingCredentials)
		}
		g, err := NewGemini(ctx, opts.APIKey, opts.Model)
		if err != nil {
			return nil, err
		}
		return g, nil

	default:
		return nil, fmt.Errorf("unknown LLM backend %q", opts.Backend)
	}
}
