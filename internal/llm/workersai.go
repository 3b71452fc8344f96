package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"clarity-gateway/internal/models"
)

const (
	workersAIDefaultBase  = "https://api.cloudflare.com/client/v4"
	workersAIDefaultModel = "@cf/meta/llama-3.1-8b-instruct"
)

// WorkersAI calls a Cloudflare Workers AI text-generation model over REST.
type WorkersAI struct {
	apiBase   string
	accountID string
	apiToken  string
	model     string
	client    *http.Client
}

type WorkersAIConfig struct {
	APIBase   string
	AccountID string
	APIToken  string
	Model     string
}

func NewWorkersAI(cfg WorkersAIConfig, client *http.Client) *WorkersAI {
	if cfg.APIBase == "" {
		cfg.APIBase = workersAIDefaultBase
	}
	if cfg.Model == "" {
		cfg.Model = workersAIDefaultModel
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &WorkersAI{
		apiBase:   strings.TrimRight(cfg.APIBase, "/"),
		accountID: cfg.AccountID,
		apiToken:  cfg.APIToken,
		model:     cfg.Model,
		client:    client,
	}
}

func (w *WorkersAI) Name() string { return "workers-ai" }

type workersAIRequest struct {
	Messages []models.ChatMessage `json:"messages"`
}

// The model answers either with a plain string or, for some models, with a
// list of content parts.
type workersAIResponse struct {
	Result struct {
		Response json.RawMessage `json:"response"`
	} `json:"result"`
	Success bool `json:"success"`
}

func (w *WorkersAI) Generate(ctx context.Context, p Prompt) (string, error) {
	body, err := json.Marshal(workersAIRequest{Messages: MergedSystemMessages(p)})
	if err != nil {
		return "", fmt.Errorf("marshal: %w", err)
	}

	url := fmt.Sprintf("%s/accounts/%s/ai/run/%s", w.apiBase, w.accountID, w.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+w.apiToken)

	resp, err := w.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("workers-ai request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &UpstreamError{Backend: w.Name(), StatusCode: resp.StatusCode, Body: truncateForLog(string(respBody), 2048)}
	}

	var out workersAIResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("decode workers-ai response: %w", err)
	}

	reply := JoinParts(responseParts(out.Result.Response))
	if reply == "" {
		return "", ErrEmptyReply
	}
	return reply, nil
}

func responseParts(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var s string
	if json.Unmarshal(raw, &s) == nil {
		return []string{s}
	}

	var parts []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	if json.Unmarshal(raw, &parts) != nil {
		return nil
	}
	texts := make([]string, 0, len(parts))
	for _, part := range parts {
		if part.Type == "" || part.Type == "text" {
			texts = append(texts, part.Text)
		}
	}
	return texts
}
