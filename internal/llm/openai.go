package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

const openAIDefaultModel = "gpt-4o-mini"

// OpenAI calls any OpenAI-compatible chat-completions endpoint: OpenAI itself,
// the Workers AI /ai/v1 proxy, OpenRouter or a local Ollama.
type OpenAI struct {
	client *openai.Client
	model  string
}

type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

func NewOpenAI(cfg OpenAIConfig, httpClient *http.Client) *OpenAI {
	conf := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		conf.BaseURL = cfg.BaseURL
	}
	if httpClient != nil {
		conf.HTTPClient = httpClient
	}
	if cfg.Model == "" {
		cfg.Model = openAIDefaultModel
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(conf),
		model:  cfg.Model,
	}
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) Generate(ctx context.Context, p Prompt) (string, error) {
	merged := MergedSystemMessages(p)
	messages := make([]openai.ChatCompletionMessage, 0, len(merged))
	for _, m := range merged {
		messages = append(messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    o.model,
		Messages: messages,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
			return "", &UpstreamError{Backend: o.Name(), StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message}
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
			return "", &UpstreamError{Backend: o.Name(), StatusCode: reqErr.HTTPStatusCode, Body: fmt.Sprint(reqErr.Err)}
		}
		return "", fmt.Errorf("openai request: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyReply
	}

	msg := resp.Choices[0].Message
	parts := []string{msg.Content}
	for _, part := range msg.MultiContent {
		if part.Type == openai.ChatMessagePartTypeText {
			parts = append(parts, part.Text)
		}
	}

	reply := JoinParts(parts)
	if reply == "" {
		return "", ErrEmptyReply
	}
	return reply, nil
}
