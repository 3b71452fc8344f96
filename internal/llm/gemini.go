package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"clarity-gateway/internal/models"
)

const geminiDefaultModel = "gemini-2.0-flash"

// Gemini calls Google's Gemini API, which takes alternating user/model turns
// instead of a system entry.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	if model == "" {
		model = geminiDefaultModel
	}
	m := client.GenerativeModel(model)
	m.SetTemperature(0.7)
	m.SetTopP(0.95)

	return &Gemini{client: client, model: m}, nil
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) Close() error {
	return g.client.Close()
}

func (g *Gemini) Generate(ctx context.Context, p Prompt) (string, error) {
	contents := GeminiContents(p)
	last := contents[len(contents)-1]

	cs := g.model.StartChat()
	cs.History = contents[:len(contents)-1]

	resp, err := cs.SendMessage(ctx, last.Parts...)
	if err != nil {
		return "", mapGeminiError(g.Name(), err)
	}

	reply := JoinParts(extractTextParts(resp))
	if reply == "" {
		return "", ErrEmptyReply
	}
	return reply, nil
}

// mapGeminiError turns a blocked prompt or response into ErrEmptyReply and
// an HTTP-level API failure into *UpstreamError.
func mapGeminiError(backend string, err error) error {
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return ErrEmptyReply
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return &UpstreamError{Backend: backend, StatusCode: apiErr.Code, Body: apiErr.Message}
	}
	return fmt.Errorf("Gemini API error: %w", err)
}

// GeminiContents builds the turn-based payload: a leading user turn carrying
// the system prompt and document excerpt as separate parts, then the history
// with assistant turns as "model", then the new message unless the history
// already ends with it.
func GeminiContents(p Prompt) []*genai.Content {
	lead := []genai.Part{genai.Text(p.System)}
	if p.Document != "" {
		lead = append(lead, genai.Text(documentHeading+p.Document))
	}

	history := NormalizeHistory(p.History, models.RoleModel)
	contents := make([]*genai.Content, 0, len(history)+2)
	contents = append(contents, &genai.Content{Role: models.RoleUser, Parts: lead})
	for _, turn := range history {
		contents = append(contents, &genai.Content{
			Role:  turn.Role,
			Parts: []genai.Part{genai.Text(turn.Content)},
		})
	}

	if !lastIsUserTurn(history, p.Message) {
		contents = append(contents, &genai.Content{
			Role:  models.RoleUser,
			Parts: []genai.Part{genai.Text(p.Message)},
		})
	}
	return contents
}

func extractTextParts(resp *genai.GenerateContentResponse) []string {
	if resp == nil {
		return nil
	}
	var texts []string
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				texts = append(texts, string(t))
			}
		}
	}
	return texts
}
