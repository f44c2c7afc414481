package llm

import (
	"context"
	"encoding/json"

	genai "google.golang.org/genai"
)

// GeminiClient is a thin wrapper around the official genai client. It
// reads GEMINI_API_KEY from the environment through the SDK.
type GeminiClient struct {
	cli       *genai.Client
	model     string
	maxTokens int32
}

// NewGeminiClient connects to the Gemini API backend. maxTokens <= 0
// falls back to DefaultMaxTokens.
func NewGeminiClient(ctx context.Context, model string, maxTokens int32) (*GeminiClient, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, err
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &GeminiClient{cli: cli, model: model, maxTokens: maxTokens}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.model }
func (g *GeminiClient) Close() error { return nil }

// GenerateJSON concatenates prompt and input, asks for application/json,
// and returns the model's JSON as json.RawMessage.
func (g *GeminiClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	in, _ := json.MarshalIndent(input, "", "  ")
	full := prompt + "\n\n[INPUT JSON]\n" + string(in)

	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: full}}}},
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			MaxOutputTokens:  g.maxTokens,
		},
	)
	if err != nil {
		return nil, err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, ErrInvalidJSON
	}
	raw := json.RawMessage(resp.Candidates[0].Content.Parts[0].Text)
	var scratch any
	if err := json.Unmarshal(raw, &scratch); err != nil {
		return nil, ErrInvalidJSON
	}
	return raw, nil
}
