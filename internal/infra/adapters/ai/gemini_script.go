package ai

import (
	"context"
	"errors"

	"google.golang.org/genai"

	"ugc-video-pipeline/internal/domain/ports/adapter"
)

var _ adapter.ScriptClient = (*GeminiScriptClient)(nil)

// GeminiScriptClient implements adapter.ScriptClient using the official SDK.
// The model is asked for application/json output so the reply parses the same
// way as the OpenAI JSON mode.
type GeminiScriptClient struct {
	client *genai.Client
	model  string
}

func NewGeminiScriptClient(ctx context.Context, apiKey, baseURL, model string) (*GeminiScriptClient, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: empty api key")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: baseURL,
		},
	})
	if err != nil {
		return nil, err
	}
	return &GeminiScriptClient{client: c, model: model}, nil
}

func (g *GeminiScriptClient) Provider() string { return "gemini" }

func (g *GeminiScriptClient) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(user), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		Temperature:       genai.Ptr[float32](0.8),
	})
	if err != nil {
		return "", err
	}
	text := resp.Text()
	if text == "" {
		return "", errors.New("gemini: empty response")
	}
	return text, nil
}
