package ai

import (
	"context"
	"errors"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"
	"github.com/pkoukk/tiktoken-go"

	"ugc-video-pipeline/internal/domain/ports/adapter"
	"ugc-video-pipeline/internal/infra/metrics"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.ScriptClient = (*OpenAIScriptClient)(nil)

// OpenAIScriptClient implements adapter.ScriptClient on the Chat Completions
// API. Replies are requested in JSON mode; parsing happens in the usecase.
type OpenAIScriptClient struct {
	client openai.Client
	model  string
	enc    *tiktoken.Tiktoken
}

func NewOpenAIScriptClient(apiKey, baseURL, model string) (*OpenAIScriptClient, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key empty")
	}
	if model == "" {
		model = "gpt-4o"
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	// Token counting is best-effort; unknown models fall back to cl100k_base.
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, _ = tiktoken.GetEncoding("cl100k_base")
	}

	return &OpenAIScriptClient{
		client: openai.NewClient(opts...),
		model:  model,
		enc:    enc,
	}, nil
}

func (c *OpenAIScriptClient) Provider() string { return "openai" }

func (c *OpenAIScriptClient) Complete(ctx context.Context, system, user string) (string, error) {
	if c.enc != nil {
		metrics.AddScriptPromptTokens(c.Provider(), c.model, len(c.enc.Encode(system+user, nil, nil)))
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(0.8),
		MaxTokens:   openai.Int(2000),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		return "", err
	}
	for _, choice := range resp.Choices {
		if choice.Message.Content != "" {
			return choice.Message.Content, nil
		}
	}
	return "", errors.New("openai: no choice content")
}
