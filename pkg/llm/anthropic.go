package llm

import (
	"context"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
)

const defaultAnthropicModel = "claude-haiku-4-5-20251001"

const anthropicMaxTokens int64 = 4096

// anthropicClient implements Client using the official anthropic-sdk-go.
type anthropicClient struct {
	client sdk.Client
	model  string
}

func newAnthropicClient(cfg Config) (*anthropicClient, error) {
	if cfg.APIKey == "" {
		return nil, eris.New("llm: anthropic api key is required")
	}
	model := cfg.Model
	if model == "" {
		model = defaultAnthropicModel
	}
	return &anthropicClient{
		client: sdk.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:  model,
	}, nil
}

func (c *anthropicClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	msg, err := c.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(c.model),
		MaxTokens: anthropicMaxTokens,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", eris.Wrap(err, "llm: anthropic create message")
	}
	return textFromMessage(msg)
}

func (c *anthropicClient) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	text, err := c.GenerateText(ctx, prompt+"\n\nRespond with JSON only, no prose.")
	if err != nil {
		return "", err
	}
	return stripFence(text), nil
}

func (c *anthropicClient) Close() error {
	return nil
}

func textFromMessage(msg *sdk.Message) (string, error) {
	var out string
	for _, block := range msg.Content {
		if block.Type == "text" {
			out += block.Text
		}
	}
	if out == "" {
		return "", eris.New("llm: anthropic response has no text content")
	}
	return out, nil
}
