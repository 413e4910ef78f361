// Package llm abstracts the generative-AI provider behind a small text/JSON
// generation interface. Higher layers build domain calls on top of it and
// never see provider SDK types.
package llm

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
)

// Provider identifies a supported generative backend.
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderAnthropic Provider = "anthropic"
)

// Client generates free text or JSON from a prompt. Implementations must not
// retry; the application treats every call as one request per user action.
type Client interface {
	// GenerateText returns the model's plain-text response.
	GenerateText(ctx context.Context, prompt string) (string, error)
	// GenerateJSON returns the model's response with any markdown code
	// fences stripped, suitable for json.Unmarshal.
	GenerateJSON(ctx context.Context, prompt string) (string, error)
	// Close releases provider resources.
	Close() error
}

// Config selects and configures a provider.
type Config struct {
	Provider Provider
	APIKey   string
	Model    string
}

// New creates a Client for the configured provider.
func New(ctx context.Context, cfg Config) (Client, error) {
	switch cfg.Provider {
	case ProviderGemini, "":
		return newGeminiClient(ctx, cfg)
	case ProviderAnthropic:
		return newAnthropicClient(cfg)
	default:
		return nil, eris.Errorf("llm: unknown provider %q (valid: gemini, anthropic)", cfg.Provider)
	}
}

// stripFence removes a surrounding markdown code block from a JSON response.
func stripFence(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
