// Package llm wraps the external text-completion providers behind a single
// Gateway. It owns credential validation, model selection, the request
// timeout, retry/backoff and error classification; callers only ever see
// classified errors.
package llm

import (
	"context"
	"fmt"
	"time"

	"buildpad.app/concierge/internal/model"
)

// Provider constants for completion provider selection.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// requestTimeout is the hard per-attempt budget for one provider call.
const requestTimeout = 25 * time.Second

// Message is one role/content pair on the outbound payload.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Usage is token accounting reported by the provider. Logged only; never
// used in control flow.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// Completion is a successful gateway result.
type Completion struct {
	Text  string
	Model string
	Usage Usage
}

// Gateway performs one completion request for a conversation turn.
// File names travel as metadata only; file content is never transmitted.
type Gateway interface {
	Complete(ctx context.Context, messages []Message, stage model.Stage, fileNames []string) (*Completion, error)
	Model() string
}

// Config holds gateway configuration.
type Config struct {
	Provider    string // "openai" or "anthropic"
	APIKey      string
	BaseURL     string // Optional: custom API endpoint
	Model       string // preferred model; silently replaced if not allow-listed
	MaxTokens   int
	Temperature float64

	// Retry overrides the default gateway retry policy. Tests use this to
	// shrink backoff delays; production wiring leaves it nil.
	Retry *RetryPolicy
}

// NewGateway selects the provider implementation. Construction succeeds even
// without a credential so the server can boot in development; credential
// problems surface as classified errors on the first Complete call.
func NewGateway(cfg Config) (Gateway, error) {
	provider := cfg.Provider
	if provider == "" {
		provider = ProviderOpenAI
	}

	switch provider {
	case ProviderOpenAI:
		return newOpenAIGateway(cfg), nil
	case ProviderAnthropic:
		return newAnthropicGateway(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported completion provider: %s", provider)
	}
}

// validateCredential fails fast before any network call. An absent key is a
// deployment problem; a placeholder key is a credential problem. The two get
// distinct kinds so operators see different remediation hints.
func validateCredential(apiKey string) *Error {
	if apiKey == "" {
		return &Error{Kind: KindConfiguration, Message: "completion provider API key is not configured"}
	}
	if isPlaceholderKey(apiKey) {
		return &Error{Kind: KindAuthentication, Message: "completion provider API key looks like a placeholder"}
	}
	return nil
}

var placeholderFragments = []string{
	"your-api-key",
	"your_api_key",
	"placeholder",
	"changeme",
	"xxxx",
}

func isPlaceholderKey(key string) bool {
	return containsAnyFold(key, placeholderFragments)
}
