package llm

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"buildpad.app/concierge/internal/model"
)

var anthropicAllowedModels = map[string]bool{
	"claude-3-5-haiku-latest":  true,
	"claude-sonnet-4-5":        true,
	"claude-3-5-sonnet-latest": true,
}

const anthropicDefaultModel = "claude-3-5-haiku-latest"

type anthropicGateway struct {
	client      anthropic.Client
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	retry       RetryPolicy
}

func newAnthropicGateway(cfg Config) *anthropicGateway {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if !anthropicAllowedModels[model] {
		model = anthropicDefaultModel
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 2000
	}

	retry := GatewayRetryPolicy()
	if cfg.Retry != nil {
		retry = *cfg.Retry
	}

	return &anthropicGateway{
		client:      anthropic.NewClient(opts...),
		apiKey:      cfg.APIKey,
		model:       model,
		maxTokens:   maxTokens,
		temperature: cfg.Temperature,
		retry:       retry,
	}
}

func (g *anthropicGateway) Model() string {
	return g.model
}

func (g *anthropicGateway) Complete(ctx context.Context, messages []Message, stage model.Stage, fileNames []string) (*Completion, error) {
	if cerr := validateCredential(g.apiKey); cerr != nil {
		return nil, cerr
	}

	// Anthropic takes system content separately, not in the messages array.
	system, converted := convertAnthropicMessages(messages)

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(g.model),
		MaxTokens:   int64(g.maxTokens),
		Messages:    converted,
		Temperature: anthropic.Float(g.temperature),
	}
	if len(system) > 0 {
		params.System = system
	}

	if len(fileNames) > 0 {
		slog.DebugContext(ctx, "completion request has uploaded files", "count", len(fileNames), "names", fileNames)
	}

	var completion *Completion
	err := g.retry.Do(ctx, func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, requestTimeout)
		defer cancel()

		start := time.Now()
		resp, err := g.client.Messages.New(attemptCtx, params)
		if err != nil {
			return classifyAnthropicError(err)
		}

		var text string
		for _, block := range resp.Content {
			if block.Type == "text" {
				text += block.Text
			}
		}
		if text == "" {
			return &Error{Kind: KindInvalidResponse, Message: "completion response has no text content"}
		}

		slog.DebugContext(ctx, "completion succeeded",
			"model", g.model,
			"stage", string(stage),
			"duration_ms", time.Since(start).Milliseconds(),
			"input_tokens", resp.Usage.InputTokens,
			"output_tokens", resp.Usage.OutputTokens)

		completion = &Completion{
			Text:  text,
			Model: g.model,
			Usage: Usage{
				PromptTokens:     int(resp.Usage.InputTokens),
				CompletionTokens: int(resp.Usage.OutputTokens),
			},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return completion, nil
}

func convertAnthropicMessages(messages []Message) ([]anthropic.TextBlockParam, []anthropic.MessageParam) {
	var system []anthropic.TextBlockParam
	out := make([]anthropic.MessageParam, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case "system":
			system = append(system, anthropic.TextBlockParam{
				Type: "text",
				Text: msg.Content,
			})
		case "assistant":
			out = append(out, anthropic.MessageParam{
				Role:    anthropic.MessageParamRoleAssistant,
				Content: []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(msg.Content)},
			})
		default:
			out = append(out, anthropic.MessageParam{
				Role:    anthropic.MessageParamRoleUser,
				Content: []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(msg.Content)},
			})
		}
	}

	return system, out
}

func classifyAnthropicError(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Message: "completion provider did not respond within 25s", Err: err}
	}
	if errors.Is(err, context.Canceled) {
		return &Error{Kind: KindClient, Message: "request canceled", Err: err}
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == 401 || apiErr.StatusCode == 403:
			return &Error{Kind: KindAuthentication, Message: "completion provider rejected the API key", Err: err}
		case apiErr.StatusCode == 429:
			return &Error{Kind: KindRateLimit, Message: "completion provider is throttling requests", Err: err}
		case apiErr.StatusCode >= 500:
			return &Error{Kind: KindServer, Message: "completion provider server error", Err: err}
		case apiErr.StatusCode >= 400:
			return &Error{Kind: KindClient, Message: "malformed completion request", Err: err}
		default:
			return &Error{Kind: KindOpenAIAPI, Message: err.Error(), Err: err}
		}
	}

	return &Error{Kind: KindNetwork, Message: err.Error(), Err: err}
}
