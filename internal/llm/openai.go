package llm

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"buildpad.app/concierge/internal/model"
)

// Models the gateway is willing to call. A preferred model outside this list
// is silently replaced with the default low-cost model; this is a
// cost/reliability guard, not a bug.
var openAIAllowedModels = map[string]bool{
	"gpt-4o-mini":  true,
	"gpt-4o":       true,
	"gpt-4.1":      true,
	"gpt-4.1-mini": true,
}

const openAIDefaultModel = "gpt-4o-mini"

type openAIGateway struct {
	client      openai.Client
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	retry       RetryPolicy
}

func newOpenAIGateway(cfg Config) *openAIGateway {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		// The SDK retries on its own by default; retry budget lives in
		// RetryPolicy so the two layers can't compound.
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if !openAIAllowedModels[model] {
		model = openAIDefaultModel
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 2000
	}

	retry := GatewayRetryPolicy()
	if cfg.Retry != nil {
		retry = *cfg.Retry
	}

	return &openAIGateway{
		client:      openai.NewClient(opts...),
		apiKey:      cfg.APIKey,
		model:       model,
		maxTokens:   maxTokens,
		temperature: cfg.Temperature,
		retry:       retry,
	}
}

func (g *openAIGateway) Model() string {
	return g.model
}

func (g *openAIGateway) Complete(ctx context.Context, messages []Message, stage model.Stage, fileNames []string) (*Completion, error) {
	if cerr := validateCredential(g.apiKey); cerr != nil {
		return nil, cerr
	}

	params := openai.ChatCompletionNewParams{
		Model:       g.model,
		Messages:    convertOpenAIMessages(messages),
		MaxTokens:   openai.Int(int64(g.maxTokens)),
		Temperature: openai.Float(g.temperature),
	}

	if len(fileNames) > 0 {
		// File content is never transmitted; names ride along for logging only.
		slog.DebugContext(ctx, "completion request has uploaded files", "count", len(fileNames), "names", fileNames)
	}

	var completion *Completion
	err := g.retry.Do(ctx, func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, requestTimeout)
		defer cancel()

		start := time.Now()
		resp, err := g.client.Chat.Completions.New(attemptCtx, params)
		if err != nil {
			return classifyOpenAIError(err)
		}

		if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
			return &Error{Kind: KindInvalidResponse, Message: "completion response has no content"}
		}

		slog.DebugContext(ctx, "completion succeeded",
			"model", g.model,
			"stage", string(stage),
			"duration_ms", time.Since(start).Milliseconds(),
			"prompt_tokens", resp.Usage.PromptTokens,
			"completion_tokens", resp.Usage.CompletionTokens)

		completion = &Completion{
			Text:  resp.Choices[0].Message.Content,
			Model: g.model,
			Usage: Usage{
				PromptTokens:     int(resp.Usage.PromptTokens),
				CompletionTokens: int(resp.Usage.CompletionTokens),
			},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return completion, nil
}

func convertOpenAIMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case "system":
			out = append(out, openai.SystemMessage(msg.Content))
		case "assistant":
			out = append(out, openai.AssistantMessage(msg.Content))
		default:
			out = append(out, openai.UserMessage(msg.Content))
		}
	}
	return out
}

func classifyOpenAIError(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Message: "completion provider did not respond within 25s", Err: err}
	}
	if errors.Is(err, context.Canceled) {
		return &Error{Kind: KindClient, Message: "request canceled", Err: err}
	}

	var apiErr *openai.Error
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

	// No API response at all: transport-level failure.
	return &Error{Kind: KindNetwork, Message: err.Error(), Err: err}
}
