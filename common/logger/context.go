package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields contains structured fields automatically added to all logs within
// a context. Business context (conversation_id, stage, etc.) set once near the
// entry point shows up in every log statement below it.
type LogFields struct {
	ConversationID *int64  // scoping conversation ID
	Stage          *string // current flow stage at the time of logging
	Provider       *string // completion provider ("openai", "anthropic")
	Email          *string // visitor email, set only on capture paths
	Component      string  // component name, e.g. "concierge.conversation.controller"
}

// WithLogFields enriches context with structured log fields. Multiple calls
// merge fields, with newer non-nil/non-empty values taking precedence.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	existing := GetLogFields(ctx)
	merged := mergeFields(existing, fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context, or empty LogFields if unset.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, incoming LogFields) LogFields {
	result := existing

	if incoming.ConversationID != nil {
		result.ConversationID = incoming.ConversationID
	}
	if incoming.Stage != nil {
		result.Stage = incoming.Stage
	}
	if incoming.Provider != nil {
		result.Provider = incoming.Provider
	}
	if incoming.Email != nil {
		result.Email = incoming.Email
	}
	if incoming.Component != "" {
		result.Component = incoming.Component
	}

	return result
}

// Ptr is a helper to create a pointer from a value, for setting LogFields
// inline: logger.WithLogFields(ctx, logger.LogFields{ConversationID: logger.Ptr(id)})
func Ptr[T any](v T) *T {
	return &v
}

// Truncate truncates a string to maxLen characters, appending "..." if
// truncated. Useful for logging prompts and replies.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
