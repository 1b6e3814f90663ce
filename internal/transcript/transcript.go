// Package transcript holds the ordered message history for one scoping
// conversation. It is the ground truth for what has been said; projections
// for the completion API and for display are derived from it on demand.
package transcript

import (
	"time"

	"buildpad.app/concierge/common/id"
	"buildpad.app/concierge/internal/llm"
	"buildpad.app/concierge/internal/model"
)

// Transcript is an append-only, insertion-ordered message log. It is not
// safe for concurrent use; the conversation controller is its sole owner.
type Transcript struct {
	messages []model.Message
}

func New() *Transcript {
	return &Transcript{}
}

// NewMessage builds a message with a fresh snowflake ID and timestamp.
func NewMessage(role, content string) model.Message {
	return model.Message{
		ID:        id.New(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// Append adds a message to the end of the log. It never fails.
func (t *Transcript) Append(msg model.Message) {
	t.messages = append(t.messages, msg)
}

func (t *Transcript) Len() int {
	return len(t.messages)
}

// Last returns the most recent message, or false when the log is empty.
func (t *Transcript) Last() (model.Message, bool) {
	if len(t.messages) == 0 {
		return model.Message{}, false
	}
	return t.messages[len(t.messages)-1], true
}

// ProjectForAPI returns the outbound payload for the completion provider:
// a freshly computed system message followed by every stored user/assistant
// message in original order. The system message is stage-dependent and so is
// recomputed on every call rather than stored. Local (synthesized) messages
// never reach the provider.
func (t *Transcript) ProjectForAPI(systemPrompt string) []llm.Message {
	out := make([]llm.Message, 0, len(t.messages)+1)
	out = append(out, llm.Message{Role: model.RoleSystem, Content: systemPrompt})
	for _, msg := range t.messages {
		if msg.Local {
			continue
		}
		if msg.Role != model.RoleUser && msg.Role != model.RoleAssistant {
			continue
		}
		out = append(out, llm.Message{Role: msg.Role, Content: msg.Content})
	}
	return out
}

// Display returns the messages shown to the visitor: everything except
// system messages, in order. The returned slice is a copy.
func (t *Transcript) Display() []model.Message {
	out := make([]model.Message, 0, len(t.messages))
	for _, msg := range t.messages {
		if msg.Role == model.RoleSystem {
			continue
		}
		out = append(out, msg)
	}
	return out
}

// TruncateLastExchange removes the most recent user message and everything
// appended after it, returning the removed user message. Used by the
// retry-from-UI path to rewind a failed turn.
func (t *Transcript) TruncateLastExchange() (model.Message, bool) {
	for i := len(t.messages) - 1; i >= 0; i-- {
		if t.messages[i].Role == model.RoleUser {
			removed := t.messages[i]
			t.messages = t.messages[:i]
			return removed, true
		}
	}
	return model.Message{}, false
}
