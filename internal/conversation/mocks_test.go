package conversation_test

import (
	"context"
	"sync"

	"buildpad.app/concierge/internal/llm"
	"buildpad.app/concierge/internal/model"
)

type mockGateway struct {
	completeFn func(ctx context.Context, messages []llm.Message, stage model.Stage, fileNames []string) (*llm.Completion, error)
}

func (m *mockGateway) Complete(ctx context.Context, messages []llm.Message, stage model.Stage, fileNames []string) (*llm.Completion, error) {
	if m.completeFn != nil {
		return m.completeFn(ctx, messages, stage, fileNames)
	}
	return &llm.Completion{Text: "ok", Model: "mock"}, nil
}

func (m *mockGateway) Model() string {
	return "mock"
}

// replyWith queues canned completions, one per call, in order.
func replyWith(replies ...string) *mockGateway {
	i := 0
	return &mockGateway{
		completeFn: func(_ context.Context, _ []llm.Message, _ model.Stage, _ []string) (*llm.Completion, error) {
			reply := replies[len(replies)-1]
			if i < len(replies) {
				reply = replies[i]
				i++
			}
			return &llm.Completion{Text: reply, Model: "mock"}, nil
		},
	}
}

type recordedEvent struct {
	name  string
	attrs map[string]any
}

type mockSink struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (m *mockSink) Record(_ context.Context, event string, attrs map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, recordedEvent{name: event, attrs: attrs})
}

func (m *mockSink) names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.name)
	}
	return out
}
