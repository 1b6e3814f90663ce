// Package conversation owns the per-turn orchestration for one scoping
// conversation: transcript, stage progression, extraction and error
// surfacing. A Controller is the sole mutator of its transcript, stage and
// project result.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"

	"buildpad.app/concierge/common/logger"
	"buildpad.app/concierge/internal/extract"
	"buildpad.app/concierge/internal/flow"
	"buildpad.app/concierge/internal/llm"
	"buildpad.app/concierge/internal/model"
	"buildpad.app/concierge/internal/telemetry"
	"buildpad.app/concierge/internal/transcript"
)

var (
	// ErrBusy rejects a turn while another one is still in flight. This is
	// the only admission-control mechanism; turns are never queued.
	ErrBusy = errors.New("a response is already in progress")

	// ErrEmptyTurn rejects a submission with no text and no files.
	ErrEmptyTurn = errors.New("message is empty")

	// ErrConcluded rejects anything after the contact email was recorded.
	ErrConcluded = errors.New("conversation is concluded")

	// ErrNotReady rejects email submission before the flow reached payment
	// with a project result in hand.
	ErrNotReady = errors.New("conversation has not reached the contact step")
)

var uploadMarker = regexp.MustCompile(`\n?\[Uploaded: [^\]]*\]`)

// ConnectionError is the transient, user-facing failure state. It is cleared
// on the next successful exchange or an explicit retry.
type ConnectionError struct {
	Kind      llm.Kind `json:"kind"`
	Message   string   `json:"message"`
	Retryable bool     `json:"retryable"`
}

// Turn is the outcome of one submitted user turn.
type Turn struct {
	Reply   model.Message
	Stage   model.Stage
	Result  *model.ProjectResult
	Failure *ConnectionError
}

// Controller drives one conversation. Safe for concurrent use; concurrent
// submissions beyond the first are rejected, not serialized.
type Controller struct {
	mu sync.Mutex

	id         int64
	transcript *transcript.Transcript
	stage      model.Stage
	result     *model.ProjectResult
	lastErr    *ConnectionError
	inFlight   bool
	concluded  bool

	gateway llm.Gateway
	sink    telemetry.Sink
}

func NewController(id int64, gateway llm.Gateway, sink telemetry.Sink) *Controller {
	if sink == nil {
		sink = telemetry.Nop()
	}
	return &Controller{
		id:         id,
		transcript: transcript.New(),
		stage:      model.StageInitial,
		gateway:    gateway,
		sink:       sink,
	}
}

func (c *Controller) ID() int64 {
	return c.id
}

// Submit runs one user turn: append, complete, advance, extract. Gateway
// failures come back inside the Turn (with a synthesized apology already
// appended to the visible transcript); the error return is reserved for
// admission-control and validation rejections.
func (c *Controller) Submit(ctx context.Context, text string, fileNames []string) (*Turn, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		ConversationID: logger.Ptr(c.id),
		Component:      "concierge.conversation.controller",
	})

	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	if c.concluded {
		c.mu.Unlock()
		return nil, ErrConcluded
	}
	if strings.TrimSpace(text) == "" && len(fileNames) == 0 {
		c.mu.Unlock()
		return nil, ErrEmptyTurn
	}

	content := text
	for _, name := range fileNames {
		// File bytes never leave the browser; only the marker and the name
		// (as gateway metadata) travel.
		content += fmt.Sprintf("\n[Uploaded: %s]", name)
	}

	c.transcript.Append(transcript.NewMessage(model.RoleUser, content))
	c.lastErr = nil
	c.inFlight = true

	stage := c.stage
	payload := c.transcript.ProjectForAPI(flow.Instruction(stage))
	c.mu.Unlock()

	// Registered before the gateway call so the flag is cleared in a final
	// step no matter how the turn ends, a panicking provider SDK included.
	defer func() {
		c.mu.Lock()
		c.inFlight = false
		c.mu.Unlock()
	}()

	completion, err := c.gateway.Complete(ctx, payload, stage, fileNames)

	if err != nil {
		turn, kind := c.failTurn(ctx, err)
		c.sink.Record(ctx, "scoping_turn_failed", map[string]any{
			"conversation_id": c.id,
			"stage":           string(turn.Stage),
			"kind":            string(kind),
		})
		return turn, nil
	}

	c.mu.Lock()
	reply := transcript.NewMessage(model.RoleAssistant, flow.StripMarker(completion.Text))
	c.transcript.Append(reply)

	prev := c.stage
	c.stage = flow.Advance(prev, completion.Text)
	if c.stage != prev {
		slog.InfoContext(ctx, "stage advanced", "from", string(prev), "to", string(c.stage))
	}

	if c.stage.Index() >= model.StageTasks.Index() {
		if result := extract.Parse(reply.Content); result != nil {
			c.result = result
			slog.InfoContext(ctx, "project breakdown extracted",
				"tasks", len(result.Tasks), "total_hours", result.TotalHours)
		}
	}

	turn := &Turn{Reply: reply, Stage: c.stage, Result: c.result}
	c.mu.Unlock()

	// Telemetry goes out after the lock is released; a slow sink must not
	// stall State() or the next turn.
	c.sink.Record(ctx, "scoping_turn_completed", map[string]any{
		"conversation_id": c.id,
		"stage":           string(turn.Stage),
		"prompt_tokens":   completion.Usage.PromptTokens,
	})

	return turn, nil
}

// failTurn classifies the gateway error and appends a synthesized
// assistant-voice apology so the visible conversation stays coherent. The
// apology is local: it never reaches the API-facing projection.
func (c *Controller) failTurn(ctx context.Context, err error) (*Turn, llm.Kind) {
	kind := llm.KindOf(err)
	failure := &ConnectionError{
		Kind:      kind,
		Message:   UserMessage(kind),
		Retryable: llm.IsRetryable(err),
	}

	c.mu.Lock()
	c.lastErr = failure

	apology := transcript.NewMessage(model.RoleAssistant, apologyFor(kind))
	apology.Local = true
	c.transcript.Append(apology)

	turn := &Turn{Reply: apology, Stage: c.stage, Result: c.result, Failure: failure}
	c.mu.Unlock()

	slog.ErrorContext(ctx, "turn failed", "kind", string(kind), "error", err)
	return turn, kind
}

// RestoreLastTurn rewinds the most recent exchange for the retry-from-UI
// path: it removes the last user message plus everything after it and
// returns the original text with upload markers stripped, ready to resubmit.
func (c *Controller) RestoreLastTurn() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight || c.concluded {
		return "", false
	}

	removed, ok := c.transcript.TruncateLastExchange()
	if !ok {
		return "", false
	}
	c.lastErr = nil

	return strings.TrimSpace(uploadMarker.ReplaceAllString(removed.Content, "")), true
}

// Conclude records the visitor's contact email via the supplied recorder and
// marks the conversation finished. One-shot: the first successful call wins
// and every later call is rejected. The recorder runs under the conversation
// lock, so a failed insert leaves the conversation open for another attempt.
func (c *Controller) Conclude(ctx context.Context, email string, record func(ctx context.Context, email string, result *model.ProjectResult) error) error {
	c.mu.Lock()

	if c.concluded {
		c.mu.Unlock()
		return ErrConcluded
	}
	if c.inFlight {
		c.mu.Unlock()
		return ErrBusy
	}
	if c.stage != model.StagePayment || c.result == nil {
		c.mu.Unlock()
		return ErrNotReady
	}

	if err := record(ctx, email, c.result); err != nil {
		c.mu.Unlock()
		return err
	}
	c.concluded = true
	totalHours := c.result.TotalHours
	c.mu.Unlock()

	c.sink.Record(ctx, "scoping_concluded", map[string]any{
		"conversation_id": c.id,
		"total_hours":     totalHours,
	})

	return nil
}

// State is a read-only snapshot for the presentation layer.
type State struct {
	ID        int64
	Stage     model.Stage
	Messages  []model.Message
	Result    *model.ProjectResult
	LastError *ConnectionError
	InFlight  bool
	Concluded bool
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return State{
		ID:        c.id,
		Stage:     c.stage,
		Messages:  c.transcript.Display(),
		Result:    c.result,
		LastError: c.lastErr,
		InFlight:  c.inFlight,
		Concluded: c.concluded,
	}
}
