package conversation

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"buildpad.app/concierge/common/id"
	"buildpad.app/concierge/internal/llm"
	"buildpad.app/concierge/internal/telemetry"
)

// ErrNotFound is returned for unknown or expired conversation IDs.
var ErrNotFound = errors.New("conversation not found")

// Manager is the registry of live conversations. One controller exists per
// conversation for the lifetime of the process; there is no cross-instance
// handoff. Conversations that go quiet are evicted by the janitor so an open
// public widget cannot grow the registry without bound.
type Manager struct {
	mu            sync.Mutex
	conversations map[int64]*session

	gateway llm.Gateway
	sink    telemetry.Sink
}

// session pairs a controller with the last time a caller touched it.
type session struct {
	ctl      *Controller
	lastSeen time.Time
}

func NewManager(gateway llm.Gateway, sink telemetry.Sink) *Manager {
	return &Manager{
		conversations: make(map[int64]*session),
		gateway:       gateway,
		sink:          sink,
	}
}

// Create starts a new conversation and returns its controller.
func (m *Manager) Create() *Controller {
	ctl := NewController(id.New(), m.gateway, m.sink)

	m.mu.Lock()
	m.conversations[ctl.ID()] = &session{ctl: ctl, lastSeen: time.Now()}
	m.mu.Unlock()

	return ctl
}

// Get looks up a live conversation and refreshes its idle clock.
func (m *Manager) Get(conversationID int64) (*Controller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.conversations[conversationID]
	if !ok {
		return nil, ErrNotFound
	}
	s.lastSeen = time.Now()
	return s.ctl, nil
}

// Remove drops a conversation from the registry.
func (m *Manager) Remove(conversationID int64) {
	m.mu.Lock()
	delete(m.conversations, conversationID)
	m.mu.Unlock()
}

// Len reports the number of live conversations.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.conversations)
}

// SweepIdle evicts every conversation untouched for longer than maxIdle,
// except those with a turn still in flight. Returns the eviction count.
func (m *Manager) SweepIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for conversationID, s := range m.conversations {
		if !s.lastSeen.Before(cutoff) {
			continue
		}
		if s.ctl.State().InFlight {
			continue
		}
		delete(m.conversations, conversationID)
		removed++
	}
	return removed
}

// Janitor sweeps idle conversations on a fixed interval until ctx is done.
// Run it in its own goroutine.
func (m *Manager) Janitor(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.SweepIdle(maxIdle); n > 0 {
				slog.InfoContext(ctx, "idle conversations evicted", "count", n, "remaining", m.Len())
			}
		}
	}
}
