// Package flow drives the six-step scoping conversation: it decides when a
// reply finishes the current stage and carries the per-stage system
// instructions sent to the completion provider.
package flow

import (
	"strings"

	"buildpad.app/concierge/internal/model"
)

// DoneMarker is the explicit phase-completion signal the system instruction
// asks the model to emit. The assistant's prose is otherwise the only signal
// available, so the marker is checked first and the legacy keyword table is
// kept as a fallback for replies that drop it.
const DoneMarker = "<<stage:done>>"

// transitionKeywords is the legacy heuristic: a case-sensitive substring
// match against the raw reply. A trigger word in an unintended context still
// advances the stage; that literal behavior is kept for compatibility.
var transitionKeywords = map[model.Stage][]string{
	model.StageInitial:      {"features", "requirements", "timeline"},
	model.StageRequirements: {"scope", "proposed", "overview"},
	model.StageScope:        {"tasks", "hours", "breakdown"},
	model.StageTasks:        {"cost", "estimate", "budget", "price"},
	model.StageEstimate:     {"email", "proceed", "build your"},
}

// Advance returns the stage after evaluating an assistant reply. Progression
// is forward-only and moves at most one step per reply; payment is terminal.
func Advance(current model.Stage, reply string) model.Stage {
	if current.Terminal() {
		return current
	}

	if strings.Contains(reply, DoneMarker) {
		return current.Next()
	}

	for _, keyword := range transitionKeywords[current] {
		if strings.Contains(reply, keyword) {
			return current.Next()
		}
	}

	return current
}

// StripMarker removes the completion marker from a reply before it is stored
// or shown. Trailing whitespace left behind by a marker-only line goes too.
func StripMarker(reply string) string {
	if !strings.Contains(reply, DoneMarker) {
		return reply
	}
	return strings.TrimRight(strings.ReplaceAll(reply, DoneMarker, ""), " \t\n")
}
