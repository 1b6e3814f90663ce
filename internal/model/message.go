package model

import "time"

// Message roles. System messages exist only on the outbound API payload and
// are never rendered to the visitor.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is one entry in a conversation transcript.
type Message struct {
	ID        int64
	Role      string
	Content   string
	CreatedAt time.Time

	// Local marks synthesized messages (error apologies) that are shown to the
	// visitor but never forwarded to the completion provider.
	Local bool
}
