package dto

import (
	"github.com/invopop/jsonschema"

	"buildpad.app/concierge/internal/llm"
)

// ChatRequest is the stateless proxy contract used by the embedded widget:
// the client owns the transcript and ships it whole on every turn.
type ChatRequest struct {
	Messages      []ChatMessage `json:"messages" binding:"required,min=1,dive"`
	Stage         string        `json:"stage"`
	UploadedFiles []string      `json:"uploadedFiles"`
}

type ChatMessage struct {
	Role    string `json:"role" binding:"required,oneof=user assistant system"`
	Content string `json:"content" binding:"required"`
}

type ChatResponse struct {
	Response string     `json:"response"`
	Usage    *llm.Usage `json:"usage,omitempty"`
}

type ChatErrorResponse struct {
	Error     string `json:"error"`
	ErrorType string `json:"errorType"`
	Details   string `json:"details,omitempty"`
}

// ChatRequestSchema is served to the widget for client-side validation of
// the proxy contract.
func ChatRequestSchema() any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	return reflector.Reflect(&ChatRequest{})
}
