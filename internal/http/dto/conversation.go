package dto

import (
	"strconv"
	"time"

	"buildpad.app/concierge/internal/conversation"
	"buildpad.app/concierge/internal/model"
)

type StartConversationRequest struct {
	// InitialPrompt carries the free-text idea typed on the landing page,
	// the only state passed between the two flows.
	InitialPrompt string `json:"initial_prompt" binding:"max=4000"`
}

type SendMessageRequest struct {
	Message       string   `json:"message" binding:"max=4000"`
	UploadedFiles []string `json:"uploaded_files" binding:"max=10,dive,max=255"`
}

type SubmitEmailRequest struct {
	Email string `json:"email" binding:"required,email,max=255"`
}

type MessageResponse struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type ConnectionErrorResponse struct {
	Kind      string `json:"kind"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

type ConversationResponse struct {
	ID        string                   `json:"id"`
	Stage     string                   `json:"stage"`
	Messages  []MessageResponse        `json:"messages"`
	Result    *model.ProjectResult     `json:"result,omitempty"`
	Error     *ConnectionErrorResponse `json:"error,omitempty"`
	Concluded bool                     `json:"concluded"`
}

type TurnResponse struct {
	Reply  MessageResponse          `json:"reply"`
	Stage  string                   `json:"stage"`
	Result *model.ProjectResult     `json:"result,omitempty"`
	Error  *ConnectionErrorResponse `json:"error,omitempty"`
}

func ToConversationResponse(state conversation.State) ConversationResponse {
	messages := make([]MessageResponse, 0, len(state.Messages))
	for _, msg := range state.Messages {
		messages = append(messages, toMessageResponse(msg))
	}

	return ConversationResponse{
		ID:        strconv.FormatInt(state.ID, 10),
		Stage:     string(state.Stage),
		Messages:  messages,
		Result:    state.Result,
		Error:     toConnectionErrorResponse(state.LastError),
		Concluded: state.Concluded,
	}
}

func ToTurnResponse(turn *conversation.Turn) TurnResponse {
	return TurnResponse{
		Reply:  toMessageResponse(turn.Reply),
		Stage:  string(turn.Stage),
		Result: turn.Result,
		Error:  toConnectionErrorResponse(turn.Failure),
	}
}

func toMessageResponse(msg model.Message) MessageResponse {
	return MessageResponse{
		ID:        strconv.FormatInt(msg.ID, 10),
		Role:      msg.Role,
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	}
}

func toConnectionErrorResponse(connErr *conversation.ConnectionError) *ConnectionErrorResponse {
	if connErr == nil {
		return nil
	}
	return &ConnectionErrorResponse{
		Kind:      string(connErr.Kind),
		Message:   connErr.Message,
		Retryable: connErr.Retryable,
	}
}
