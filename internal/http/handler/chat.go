package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"buildpad.app/concierge/internal/conversation"
	"buildpad.app/concierge/internal/http/dto"
	"buildpad.app/concierge/internal/llm"
	"buildpad.app/concierge/internal/model"
)

// ChatHandler is the stateless completion proxy for the embedded widget:
// the browser keeps the transcript and posts it whole each turn.
type ChatHandler struct {
	gateway llm.Gateway
}

func NewChatHandler(gateway llm.Gateway) *ChatHandler {
	return &ChatHandler{gateway: gateway}
}

func (h *ChatHandler) Complete(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid chat request", "error", err)
		c.JSON(http.StatusBadRequest, dto.ChatErrorResponse{
			Error:     "invalid request body",
			ErrorType: string(llm.KindClient),
			Details:   err.Error(),
		})
		return
	}

	stage := model.ParseStage(req.Stage)
	messages := make([]llm.Message, 0, len(req.Messages))
	for _, msg := range req.Messages {
		messages = append(messages, llm.Message{Role: msg.Role, Content: msg.Content})
	}

	completion, err := h.gateway.Complete(ctx, messages, stage, req.UploadedFiles)
	if err != nil {
		kind := llm.KindOf(err)
		c.JSON(statusForKind(kind), dto.ChatErrorResponse{
			Error:     conversation.UserMessage(kind),
			ErrorType: string(kind),
		})
		return
	}

	c.JSON(http.StatusOK, dto.ChatResponse{
		Response: completion.Text,
		Usage:    &completion.Usage,
	})
}

// Schema serves the JSON schema of the proxy contract for client-side
// validation in the widget.
func (h *ChatHandler) Schema(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ChatRequestSchema())
}

func statusForKind(kind llm.Kind) int {
	switch kind {
	case llm.KindRateLimit:
		return http.StatusTooManyRequests
	case llm.KindTimeout:
		return http.StatusGatewayTimeout
	case llm.KindClient:
		return http.StatusBadRequest
	case llm.KindConfiguration, llm.KindAuthentication:
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}
