package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"buildpad.app/concierge/internal/conversation"
	"buildpad.app/concierge/internal/http/dto"
	"buildpad.app/concierge/internal/service"
)

type ConversationHandler struct {
	scoping service.ScopingService
}

func NewConversationHandler(scoping service.ScopingService) *ConversationHandler {
	return &ConversationHandler{scoping: scoping}
}

func (h *ConversationHandler) Start(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.StartConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state, err := h.scoping.Start(ctx, req.InitialPrompt)
	if err != nil {
		slog.ErrorContext(ctx, "failed to start conversation", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start conversation"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToConversationResponse(state))
}

func (h *ConversationHandler) Get(c *gin.Context) {
	conversationID, ok := parseConversationID(c)
	if !ok {
		return
	}

	state, err := h.scoping.Get(c.Request.Context(), conversationID)
	if err != nil {
		respondConversationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToConversationResponse(state))
}

func (h *ConversationHandler) Send(c *gin.Context) {
	ctx := c.Request.Context()

	conversationID, ok := parseConversationID(c)
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	turn, err := h.scoping.Send(ctx, conversationID, req.Message, req.UploadedFiles)
	if err != nil {
		respondConversationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTurnResponse(turn))
}

func (h *ConversationHandler) Retry(c *gin.Context) {
	conversationID, ok := parseConversationID(c)
	if !ok {
		return
	}

	turn, err := h.scoping.Retry(c.Request.Context(), conversationID)
	if err != nil {
		respondConversationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTurnResponse(turn))
}

func (h *ConversationHandler) SubmitEmail(c *gin.Context) {
	ctx := c.Request.Context()

	conversationID, ok := parseConversationID(c)
	if !ok {
		return
	}

	var req dto.SubmitEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.scoping.SubmitEmail(ctx, conversationID, req.Email); err != nil {
		respondConversationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "recorded"})
}

func parseConversationID(c *gin.Context) (int64, bool) {
	conversationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation id"})
		return 0, false
	}
	return conversationID, true
}

func respondConversationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, conversation.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
	case errors.Is(err, conversation.ErrBusy):
		c.JSON(http.StatusConflict, gin.H{"error": "a response is already in progress"})
	case errors.Is(err, conversation.ErrConcluded):
		c.JSON(http.StatusConflict, gin.H{"error": "conversation is already concluded"})
	case errors.Is(err, conversation.ErrNotReady):
		c.JSON(http.StatusConflict, gin.H{"error": "the scoping flow is not finished yet"})
	case errors.Is(err, conversation.ErrEmptyTurn):
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is empty"})
	default:
		slog.ErrorContext(c.Request.Context(), "conversation request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
