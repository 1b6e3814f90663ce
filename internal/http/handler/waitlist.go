package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"buildpad.app/concierge/internal/http/dto"
	"buildpad.app/concierge/internal/service"
)

type WaitlistHandler struct {
	waitlist service.WaitlistService
}

func NewWaitlistHandler(waitlist service.WaitlistService) *WaitlistHandler {
	return &WaitlistHandler{waitlist: waitlist}
}

func (h *WaitlistHandler) Join(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.JoinWaitlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid waitlist request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, alreadyRegistered, err := h.waitlist.Join(ctx, req.Email, req.Source, req.InterestArea, req.AcceptMarketing)
	if err != nil {
		slog.ErrorContext(ctx, "waitlist signup failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to join waitlist"})
		return
	}

	if alreadyRegistered {
		c.JSON(http.StatusConflict, gin.H{"error": "this email is already registered"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToWaitlistResponse(entry))
}
