package router

import (
	"github.com/gin-gonic/gin"

	"buildpad.app/concierge/internal/http/handler"
)

func ConversationRouter(group *gin.RouterGroup, h *handler.ConversationHandler) {
	group.POST("", h.Start)
	group.GET("/:id", h.Get)
	group.POST("/:id/messages", h.Send)
	group.POST("/:id/retry", h.Retry)
	group.POST("/:id/email", h.SubmitEmail)
}
