package router

import (
	"github.com/gin-gonic/gin"

	"buildpad.app/concierge/internal/http/handler"
)

func ChatRouter(group *gin.RouterGroup, h *handler.ChatHandler) {
	group.POST("", h.Complete)
	group.GET("/schema", h.Schema)
}
