package router

import (
	"github.com/gin-gonic/gin"

	"buildpad.app/concierge/internal/http/handler"
)

func WaitlistRouter(group *gin.RouterGroup, h *handler.WaitlistHandler) {
	group.POST("", h.Join)
}
