package router

import (
	"github.com/gin-gonic/gin"

	"buildpad.app/concierge/internal/http/handler"
	"buildpad.app/concierge/internal/http/middleware"
	"buildpad.app/concierge/internal/llm"
	"buildpad.app/concierge/internal/service"
)

type RouterConfig struct {
	SiteURL      string
	IsProduction bool
}

func SetupRoutes(router *gin.Engine, services *service.Services, gateway llm.Gateway, cfg RouterConfig) {
	router.Use(middleware.CORS(cfg.SiteURL, cfg.IsProduction))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		chatHandler := handler.NewChatHandler(gateway)
		ChatRouter(v1.Group("/chat"), chatHandler)

		conversationHandler := handler.NewConversationHandler(services.Scoping())
		ConversationRouter(v1.Group("/conversations"), conversationHandler)

		waitlistHandler := handler.NewWaitlistHandler(services.Waitlist())
		WaitlistRouter(v1.Group("/waitlist"), waitlistHandler)
	}
}
