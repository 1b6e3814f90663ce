package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"buildpad.app/concierge/common/id"
	"buildpad.app/concierge/common/logger"
	"buildpad.app/concierge/common/otel"
	"buildpad.app/concierge/core/config"
	"buildpad.app/concierge/core/db"
	"buildpad.app/concierge/internal/conversation"
	"buildpad.app/concierge/internal/http/middleware"
	httprouter "buildpad.app/concierge/internal/http/router"
	"buildpad.app/concierge/internal/llm"
	"buildpad.app/concierge/internal/service"
	"buildpad.app/concierge/internal/store"
	"buildpad.app/concierge/internal/telemetry"
)

// Conversations live in process memory only; quiet ones are evicted so the
// registry stays bounded on a public site.
const (
	conversationSweepInterval = time.Minute
	conversationMaxIdle       = 30 * time.Minute
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before the logger so the slog bridge can attach to it.
	tele, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	slog.InfoContext(ctx, "concierge starting", "env", cfg.Env, "service", cfg.OTel.ServiceName)

	if err := id.Init(1); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.InfoContext(ctx, "database connected")

	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		slog.ErrorContext(ctx, "failed to parse redis url", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	slog.InfoContext(ctx, "redis connected", "stream", cfg.Telemetry.Stream)

	sink := telemetry.NewRedisSink(redisClient, cfg.Telemetry.Stream)

	gateway, err := llm.NewGateway(llm.Config{
		Provider:    cfg.LLM.Provider,
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to build completion gateway", "error", err)
		os.Exit(1)
	}
	slog.InfoContext(ctx, "completion gateway ready", "provider", cfg.LLM.Provider, "model", gateway.Model())

	manager := conversation.NewManager(gateway, sink)
	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go manager.Janitor(janitorCtx, conversationSweepInterval, conversationMaxIdle)

	stores := store.NewStores(database.Pool())
	services := service.NewServices(stores, manager, sink)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, services, gateway)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if tele != nil {
		if err := tele.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func setupRouter(cfg config.Config, services *service.Services, gateway llm.Gateway) *gin.Engine {
	router := gin.New()

	// OTel middleware goes first so recovery and logging run inside the span.
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	httprouter.SetupRoutes(router, services, gateway, httprouter.RouterConfig{
		SiteURL:      cfg.SiteURL,
		IsProduction: cfg.IsProduction(),
	})

	return router
}

const banner = `
  ____ ___  _   _  ____ ___ _____ ____   ____ _____
 / ___/ _ \| \ | |/ ___|_ _| ____|  _ \ / ___| ____|
| |  | | | |  \| | |    | ||  _| | |_) | |  _|  _|
| |__| |_| | |\  | |___ | || |___|  _ <| |_| | |___
 \____\___/|_| \_|\____|___|_____|_| \_\\____|_____|
`
