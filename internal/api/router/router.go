// Package router sets up the API routes for the application.
// This is used in server mode for webhook intake and the external API.
// For CLI-only usage, the API layer is not required.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/prbot/prbot/internal/api/handler"
	"github.com/prbot/prbot/internal/api/middleware"
	"github.com/prbot/prbot/internal/commands"
	"github.com/prbot/prbot/internal/config"
	"github.com/prbot/prbot/internal/events"
	"github.com/prbot/prbot/internal/gif"
	"github.com/prbot/prbot/internal/github"
	"github.com/prbot/prbot/internal/lock"
	"github.com/prbot/prbot/internal/store"
)

// Setup configures all API routes
func Setup(
	r *gin.Engine,
	cfg *config.Config,
	s store.Store,
	client github.Client,
	gifClient gif.Client,
	lockClient lock.Client,
	syncer commands.Syncer,
) {
	// Apply global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger(&middleware.LoggerConfig{
		AccessLog: cfg.Logging.AccessLog,
	}))
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler(cfg.Server.Debug))

	indexHandler := handler.NewIndexHandler()
	r.GET("/", indexHandler.Index)

	healthHandler := handler.NewHealthHandler(s, lockClient)
	r.GET("/health", healthHandler.HealthCheck)

	// Webhook intake (public, validated by the shared hook secret)
	dispatcher := events.NewDispatcher(s, client, gifClient, syncer, cfg.BotNickname)
	webhookHandler := handler.NewWebhookHandler(dispatcher, cfg.GitHub.WebhookSecret)
	r.POST("/webhook", webhookHandler.HandleWebhook)

	// External API (bearer token per external account)
	externalHandler := handler.NewExternalHandler(s, client, syncer)
	external := r.Group("/external")
	{
		external.POST("/set-qa-status", externalHandler.SetQaStatus)
	}
}
