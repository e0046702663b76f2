// Package handler provides HTTP handlers for the API.
package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/prbot/prbot/internal/events"
	"github.com/prbot/prbot/pkg/crypto"
	"github.com/prbot/prbot/pkg/errors"
	"github.com/prbot/prbot/pkg/logger"
)

// WebhookHandler handles the platform webhook intake
type WebhookHandler struct {
	dispatcher *events.Dispatcher
	secret     string
}

// NewWebhookHandler creates a new webhook handler. The secret is the shared
// webhook secret the platform signs delivery bodies with.
func NewWebhookHandler(dispatcher *events.Dispatcher, secret string) *WebhookHandler {
	return &WebhookHandler{dispatcher: dispatcher, secret: secret}
}

// HandleWebhook handles POST /webhook.
// Deliveries with a missing or unsupported event header, or a body signature
// that does not match, are rejected with 412 so the platform surfaces the
// failure on the hook delivery page.
func (h *WebhookHandler) HandleWebhook(c *gin.Context) {
	eventHeader := c.GetHeader("X-GitHub-Event")
	if eventHeader == "" {
		_ = c.Error(errors.New(errors.ErrCodeWebhookHeader, "Missing X-GitHub-Event header"))
		return
	}

	eventType, err := events.ParseType(eventHeader)
	if err != nil {
		_ = c.Error(errors.New(errors.ErrCodeUnsupportedEvent, "Unsupported X-GitHub-Event header"))
		return
	}

	signature := c.GetHeader("X-Hub-Signature-256")
	if signature == "" {
		_ = c.Error(errors.New(errors.ErrCodeWebhookHeader, "Missing X-Hub-Signature-256 header"))
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		_ = c.Error(errors.Wrap(errors.ErrCodeInternal, "failed to read webhook body", err))
		return
	}

	scheme, digest, _ := strings.Cut(signature, "=")
	if scheme != "sha256" || !crypto.VerifyHMACSHA256(h.secret, body, digest) {
		_ = c.Error(errors.New(errors.ErrCodeWebhookSignature, "Body signature does not match the X-Hub-Signature-256 header"))
		return
	}

	logger.Info("Webhook received", zap.String("event", string(eventType)))

	if err := h.dispatcher.Dispatch(c.Request.Context(), eventType, body); err != nil {
		logger.Error("Failed to process webhook event",
			zap.String("event", string(eventType)),
			zap.Error(err),
		)
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "OK"})
}
