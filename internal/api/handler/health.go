package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/prbot/prbot/internal/lock"
	"github.com/prbot/prbot/internal/store"
	"github.com/prbot/prbot/pkg/logger"
)

// HealthHandler reports the availability of the backing services
type HealthHandler struct {
	store store.Store
	lock  lock.Client
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(s store.Store, lockClient lock.Client) *HealthHandler {
	return &HealthHandler{store: s, lock: lockClient}
}

// HealthCheck handles GET /health
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	databaseOK := h.checkDatabase()

	lockOK := true
	if err := h.lock.Ping(c.Request.Context()); err != nil {
		logger.Warn("Lock service health check failed", zap.Error(err))
		lockOK = false
	}

	c.JSON(http.StatusOK, gin.H{
		"database": databaseOK,
		"lock":     lockOK,
	})
}

func (h *HealthHandler) checkDatabase() bool {
	sqlDB, err := h.store.DB().DB()
	if err != nil {
		logger.Warn("Database health check failed", zap.Error(err))
		return false
	}
	if err := sqlDB.Ping(); err != nil {
		logger.Warn("Database health check failed", zap.Error(err))
		return false
	}
	return true
}
