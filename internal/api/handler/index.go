package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// IndexHandler serves the API root
type IndexHandler struct{}

// NewIndexHandler creates a new index handler
func NewIndexHandler() *IndexHandler {
	return &IndexHandler{}
}

// Index handles GET /
func (h *IndexHandler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome on prbot!"})
}
