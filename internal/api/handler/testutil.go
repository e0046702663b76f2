package handler

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prbot/prbot/internal/api/middleware"
)

// SetupTestRouter creates a Gin router for testing.
// It sets Gin to test mode and applies the error mapping middleware so
// handlers relying on c.Error produce their real responses.
func SetupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.ErrorHandler(false))
	return r
}

// CreateTestRequest creates an HTTP request for testing. A non-nil body is
// JSON encoded.
func CreateTestRequest(method, url string, body interface{}) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req, _ = http.NewRequest(method, url, bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, url, nil)
	}
	return req
}
