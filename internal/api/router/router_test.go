package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/prbot/prbot/internal/config"
	"github.com/prbot/prbot/internal/github/githubtest"
	"github.com/prbot/prbot/internal/lock/locktest"
	"github.com/prbot/prbot/internal/store"
	syncpkg "github.com/prbot/prbot/internal/sync"
)

type noopSyncer struct{}

func (noopSyncer) Process(ctx context.Context, owner, name string, number int, force bool) (*syncpkg.Result, error) {
	return &syncpkg.Result{}, nil
}

type noopGif struct{}

func (noopGif) QueryFirstMatch(ctx context.Context, query string) (string, error) {
	return "", nil
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s, cleanup := store.SetupTestDB(t)
	t.Cleanup(cleanup)

	cfg := config.Default()
	cfg.GitHub.WebhookSecret = "secret"

	r := gin.New()
	Setup(r, cfg, s, githubtest.NewFakeClient(), noopGif{}, locktest.NewFakeClient(), noopSyncer{})
	return r
}

func TestSetupRoutes(t *testing.T) {
	r := setupRouter(t)

	tests := []struct {
		method string
		path   string
		status int
	}{
		{"GET", "/", http.StatusOK},
		{"GET", "/health", http.StatusOK},
		{"POST", "/webhook", http.StatusPreconditionFailed},
		{"POST", "/external/set-qa-status", http.StatusUnauthorized},
		{"GET", "/missing", http.StatusNotFound},
	}

	for _, tt := range tests {
		req, _ := http.NewRequest(tt.method, tt.path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, tt.status, w.Code, "%s %s", tt.method, tt.path)
	}
}

func TestSetupIndexMessage(t *testing.T) {
	r := setupRouter(t)

	req, _ := http.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.JSONEq(t, `{"message": "Welcome on prbot!"}`, w.Body.String())
}

func TestSetupAttachesRequestID(t *testing.T) {
	r := setupRouter(t)

	req, _ := http.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
