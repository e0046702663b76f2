package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prbot/prbot/pkg/errors"
)

func TestSetupForRepositoryUserAuthNoop(t *testing.T) {
	client := NewClient(NewUserAuth("token"))

	err := client.SetupForRepository(context.Background(), "owner", "name")
	require.NoError(t, err)
}

func TestSetupForRepositoryAnonymousFails(t *testing.T) {
	client := NewClient(NewAnonymousAuth())

	err := client.SetupForRepository(context.Background(), "owner", "name")
	require.Error(t, err)

	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeAuthNotConfigured, appErr.Code)
}

func TestSetupForRepositoryInstallationNoop(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"token":"installation-token","expires_at":"` +
			time.Now().Add(time.Hour).Format(time.RFC3339) + `"}`))
	}))
	defer server.Close()

	auth := testAppAuth(t)
	auth.apiBaseURL = server.URL

	err := auth.UpgradeToInstallation(context.Background(), 42)
	require.NoError(t, err)

	// The installation lookup endpoint rejects installation tokens, so a
	// client that already holds one must not call it again.
	client := NewClient(auth)
	err = client.SetupForRepository(context.Background(), "owner", "name")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, AuthInstallation, auth.Mode())
}
