package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prbot/prbot/pkg/crypto"
	"github.com/prbot/prbot/pkg/errors"
)

func testAppAuth(t *testing.T) *Authenticator {
	t.Helper()
	keys, err := crypto.GenerateKeyPair()
	require.NoError(t, err)

	auth, err := NewAppAuth("client-id", keys.PrivateKey)
	require.NoError(t, err)
	return auth
}

func TestAnonymousAuthRejectsRequests(t *testing.T) {
	auth := NewAnonymousAuth()

	_, err := auth.BearerToken(context.Background())
	require.Error(t, err)

	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeAuthNotConfigured, appErr.Code)
}

func TestUserAuthReturnsStaticToken(t *testing.T) {
	auth := NewUserAuth("my-token")

	token, err := auth.BearerToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "my-token", token)
	assert.Equal(t, AuthUser, auth.Mode())
}

func TestAppJWTClaims(t *testing.T) {
	auth := testAppAuth(t)

	now := time.Now()
	signed, err := auth.appJWT(now)
	require.NoError(t, err)

	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	_, _, err = parser.ParseUnverified(signed, claims)
	require.NoError(t, err)

	assert.Equal(t, "client-id", claims["iss"])

	iat := int64(claims["iat"].(float64))
	exp := int64(claims["exp"].(float64))
	assert.Equal(t, now.Add(-60*time.Second).Unix(), iat)
	assert.Equal(t, now.Add(10*time.Minute).Unix(), exp)
}

func TestUpgradeToInstallation(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/app/installations/42/access_tokens", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.Header.Get("Authorization"), "Bearer ")

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"token":"installation-token","expires_at":"` +
			time.Now().Add(time.Hour).Format(time.RFC3339) + `"}`))
	}))
	defer server.Close()

	auth := testAppAuth(t)
	auth.apiBaseURL = server.URL

	err := auth.UpgradeToInstallation(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, AuthInstallation, auth.Mode())

	token, err := auth.BearerToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "installation-token", token)

	// Token still fresh: upgrading again to the same installation is a no-op
	err = auth.UpgradeToInstallation(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestInstallationTokenRefreshNearExpiry(t *testing.T) {
	tokens := []string{"first", "second"}
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := tokens[calls]
		calls++
		// Expires within the refresh margin, forcing a refresh on next use
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"token":"` + token + `","expires_at":"` +
			time.Now().Add(30*time.Second).Format(time.RFC3339) + `"}`))
	}))
	defer server.Close()

	auth := testAppAuth(t)
	auth.apiBaseURL = server.URL

	err := auth.UpgradeToInstallation(context.Background(), 7)
	require.NoError(t, err)

	token, err := auth.BearerToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "second", token)
	assert.Equal(t, 2, calls)
}

func TestUpgradeFromUserAuthFails(t *testing.T) {
	auth := NewUserAuth("token")

	err := auth.UpgradeToInstallation(context.Background(), 1)
	require.Error(t, err)

	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodePlatformAuth, appErr.Code)
}
