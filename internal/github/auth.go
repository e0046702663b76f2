package github

import (
	"bytes"
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/prbot/prbot/pkg/errors"
	"github.com/prbot/prbot/pkg/logger"
)

// AuthMode identifies the current authentication state of a client
type AuthMode int

const (
	// AuthAnonymous rejects every request
	AuthAnonymous AuthMode = iota
	// AuthUser authenticates with a static personal access token
	AuthUser
	// AuthApp authenticates as a GitHub App with short-lived RS256 JWTs
	AuthApp
	// AuthInstallation authenticates with an installation access token
	// derived from the App credentials
	AuthInstallation
)

func (m AuthMode) String() string {
	switch m {
	case AuthUser:
		return "user"
	case AuthApp:
		return "app"
	case AuthInstallation:
		return "installation"
	default:
		return "anonymous"
	}
}

const (
	// appJWTBackdate compensates clock drift between us and the platform
	appJWTBackdate = 60 * time.Second
	// appJWTLifetime is the validity window of App JWTs
	appJWTLifetime = 10 * time.Minute
	// installationExpiryMargin triggers a token refresh shortly before the
	// installation token actually expires
	installationExpiryMargin = 60 * time.Second
)

// Authenticator holds the mutable authentication state shared by all
// requests of one client. Installation tokens are refreshed in place; the
// expiry check runs before every request, not on a timer.
type Authenticator struct {
	mu sync.Mutex

	mode       AuthMode
	token      string
	clientID   string
	privateKey *rsa.PrivateKey

	installationID     int64
	installationToken  string
	installationExpiry time.Time

	// apiBaseURL is overridable for tests
	apiBaseURL string
	httpClient *http.Client
}

// NewAnonymousAuth creates an authenticator that rejects all requests
func NewAnonymousAuth() *Authenticator {
	return &Authenticator{mode: AuthAnonymous, apiBaseURL: defaultAPIBaseURL, httpClient: http.DefaultClient}
}

// NewUserAuth creates an authenticator backed by a personal access token
func NewUserAuth(token string) *Authenticator {
	return &Authenticator{mode: AuthUser, token: token, apiBaseURL: defaultAPIBaseURL, httpClient: http.DefaultClient}
}

// NewAppAuth creates an authenticator backed by GitHub App credentials.
// The private key must be PEM-encoded PKCS1 or PKCS8.
func NewAppAuth(clientID, privateKeyPEM string) (*Authenticator, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(privateKeyPEM))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfigInvalid, "invalid GitHub App private key", err)
	}
	return &Authenticator{
		mode:       AuthApp,
		clientID:   clientID,
		privateKey: key,
		apiBaseURL: defaultAPIBaseURL,
		httpClient: http.DefaultClient,
	}, nil
}

const defaultAPIBaseURL = "https://api.github.com"

// Mode returns the current authentication mode
func (a *Authenticator) Mode() AuthMode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

// appJWT issues a short-lived RS256 JWT identifying the App.
// iat is backdated to tolerate clock drift.
func (a *Authenticator) appJWT(now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"iat": now.Add(-appJWTBackdate).Unix(),
		"exp": now.Add(appJWTLifetime).Unix(),
		"iss": a.clientID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(a.privateKey)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodePlatformAuth, "failed to sign app JWT", err)
	}
	return signed, nil
}

type installationTokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// fetchInstallationToken exchanges an App JWT for an installation token
func (a *Authenticator) fetchInstallationToken(ctx context.Context, installationID int64) (*installationTokenResponse, error) {
	appToken, err := a.appJWT(time.Now())
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/app/installations/%d/access_tokens", a.apiBaseURL, installationID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(nil))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInstallationToken, "failed to build token request", err)
	}
	req.Header.Set("Authorization", "Bearer "+appToken)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInstallationToken, "installation token request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, errors.New(errors.ErrCodeInstallationToken,
			fmt.Sprintf("installation token request returned status %d", resp.StatusCode))
	}

	var tokenResp installationTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInstallationToken, "failed to decode token response", err)
	}
	return &tokenResp, nil
}

// UpgradeToInstallation exchanges App credentials for an installation token.
// Calling it again with the same installation is idempotent.
func (a *Authenticator) UpgradeToInstallation(ctx context.Context, installationID int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch a.mode {
	case AuthInstallation:
		if a.installationID == installationID && time.Until(a.installationExpiry) > installationExpiryMargin {
			return nil
		}
	case AuthApp:
	default:
		return errors.New(errors.ErrCodePlatformAuth,
			fmt.Sprintf("cannot upgrade %s auth to installation scope", a.mode))
	}

	tokenResp, err := a.fetchInstallationToken(ctx, installationID)
	if err != nil {
		return err
	}

	a.mode = AuthInstallation
	a.installationID = installationID
	a.installationToken = tokenResp.Token
	a.installationExpiry = tokenResp.ExpiresAt

	logger.Info("Upgraded platform auth to installation scope",
		zap.Int64("installation_id", installationID),
		zap.Time("expires_at", tokenResp.ExpiresAt))
	return nil
}

// BearerToken returns the token to use for the next request, refreshing the
// installation token when it is about to expire. Anonymous auth is an error.
func (a *Authenticator) BearerToken(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch a.mode {
	case AuthAnonymous:
		return "", errors.New(errors.ErrCodeAuthNotConfigured, "no GitHub credentials configured")
	case AuthUser:
		return a.token, nil
	case AuthApp:
		return a.appJWT(time.Now())
	case AuthInstallation:
		if time.Until(a.installationExpiry) <= installationExpiryMargin {
			// Downgrade to App and fetch a fresh token
			logger.Debug("Installation token near expiry, refreshing",
				zap.Int64("installation_id", a.installationID))
			tokenResp, err := a.fetchInstallationToken(ctx, a.installationID)
			if err != nil {
				return "", err
			}
			a.installationToken = tokenResp.Token
			a.installationExpiry = tokenResp.ExpiresAt
		}
		return a.installationToken, nil
	default:
		return "", errors.New(errors.ErrCodePlatformAuth, "unknown auth mode")
	}
}

// Token implements oauth2.TokenSource so the authenticator can back an
// oauth2.Transport directly. The transport calls it on every request,
// which keeps installation refreshes and auth upgrades visible without a
// caching layer in between.
func (a *Authenticator) Token() (*oauth2.Token, error) {
	token, err := a.BearerToken(context.Background())
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{AccessToken: token}, nil
}
