package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "bot", cfg.BotNickname)
	assert.Equal(t, "0.0.0.0:8000", cfg.Server.Address())
	assert.Equal(t, "./data/prbot.db", cfg.Database.Path)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Lock.URL)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad(t *testing.T) {
	path := writeConfigFile(t, `
bot_nickname: helper
server:
  host: 127.0.0.1
  port: 9000
github:
  webhook_secret: hush
  personal_token: token
gif:
  tenor_key: tenor
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "helper", cfg.BotNickname)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Address())
	assert.Equal(t, "hush", cfg.GitHub.WebhookSecret)
	assert.Equal(t, "token", cfg.GitHub.PersonalToken)
	assert.Equal(t, "tenor", cfg.Gif.TenorKey)
	// Untouched values keep their defaults
	assert.Equal(t, "./data/prbot.db", cfg.Database.Path)
}

func TestLoadExpandsEnvVars(t *testing.T) {
	t.Setenv("TEST_WEBHOOK_SECRET", "expanded")

	path := writeConfigFile(t, `
github:
  webhook_secret: ${TEST_WEBHOOK_SECRET}
  personal_token: ${TEST_MISSING_VAR:-fallback}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "expanded", cfg.GitHub.WebhookSecret)
	assert.Equal(t, "fallback", cfg.GitHub.PersonalToken)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("prbot_bot_nickname", "overridden")
	t.Setenv("prbot_server_port", "7777")
	t.Setenv("prbot_github_webhook_secret", "hush")
	t.Setenv("prbot_github_app_private_key", `-----BEGIN\nKEY\n-----END`)

	cfg := FromEnv()
	assert.Equal(t, "overridden", cfg.BotNickname)
	assert.Equal(t, 7777, cfg.Server.Port)
	assert.Equal(t, "hush", cfg.GitHub.WebhookSecret)
	assert.Equal(t, "-----BEGIN\nKEY\n-----END", cfg.GitHub.AppPrivateKey)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.Validate())

	cfg.GitHub.WebhookSecret = "hush"
	assert.NoError(t, cfg.Validate())

	cfg.GitHub.AppClientID = "Iv1.abc"
	assert.Error(t, cfg.Validate())

	cfg.GitHub.AppPrivateKey = "pem"
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
