// Package config provides configuration management for the application.
// It supports YAML configuration files with environment variable overrides.
package config

import (
	"os"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/prbot/prbot/pkg/errors"
	"github.com/prbot/prbot/pkg/logger"
)

// Default configuration values
const (
	defaultBotNickname  = "bot"
	defaultServerHost   = "0.0.0.0"
	defaultServerPort   = 8000
	defaultDatabasePath = "./data/prbot.db"
	defaultLockURL      = "redis://localhost:6379/0"
)

// Config represents the complete application configuration
type Config struct {
	// BotNickname is the mention commands are addressed to
	BotNickname string `yaml:"bot_nickname"`

	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Lock     LockConfig     `yaml:"lock"`
	GitHub   GitHubConfig   `yaml:"github"`
	Gif      GifConfig      `yaml:"gif"`
	Logging  logger.Config  `yaml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// Debug exposes error details in API responses and enables verbose
	// request handling. Keep off in production.
	Debug bool `yaml:"debug"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LockConfig holds distributed lock configuration
type LockConfig struct {
	// URL is the Redis connection URL
	URL string `yaml:"url"`
}

// GitHubConfig holds platform credentials. Either a personal token or a
// GitHub App client id plus private key must be set; the App pair wins when
// both are present.
type GitHubConfig struct {
	WebhookSecret string `yaml:"webhook_secret"`
	PersonalToken string `yaml:"personal_token"`
	AppClientID   string `yaml:"app_client_id"`
	AppPrivateKey string `yaml:"app_private_key"`
}

// GifConfig holds the Tenor API configuration
type GifConfig struct {
	TenorKey string `yaml:"tenor_key"`
}

// Address returns the server address string
func (c *ServerConfig) Address() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		BotNickname: defaultBotNickname,
		Server: ServerConfig{
			Host: defaultServerHost,
			Port: defaultServerPort,
		},
		Database: DatabaseConfig{
			Path: defaultDatabasePath,
		},
		Lock: LockConfig{
			URL: defaultLockURL,
		},
		Logging: logger.Config{
			Level:      "info",
			Format:     "text",
			File:       "",
			MaxSize:    100,
			MaxAge:     7,
			MaxBackups: 5,
			Compress:   false,
		},
	}
}

// Load loads configuration from a YAML file with environment variable
// expansion, then applies prbot_* environment overrides
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	expanded := expandEnvVars(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfigInvalid, "failed to parse configuration file", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// FromEnv builds a configuration from defaults and prbot_* environment
// variables only, for deployments without a configuration file
func FromEnv() *Config {
	cfg := Default()
	cfg.applyEnvOverrides()
	return cfg
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.GitHub.WebhookSecret == "" {
		return errors.New(errors.ErrCodeConfigInvalid, "github webhook secret is not set")
	}
	if c.GitHub.AppClientID != "" && c.GitHub.AppPrivateKey == "" {
		return errors.New(errors.ErrCodeConfigInvalid, "github app client id is set but the private key is missing")
	}
	return nil
}

// Environment variables override file values using the prbot_ prefix:
//   - prbot_bot_nickname
//   - prbot_server_ip, prbot_server_port, prbot_server_debug
//   - prbot_database_path
//   - prbot_lock_url
//   - prbot_tenor_key
//   - prbot_github_webhook_secret, prbot_github_personal_token
//   - prbot_github_app_client_id, prbot_github_app_private_key
//   - prbot_log_level
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("prbot_bot_nickname"); v != "" {
		c.BotNickname = v
	}
	if v := os.Getenv("prbot_server_ip"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("prbot_server_port"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("prbot_server_debug"); v != "" {
		if debug, err := strconv.ParseBool(v); err == nil {
			c.Server.Debug = debug
		}
	}
	if v := os.Getenv("prbot_database_path"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("prbot_lock_url"); v != "" {
		c.Lock.URL = v
	}
	if v := os.Getenv("prbot_tenor_key"); v != "" {
		c.Gif.TenorKey = v
	}
	if v := os.Getenv("prbot_github_webhook_secret"); v != "" {
		c.GitHub.WebhookSecret = v
	}
	if v := os.Getenv("prbot_github_personal_token"); v != "" {
		c.GitHub.PersonalToken = v
	}
	if v := os.Getenv("prbot_github_app_client_id"); v != "" {
		c.GitHub.AppClientID = v
	}
	if v := os.Getenv("prbot_github_app_private_key"); v != "" {
		// PEM keys pass through environment variables with escaped newlines
		c.GitHub.AppPrivateKey = strings.ReplaceAll(v, `\n`, "\n")
	}
	if v := os.Getenv("prbot_log_level"); v != "" {
		c.Logging.Level = v
	}
}

// expandEnvVars replaces ${VAR_NAME} patterns with environment variable values.
// Supports default values with the ${VAR_NAME:-default} form.
func expandEnvVars(content string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(content, func(match string) string {
		varName := match[2 : len(match)-1]

		parts := strings.SplitN(varName, ":-", 2)
		varName = parts[0]

		if value := os.Getenv(varName); value != "" {
			return value
		}
		if len(parts) > 1 {
			return parts[1]
		}
		return ""
	})
}
