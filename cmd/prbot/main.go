// Package main is the entry point for the prbot application.
// prbot is a pull request automation bot for GitHub repositories.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/prbot/prbot/consts"
	"github.com/prbot/prbot/internal/config"
	"github.com/prbot/prbot/internal/database"
	"github.com/prbot/prbot/internal/gif"
	"github.com/prbot/prbot/internal/github"
	"github.com/prbot/prbot/internal/lock"
	"github.com/prbot/prbot/internal/server"
	"github.com/prbot/prbot/internal/store"
	syncpkg "github.com/prbot/prbot/internal/sync"
	"github.com/prbot/prbot/pkg/logger"
)

// Build information - set via ldflags during build
// These variables are linked to consts package for global access
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// init synchronizes build info to consts package for global access
func init() {
	consts.Version = Version
	consts.BuildTime = BuildTime
	consts.GitCommit = GitCommit
}

// configPath holds the path to the configuration file
var configPath string

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "prbot",
	Short: "prbot - Pull Request Automation Bot",
	Long: `prbot is a pull request automation bot. It mirrors pull request state in a
local database, aggregates checks, reviews and QA into a commit status and a
summary comment, reacts to comment commands, and merges automatically when a
pull request is ready.`,
}

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the prbot server",
	Long:  `Start the HTTP server to handle webhook deliveries and the external API.`,
	Run:   runServe,
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("prbot %s\n", Version)
		fmt.Printf("  Build Time: %s\n", BuildTime)
		fmt.Printf("  Git Commit: %s\n", GitCommit)
	},
}

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check availability of external dependencies",
	Run: func(cmd *cobra.Command, args []string) {
		rt := newRuntime()
		defer rt.Close()

		if err := rt.PingDatabase(); err != nil {
			color.Red("Database KO")
		} else {
			color.Green("Database OK")
		}

		if err := rt.LockClient.Ping(cmd.Context()); err != nil {
			color.Red("Lock KO")
		} else {
			color.Green("Lock OK")
		}
	},
}

// pemToVarCmd converts a PEM file to a one-line value usable in an
// environment variable
var pemToVarCmd = &cobra.Command{
	Use:   "pem-to-var <pem-file>",
	Short: "Convert a PEM file to one-line, so it can be used as an environment variable",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := os.ReadFile(args[0])
		if err != nil {
			fatal(err)
		}

		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		for i, line := range lines {
			lines[i] = strings.TrimSpace(line)
		}
		color.Green(strings.Join(lines, `\n`))
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "configuration file path (default: environment only)")

	// Add commands
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(pemToVarCmd)
	rootCmd.AddCommand(repositoryCmd)
	rootCmd.AddCommand(mergeRuleCmd)
	rootCmd.AddCommand(pullRequestCmd)
	rootCmd.AddCommand(accountCmd)
	rootCmd.AddCommand(dataCmd)

	// Serve command flags
	serveCmd.Flags().String("host", "", "server host (overrides config)")
	serveCmd.Flags().Int("port", 0, "server port (overrides config)")
	serveCmd.Flags().Bool("debug", false, "enable debug mode")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runtime bundles the dependencies every command needs: configuration, the
// database-backed store and the platform, gif and lock clients.
type runtime struct {
	Config     *config.Config
	Store      store.Store
	Client     github.Client
	GifClient  gif.Client
	LockClient lock.Client
	Syncer     *syncpkg.Orchestrator
}

// newRuntime loads configuration and wires all dependencies. Any failure is
// fatal, commands cannot run without a working runtime.
func newRuntime() *runtime {
	cfg, err := loadConfig()
	if err != nil {
		fatal(fmt.Errorf("failed to load configuration: %w", err))
	}

	if err := logger.Init(cfg.Logging); err != nil {
		fatal(fmt.Errorf("failed to initialize logger: %w", err))
	}

	if err := database.InitWithPath(cfg.Database.Path); err != nil {
		fatal(fmt.Errorf("failed to initialize database: %w", err))
	}

	client, err := buildGitHubClient(cfg)
	if err != nil {
		fatal(fmt.Errorf("failed to build platform client: %w", err))
	}

	lockClient, err := lock.NewClient(cfg.Lock.URL)
	if err != nil {
		fatal(fmt.Errorf("failed to build lock client: %w", err))
	}

	dataStore := store.NewStore(database.Get())

	return &runtime{
		Config:     cfg,
		Store:      dataStore,
		Client:     client,
		GifClient:  gif.NewClient(cfg.Gif.TenorKey),
		LockClient: lockClient,
		Syncer:     syncpkg.NewOrchestrator(dataStore, client, lockClient),
	}
}

// Close releases the runtime resources
func (rt *runtime) Close() {
	if err := database.Close(); err != nil {
		logger.Warn("Failed to close database", zap.Error(err))
	}
	_ = logger.Sync()
}

// PingDatabase checks database connectivity
func (rt *runtime) PingDatabase() error {
	return database.HealthCheck()
}

// loadConfig loads the configuration file when --config is given, otherwise
// builds the configuration from environment variables only
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	return config.FromEnv(), nil
}

// buildGitHubClient selects the authentication mode from the configuration.
// GitHub App credentials win over a personal token.
func buildGitHubClient(cfg *config.Config) (github.Client, error) {
	if cfg.GitHub.AppClientID != "" {
		auth, err := github.NewAppAuth(cfg.GitHub.AppClientID, cfg.GitHub.AppPrivateKey)
		if err != nil {
			return nil, err
		}
		return github.NewClient(auth), nil
	}
	if cfg.GitHub.PersonalToken != "" {
		return github.NewClient(github.NewUserAuth(cfg.GitHub.PersonalToken)), nil
	}
	return github.NewClient(github.NewAnonymousAuth()), nil
}

// runServe starts the prbot server
func runServe(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Override config with command line flags
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		cfg.Server.Host = host
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Server.Port = port
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Server.Debug = true
		cfg.Logging.Level = "debug"
		cfg.Logging.Format = "text"
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting prbot",
		zap.String("version", Version),
	)

	if err := database.InitWithPath(cfg.Database.Path); err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer database.Close()

	client, err := buildGitHubClient(cfg)
	if err != nil {
		logger.Fatal("Failed to build platform client", zap.Error(err))
	}

	lockClient, err := lock.NewClient(cfg.Lock.URL)
	if err != nil {
		logger.Fatal("Failed to build lock client", zap.Error(err))
	}

	dataStore := store.NewStore(database.Get())
	syncer := syncpkg.NewOrchestrator(dataStore, client, lockClient)

	srv := server.New(cfg, dataStore, client, gif.NewClient(cfg.Gif.TenorKey), lockClient, syncer)
	srv.SetupRoutes()

	if err := srv.Start(); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}

	logger.Info("prbot server is running",
		zap.String("address", cfg.Server.Address()),
	)

	srv.WaitForShutdown()

	logger.Info("prbot stopped")
}

// fatal prints an error and exits
func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
