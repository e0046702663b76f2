// Package consts defines cross-module constants used throughout the application.
package consts

// ServiceName is the application service name
const ServiceName = "prbot"

// Project information constants
const (
	// ProjectName is the display name of the project
	ProjectName = "prbot"

	// ProjectURL is the GitHub repository URL
	ProjectURL = "https://github.com/prbot/prbot"
)

// Platform projection constants
const (
	// ValidationStatusContext is the commit status context used for PR validation
	ValidationStatusContext = "Validation"

	// StepLabelPrefix is the prefix for step labels managed by the bot
	StepLabelPrefix = "step/"

	// MessageFooter is appended to every bot-authored comment
	MessageFooter = "---\n\n_:robot: Beep boop, I am a bot. Mention me with a command to interact._"
)

// Build information - set via ldflags during build or programmatically
var (
	// Version is the application version
	Version = "dev"

	// BuildTime is the build timestamp
	BuildTime = "unknown"

	// GitCommit is the git commit hash
	GitCommit = "unknown"
)
