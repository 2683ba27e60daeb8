package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"stride/internal/strava"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeConfig indicates incomplete or invalid credential configuration.
	ExitCodeConfig = 2
)

// rootCmd represents the base command for the stride application.
var rootCmd = &cobra.Command{
	Use:   "stride",
	Short: "Expose Strava training data to AI assistants over MCP",
	Long: `stride is a single-user MCP gateway for Strava. It serves the
athlete's activities, stats and training trends as MCP tools over stdio or
streamable HTTP, keeping the OAuth tokens fresh and shielding Strava's
rate limits with a short-lived response cache.`,
	// SilenceUsage prevents cobra from printing usage on errors the
	// application already reports cleanly.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
// Called from the main package to inject the build version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "stride version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode maps error types to semantic exit codes for scripting.
func getExitCode(err error) int {
	var cfgErr *strava.ConfigError
	if errors.As(err, &cfgErr) {
		return ExitCodeConfig
	}
	return ExitCodeError
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
}
