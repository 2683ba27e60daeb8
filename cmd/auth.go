package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"stride/internal/config"
	"stride/pkg/logging"
)

// DefaultAuthorizeURL is Strava's OAuth authorization endpoint.
const DefaultAuthorizeURL = "https://www.strava.com/oauth/authorize"

// authConfigPath is shared by the auth subcommands.
var authConfigPath string

// authCmd is the parent for authentication-related subcommands.
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Strava OAuth credentials",
	Long: `Manage the OAuth credentials stride uses to call the Strava API.

Use 'stride auth login' to run the one-time authorization-code flow that
produces the initial token pair, and 'stride auth status' to inspect the
configured credentials and their expiry.`,
}

// loadAuthConfig initializes quiet logging and loads the configuration the
// auth subcommands operate on.
func loadAuthConfig() (config.Config, error) {
	logging.InitForCLI(logging.LevelWarn, os.Stderr)

	configPath := authConfigPath
	if configPath == "" {
		configPath = config.GetDefaultConfigPathOrPanic()
	}
	return config.LoadConfig(configPath)
}

func init() {
	rootCmd.AddCommand(authCmd)

	authCmd.PersistentFlags().StringVar(&authConfigPath, "config-path", "", "Custom configuration directory path")
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authStatusCmd)
}
