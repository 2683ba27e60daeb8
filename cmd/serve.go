package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"stride/internal/app"
)

// serveDebug enables verbose logging across the application.
var serveDebug bool

// serveConfigPath specifies a custom configuration directory path.
var serveConfigPath string

// serveCmd starts the MCP server. This is the main command of stride.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the stride MCP server",
	Long: `Starts the MCP server exposing Strava tools to AI assistants.

The transport is taken from configuration:

  stdio (default):
    - The server speaks MCP on stdin/stdout, for direct integration with
      assistants such as Claude Desktop. All logging goes to stderr.

  streamable-http:
    - The server listens on the configured host/port and correlates
      clients by session id. Suited for networked MCP clients.

When the webhook receiver is enabled, a second HTTP listener answers
Strava's subscription validation handshake and buffers change events;
activity events also invalidate the response cache.

Configuration:
  stride loads ~/.config/stride/config.yaml (or --config-path) and applies
  environment overrides (STRAVA_CLIENT_ID, STRAVA_CLIENT_SECRET,
  STRAVA_ACCESS_TOKEN, STRAVA_REFRESH_TOKEN, STRAVA_EXPIRES_AT, ...).
  All five credential values are required; the server refuses to start
  without them.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	application, err := app.NewApplication(app.Options{
		Debug:      serveDebug,
		ConfigPath: serveConfigPath,
		Version:    GetVersion(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return application.Run(ctx)
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging")
	serveCmd.Flags().StringVar(&serveConfigPath, "config-path", "", "Custom configuration directory path")
}
