package cmd

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"stride/internal/strava"
	"stride/pkg/logging"
)

// authStatusCmd reports on the configured credentials.
var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the configured Strava credentials",
	Long: `Validate the configured Strava credentials and report the access
token's expiry. The command never contacts Strava; it only inspects the
local configuration the same way the server does at startup.`,
	RunE: runAuthStatus,
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadAuthConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	store, err := strava.NewCredentialStore(strava.Credentials{
		AccessToken:  cfg.Strava.AccessToken,
		RefreshToken: cfg.Strava.RefreshToken,
		ExpiresAt:    cfg.Strava.ExpiresAt,
		ClientID:     cfg.Strava.ClientID,
		ClientSecret: cfg.Strava.ClientSecret,
	})
	if err != nil {
		fmt.Fprintf(out, "Credentials: %s\n", text.FgRed.Sprint("incomplete"))
		fmt.Fprintf(out, "  %v\n", err)
		return err
	}

	creds := store.Current()
	expiry := time.Unix(creds.ExpiresAt, 0)
	now := time.Now()

	fmt.Fprintf(out, "Credentials: %s\n", text.FgGreen.Sprint("configured"))
	fmt.Fprintf(out, "  Client ID:     %s\n", creds.ClientID)
	fmt.Fprintf(out, "  Access token:  %s\n", logging.RedactToken(creds.AccessToken))
	fmt.Fprintf(out, "  Refresh token: %s\n", logging.RedactToken(creds.RefreshToken))
	fmt.Fprintf(out, "  Expires at:    %s\n", expiry.UTC().Format(time.RFC3339))

	switch {
	case now.After(expiry):
		fmt.Fprintf(out, "Access token:  %s (will be refreshed on first request)\n",
			text.FgRed.Sprint("expired"))
	case now.After(expiry.Add(-strava.GraceWindow)):
		fmt.Fprintf(out, "Access token:  %s (within the refresh window, rotates on next request)\n",
			text.FgYellow.Sprint("expiring"))
	default:
		fmt.Fprintf(out, "Access token:  %s (valid for %s)\n",
			text.FgGreen.Sprint("valid"), expiry.Sub(now).Round(time.Minute))
	}
	return nil
}
