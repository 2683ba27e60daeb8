package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"stride/internal/strava"
)

// loginCode is the authorization code pasted back by the user after
// approving access in the browser.
var loginCode string

// authLoginCmd runs the one-time authorization-code flow.
var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Obtain the initial Strava token pair",
	Long: `Run the OAuth authorization-code flow against Strava.

Without --code, prints the authorization URL to open in a browser. After
approving access, Strava redirects to the configured redirect URI with a
'code' query parameter; run the command again with --code to exchange it:

  stride auth login
  stride auth login --code <authorization-code>

The printed access token, refresh token and expiry go into the stride
configuration (or the STRAVA_* environment). They are only needed once:
from then on stride rotates them in memory via the refresh grant.`,
	RunE: runAuthLogin,
}

func init() {
	authLoginCmd.Flags().StringVar(&loginCode, "code", "", "Authorization code from the redirect URI")
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	cfg, err := loadAuthConfig()
	if err != nil {
		return err
	}
	if cfg.Strava.ClientID == "" {
		return &strava.ConfigError{Field: "client id"}
	}
	if cfg.Strava.ClientSecret == "" {
		return &strava.ConfigError{Field: "client secret"}
	}

	tokenURL := cfg.Strava.TokenURL
	if tokenURL == "" {
		tokenURL = strava.DefaultTokenURL
	}

	conf := &oauth2.Config{
		ClientID:     cfg.Strava.ClientID,
		ClientSecret: cfg.Strava.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  DefaultAuthorizeURL,
			TokenURL: tokenURL,
		},
		// Strava requires a redirect URI but accepts localhost for
		// single-user API applications; the code arrives as a query
		// parameter the user copies back.
		RedirectURL: "http://localhost/exchange_token",
		Scopes:      []string{"read,activity:read_all"},
	}

	out := cmd.OutOrStdout()

	if loginCode == "" {
		authURL := conf.AuthCodeURL("stride", oauth2.AccessTypeOffline)
		fmt.Fprintln(out, "Open the following URL in a browser and approve access:")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  "+authURL)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Then re-run with the code from the redirect URL:")
		fmt.Fprintln(out, "  stride auth login --code <code>")
		return nil
	}

	token, err := conf.Exchange(cmd.Context(), loginCode)
	if err != nil {
		return fmt.Errorf("code exchange failed: %w", err)
	}

	fmt.Fprintln(out, "Authorization succeeded. Add these values to your configuration:")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  STRAVA_ACCESS_TOKEN=%s\n", token.AccessToken)
	fmt.Fprintf(out, "  STRAVA_REFRESH_TOKEN=%s\n", token.RefreshToken)
	fmt.Fprintf(out, "  STRAVA_EXPIRES_AT=%d\n", token.Expiry.Unix())
	return nil
}
