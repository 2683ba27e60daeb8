// Package app wires configuration, the Strava client, the MCP server and
// the optional webhook receiver into one runnable application.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stride/internal/config"
	"stride/internal/server"
	"stride/internal/strava"
	"stride/internal/webhook"
	"stride/pkg/logging"
)

// Options are the serve-command knobs that are not part of the config file.
type Options struct {
	// Debug forces debug-level logging regardless of configuration.
	Debug bool
	// ConfigPath overrides the default configuration directory.
	ConfigPath string
	// Version is the build version advertised to MCP clients.
	Version string
}

// Application is the assembled process: every component constructed once,
// passed by reference, no package-level state.
type Application struct {
	cfg       config.Config
	client    *strava.Client
	mcpServer *server.Server
	receiver  *webhook.Receiver
	version   string
}

// NewApplication loads configuration and constructs all components.
// Incomplete credentials are a fatal construction error: the process must
// not serve requests in a half-configured state.
func NewApplication(opts Options) (*Application, error) {
	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = config.GetDefaultConfigPathOrPanic()
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	level := logging.ParseLevel(cfg.LogLevel)
	if opts.Debug {
		level = logging.LevelDebug
	}
	// Stderr unconditionally: stdout may carry the stdio MCP stream.
	logging.InitForCLI(level, os.Stderr)

	store, err := strava.NewCredentialStore(strava.Credentials{
		AccessToken:  cfg.Strava.AccessToken,
		RefreshToken: cfg.Strava.RefreshToken,
		ExpiresAt:    cfg.Strava.ExpiresAt,
		ClientID:     cfg.Strava.ClientID,
		ClientSecret: cfg.Strava.ClientSecret,
	})
	if err != nil {
		return nil, err
	}

	var tokenOpts []strava.TokenManagerOption
	if cfg.Strava.TokenURL != "" {
		tokenOpts = append(tokenOpts, strava.WithTokenURL(cfg.Strava.TokenURL))
	}
	tokens := strava.NewTokenManager(store, tokenOpts...)

	var clientOpts []strava.ClientOption
	if cfg.Strava.BaseURL != "" {
		clientOpts = append(clientOpts, strava.WithBaseURL(cfg.Strava.BaseURL))
	}
	client := strava.NewClient(tokens, clientOpts...)

	app := &Application{
		cfg:     cfg,
		client:  client,
		version: opts.Version,
	}

	var ring *webhook.EventRing
	if cfg.Webhook.Enabled {
		if cfg.Webhook.VerifyToken == "" {
			return nil, &strava.ConfigError{Field: "webhook verify token"}
		}
		ring = webhook.NewEventRing(cfg.Webhook.RingSize)
		app.receiver = webhook.NewReceiver(cfg.Webhook.VerifyToken, ring, client)
	}

	app.mcpServer = server.New(cfg.Server, client, ring)
	return app, nil
}

// Run starts the configured servers and blocks until the context is
// cancelled or a termination signal arrives.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if a.receiver != nil {
		addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Webhook.Port)
		go func() {
			if err := a.receiver.Start(addr); err != nil {
				logging.Error("App", err, "Webhook receiver failed")
			}
		}()
	}

	if err := a.mcpServer.Start(ctx, a.version); err != nil {
		return fmt.Errorf("failed to start MCP server: %w", err)
	}

	logging.Info("App", "stride %s ready (transport: %s)", a.version, a.cfg.Server.Transport)
	<-ctx.Done()
	logging.Info("App", "Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if a.receiver != nil {
		if err := a.receiver.Stop(shutdownCtx); err != nil {
			logging.Warn("App", "Error stopping webhook receiver: %v", err)
		}
	}
	return a.mcpServer.Stop(shutdownCtx)
}
