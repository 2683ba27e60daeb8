package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"stride/internal/config"
	"stride/internal/strava"
	"stride/internal/webhook"
	"stride/pkg/logging"
)

// Server exposes the Strava tools over MCP. It owns the protocol server
// and the transport selected by configuration.
type Server struct {
	config config.ServerConfig
	client *strava.Client
	ring   *webhook.EventRing

	mcpServer            *server.MCPServer
	streamableHTTPServer *server.StreamableHTTPServer
	stdioServer          *server.StdioServer

	mu         sync.Mutex
	cancelFunc context.CancelFunc
}

// New creates an MCP server over the given Strava client. ring may be nil
// when the webhook receiver is disabled; the events resource then reports
// an empty list.
func New(cfg config.ServerConfig, client *strava.Client, ring *webhook.EventRing) *Server {
	return &Server{
		config: cfg,
		client: client,
		ring:   ring,
	}
}

// Start registers tools and resources and begins serving on the configured
// transport. It returns once the transport is started; the stdio transport
// runs until ctx is cancelled.
func (s *Server) Start(ctx context.Context, version string) error {
	s.mu.Lock()
	if s.mcpServer != nil {
		s.mu.Unlock()
		return fmt.Errorf("server already started")
	}

	ctx, s.cancelFunc = context.WithCancel(ctx)

	s.mcpServer = server.NewMCPServer(
		"stride",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
	)

	s.registerTools()
	s.registerResources()
	s.mu.Unlock()

	switch s.config.Transport {
	case config.TransportStreamableHTTP:
		addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
		logging.Info("Server", "Starting MCP server with streamable-http transport on %s", addr)
		s.streamableHTTPServer = server.NewStreamableHTTPServer(s.mcpServer)
		streamableServer := s.streamableHTTPServer
		go func() {
			if err := streamableServer.Start(addr); err != nil && err != http.ErrServerClosed {
				logging.Error("Server", err, "Streamable HTTP server error")
			}
		}()

	case config.TransportStdio:
		fallthrough
	default:
		logging.Info("Server", "Starting MCP server with stdio transport")
		s.stdioServer = server.NewStdioServer(s.mcpServer)
		stdioServer := s.stdioServer
		go func() {
			if err := stdioServer.Listen(ctx, os.Stdin, os.Stdout); err != nil {
				logging.Error("Server", err, "Stdio server error")
			}
		}()
	}

	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	cancelFunc := s.cancelFunc
	streamableServer := s.streamableHTTPServer
	s.mcpServer = nil
	s.streamableHTTPServer = nil
	s.stdioServer = nil
	s.cancelFunc = nil
	s.mu.Unlock()

	if cancelFunc != nil {
		cancelFunc()
	}

	if streamableServer != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := streamableServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down streamable HTTP server: %w", err)
		}
	}

	// The stdio transport stops on context cancellation; nothing else to do.
	return nil
}
