package server

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"stride/internal/webhook"
	"stride/pkg/logging"
)

// WebhookEventsResourceURI identifies the recent-webhook-events resource.
const WebhookEventsResourceURI = "stride://webhook/events"

// registerResources adds the webhook events resource to the MCP server.
func (s *Server) registerResources() {
	resource := mcp.NewResource(
		WebhookEventsResourceURI,
		"Recent change events delivered by the Strava webhook subscription, newest first.",
	)
	s.mcpServer.AddResource(resource, s.handleWebhookEventsResource)
	logging.Debug("Server", "Registered %s resource", WebhookEventsResourceURI)
}

// handleWebhookEventsResource returns the buffered webhook events as JSON.
// Without a webhook receiver the list is empty, not an error.
func (s *Server) handleWebhookEventsResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	events := []webhook.Event{}
	if s.ring != nil {
		events = s.ring.Recent(0)
	}

	data, err := json.Marshal(events)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      WebhookEventsResourceURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
