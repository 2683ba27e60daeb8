// Package server exposes the Strava client as an MCP tool surface.
//
// Five tools cover the inbound protocol: list_activities, get_activity,
// get_athlete_stats, search_activities and analyze_trends. Each takes a
// flat argument object and returns a text payload; upstream failures are
// rendered as tool errors rather than crashing the call.
//
// The server speaks either the stdio transport (for editor/assistant
// integration) or streamable HTTP (for networked clients with session-id
// correlation), selected by configuration. A single MCP resource,
// stride://webhook/events, exposes the webhook ring buffer.
package server
