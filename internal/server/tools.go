package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"stride/internal/strava"
	"stride/pkg/logging"
)

const defaultPerPage = 30

// registerTools adds the five Strava tools to the MCP server.
func (s *Server) registerTools() {
	listTool := mcp.NewTool("list_activities",
		mcp.WithDescription("List the athlete's recent activities, newest first. Supports time filtering and pagination."),
		mcp.WithNumber("before",
			mcp.Description("Only activities started before this Unix timestamp (seconds)"),
		),
		mcp.WithNumber("after",
			mcp.Description("Only activities started after this Unix timestamp (seconds)"),
		),
		mcp.WithNumber("page",
			mcp.Description("Page number, starting at 1"),
		),
		mcp.WithNumber("per_page",
			mcp.Description("Activities per page (default 30, max 200)"),
		),
	)
	s.mcpServer.AddTool(listTool, s.handleListActivities)

	detailTool := mcp.NewTool("get_activity",
		mcp.WithDescription("Get the full detail of a single activity by its ID."),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("The activity ID"),
		),
	)
	s.mcpServer.AddTool(detailTool, s.handleGetActivity)

	statsTool := mcp.NewTool("get_athlete_stats",
		mcp.WithDescription("Get recent, year-to-date and all-time totals for an athlete, split by sport."),
		mcp.WithNumber("athlete_id",
			mcp.Description("Athlete ID (defaults to the authenticated athlete)"),
		),
	)
	s.mcpServer.AddTool(statsTool, s.handleAthleteStats)

	searchTool := mcp.NewTool("search_activities",
		mcp.WithDescription("Search recent activities by keyword, sport type and date range."),
		mcp.WithString("keyword",
			mcp.Description("Case-insensitive match against activity name and description"),
		),
		mcp.WithString("type",
			mcp.Description("Sport type filter, e.g. Run, Ride, Swim"),
		),
		mcp.WithNumber("after",
			mcp.Description("Only activities started after this Unix timestamp (seconds)"),
		),
		mcp.WithNumber("before",
			mcp.Description("Only activities started before this Unix timestamp (seconds)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum results to return (default 30)"),
		),
	)
	s.mcpServer.AddTool(searchTool, s.handleSearchActivities)

	trendsTool := mcp.NewTool("analyze_trends",
		mcp.WithDescription("Aggregate activities into weekly buckets over a recent period and report the training trend."),
		mcp.WithNumber("weeks",
			mcp.Description("Number of weeks to analyze (default 12, max 52)"),
		),
		mcp.WithString("metric",
			mcp.Description("Metric to trend: distance, time or elevation (default distance)"),
		),
	)
	s.mcpServer.AddTool(trendsTool, s.handleAnalyzeTrends)
}

// toolArgs extracts the flat argument object from a tool call.
func toolArgs(request mcp.CallToolRequest) map[string]interface{} {
	if args, ok := request.Params.Arguments.(map[string]interface{}); ok {
		return args
	}
	return map[string]interface{}{}
}

// argInt64 reads an integer argument. JSON numbers arrive as float64.
func argInt64(args map[string]interface{}, key string) int64 {
	if v, ok := args[key].(float64); ok {
		return int64(v)
	}
	return 0
}

func argInt(args map[string]interface{}, key string) int {
	return int(argInt64(args, key))
}

func argString(args map[string]interface{}, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func (s *Server) handleListActivities(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := toolArgs(request)
	opts := strava.ListActivitiesOptions{
		Before:  argInt64(args, "before"),
		After:   argInt64(args, "after"),
		Page:    argInt(args, "page"),
		PerPage: argInt(args, "per_page"),
	}
	if opts.PerPage == 0 {
		opts.PerPage = defaultPerPage
	}

	activities, err := s.client.ListActivities(ctx, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list activities: %v", err)), nil
	}
	if len(activities) == 0 {
		return mcp.NewToolResultText("No activities found for the given filters."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d activities:\n", len(activities))
	for _, a := range activities {
		b.WriteString(formatActivityLine(a) + "\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleGetActivity(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := toolArgs(request)
	id := argInt64(args, "id")
	if id == 0 {
		return mcp.NewToolResultError("'id' argument is required"), nil
	}

	activity, err := s.client.Activity(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get activity %d: %v", id, err)), nil
	}
	return mcp.NewToolResultText(formatActivityDetail(activity)), nil
}

func (s *Server) handleAthleteStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := toolArgs(request)
	athleteID := argInt64(args, "athlete_id")

	header := ""
	if athleteID == 0 {
		athlete, err := s.client.Athlete(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to resolve current athlete: %v", err)), nil
		}
		athleteID = athlete.ID
		header = fmt.Sprintf("Stats for %s %s (athlete %d):\n", athlete.Firstname, athlete.Lastname, athlete.ID)
	}

	stats, err := s.client.AthleteStats(ctx, athleteID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get stats for athlete %d: %v", athleteID, err)), nil
	}
	return mcp.NewToolResultText(header + formatAthleteStats(stats)), nil
}

func (s *Server) handleSearchActivities(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := toolArgs(request)
	keyword := argString(args, "keyword")
	sportType := argString(args, "type")
	limit := argInt(args, "limit")
	if limit <= 0 {
		limit = defaultPerPage
	}

	// Search is a client-side filter over a recent-activities window; one
	// maximal page bounds upstream traffic to a single call.
	activities, err := s.client.ListActivities(ctx, strava.ListActivitiesOptions{
		Before:  argInt64(args, "before"),
		After:   argInt64(args, "after"),
		PerPage: 200,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to search activities: %v", err)), nil
	}

	matches := filterActivities(activities, keyword, sportType, limit)
	if len(matches) == 0 {
		return mcp.NewToolResultText("No activities matched the search."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d matching activities:\n", len(matches))
	for _, a := range matches {
		b.WriteString(formatActivityLine(a) + "\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleAnalyzeTrends(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := toolArgs(request)
	weeks := argInt(args, "weeks")
	if weeks <= 0 {
		weeks = 12
	}
	if weeks > 52 {
		weeks = 52
	}
	metric := argString(args, "metric")
	if metric == "" {
		metric = metricDistance
	}
	if metric != metricDistance && metric != metricTime && metric != metricElevation {
		return mcp.NewToolResultError(fmt.Sprintf("Unknown metric %q: use distance, time or elevation", metric)), nil
	}

	report, err := s.buildTrendReport(ctx, weeks, metric)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to analyze trends: %v", err)), nil
	}

	logging.Debug("Server", "Trend analysis over %d weeks (%s): %s", weeks, metric, report.Verdict)
	return mcp.NewToolResultText(report.Render()), nil
}

// filterActivities applies keyword and sport-type filters, capping the
// result at limit while preserving newest-first order.
func filterActivities(activities []strava.Activity, keyword, sportType string, limit int) []strava.Activity {
	keyword = strings.ToLower(keyword)
	var matches []strava.Activity
	for _, a := range activities {
		if sportType != "" && !strings.EqualFold(a.Type, sportType) && !strings.EqualFold(a.SportType, sportType) {
			continue
		}
		if keyword != "" &&
			!strings.Contains(strings.ToLower(a.Name), keyword) &&
			!strings.Contains(strings.ToLower(a.Description), keyword) {
			continue
		}
		matches = append(matches, a)
		if len(matches) == limit {
			break
		}
	}
	return matches
}
