package server

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stride/internal/config"
	"stride/internal/strava"
	"stride/internal/webhook"
)

// newToolServer wires a Server against an httptest double for the data
// API. The credentials never enter the grace window, so no token traffic
// happens in these tests.
func newToolServer(t *testing.T, handler http.HandlerFunc) *Server {
	t.Helper()

	dataServer := httptest.NewServer(handler)
	t.Cleanup(dataServer.Close)

	store, err := strava.NewCredentialStore(strava.Credentials{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		ExpiresAt:    time.Now().Unix() + 7200,
		ClientID:     "12345",
		ClientSecret: "shhh",
	})
	require.NoError(t, err)

	client := strava.NewClient(
		strava.NewTokenManager(store),
		strava.WithBaseURL(dataServer.URL),
	)
	return New(config.ServerConfig{}, client, webhook.NewEventRing(8))
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok)
	return text.Text
}

func TestListActivitiesTool(t *testing.T) {
	srv := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/athlete/activities", r.URL.Path)
		assert.Equal(t, "30", r.URL.Query().Get("per_page"))
		w.Write([]byte(`[
			{"id":1,"name":"Morning Run","type":"Run","distance":5000,"moving_time":1500,"average_speed":3.33,"start_date_local":"2026-08-20T07:00:00Z"},
			{"id":2,"name":"Evening Ride","type":"Ride","distance":30000,"moving_time":4200,"average_speed":7.1,"start_date_local":"2026-08-19T18:00:00Z"}
		]`))
	})

	result, err := srv.handleListActivities(context.Background(), callRequest(nil))
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "2 activities")
	assert.Contains(t, text, "Morning Run")
	assert.Contains(t, text, "5.00 km")
	assert.Contains(t, text, "/km") // runs render pace
	assert.Contains(t, text, "km/h") // rides render speed
}

func TestListActivitiesToolEmpty(t *testing.T) {
	srv := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	result, err := srv.handleListActivities(context.Background(), callRequest(map[string]interface{}{
		"after": float64(1700000000),
	}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "No activities found")
}

func TestListActivitiesToolUpstreamError(t *testing.T) {
	srv := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"message":"maintenance"}`))
	})

	result, err := srv.handleListActivities(context.Background(), callRequest(nil))
	require.NoError(t, err, "upstream failures render as tool errors, not Go errors")
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "503")
}

func TestGetActivityTool(t *testing.T) {
	srv := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/activities/42", r.URL.Path)
		w.Write([]byte(`{"id":42,"name":"Long Run","type":"Run","distance":21097.5,"moving_time":6300,"elapsed_time":6600,"average_speed":3.35,"calories":1450}`))
	})

	result, err := srv.handleGetActivity(context.Background(), callRequest(map[string]interface{}{
		"id": float64(42),
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "Long Run")
	assert.Contains(t, text, "21.10 km")
	assert.Contains(t, text, "Calories:   1450")
}

func TestGetActivityToolRequiresID(t *testing.T) {
	srv := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no upstream call expected")
	})

	result, err := srv.handleGetActivity(context.Background(), callRequest(nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "'id' argument is required")
}

func TestAthleteStatsToolDefaultsToCurrentAthlete(t *testing.T) {
	srv := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/athlete":
			w.Write([]byte(`{"id":7,"firstname":"Jo","lastname":"Runner"}`))
		case "/athletes/7/stats":
			w.Write([]byte(`{"recent_run_totals":{"count":8,"distance":64000,"moving_time":21000}}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	result, err := srv.handleAthleteStats(context.Background(), callRequest(nil))
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "Jo Runner")
	assert.Contains(t, text, "64.00 km")
}

func TestSearchActivitiesTool(t *testing.T) {
	srv := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id":1,"name":"Tempo intervals","type":"Run","distance":8000},
			{"id":2,"name":"Commute","type":"Ride","distance":9000},
			{"id":3,"name":"Easy tempo shakeout","type":"Run","distance":4000},
			{"id":4,"name":"Tempo swim","type":"Swim","distance":2000}
		]`))
	})

	result, err := srv.handleSearchActivities(context.Background(), callRequest(map[string]interface{}{
		"keyword": "tempo",
		"type":    "Run",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "2 matching activities")
	assert.Contains(t, text, "Tempo intervals")
	assert.Contains(t, text, "Easy tempo shakeout")
	assert.NotContains(t, text, "Commute")
	assert.NotContains(t, text, "Tempo swim")
}

func TestSearchActivitiesToolNoMatch(t *testing.T) {
	srv := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":1,"name":"Morning Run","type":"Run"}]`))
	})

	result, err := srv.handleSearchActivities(context.Background(), callRequest(map[string]interface{}{
		"keyword": "alpine",
	}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "No activities matched")
}

func TestAnalyzeTrendsTool(t *testing.T) {
	now := time.Now()
	srv := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		// One recent activity and one from several weeks back.
		fmt.Fprintf(w, `[
			{"id":1,"name":"Recent Run","type":"Run","distance":10000,"moving_time":3000,"start_date":%q},
			{"id":2,"name":"Old Run","type":"Run","distance":5000,"moving_time":1600,"start_date":%q}
		]`,
			now.AddDate(0, 0, -2).UTC().Format(time.RFC3339),
			now.AddDate(0, 0, -30).UTC().Format(time.RFC3339))
	})

	result, err := srv.handleAnalyzeTrends(context.Background(), callRequest(map[string]interface{}{
		"weeks":  float64(8),
		"metric": "distance",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "Weekly distance over 8 weeks")
	assert.Contains(t, text, "Trend: improving")
}

func TestAnalyzeTrendsToolRejectsUnknownMetric(t *testing.T) {
	srv := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no upstream call expected")
	})

	result, err := srv.handleAnalyzeTrends(context.Background(), callRequest(map[string]interface{}{
		"metric": "vibes",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Unknown metric")
}
