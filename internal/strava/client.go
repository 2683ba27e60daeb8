package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"stride/pkg/logging"
)

// DefaultBaseURL is the Strava v3 REST API root.
const DefaultBaseURL = "https://www.strava.com/api/v3"

// dataHTTPTimeout bounds individual data requests.
const dataHTTPTimeout = 30 * time.Second

// Client executes authorized requests against the Strava API. It consults
// the response cache first, asks the token manager for a valid bearer
// token on a miss, and classifies non-2xx responses into typed errors.
// The cache is owned exclusively by the client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     *TokenManager
	cache      *ResponseCache
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithBaseURL overrides the API root, primarily for tests.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client for data requests.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a client over the given token manager with a fresh
// response cache.
func NewClient(tokens *TokenManager, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: dataHTTPTimeout},
		tokens:     tokens,
		cache:      NewResponseCache(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClearCache drops every memoized response. The webhook receiver calls
// this when upstream data changes so the next read observes it.
func (c *Client) ClearCache() {
	c.cache.Clear()
}

// get fetches path with the given query, consulting the cache when
// useCache is set. A cache hit returns immediately: no token check, no
// network call. Failed responses are never cached.
func (c *Client) get(ctx context.Context, path string, query url.Values, useCache bool) (json.RawMessage, error) {
	key := CacheKey(path, query)

	if useCache {
		if payload, ok := c.cache.Get(key); ok {
			logging.Debug("Strava", "Cache hit for %s", key)
			return payload, nil
		}
	}

	token, err := c.tokens.ValidToken(ctx)
	if err != nil {
		return nil, err
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// A 401 from an unexpectedly invalid token surfaces here too;
		// there is no automatic re-refresh-and-retry.
		return nil, &UpstreamError{Status: resp.StatusCode, Body: string(body)}
	}

	if useCache {
		c.cache.Put(key, body)
	}
	return body, nil
}

// ListActivitiesOptions filter the authenticated athlete's activity list.
// Zero values are omitted from the request.
type ListActivitiesOptions struct {
	// Before and After bound the activity start time, Unix seconds.
	Before int64
	After  int64
	// Page and PerPage control pagination; Strava caps PerPage at 200.
	Page    int
	PerPage int
}

// ListActivities returns the authenticated athlete's activities, newest
// first.
func (c *Client) ListActivities(ctx context.Context, opts ListActivitiesOptions) ([]Activity, error) {
	query := url.Values{}
	if opts.Before > 0 {
		query.Set("before", strconv.FormatInt(opts.Before, 10))
	}
	if opts.After > 0 {
		query.Set("after", strconv.FormatInt(opts.After, 10))
	}
	if opts.Page > 0 {
		query.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.PerPage > 0 {
		query.Set("per_page", strconv.Itoa(opts.PerPage))
	}

	payload, err := c.get(ctx, "/athlete/activities", query, true)
	if err != nil {
		return nil, err
	}

	var activities []Activity
	if err := json.Unmarshal(payload, &activities); err != nil {
		return nil, fmt.Errorf("failed to parse activities response: %w", err)
	}
	return activities, nil
}

// Activity returns the full detail of a single activity.
func (c *Client) Activity(ctx context.Context, id int64) (*Activity, error) {
	payload, err := c.get(ctx, "/activities/"+strconv.FormatInt(id, 10), nil, true)
	if err != nil {
		return nil, err
	}

	var activity Activity
	if err := json.Unmarshal(payload, &activity); err != nil {
		return nil, fmt.Errorf("failed to parse activity response: %w", err)
	}
	return &activity, nil
}

// Athlete returns the authenticated athlete's profile.
func (c *Client) Athlete(ctx context.Context) (*Athlete, error) {
	payload, err := c.get(ctx, "/athlete", nil, true)
	if err != nil {
		return nil, err
	}

	var athlete Athlete
	if err := json.Unmarshal(payload, &athlete); err != nil {
		return nil, fmt.Errorf("failed to parse athlete response: %w", err)
	}
	return &athlete, nil
}

// AthleteStats returns the recent, year-to-date and all-time rollups for
// the given athlete.
func (c *Client) AthleteStats(ctx context.Context, athleteID int64) (*AthleteStats, error) {
	payload, err := c.get(ctx, "/athletes/"+strconv.FormatInt(athleteID, 10)+"/stats", nil, true)
	if err != nil {
		return nil, err
	}

	var stats AthleteStats
	if err := json.Unmarshal(payload, &stats); err != nil {
		return nil, fmt.Errorf("failed to parse athlete stats response: %w", err)
	}
	return &stats, nil
}
