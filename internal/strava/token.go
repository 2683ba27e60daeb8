package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"stride/pkg/logging"
)

const (
	// DefaultTokenURL is Strava's OAuth token endpoint.
	DefaultTokenURL = "https://www.strava.com/oauth/token"

	// GraceWindow is the lead time before actual expiry at which a
	// proactive refresh is triggered. One hour keeps us well clear of
	// mid-request expiry without refreshing on every call.
	GraceWindow = 3600 * time.Second

	// tokenHTTPTimeout bounds the refresh handshake.
	tokenHTTPTimeout = 30 * time.Second
)

// TokenManager guarantees a valid, non-expiring-soon access token before
// every upstream call. Refresh is lazy: it happens only when a caller asks
// for a token inside the grace window, never on a background timer.
type TokenManager struct {
	store      *CredentialStore
	tokenURL   string
	httpClient *http.Client

	// group deduplicates concurrent refreshes: all callers that observe
	// an expiring token share one in-flight handshake. Without this a
	// rotated refresh token could be reused and invalidated upstream.
	group singleflight.Group

	// now is replaceable for tests.
	now func() time.Time
}

// TokenManagerOption configures the token manager.
type TokenManagerOption func(*TokenManager)

// WithTokenURL overrides the token endpoint, primarily for tests.
func WithTokenURL(tokenURL string) TokenManagerOption {
	return func(m *TokenManager) {
		m.tokenURL = tokenURL
	}
}

// WithTokenHTTPClient sets a custom HTTP client for the refresh handshake.
func WithTokenHTTPClient(httpClient *http.Client) TokenManagerOption {
	return func(m *TokenManager) {
		m.httpClient = httpClient
	}
}

// NewTokenManager creates a token manager over the given credential store.
func NewTokenManager(store *CredentialStore, opts ...TokenManagerOption) *TokenManager {
	m := &TokenManager{
		store:      store,
		tokenURL:   DefaultTokenURL,
		httpClient: &http.Client{Timeout: tokenHTTPTimeout},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// tokenResponse is the token endpoint's reply to a refresh_token grant.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
}

// ValidToken returns an access token guaranteed to be outside the grace
// window, refreshing synchronously first when necessary. On refresh failure
// the stored (now expiring) credentials are left untouched and the error is
// returned to the caller; the next call retries from scratch.
func (m *TokenManager) ValidToken(ctx context.Context) (string, error) {
	creds := m.store.Current()
	if !m.needsRefresh(creds) {
		return creds.AccessToken, nil
	}

	logging.Debug("TokenManager", "Access token inside grace window (expires %s), refreshing",
		time.Unix(creds.ExpiresAt, 0).Format(time.RFC3339))

	// Concurrent callers share a single refresh; each gets the same
	// result or the same error.
	result, err, _ := m.group.Do("refresh", func() (interface{}, error) {
		// Re-check after winning the flight: another caller may have
		// completed the refresh while we waited.
		current := m.store.Current()
		if !m.needsRefresh(current) {
			return current.AccessToken, nil
		}
		return m.refresh(ctx, current)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// needsRefresh reports whether the credentials are inside the grace window.
func (m *TokenManager) needsRefresh(creds Credentials) bool {
	return m.now().Unix() > creds.ExpiresAt-int64(GraceWindow.Seconds())
}

// refresh performs the refresh_token grant and replaces the stored token
// triple on success. The refresh token rotates: the value returned by the
// endpoint supersedes the one just spent.
func (m *TokenManager) refresh(ctx context.Context, creds Credentials) (string, error) {
	data := url.Values{
		"client_id":     {creds.ClientID},
		"client_secret": {creds.ClientSecret},
		"refresh_token": {creds.RefreshToken},
		"grant_type":    {"refresh_token"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("refresh request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read refresh response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &TokenRefreshError{Status: resp.StatusCode, Body: string(body)}
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", fmt.Errorf("failed to parse refresh response: %w", err)
	}

	m.store.Replace(token.AccessToken, token.RefreshToken, token.ExpiresAt)

	logging.Info("TokenManager", "Refreshed access token %s, valid until %s",
		logging.RedactToken(token.AccessToken),
		time.Unix(token.ExpiresAt, 0).Format(time.RFC3339))

	return token.AccessToken, nil
}
