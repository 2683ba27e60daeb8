package strava

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tokenEndpoint is a test double for the OAuth token endpoint. It counts
// calls and records the form parameters of the most recent request.
type tokenEndpoint struct {
	server   *httptest.Server
	calls    atomic.Int64
	lastForm map[string]string

	mu       sync.Mutex
	status   int
	response tokenResponse
}

func newTokenEndpoint(t *testing.T, response tokenResponse) *tokenEndpoint {
	t.Helper()
	te := &tokenEndpoint{status: http.StatusOK, response: response}
	te.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		te.calls.Add(1)
		require.NoError(t, r.ParseForm())

		te.mu.Lock()
		te.lastForm = map[string]string{}
		for k := range r.PostForm {
			te.lastForm[k] = r.PostForm.Get(k)
		}
		status := te.status
		resp := te.response
		te.mu.Unlock()

		if status != http.StatusOK {
			w.WriteHeader(status)
			w.Write([]byte(`{"message":"Bad Request","errors":[{"resource":"RefreshToken","code":"invalid"}]}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(te.server.Close)
	return te
}

func newTestManager(t *testing.T, expiresAt int64, endpoint *tokenEndpoint) (*TokenManager, *CredentialStore) {
	t.Helper()
	creds := validCredentials()
	creds.ExpiresAt = expiresAt
	store, err := NewCredentialStore(creds, WithRefreshHook(func(Credentials) {}))
	require.NoError(t, err)
	return NewTokenManager(store, WithTokenURL(endpoint.server.URL)), store
}

func TestValidTokenOutsideGraceWindow(t *testing.T) {
	endpoint := newTokenEndpoint(t, tokenResponse{})

	// Expiry comfortably beyond the grace window: no network traffic.
	mgr, _ := newTestManager(t, time.Now().Unix()+7200, endpoint)

	token, err := mgr.ValidToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "access-token-1234", token)
	assert.Equal(t, int64(0), endpoint.calls.Load())
}

func TestValidTokenInsideGraceWindowRefreshes(t *testing.T) {
	endpoint := newTokenEndpoint(t, tokenResponse{
		AccessToken:  "fresh-access",
		RefreshToken: "fresh-refresh",
		ExpiresAt:    time.Now().Unix() + 21600,
	})

	// Expired ten seconds ago.
	mgr, store := newTestManager(t, time.Now().Unix()-10, endpoint)

	token, err := mgr.ValidToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh-access", token)
	assert.Equal(t, int64(1), endpoint.calls.Load())

	// The handshake carries the full refresh grant.
	endpoint.mu.Lock()
	form := endpoint.lastForm
	endpoint.mu.Unlock()
	assert.Equal(t, "refresh_token", form["grant_type"])
	assert.Equal(t, "12345", form["client_id"])
	assert.Equal(t, "shhh", form["client_secret"])
	assert.Equal(t, "refresh-token-1234", form["refresh_token"])

	// Rotation: the spent refresh token must not survive.
	got := store.Current()
	assert.Equal(t, "fresh-access", got.AccessToken)
	assert.Equal(t, "fresh-refresh", got.RefreshToken)
	assert.NotEqual(t, "refresh-token-1234", got.RefreshToken)
}

func TestValidTokenRefreshesWithinGraceMargin(t *testing.T) {
	endpoint := newTokenEndpoint(t, tokenResponse{
		AccessToken:  "fresh-access",
		RefreshToken: "fresh-refresh",
		ExpiresAt:    time.Now().Unix() + 21600,
	})

	// Not yet expired, but inside the one-hour grace window.
	mgr, _ := newTestManager(t, time.Now().Unix()+600, endpoint)

	token, err := mgr.ValidToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh-access", token)
	assert.Equal(t, int64(1), endpoint.calls.Load())
}

func TestFailedRefreshLeavesStoreUntouched(t *testing.T) {
	endpoint := newTokenEndpoint(t, tokenResponse{})
	endpoint.mu.Lock()
	endpoint.status = http.StatusUnauthorized
	endpoint.mu.Unlock()

	expiredAt := time.Now().Unix() - 10
	mgr, store := newTestManager(t, expiredAt, endpoint)

	_, err := mgr.ValidToken(context.Background())
	require.Error(t, err)

	var refreshErr *TokenRefreshError
	require.ErrorAs(t, err, &refreshErr)
	assert.Equal(t, http.StatusUnauthorized, refreshErr.Status)
	assert.Contains(t, refreshErr.Body, "invalid")

	// The now-expired credentials remain as they were; the next call
	// retries from scratch.
	got := store.Current()
	assert.Equal(t, "access-token-1234", got.AccessToken)
	assert.Equal(t, "refresh-token-1234", got.RefreshToken)
	assert.Equal(t, expiredAt, got.ExpiresAt)

	// No backoff, no circuit breaker: a subsequent call refreshes again.
	_, err = mgr.ValidToken(context.Background())
	require.Error(t, err)
	assert.Equal(t, int64(2), endpoint.calls.Load())
}

func TestConcurrentCallersShareOneRefresh(t *testing.T) {
	endpoint := newTokenEndpoint(t, tokenResponse{
		AccessToken:  "fresh-access",
		RefreshToken: "fresh-refresh",
		ExpiresAt:    time.Now().Unix() + 21600,
	})

	mgr, _ := newTestManager(t, time.Now().Unix()-10, endpoint)

	const callers = 16
	var wg sync.WaitGroup
	tokens := make([]string, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tokens[i], errs[i] = mgr.ValidToken(context.Background())
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "fresh-access", tokens[i])
	}
	// All callers shared a single in-flight handshake.
	assert.Equal(t, int64(1), endpoint.calls.Load())
}

func TestMalformedRefreshResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	creds := validCredentials()
	creds.ExpiresAt = time.Now().Unix() - 10
	store, err := NewCredentialStore(creds, WithRefreshHook(func(Credentials) {}))
	require.NoError(t, err)

	mgr := NewTokenManager(store, WithTokenURL(server.URL))
	_, err = mgr.ValidToken(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")

	// Parse failures leave the store untouched too.
	assert.Equal(t, "access-token-1234", store.Current().AccessToken)
}
