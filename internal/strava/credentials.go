package strava

import (
	"sync"
	"time"

	"stride/pkg/logging"
)

// Credentials is the OAuth state required to talk to the Strava API.
// ClientID and ClientSecret are immutable for the process lifetime; the
// token triple is replaced as a unit by a successful refresh.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	// ExpiresAt is the access token expiry as Unix seconds.
	ExpiresAt    int64
	ClientID     string
	ClientSecret string
}

// RefreshHook is invoked after every successful credential replacement.
// Stride keeps tokens in memory only; deployers who want rotated tokens to
// survive a restart install a hook that persists them.
type RefreshHook func(Credentials)

// CredentialStore provides thread-safe access to the current credentials.
// It is constructed once at startup and shared by reference; only the
// token manager calls Replace.
type CredentialStore struct {
	mu        sync.RWMutex
	creds     Credentials
	onRefresh RefreshHook
}

// CredentialStoreOption configures the credential store.
type CredentialStoreOption func(*CredentialStore)

// WithRefreshHook installs a hook invoked after every successful refresh.
func WithRefreshHook(hook RefreshHook) CredentialStoreOption {
	return func(s *CredentialStore) {
		s.onRefresh = hook
	}
}

// NewCredentialStore validates the initial credentials and returns a store.
// Every field is required: there is no half-initialized state, and a process
// without a complete identity and token pair must not start.
func NewCredentialStore(creds Credentials, opts ...CredentialStoreOption) (*CredentialStore, error) {
	switch {
	case creds.ClientID == "":
		return nil, &ConfigError{Field: "client id"}
	case creds.ClientSecret == "":
		return nil, &ConfigError{Field: "client secret"}
	case creds.AccessToken == "":
		return nil, &ConfigError{Field: "access token"}
	case creds.RefreshToken == "":
		return nil, &ConfigError{Field: "refresh token"}
	case creds.ExpiresAt == 0:
		return nil, &ConfigError{Field: "token expiry"}
	}

	s := &CredentialStore{
		creds:     creds,
		onRefresh: logRotatedCredentials,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Current returns a snapshot of the credentials.
func (s *CredentialStore) Current() Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds
}

// Replace atomically swaps the token triple. The client identity is kept;
// it never changes after construction. The refresh hook runs after the
// swap with the new snapshot.
func (s *CredentialStore) Replace(accessToken, refreshToken string, expiresAt int64) {
	s.mu.Lock()
	s.creds.AccessToken = accessToken
	s.creds.RefreshToken = refreshToken
	s.creds.ExpiresAt = expiresAt
	snapshot := s.creds
	hook := s.onRefresh
	s.mu.Unlock()

	if hook != nil {
		hook(snapshot)
	}
}

// logRotatedCredentials is the default refresh hook. Tokens are logged
// redacted; operators who need the full rotated values for durable storage
// install their own hook via WithRefreshHook.
func logRotatedCredentials(creds Credentials) {
	logging.Info("Credentials", "Rotated tokens: access=%s refresh=%s expires=%s",
		logging.RedactToken(creds.AccessToken),
		logging.RedactToken(creds.RefreshToken),
		time.Unix(creds.ExpiresAt, 0).Format(time.RFC3339))
}
