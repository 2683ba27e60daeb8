package strava

import "fmt"

// ConfigError indicates that required credential configuration was missing
// at startup. It is fatal: the process must not serve requests without a
// complete client identity and token pair.
type ConfigError struct {
	// Field names the missing configuration value.
	Field string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", e.Field)
}

// TokenRefreshError indicates the refresh handshake was rejected by the
// token endpoint. The credential store is left untouched when this occurs;
// a later call retries the refresh from scratch.
type TokenRefreshError struct {
	// Status is the HTTP status code returned by the token endpoint.
	Status int
	// Body is the raw response body, useful for diagnosing revoked grants.
	Body string
}

func (e *TokenRefreshError) Error() string {
	return fmt.Sprintf("token refresh rejected with status %d: %s", e.Status, e.Body)
}

// UpstreamError is any non-2xx response to a data request. It carries the
// status and raw body verbatim so the tool layer can render it for the user.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned status %d: %s", e.Status, e.Body)
}
