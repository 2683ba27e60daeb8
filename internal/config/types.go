package config

const (
	// TransportStreamableHTTP is the streamable HTTP transport.
	TransportStreamableHTTP = "streamable-http"
	// TransportStdio is the standard I/O transport.
	TransportStdio = "stdio"
)

// Config is the top-level configuration structure for stride.
type Config struct {
	Strava  StravaConfig  `yaml:"strava"`
	Server  ServerConfig  `yaml:"server"`
	Webhook WebhookConfig `yaml:"webhook"`

	// LogLevel is one of debug, info, warn, error (default: info).
	LogLevel string `yaml:"logLevel,omitempty"`
}

// StravaConfig carries the OAuth client identity and the initial token
// pair. All credential fields are required at startup; the endpoint URLs
// default to Strava's production API and exist mainly for tests.
type StravaConfig struct {
	ClientID     string `yaml:"clientId"`
	ClientSecret string `yaml:"clientSecret"`
	AccessToken  string `yaml:"accessToken"`
	RefreshToken string `yaml:"refreshToken"`
	// ExpiresAt is the access token expiry as Unix seconds.
	ExpiresAt int64 `yaml:"expiresAt"`

	BaseURL  string `yaml:"baseUrl,omitempty"`
	TokenURL string `yaml:"tokenUrl,omitempty"`
}

// ServerConfig defines how the MCP surface is exposed.
type ServerConfig struct {
	Transport string `yaml:"transport,omitempty"` // stdio or streamable-http (default: stdio)
	Host      string `yaml:"host,omitempty"`      // Host to bind for streamable-http (default: localhost)
	Port      int    `yaml:"port,omitempty"`      // Port for streamable-http (default: 8090)
}

// WebhookConfig defines the optional webhook receiver.
type WebhookConfig struct {
	Enabled bool `yaml:"enabled,omitempty"`
	Port    int  `yaml:"port,omitempty"` // default: 8091
	// VerifyToken is the shared secret echoed during Strava's
	// subscription validation handshake.
	VerifyToken string `yaml:"verifyToken,omitempty"`
	// RingSize caps the in-memory event buffer (default: 64).
	RingSize int `yaml:"ringSize,omitempty"`
}

// GetDefaultConfig returns the default configuration for stride.
func GetDefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Transport: TransportStdio,
			Host:      "localhost",
			Port:      8090,
		},
		Webhook: WebhookConfig{
			Port:     8091,
			RingSize: 64,
		},
		LogLevel: "info",
	}
}
