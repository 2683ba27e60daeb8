package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte(content), 0o600))
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	// Empty directory: defaults plus whatever the environment carries.
	config, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, TransportStdio, config.Server.Transport)
	assert.Equal(t, "localhost", config.Server.Host)
	assert.Equal(t, 8090, config.Server.Port)
	assert.Equal(t, 8091, config.Webhook.Port)
	assert.Equal(t, 64, config.Webhook.RingSize)
	assert.Equal(t, "info", config.LogLevel)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := writeConfig(t, `
strava:
  clientId: "12345"
  clientSecret: "shhh"
  accessToken: "atoken"
  refreshToken: "rtoken"
  expiresAt: 1900000000
server:
  transport: streamable-http
  port: 9000
webhook:
  enabled: true
  verifyToken: "hunter2"
logLevel: debug
`)

	config, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "12345", config.Strava.ClientID)
	assert.Equal(t, "shhh", config.Strava.ClientSecret)
	assert.Equal(t, int64(1900000000), config.Strava.ExpiresAt)
	assert.Equal(t, TransportStreamableHTTP, config.Server.Transport)
	assert.Equal(t, 9000, config.Server.Port)
	assert.True(t, config.Webhook.Enabled)
	assert.Equal(t, "hunter2", config.Webhook.VerifyToken)
	assert.Equal(t, "debug", config.LogLevel)
}

func TestLoadConfigMalformedYAML(t *testing.T) {
	dir := writeConfig(t, "strava: [not a mapping")

	_, err := LoadConfig(dir)
	require.Error(t, err)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	dir := writeConfig(t, `
strava:
  clientId: "from-file"
  accessToken: "file-token"
`)

	t.Setenv("STRAVA_CLIENT_ID", "from-env")
	t.Setenv("STRAVA_EXPIRES_AT", "1900000000")
	t.Setenv("STRIDE_TRANSPORT", "streamable-http")
	t.Setenv("STRIDE_WEBHOOK_ENABLED", "true")

	config, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "from-env", config.Strava.ClientID)
	assert.Equal(t, "file-token", config.Strava.AccessToken, "unset env must not clobber file values")
	assert.Equal(t, int64(1900000000), config.Strava.ExpiresAt)
	assert.Equal(t, TransportStreamableHTTP, config.Server.Transport)
	assert.True(t, config.Webhook.Enabled)
}

func TestNonNumericEnvIgnored(t *testing.T) {
	t.Setenv("STRIDE_PORT", "not-a-port")

	config, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 8090, config.Server.Port)
}
