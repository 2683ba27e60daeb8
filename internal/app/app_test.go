package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stride/internal/strava"
)

func setCredentialEnv(t *testing.T) {
	t.Helper()
	t.Setenv("STRAVA_CLIENT_ID", "12345")
	t.Setenv("STRAVA_CLIENT_SECRET", "shhh")
	t.Setenv("STRAVA_ACCESS_TOKEN", "atoken")
	t.Setenv("STRAVA_REFRESH_TOKEN", "rtoken")
	t.Setenv("STRAVA_EXPIRES_AT", "1900000000")
}

func TestNewApplicationWithCompleteCredentials(t *testing.T) {
	setCredentialEnv(t)

	app, err := NewApplication(Options{ConfigPath: t.TempDir(), Version: "test"})
	require.NoError(t, err)
	assert.NotNil(t, app.client)
	assert.NotNil(t, app.mcpServer)
	assert.Nil(t, app.receiver, "webhook receiver is disabled by default")
}

func TestNewApplicationFailsWithoutCredentials(t *testing.T) {
	setCredentialEnv(t)
	t.Setenv("STRAVA_REFRESH_TOKEN", "")

	_, err := NewApplication(Options{ConfigPath: t.TempDir()})
	require.Error(t, err)

	var cfgErr *strava.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "refresh token", cfgErr.Field)
}

func TestNewApplicationWebhookRequiresVerifyToken(t *testing.T) {
	setCredentialEnv(t)
	t.Setenv("STRIDE_WEBHOOK_ENABLED", "true")

	_, err := NewApplication(Options{ConfigPath: t.TempDir()})
	require.Error(t, err)

	var cfgErr *strava.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "webhook verify token", cfgErr.Field)
}

func TestNewApplicationWebhookEnabled(t *testing.T) {
	setCredentialEnv(t)
	t.Setenv("STRIDE_WEBHOOK_ENABLED", "true")
	t.Setenv("STRIDE_WEBHOOK_VERIFY_TOKEN", "hunter2")

	app, err := NewApplication(Options{ConfigPath: t.TempDir()})
	require.NoError(t, err)
	require.NotNil(t, app.receiver)
	assert.NotNil(t, app.receiver.Ring())
}
