package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"stride/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/stride"
	configFileName = "config.yaml"
)

func GetDefaultConfigPathOrPanic() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		panic(fmt.Errorf("could not determine user config directory: %w", err))
	}

	return filepath.Join(homeDir, userConfigDir)
}

// LoadConfig loads configuration from the specified directory, then applies
// environment variable overrides. A missing config.yaml is not an error:
// a deployment may configure stride entirely through the environment.
func LoadConfig(configPath string) (Config, error) {
	configFilePath := filepath.Join(configPath, configFileName)
	config := GetDefaultConfig()

	data, err := os.ReadFile(configFilePath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logging.Info("ConfigLoader", "No config.yaml found at %s, using defaults and environment", configFilePath)
	case err != nil:
		return Config{}, fmt.Errorf("error reading config from %s: %w", configFilePath, err)
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return Config{}, fmt.Errorf("error loading config from %s: %w", configFilePath, err)
		}
		logging.Info("ConfigLoader", "Loaded configuration from %s", configFilePath)
	}

	applyEnvOverrides(&config)
	return config, nil
}

// applyEnvOverrides lets the environment win over file values. This is the
// documented configuration surface for credentials; the YAML file is a
// convenience for everything else.
func applyEnvOverrides(config *Config) {
	setString(&config.Strava.ClientID, "STRAVA_CLIENT_ID")
	setString(&config.Strava.ClientSecret, "STRAVA_CLIENT_SECRET")
	setString(&config.Strava.AccessToken, "STRAVA_ACCESS_TOKEN")
	setString(&config.Strava.RefreshToken, "STRAVA_REFRESH_TOKEN")
	setInt64(&config.Strava.ExpiresAt, "STRAVA_EXPIRES_AT")
	setString(&config.Strava.BaseURL, "STRAVA_BASE_URL")
	setString(&config.Strava.TokenURL, "STRAVA_TOKEN_URL")

	setString(&config.Server.Transport, "STRIDE_TRANSPORT")
	setString(&config.Server.Host, "STRIDE_HOST")
	setInt(&config.Server.Port, "STRIDE_PORT")

	if v, ok := os.LookupEnv("STRIDE_WEBHOOK_ENABLED"); ok {
		config.Webhook.Enabled = v == "true" || v == "1"
	}
	setInt(&config.Webhook.Port, "STRIDE_WEBHOOK_PORT")
	setString(&config.Webhook.VerifyToken, "STRIDE_WEBHOOK_VERIFY_TOKEN")

	setString(&config.LogLevel, "STRIDE_LOG_LEVEL")
}

func setString(dst *string, env string) {
	if v, ok := os.LookupEnv(env); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, env string) {
	if v, ok := os.LookupEnv(env); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		} else {
			logging.Warn("ConfigLoader", "Ignoring non-numeric %s=%q", env, v)
		}
	}
}

func setInt64(dst *int64, env string) {
	if v, ok := os.LookupEnv(env); ok && v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		} else {
			logging.Warn("ConfigLoader", "Ignoring non-numeric %s=%q", env, v)
		}
	}
}
