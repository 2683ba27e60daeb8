// Package logging provides a structured logging system for stride built on
// Go's standard slog package.
//
// All log entries include a timestamp, a level, a subsystem identifier for
// categorization, the message, and optional error information.
//
// # Usage
//
//	import "stride/pkg/logging"
//
//	// Initialize with Info level logging to stderr
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	logging.Info("Bootstrap", "Application starting up")
//	logging.Debug("Config", "Loaded configuration from %s", configPath)
//	logging.Warn("Webhook", "Ring buffer at capacity, dropping oldest event")
//	logging.Error("Strava", err, "Token refresh failed")
//
// When stride serves MCP over the stdio transport, log output must go to
// stderr: stdout carries the protocol stream and any stray write corrupts it.
//
// Credentials must never reach the log whole; use RedactToken when a token
// value is useful for correlation.
package logging
