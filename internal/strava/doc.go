// Package strava implements the authorized, caching client for the Strava
// REST API that backs all stride tools.
//
// The package is built from four collaborators:
//
//   - CredentialStore holds the OAuth client identity and the current
//     access/refresh token pair. It is constructed once at startup and
//     mutated only by a successful refresh.
//   - TokenManager guarantees a valid bearer token before every upstream
//     call, refreshing proactively inside a grace window and rotating the
//     refresh token on every handshake.
//   - ResponseCache memoizes upstream response bodies for a short TTL so
//     repeated tool calls do not burn through Strava's rate limits.
//   - Client composes the three into the request path: cache lookup,
//     token check, authorized GET, error classification, cache fill.
//
// Errors are never swallowed and never retried here. Callers receive a
// typed error (ConfigError, TokenRefreshError, UpstreamError) or a wrapped
// decode error and decide how to surface it.
package strava
