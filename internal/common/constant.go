// Package common contains shared constants and sentinel errors used across
// RiskCheck console components.
package common

// AccessTokenCookieName is the cookie that carries the access token between
// the backend, the browser dashboard and this client.
const AccessTokenCookieName = "accessToken"

// RequestIDHeaderName tags every outbound request for backend log correlation.
const RequestIDHeaderName = "X-Request-Id"

// DefaultAPIURL is used when neither config, env nor flags name a backend.
const DefaultAPIURL = "http://localhost:8000/api/v1"
