package common

import "errors"

var (
	// Session errors.
	ErrNoSession = errors.New("no session")

	// Input validation errors raised before anything is sent to the backend.
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters long")
	ErrEmptyValue       = errors.New("value must not be empty")
	ErrInvalidCategory  = errors.New("category must be allowlist or blocklist")
	ErrInvalidRange     = errors.New("invalid time range")
	ErrInvalidGroupBy   = errors.New("group_by must be day, week or month")

	// OAuth callback errors.
	ErrOAuthFailed = errors.New("authentication failed")
)
