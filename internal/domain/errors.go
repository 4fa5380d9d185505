package domain

import "errors"

var (
	// ErrFetchFailed is returned when the remote API could not be reached.
	ErrFetchFailed = errors.New("failed to fetch feed")

	// ErrMissingCredentials is returned when no API credentials are configured.
	ErrMissingCredentials = errors.New("api credentials are not configured")

	// ErrRateLimited is returned when the caller exceeded the render quota.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrNoFeedTerm is returned by operations that need a feed term
	// (cache clearing) when the configuration does not yield one.
	ErrNoFeedTerm = errors.New("feed configuration has no term")

	// ErrInvalidHandle is returned when a user handle cannot be parsed.
	ErrInvalidHandle = errors.New("invalid user handle")
)
