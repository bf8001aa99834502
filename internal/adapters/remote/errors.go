package remote

import "errors"

// Sentinel errors for remote API calls.
var (
	// ErrBadStatus indicates the upstream returned a non-2xx status.
	ErrBadStatus = errors.New("unexpected upstream status")

	// ErrDecode indicates the upstream payload could not be decoded.
	ErrDecode = errors.New("failed to decode upstream payload")

	// ErrRateLimited indicates the local rate limiter rejected the call
	// before the context allowed a token.
	ErrRateLimited = errors.New("rate limit wait aborted")

	// ErrNotConnected indicates the quote stream has no live connection.
	ErrNotConnected = errors.New("stream not connected")
)
