package recent

import "errors"

// Sentinel kinds for recent-view errors.
var (
	ErrNoUser   = errors.New("user is required")
	ErrNoTicker = errors.New("ticker is required")
)
