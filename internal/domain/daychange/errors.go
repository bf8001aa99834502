package daychange

import "errors"

// Sentinel kinds for day-change errors.
var (
	ErrNoTicker      = errors.New("missing ticker")
	ErrBadPrice      = errors.New("invalid price")
	ErrBadPrevClose  = errors.New("invalid previous close")
	ErrNotComputable = errors.New("day change not computable")
)
