package repository

import "errors"

// Sentinel kinds for movers board errors.
var (
	ErrNotFound     = errors.New("ticker not found")
	ErrInvalidLimit = errors.New("invalid movers limit")
)
