package filter

import "errors"

// Sentinel error kinds for this package.
var (
	ErrUnknownWindow = errors.New("unknown time window")
)
