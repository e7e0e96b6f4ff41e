package service

import "errors"

// ErrInvalidQuery is returned for leaderboard parameters that cannot be
// computed, e.g. a non-positive top-N or a negative weight.
var ErrInvalidQuery = errors.New("invalid leaderboard query")
