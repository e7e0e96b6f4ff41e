package circle

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for the platform client.
var (
	// ErrInvalidCredentials means the token/email pair was rejected, or a
	// call was attempted without a usable credential.
	ErrInvalidCredentials = errors.New("invalid token or email")
	// ErrUpstream means the platform answered with a non-success status.
	ErrUpstream = errors.New("community platform request failed")
	// ErrDecode means the platform answered with an unexpected body.
	ErrDecode = errors.New("unexpected response body")
)

// StatusError carries the endpoint and HTTP status of a failed request.
type StatusError struct {
	Endpoint string
	Status   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s returned status %d", ErrUpstream, e.Endpoint, e.Status)
}

// Unwrap lets errors.Is match ErrUpstream.
func (e *StatusError) Unwrap() error { return ErrUpstream }
