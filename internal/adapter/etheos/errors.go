package etheos

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized means the gateway rejected a refreshed credential too.
	ErrUnauthorized = errors.New("etheos: unauthorized after credential refresh")
	ErrAuthFailed   = errors.New("etheos: authentication failed")
)

// StatusError is a non-2xx gateway response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("etheos: unexpected status %d: %s", e.StatusCode, e.Body)
}
