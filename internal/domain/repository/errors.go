package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound the referenced product or store does not exist in the data service
var ErrNotFound = errors.New("not found")

// UpstreamError any other data service failure (I/O, driver, remote)
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Upstream wraps err as an *UpstreamError; nil stays nil
func Upstream(op string, err error) error {
	if err == nil {
		return nil
	}
	return &UpstreamError{Op: op, Err: err}
}

// IsUpstream reports whether err carries an *UpstreamError
func IsUpstream(err error) bool {
	var upstream *UpstreamError
	return errors.As(err, &upstream)
}
