// Package errs holds the sentinel errors shared across the application.
package errs

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidRequest = errors.New("invalid request")
	ErrNilDependency  = errors.New("nil dependency")
	ErrDBNotConnected = errors.New("database not connected")
)
