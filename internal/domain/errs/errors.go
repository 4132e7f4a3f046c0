// Package errs defines the error taxonomy shared by the store, session, and
// application layers. Callers match with errors.Is.
package errs

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("missing required field")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrUnauthenticated    = errors.New("not logged in")
	ErrTOSRequired        = errors.New("terms of service not accepted")
	ErrSelfFollow         = errors.New("cannot follow yourself")
	ErrRateLimited        = errors.New("too many attempts, try again later")
)

// PersistenceError wraps a storage read or write failure with the key that
// failed. Write failures are non-fatal to the in-memory state.
type PersistenceError struct {
	Op  string // "read" or "write"
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
