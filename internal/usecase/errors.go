package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrSourceFetch           = errors.New("pick source fetch failed")
	ErrLedgerNotLoaded       = errors.New("ledger has not been refreshed yet")
)

// SourceFetchError reports an owner whose current picks could not be fetched.
// It matches ErrSourceFetch, ErrDependencyUnavailable and the underlying cause.
type SourceFetchError struct {
	OwnerID int64
	Err     error
}

func (e *SourceFetchError) Error() string {
	return fmt.Sprintf("%s: owner=%d: %v", ErrSourceFetch, e.OwnerID, e.Err)
}

func (e *SourceFetchError) Unwrap() []error {
	return []error{ErrSourceFetch, ErrDependencyUnavailable, e.Err}
}
