package pick

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedRecord  = errors.New("malformed pick record")
	ErrPickNotFound     = errors.New("active pick not found")
	ErrDuplicateActive  = errors.New("duplicate active pick")
	ErrMissingStrength  = errors.New("owner strength multiplier is not configured")
	ErrInvalidValuation = errors.New("invalid valuation config")
)

// MalformedRecordError reports a raw record that is missing required fields.
type MalformedRecordError struct {
	Index  int
	Field  string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("%s: index=%d field=%s: %s", ErrMalformedRecord, e.Index, e.Field, e.Reason)
}

func (e *MalformedRecordError) Unwrap() error {
	return ErrMalformedRecord
}

// PickNotFoundError reports a trade against a lineage with no transferable active record.
type PickNotFoundError struct {
	Key    Key
	Reason string
}

func (e *PickNotFoundError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: %s", ErrPickNotFound, e.Key)
	}
	return fmt.Sprintf("%s: %s: %s", ErrPickNotFound, e.Key, e.Reason)
}

func (e *PickNotFoundError) Unwrap() error {
	return ErrPickNotFound
}
