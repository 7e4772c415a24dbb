package store

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrDuplicateKey           = errors.New("receipt number already exists in history")
	ErrNotFound               = errors.New("not found")
	ErrLockTimeout            = errors.New("timed out waiting for store lock")
	ErrConcurrentModification = errors.New("store file changed while it was being updated")
	ErrMissingNumber          = errors.New("receipt has no number")
)

// StoreReadError reports a store file that exists but could not be read or
// parsed. Loaders return it together with an empty result
type StoreReadError struct {
	Path  string
	Cause error
}

func (e *StoreReadError) Error() string {
	return fmt.Sprintf("failed to read store %s: %v", e.Path, e.Cause)
}

func (e *StoreReadError) Unwrap() error {
	return e.Cause
}

// SequenceInconsistencyError reports a commit that replaced the history file
// but could not advance the counter. Restored is true when the previous
// history was put back
type SequenceInconsistencyError struct {
	Key        string
	Cause      error
	Restored   bool
	RestoreErr error
}

func (e *SequenceInconsistencyError) Error() string {
	msg := fmt.Sprintf("counter not advanced after committing %s: %v", e.Key, e.Cause)
	switch {
	case e.RestoreErr != nil:
		msg += fmt.Sprintf("; restoring history failed: %v", e.RestoreErr)
	case e.Restored:
		msg += "; history restored"
	}
	return msg
}

func (e *SequenceInconsistencyError) Unwrap() error {
	return e.Cause
}

// IsDuplicateKey reports whether err is ErrDuplicateKey
func IsDuplicateKey(err error) bool {
	return errors.Is(err, ErrDuplicateKey)
}

// IsNotFound reports whether err is ErrNotFound
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsLockTimeout reports whether err is ErrLockTimeout
func IsLockTimeout(err error) bool {
	return errors.Is(err, ErrLockTimeout)
}

// IsConcurrentModification reports whether err is ErrConcurrentModification
func IsConcurrentModification(err error) bool {
	return errors.Is(err, ErrConcurrentModification)
}

// IsStoreReadError reports whether err wraps a *StoreReadError
func IsStoreReadError(err error) bool {
	var e *StoreReadError
	return errors.As(err, &e)
}

// IsSequenceInconsistency reports whether err wraps a *SequenceInconsistencyError
func IsSequenceInconsistency(err error) bool {
	var e *SequenceInconsistencyError
	return errors.As(err, &e)
}
