package snapshot

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is wrapped by every EmptyInputError.
var ErrEmptyInput = errors.New("no usable snapshot")

// MalformedSnapshotError means a source could not be mapped to entries.
type MalformedSnapshotError struct {
	Path string
	Err  error
}

func (e *MalformedSnapshotError) Error() string {
	return fmt.Sprintf("malformed snapshot %s: %v", e.Path, e.Err)
}

func (e *MalformedSnapshotError) Unwrap() error { return e.Err }

// UnorderableSnapshotError means no capture time could be derived.
type UnorderableSnapshotError struct {
	Path string
	Err  error
}

func (e *UnorderableSnapshotError) Error() string {
	return fmt.Sprintf("unorderable snapshot %s: %v", e.Path, e.Err)
}

func (e *UnorderableSnapshotError) Unwrap() error { return e.Err }

// EmptyInputError is fatal: nothing in Path could be used.
type EmptyInputError struct {
	Path   string
	Reason string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

func (e *EmptyInputError) Unwrap() error { return ErrEmptyInput }

// IsSkippable reports whether err only disqualifies a single snapshot.
func IsSkippable(err error) bool {
	var m *MalformedSnapshotError
	var u *UnorderableSnapshotError
	return errors.As(err, &m) || errors.As(err, &u)
}
