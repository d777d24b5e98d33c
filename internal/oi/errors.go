// Copyright (c) 2026 Inkdex. All rights reserved.
// Author: thanh.phamduy.vn@gmail.com

package oi

import (
	"errors"
	"fmt"
)

// # Engine Errors

// PreconditionError reports a state the submitter can repair: a row already
// reserved, a missing sibling, an invalid combination of pending values.
// Commits abort cleanly and the changeset stays open.
type PreconditionError struct {
	Message string
}

func (e *PreconditionError) Error() string { return e.Message }

// Preconditionf builds a [PreconditionError] from a format string.
func Preconditionf(format string, args ...any) error {
	return &PreconditionError{Message: fmt.Sprintf(format, args...)}
}

// IsPrecondition reports whether err is (or wraps) a [PreconditionError].
func IsPrecondition(err error) bool {
	var pe *PreconditionError
	return errors.As(err, &pe)
}

// FaultError reports an internal inconsistency the engine cannot recover
// from mid-commit: a dependency loop that stops shrinking, a revision shape
// that matches no known pattern. These surface to operators, not editors.
type FaultError struct {
	Message string
	Cause   error
}

func (e *FaultError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *FaultError) Unwrap() error { return e.Cause }

// Faultf builds a [FaultError] from a format string.
func Faultf(format string, args ...any) error {
	return &FaultError{Message: fmt.Sprintf(format, args...)}
}

// IsFault reports whether err is (or wraps) a [FaultError].
func IsFault(err error) bool {
	var fe *FaultError
	return errors.As(err, &fe)
}

// ErrRevisionNotFound is returned by revision stores on a missing row.
var ErrRevisionNotFound = errors.New("oi: revision not found")

// ErrChangesetNotFound is returned by changeset stores on a missing row.
var ErrChangesetNotFound = errors.New("oi: changeset not found")
