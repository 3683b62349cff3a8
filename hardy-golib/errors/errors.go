// Package errors is the error toolkit shared by the hardy packages: the standard library
// helpers, message wrapping from github.com/pkg/errors and a multi-error list.
package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/pkg/errors"
)

var (
	// New formats an error message; it accepts format arguments like Errorf.
	New = fmt.Errorf
	// Errorf formats an error message.
	Errorf = fmt.Errorf
	// Is reports whether any error in err's tree matches target.
	Is = stderrors.Is
	// As finds the first error in err's tree that matches target.
	As = stderrors.As
	// Cause returns the innermost error annotated with Wrapf.
	Cause = errors.Cause
	// WithStack annotates err with the current stack trace.
	WithStack = errors.WithStack
)

// WrapfOrNil prefixes err with a formatted message. A nil err stays nil, so it can wrap the
// result of a call directly:
//
//	return errors.WrapfOrNil(f.Sync(), "syncing %s", name)
func WrapfOrNil(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return errors.WithMessagef(err, format, args...)
}

// Wrapf is WrapfOrNil for errors known to be non-nil. Given a nil err it returns the formatted
// message as a new error instead, so the result is never nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err != nil {
		return errors.WithMessagef(err, format, args...)
	}
	return fmt.Errorf(format, args...)
}
