package errors

import (
	"fmt"
	"strings"
)

// Errors collects the failures of independent steps, such as the files of a batch or the jobs
// of a pool. A nil Errors means nothing failed; a non-nil one holds at least one error.
type Errors interface {
	error
	// Slice copies the collected errors.
	Slice() []error
	Len() int
	// Unwrap exposes the collected errors to Is and As.
	Unwrap() []error
}

type list struct {
	errs []error
}

func (l *list) Slice() []error {
	return append([]error(nil), l.errs...)
}

func (l *list) Len() int {
	return len(l.errs)
}

func (l *list) Unwrap() []error {
	return l.errs
}

func (l *list) Error() string {
	if len(l.errs) == 1 {
		return l.errs[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d errors:", len(l.errs))
	for _, err := range l.errs {
		b.WriteString("\n\t")
		b.WriteString(err.Error())
	}
	return b.String()
}

// Append adds err to errs and returns the result; errs is not modified. A nil err returns
// errs unchanged and a nested Errors is flattened into its members.
func Append(errs Errors, err error) Errors {
	if err == nil {
		return errs
	}

	var out list
	if errs != nil {
		out.errs = errs.Slice()
	}
	if nested, ok := err.(Errors); ok {
		out.errs = append(out.errs, nested.Unwrap()...)
	} else {
		out.errs = append(out.errs, err)
	}
	if len(out.errs) == 0 {
		return errs
	}
	return &out
}

// Combine merges two possibly nil errors. It returns nil if both are nil, the other one if
// either is nil, and an Errors otherwise.
func Combine(e, f error) error {
	switch {
	case e == nil:
		return f
	case f == nil:
		return e
	}
	first, ok := e.(Errors)
	if !ok {
		first = Append(nil, e)
	}
	return Append(first, f)
}

// Defer folds the error of a deferred call into the named result err:
//
//	defer errors.Defer(&err, f.Close)
func Defer(err *error, f func() error) {
	*err = Combine(*err, f())
}
