package document

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a document access failure.
type ErrorKind string

const (
	// KindEntryNotFound indicates a required entry is absent and no default
	// was supplied.
	KindEntryNotFound ErrorKind = "entry_not_found"

	// KindTypeMismatch indicates the resolved value's dynamic type does not
	// match the requested type, including a failed integer exactness check.
	KindTypeMismatch ErrorKind = "type_mismatch"

	// KindNotATable indicates a sequence or entry listing was requested on a
	// value that is not a table.
	KindNotATable ErrorKind = "not_a_table"

	// KindConstraintNotSatisfied indicates the value resolved and converted
	// correctly but failed its constraint.
	KindConstraintNotSatisfied ErrorKind = "constraint_not_satisfied"

	// KindMalformedConstraint indicates the constraint text itself failed to
	// evaluate, or did not produce a boolean.
	KindMalformedConstraint ErrorKind = "malformed_constraint"

	// KindLoadFailure indicates the document script failed to load or
	// execute.
	KindLoadFailure ErrorKind = "load_failure"

	// KindCallFailure indicates a user-defined document function raised an
	// error or could not be called.
	KindCallFailure ErrorKind = "call_failure"
)

// AccessError is a classified error raised by document operations. It carries
// the fully-prefixed entry name and the document path for diagnosability.
type AccessError struct {
	// Kind is the failure classification.
	Kind ErrorKind

	// Entry is the fully-prefixed entry name, if the failure concerns one.
	Entry string

	// Document is the path of the configuration document.
	Document string

	// Message is the human-readable failure description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *AccessError) Error() string {
	if e.Entry != "" {
		return fmt.Sprintf("[%s] entry %q in %q: %s", e.Kind, e.Entry, e.Document, e.messageWithCause())
	}
	if e.Document != "" {
		return fmt.Sprintf("[%s] document %q: %s", e.Kind, e.Document, e.messageWithCause())
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.messageWithCause())
}

// Unwrap returns the underlying error for error chain inspection.
func (e *AccessError) Unwrap() error {
	return e.Err
}

func (e *AccessError) messageWithCause() string {
	if e.Err != nil {
		if e.Message == "" {
			return e.Err.Error()
		}
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Is implements error equality for errors.Is: two access errors match when
// their kinds match.
func (e *AccessError) Is(target error) bool {
	t, ok := target.(*AccessError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// KindOf returns the classification of err, or the empty kind when err is not
// an AccessError.
func KindOf(err error) ErrorKind {
	var e *AccessError
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsNotFound reports whether err is an absent-entry failure.
func IsNotFound(err error) bool {
	return KindOf(err) == KindEntryNotFound
}

// IsTypeMismatch reports whether err is a type conversion failure.
func IsTypeMismatch(err error) bool {
	return KindOf(err) == KindTypeMismatch
}

// IsConstraintNotSatisfied reports whether err is a failed constraint check.
func IsConstraintNotSatisfied(err error) bool {
	return KindOf(err) == KindConstraintNotSatisfied
}
