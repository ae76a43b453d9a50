package resource

import (
	"errors"
	"fmt"
)

// Error represents a failure raised by a resource operation.
//
// Errors fall into four groups:
//   - Argument errors: bad accessor arity, non-mapping attributes, unknown property
//   - State errors: rebinding an IRI subject, persisting with no reachable repository
//   - Type errors: assigning a value that is neither a literal nor a linkable resource
//   - Index errors: negative list positions
//
// Silent exclusions (list padding, type-mismatched children, unreachable
// reload) are not errors and never produce one.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Subject is the affected resource subject, if known.
	Subject string

	// Property names the affected property, if any.
	Property string
}

// ErrorCode categorizes resource errors.
type ErrorCode string

const (
	// ErrCodeArity indicates a legacy accessor was called with the wrong
	// number of arguments.
	ErrCodeArity ErrorCode = "ARITY"

	// ErrCodeInvalidAttributes indicates attribute assignment received
	// something other than a mapping.
	ErrCodeInvalidAttributes ErrorCode = "INVALID_ATTRIBUTES"

	// ErrCodeInvalidSubject indicates an accessor was given a subject that is
	// neither an IRI nor a blank node.
	ErrCodeInvalidSubject ErrorCode = "INVALID_SUBJECT"

	// ErrCodeUnknownProperty indicates a property name not declared on the class.
	ErrCodeUnknownProperty ErrorCode = "UNKNOWN_PROPERTY"

	// ErrCodeSubjectBound indicates an attempt to rebind an IRI subject.
	ErrCodeSubjectBound ErrorCode = "SUBJECT_BOUND"

	// ErrCodeNoRepository indicates no backing repository is reachable.
	ErrCodeNoRepository ErrorCode = "NO_REPOSITORY"

	// ErrCodeInvalidValue indicates a value that cannot become a statement object.
	ErrCodeInvalidValue ErrorCode = "INVALID_VALUE"

	// ErrCodeIndex indicates a negative list index.
	ErrCodeIndex ErrorCode = "INDEX"
)

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Subject != "" && e.Property != "":
		return fmt.Sprintf("%s: %s (subject=%s, property=%s)", e.Code, e.Message, e.Subject, e.Property)
	case e.Subject != "":
		return fmt.Sprintf("%s: %s (subject=%s)", e.Code, e.Message, e.Subject)
	case e.Property != "":
		return fmt.Sprintf("%s: %s (property=%s)", e.Code, e.Message, e.Property)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// HasCode reports whether err wraps a resource Error with the given code.
func HasCode(err error, code ErrorCode) bool {
	var re *Error
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// IsArgumentError reports whether err is caused by bad caller arguments.
func IsArgumentError(err error) bool {
	return HasCode(err, ErrCodeArity) ||
		HasCode(err, ErrCodeInvalidAttributes) ||
		HasCode(err, ErrCodeInvalidSubject) ||
		HasCode(err, ErrCodeUnknownProperty)
}

// IsStateError reports whether err is caused by the resource's state
// (bound subject or unreachable repository).
func IsStateError(err error) bool {
	return HasCode(err, ErrCodeSubjectBound) || HasCode(err, ErrCodeNoRepository)
}

// IsTypeError reports whether err is an unassignable-value error.
func IsTypeError(err error) bool {
	return HasCode(err, ErrCodeInvalidValue)
}

// IsIndexError reports whether err is a list index error.
func IsIndexError(err error) bool {
	return HasCode(err, ErrCodeIndex)
}

func arityError(got int, want string) *Error {
	return &Error{
		Code:    ErrCodeArity,
		Message: fmt.Sprintf("wrong number of arguments (%d for %s)", got, want),
	}
}

func noRepositoryError(subject string) *Error {
	return &Error{
		Code:    ErrCodeNoRepository,
		Message: "no repository or parent resource reachable",
		Subject: subject,
	}
}
