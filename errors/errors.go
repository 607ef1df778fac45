// Package errors provides error handling for the query engine.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - PII-safe error formatting
//
// On top of that it defines the error classes used by the write terms.
// A class is attached to an error by marking it with the class sentinel,
// so wrapping an error with additional context preserves its class:
//
//	err := errors.NewLogicf("Conflict option `%s` unrecognized.", opt)
//	errors.IsLogic(errors.Wrap(err, "while inserting"))  // true
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// Assertions.
// AssertionFailedf marks defects in this engine itself, as opposed to bad
// user input; callers must treat these as fatal to the invocation.
var (
	AssertionFailedf   = crdb.AssertionFailedf
	HasAssertionFailed = crdb.HasAssertionFailure
)

// Class sentinels for the write-term error taxonomy. Use the New*/Is*
// helpers rather than comparing against these directly.
var (
	// ErrLogic indicates a malformed query: bad option values, obsolete
	// option names, or a non-deterministic function where a deterministic
	// one is required. Raised eagerly, before any write is attempted.
	ErrLogic = New("logic error")

	// ErrNonExistence indicates an absent row or field was required.
	ErrNonExistence = New("non-existence error")

	// ErrResourceLimit indicates a configured limit was exceeded.
	ErrResourceLimit = New("resource limit error")

	// ErrOpFailed indicates a table-layer operation failed hard.
	ErrOpFailed = New("operation failed")
)

// NewLogicf creates a LOGIC-class error with a formatted message.
func NewLogicf(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrLogic)
}

// NewNonExistencef creates a NON_EXISTENCE-class error with a formatted message.
func NewNonExistencef(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrNonExistence)
}

// NewResourceLimitf creates a RESOURCE_LIMIT-class error with a formatted message.
func NewResourceLimitf(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrResourceLimit)
}

// NewOpFailedf creates an OP_FAILED-class error with a formatted message.
func NewOpFailedf(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrOpFailed)
}

// IsLogic checks if an error is or wraps a LOGIC-class error.
func IsLogic(err error) bool {
	return err != nil && Is(err, ErrLogic)
}

// IsNonExistence checks if an error is or wraps a NON_EXISTENCE-class error.
func IsNonExistence(err error) bool {
	return err != nil && Is(err, ErrNonExistence)
}

// IsResourceLimit checks if an error is or wraps a RESOURCE_LIMIT-class error.
func IsResourceLimit(err error) bool {
	return err != nil && Is(err, ErrResourceLimit)
}

// IsOpFailed checks if an error is or wraps an OP_FAILED-class error.
func IsOpFailed(err error) bool {
	return err != nil && Is(err, ErrOpFailed)
}
