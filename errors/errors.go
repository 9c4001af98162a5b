// Package errors provides error handling for ANNX.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - PII-safe error formatting
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Check errors
//	if errors.Is(err, errors.ErrNotFound) {
//	    // handle not found
//	}
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

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Common sentinel errors for use across ANNX.
// Use these with errors.Is() for type-safe error checking.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrNotFound indicates a lookup by entry identity failed
	ErrNotFound = New("entry not found")

	// ErrDanglingReference indicates a link or reference list would point
	// at an entry that does not exist in the pack
	ErrDanglingReference = New("dangling entry reference")

	// ErrDecoding indicates model output could not be mapped back to
	// document offsets (index out of range, inverted span)
	ErrDecoding = New("prediction decoding failed")

	// ErrSerialization indicates an entry state mapping does not round-trip
	// (unknown key, wrong value type)
	ErrSerialization = New("state serialization failed")

	// ErrInvalidSpan indicates an annotation span violates
	// 0 <= begin <= end <= len(text)
	ErrInvalidSpan = New("invalid annotation span")

	// ErrWrongPack indicates an entry was used with a pack it does not belong to
	ErrWrongPack = New("entry belongs to a different pack")
)

// IsNotFound checks if an error is or wraps ErrNotFound
func IsNotFound(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsDanglingReference checks if an error is or wraps ErrDanglingReference
func IsDanglingReference(err error) bool {
	return err != nil && Is(err, ErrDanglingReference)
}

// IsDecoding checks if an error is or wraps ErrDecoding
func IsDecoding(err error) bool {
	return err != nil && Is(err, ErrDecoding)
}

// IsSerialization checks if an error is or wraps ErrSerialization
func IsSerialization(err error) bool {
	return err != nil && Is(err, ErrSerialization)
}

// NewNotFound creates a not-found error with a formatted message
func NewNotFound(format string, args ...interface{}) error {
	return Wrap(ErrNotFound, Newf(format, args...).Error())
}

// NewDanglingReference creates a dangling-reference error with a formatted message
func NewDanglingReference(format string, args ...interface{}) error {
	return Wrap(ErrDanglingReference, Newf(format, args...).Error())
}

// NewDecoding creates a decoding error with a formatted message
func NewDecoding(format string, args ...interface{}) error {
	return Wrap(ErrDecoding, Newf(format, args...).Error())
}

// NewSerialization creates a serialization error with a formatted message
func NewSerialization(format string, args ...interface{}) error {
	return Wrap(ErrSerialization, Newf(format, args...).Error())
}
