// Package errors provides error handling for contractgen.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints and details surfaced by the CLI
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := emit(); err != nil {
//	    return errors.Wrap(err, "failed to emit dart")
//	}
//
//	// Mark as one of the compiler failure classes
//	return errors.Mark(errors.Newf("unresolved reference %s", ref), errors.ErrUnresolvedReference)
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
	WithHint     = crdb.WithHint
	WithHintf    = crdb.WithHintf
	WithDetail   = crdb.WithDetail
	WithDetailf  = crdb.WithDetailf
	FlattenHints = crdb.FlattenHints
)

// Error inspection
var (
	Is            = crdb.Is
	IsAny         = crdb.IsAny
	As            = crdb.As
	Unwrap        = crdb.Unwrap
	UnwrapOnce    = crdb.UnwrapOnce
	UnwrapAll     = crdb.UnwrapAll
	GetAllHints   = crdb.GetAllHints
	GetAllDetails = crdb.GetAllDetails
)

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Compiler failure classes. Every fatal condition raised while compiling a
// program is marked with exactly one of these so callers can tell them apart
// with errors.Is.
var (
	// ErrUnresolvedReference: a type reference names neither a primitive nor a declaration
	ErrUnresolvedReference = New("unresolved type reference")

	// ErrManglingExhausted: two declarations share a fully-qualified name
	ErrManglingExhausted = New("name mangling exhausted")

	// ErrNameCollision: two emitted identifiers ended up equal
	ErrNameCollision = New("emitted name collision")

	// ErrDuplicateDeclaration: the same qualified name is declared twice
	ErrDuplicateDeclaration = New("duplicate declaration")

	// ErrMalformedContract: a declaration violates the contract type system
	// (e.g. a query without a result type)
	ErrMalformedContract = New("malformed contract")

	// ErrInvalidConfig: generation options are unusable
	ErrInvalidConfig = New("invalid configuration")

	// ErrUnsupportedSchema: the IR document version is not understood
	ErrUnsupportedSchema = New("unsupported IR schema version")
)

// MarkUnresolved builds an ErrUnresolvedReference error for the given reference.
func MarkUnresolved(ref string, format string, args ...interface{}) error {
	err := Mark(Newf(format, args...), ErrUnresolvedReference)
	return WithHintf(err, "check that the extractor emitted a declaration for %s", ref)
}

// MarkMalformed builds an ErrMalformedContract error.
func MarkMalformed(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrMalformedContract)
}

// MarkInvalidConfig builds an ErrInvalidConfig error.
func MarkInvalidConfig(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrInvalidConfig)
}

// IsUnresolvedReference checks if an error is or wraps ErrUnresolvedReference
func IsUnresolvedReference(err error) bool {
	return err != nil && Is(err, ErrUnresolvedReference)
}

// IsInvalidConfig checks if an error is or wraps ErrInvalidConfig
func IsInvalidConfig(err error) bool {
	return err != nil && Is(err, ErrInvalidConfig)
}

// IsNamingError reports whether err comes from name resolution.
func IsNamingError(err error) bool {
	return err != nil && IsAny(err, ErrManglingExhausted, ErrNameCollision, ErrDuplicateDeclaration)
}
