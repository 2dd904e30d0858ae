// Package sqlerr defines the structured errors surfaced by dialect
// resolution, filter translation, statement building and descriptor loading.
//
// Every failure in the generation core is reported as an *Error carrying a
// Code. Callers branch on the code through the Is* helpers, which use
// errors.As so wrapped errors are still recognized.
package sqlerr

import (
	"errors"
	"fmt"
)

// Code categorizes generation errors.
type Code string

const (
	// CodeUnknownDialect indicates a driver identifier that is not in the
	// dialect registry.
	CodeUnknownDialect Code = "UNKNOWN_DIALECT"

	// CodeNoTranslator indicates a filter predicate with no registered
	// translator. Dropping the predicate would widen the result set, so this
	// is always an error.
	CodeNoTranslator Code = "NO_TRANSLATOR"

	// CodePlaceholderMismatch indicates generated text whose placeholder count
	// differs from the bound parameter count.
	CodePlaceholderMismatch Code = "PLACEHOLDER_MISMATCH"

	// CodeInvalidDescriptor indicates a query descriptor or statement input
	// that cannot be turned into SQL (empty table, negative paging, ...).
	CodeInvalidDescriptor Code = "INVALID_DESCRIPTOR"

	// CodeLoadFailed indicates a descriptor document that could not be read
	// or decoded.
	CodeLoadFailed Code = "LOAD_FAILED"
)

// Error is a generation error with a machine-readable code.
type Error struct {
	// Code identifies the error category.
	Code Code

	// Message is a human-readable description.
	Message string

	// Details contains additional context (driver identifier, counts, ...).
	Details map[string]string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error wrapping an underlying cause.
func Wrap(code Code, err error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

// WithDetail returns e with an extra detail entry.
func (e *Error) WithDetail(key, value string) *Error {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// NewUnknownDialect reports a driver identifier missing from the registry.
func NewUnknownDialect(driverID string) *Error {
	return New(CodeUnknownDialect, "unknown JDBC driver identifier %q", driverID).
		WithDetail("driver", driverID)
}

// NewNoTranslator reports a predicate no registered translator accepts.
func NewNoTranslator(predicate any) *Error {
	return New(CodeNoTranslator, "no translator registered for predicate %T", predicate).
		WithDetail("predicate", fmt.Sprintf("%T", predicate))
}

// NewPlaceholderMismatch reports a statement whose text and parameters disagree.
func NewPlaceholderMismatch(placeholders, params int) *Error {
	return New(CodePlaceholderMismatch, "statement has %d placeholder(s) but %d parameter(s)", placeholders, params).
		WithDetail("placeholders", fmt.Sprintf("%d", placeholders)).
		WithDetail("params", fmt.Sprintf("%d", params))
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsUnknownDialect returns true if err is an unknown dialect error.
func IsUnknownDialect(err error) bool {
	return CodeOf(err) == CodeUnknownDialect
}

// IsNoTranslator returns true if err is a missing translator error.
func IsNoTranslator(err error) bool {
	return CodeOf(err) == CodeNoTranslator
}

// IsPlaceholderMismatch returns true if err is a placeholder mismatch error.
func IsPlaceholderMismatch(err error) bool {
	return CodeOf(err) == CodePlaceholderMismatch
}

// IsInvalidDescriptor returns true if err is an invalid descriptor error.
func IsInvalidDescriptor(err error) bool {
	return CodeOf(err) == CodeInvalidDescriptor
}

// IsLoadFailed returns true if err is a descriptor load error.
func IsLoadFailed(err error) bool {
	return CodeOf(err) == CodeLoadFailed
}
