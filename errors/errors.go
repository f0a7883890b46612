// Package errors provides error handling for umlconf.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints and details
//
// Usage:
//
//	// Create new error
//	err := errors.New("model has no root class")
//
//	// Wrap with context
//	if err := doc.ReadFromFile(path); err != nil {
//	    return errors.Wrapf(err, "failed to read model %s", path)
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "mark exactly one <Class> with isRoot=\"true\"")
//
//	// Check errors
//	if errors.Is(err, model.ErrNoRoot) {
//	    // handle missing root
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
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Shared sentinels for the I/O glue. Domain failures of the model compiler
// live in package model; these cover everything around it.
var (
	// ErrInvalidInput indicates an input document is malformed or incomplete
	ErrInvalidInput = New("invalid input")

	// ErrUnsupportedFormat indicates a file extension no reader or writer handles
	ErrUnsupportedFormat = New("unsupported format")
)

// IsInvalidInputError checks if an error is or wraps ErrInvalidInput
func IsInvalidInputError(err error) bool {
	return err != nil && Is(err, ErrInvalidInput)
}

// NewInvalidInputError creates an invalid-input error with a formatted message
func NewInvalidInputError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidInput, Newf(format, args...).Error())
}

// MarkInvalidInput marks a parser error as invalid input, keeping the
// parser's own error in the chain
func MarkInvalidInput(err error) error {
	if err == nil {
		return nil
	}
	return Mark(err, ErrInvalidInput)
}

// NewUnsupportedFormatError reports a format that has no reader or writer
func NewUnsupportedFormatError(format string) error {
	return WithHint(
		Wrapf(ErrUnsupportedFormat, "%q", format),
		"supported configuration formats: .json, .yaml, .yml, .toml",
	)
}

// UserMessage renders an error with any attached hints, one per line,
// suitable for printing at the CLI boundary.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if hints := FlattenHints(err); hints != "" {
		msg += "\nhint: " + hints
	}
	return msg
}
