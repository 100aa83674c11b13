// Package errors consolidates sentinel errors for the whole project.
//
// This file provides:
// - Sentinel errors for all error conditions
// - Error category checking functions
// - Convenience wrappers around the standard errors package
package errors

import "errors"

// ============================================================================
// Sentinel errors
// ============================================================================

var (
	// Input format errors: malformed text during ingestion. A single
	// malformed row aborts the conversion of its file; no partial
	// output survives.
	ErrInputFormat   = errors.New("malformed input row")
	ErrBadDateTime   = errors.New("malformed date/time field")
	ErrMissingColumn = errors.New("missing required column")

	// Decode errors: a dataset or index buffer that does not match the
	// declared structure. Recoverable, surfaced to the caller.
	ErrBadMagic   = errors.New("root structure mismatch (bad magic)")
	ErrBadVersion = errors.New("unsupported format version")
	ErrTruncated  = errors.New("buffer truncated")

	// Configuration errors: rejected at the boundary before any
	// processing starts.
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrUnknownTimeframe = errors.New("unknown timeframe")
	ErrUnknownLayout    = errors.New("unknown storage layout")
	ErrInvalidWorkers   = errors.New("worker count must be positive")
)

// ============================================================================
// Helper functions for error checking
// ============================================================================

// Is is a convenience wrapper for errors.Is.
var Is = errors.Is

// As is a convenience wrapper for errors.As.
var As = errors.As

// Join is a convenience wrapper for errors.Join.
var Join = errors.Join

// New is a convenience wrapper for errors.New.
var New = errors.New

// IsInputFormat returns true if err is an ingestion format error.
func IsInputFormat(err error) bool {
	return errors.Is(err, ErrInputFormat) ||
		errors.Is(err, ErrBadDateTime) ||
		errors.Is(err, ErrMissingColumn)
}

// IsDecode returns true if err is a buffer decode error.
func IsDecode(err error) bool {
	return errors.Is(err, ErrBadMagic) ||
		errors.Is(err, ErrBadVersion) ||
		errors.Is(err, ErrTruncated)
}

// IsConfig returns true if err is a configuration error.
func IsConfig(err error) bool {
	return errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrUnknownTimeframe) ||
		errors.Is(err, ErrUnknownLayout) ||
		errors.Is(err, ErrInvalidWorkers)
}
