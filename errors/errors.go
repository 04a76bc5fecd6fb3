// Package errors defines all exported error sentinels for the filesort
// package.
//
// This is the single source of truth for error values so that both the
// top-level filesort package and its internal subpackages can return errors
// that satisfy errors.Is checks across package boundaries.
package errors

import "errors"

// Construction / argument errors
var (
	ErrInvalidBufferSize  = errors.New("filesort: buffer size must be positive and a multiple of 4")
	ErrInvalidThreadCount = errors.New("filesort: thread count must be >= 1")
	ErrEmptyPath          = errors.New("filesort: path is empty")
)

// Ingest errors
var (
	ErrParseLine = errors.New("filesort: could not parse line as a signed 32-bit integer")
)

// I/O errors
var (
	ErrShortRead          = errors.New("filesort: short read")
	ErrShortWrite         = errors.New("filesort: short write")
	ErrTempDirUnavailable = errors.New("filesort: could not create a temporary directory")
	ErrRunFileCorrupt     = errors.New("filesort: run file integrity tag mismatch")
)

// Verification errors
var (
	ErrChecksumMismatch = errors.New("filesort: multiset checksum mismatch between input and output")
)

// Lifecycle errors
var (
	ErrClosed = errors.New("filesort: sorter is closed")
)
