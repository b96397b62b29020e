// Package errs defines the sentinel error values shared across rtukit packages.
//
// All errors are created with errors.New and are intended to be matched with
// errors.Is. Call sites wrap them with fmt.Errorf("...: %w", err) to attach
// context such as offsets and file paths.
package errs

import "errors"

var (
	// ErrCorruptHeader indicates a short or invalid read while parsing the
	// BSIO prologue, the RTU header, or the tag dictionary chain.
	ErrCorruptHeader = errors.New("corrupt header")

	// ErrTruncatedData indicates the file declares more points than its byte
	// length can hold. Loading recovers the readable prefix; this value is
	// used as a warning signal, never as a load failure.
	ErrTruncatedData = errors.New("truncated point data")

	// ErrInvalidTimeFormat indicates a boundary time string that matches
	// neither accepted layout.
	ErrInvalidTimeFormat = errors.New("invalid time format")

	// ErrInvalidTimeRange indicates a query with start after end. It is
	// rejected at the API boundary before any scan runs.
	ErrInvalidTimeRange = errors.New("invalid time range: start after end")

	// ErrExternalTool indicates the external generator process exited with a
	// nonzero status after its input was closed.
	ErrExternalTool = errors.New("external generator failed")

	// ErrEmptyFile indicates a zero-length input file.
	ErrEmptyFile = errors.New("empty file")

	// ErrInvalidSampleInterval indicates a non-positive sampling interval.
	ErrInvalidSampleInterval = errors.New("sample interval must be positive")
)
