package errors

// Package errors provides sentinel errors for the TeX build stages.
// Stages wrap them with the concrete cause ("%w: %w") so callers can
// classify with errors.Is while the message stays descriptive.

import "errors"

var (
	// ErrUnknownDistro indicates a backend setting named a kind that does not exist.
	ErrUnknownDistro = errors.New("unknown TeX distribution")
	// ErrBackendUnresolvable indicates no explicit backend was configured and none was detected.
	ErrBackendUnresolvable = errors.New("no usable compiler backend found")
	// ErrProbeFailed indicates the backend program did not answer its version query.
	ErrProbeFailed = errors.New("TeX distribution probe failed")
	// ErrCompileFailed indicates a TeX pass exited unsuccessfully or could not be started.
	ErrCompileFailed = errors.New("TeX compilation failed")
	// ErrArtifactNotProduced indicates the engine finished but no PDF could be moved into place.
	ErrArtifactNotProduced = errors.New("could not produce output file")
	// ErrCleanupFailed indicates a temporary file or directory could not be removed.
	ErrCleanupFailed = errors.New("could not remove temporary path")
)
