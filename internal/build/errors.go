package build

import "errors"

// Sentinel domain errors for the post-processing stage.
var (
	ErrScriptNotFound = errors.New("post-processing script not found")
	ErrScriptFailed   = errors.New("post-processing script failed")
)
