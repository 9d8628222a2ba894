package errors

import "git.home.luguber.info/inful/texbuilder/internal/interrupt"

// Convenience functions for common error patterns

// Config errors

func ConfigError(message string, cause error) *BuildError {
	return Wrap(cause, CategoryConfig, SeverityFatal, message)
}

// ConfigNotFound reports a missing project file.
func ConfigNotFound(path string) *BuildError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

// Backend errors

func BackendError(cause error) *BuildError {
	return Wrap(cause, CategoryBackend, SeverityFatal, "could not set up the TeX backend")
}

// Build errors

// BuildFailed wraps a per-output failure. An interrupted cause keeps its
// own category so the CLI can report it as such.
func BuildFailed(output string, cause error) *BuildError {
	category := CategoryBuild
	if interrupt.IsInterrupted(cause) {
		category = CategoryInterrupted
	}
	return Wrap(cause, category, SeverityError, "could not render output file `"+output+"`").
		WithContext("output", output)
}

func WorkspaceError(operation string, cause error) *BuildError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "workspace operation failed").
		WithContext("operation", operation)
}

// Internal errors

func InternalError(message string, cause error) *BuildError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}

func ScriptFailed(output string, cause error) *BuildError {
	category := CategoryBuild
	if interrupt.IsInterrupted(cause) {
		category = CategoryInterrupted
	}
	return Wrap(cause, category, SeverityError, "could not run script for output file `"+output+"`").
		WithContext("output", output)
}
