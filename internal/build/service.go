package build

import (
	"context"
	"time"

	"git.home.luguber.info/inful/texbuilder/internal/config"
)

// BuildService is the canonical interface for executing builds.
type BuildService interface {
	// Run renders every output of the request's configuration.
	// Returns a BuildResult with per-output outcomes and any error encountered.
	Run(ctx context.Context, req BuildRequest) (*BuildResult, error)
}

// BuildRequest contains all inputs required to execute a build.
type BuildRequest struct {
	// Config is the loaded configuration for this build.
	Config *config.Config

	// Options provides optional build behavior modifiers.
	Options BuildOptions
}

// BuildOptions provides optional configuration for build behavior.
type BuildOptions struct {
	// SkipScripts disables post-processing scripts.
	SkipScripts bool
}

// BuildResult contains the outcome of a build execution.
type BuildResult struct {
	// Status indicates overall build outcome.
	Status BuildStatus

	// Outputs holds one entry per output that was attempted, in order.
	Outputs []OutputResult

	// Backend is the resolved TeX backend, e.g. "texlive:/usr/bin/xelatex".
	Backend string

	// Duration is the total build execution time.
	Duration time.Duration

	// StartTime is when the build started.
	StartTime time.Time

	// EndTime is when the build completed.
	EndTime time.Time
}

// Rendered counts outputs whose PDF was produced.
func (r *BuildResult) Rendered() int {
	n := 0
	for _, o := range r.Outputs {
		if o.Status == BuildStatusSuccess {
			n++
		}
	}
	return n
}

// OutputResult is the outcome of one output.
type OutputResult struct {
	File     string
	Status   BuildStatus
	Duration time.Duration
	Err      error
}

// BuildStatus represents the outcome of a build execution.
type BuildStatus string

const (
	// BuildStatusSuccess indicates the build completed successfully.
	BuildStatusSuccess BuildStatus = "success"

	// BuildStatusFailed indicates the build encountered an error.
	BuildStatusFailed BuildStatus = "failed"

	// BuildStatusSkipped indicates compilation was skipped (backend "none").
	BuildStatusSkipped BuildStatus = "skipped"

	// BuildStatusCancelled indicates the build was interrupted.
	BuildStatusCancelled BuildStatus = "cancelled"
)

// IsTerminal returns true if the status represents a final state.
func (s BuildStatus) IsTerminal() bool {
	return s == BuildStatusSuccess || s == BuildStatusFailed ||
		s == BuildStatusSkipped || s == BuildStatusCancelled
}

// IsSuccess returns true if the build completed successfully.
func (s BuildStatus) IsSuccess() bool {
	return s == BuildStatusSuccess || s == BuildStatusSkipped
}
