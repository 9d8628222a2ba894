package metrics

import "time"

// ResultLabel enumerates outcome categories for counters.
type ResultLabel string

const (
	ResultSuccess     ResultLabel = "success"
	ResultFailed      ResultLabel = "failed"
	ResultInterrupted ResultLabel = "interrupted"
	// ResultSkipped marks jobs that ran with the "none" distro.
	ResultSkipped ResultLabel = "skipped"
)

// Recorder defines observability hooks for TeX builds. Implementations may
// forward to Prometheus, OpenTelemetry, etc.
type Recorder interface {
	ObservePassDuration(distro string, d time.Duration)
	IncPassResult(distro string, result ResultLabel)
	IncJobOutcome(result ResultLabel)
	ObserveSortedLines(n int)
	IncProbe(distro string, ok bool)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObservePassDuration(string, time.Duration) {}
func (NoopRecorder) IncPassResult(string, ResultLabel)         {}
func (NoopRecorder) IncJobOutcome(ResultLabel)                 {}
func (NoopRecorder) ObserveSortedLines(int)                    {}
func (NoopRecorder) IncProbe(string, bool)                     {}
