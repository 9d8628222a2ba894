// Package metrics provides observability hooks for TeX builds.
//
// Components receive a Recorder through dependency injection and default
// to NoopRecorder, so no nil checks are needed at call sites:
//
//	tools := tex.NewTools(cfg, flag, con).WithRecorder(metrics.NewPrometheusRecorder(reg))
//
// The CLI has no long-running process to scrape; `build --metrics-file`
// writes the registry with WriteTextfile once the build is done.
package metrics
