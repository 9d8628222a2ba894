package errors

import (
	"bytes"
	stdErrors "errors"
	"fmt"
	"strings"
	"testing"

	"git.home.luguber.info/inful/texbuilder/internal/console"
	"git.home.luguber.info/inful/texbuilder/internal/interrupt"
)

func TestBuildError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *BuildError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(CategoryConfig, SeverityFatal, "configuration invalid"),
			expected: "configuration invalid",
		},
		{
			name:     "error with cause",
			err:      Wrap(fmt.Errorf("file not found"), CategoryConfig, SeverityFatal, "failed to load config"),
			expected: "failed to load config: file not found",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := test.err.Error()
			if result != test.expected {
				t.Errorf("Error() = %q, want %q", result, test.expected)
			}
		})
	}
}

func TestBuildError_WithContext(t *testing.T) {
	err := New(CategoryBuild, SeverityError, "render failed").
		WithContext("output", "book.pdf").
		WithContext("pass", 2)

	if err.Context == nil {
		t.Fatal("Context should not be nil")
	}
	if err.Context["output"] != "book.pdf" {
		t.Errorf("Context[output] = %v, want book.pdf", err.Context["output"])
	}
	if err.Context["pass"] != 2 {
		t.Errorf("Context[pass] = %v, want 2", err.Context["pass"])
	}
}

func TestIsCategory(t *testing.T) {
	configErr := New(CategoryConfig, SeverityFatal, "config error")
	nested := fmt.Errorf("outer: %w", BuildFailed("book.pdf", BackendError(fmt.Errorf("probe"))))
	standardErr := fmt.Errorf("standard error")

	tests := []struct {
		name     string
		err      error
		category ErrorCategory
		expected bool
	}{
		{"config error matches config category", configErr, CategoryConfig, true},
		{"config error doesn't match build category", configErr, CategoryBuild, false},
		{"nested build error matches build", nested, CategoryBuild, true},
		{"nested backend error matches backend", nested, CategoryBackend, true},
		{"standard error doesn't match any category", standardErr, CategoryConfig, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := IsCategory(test.err, test.category)
			if result != test.expected {
				t.Errorf("IsCategory() = %v, want %v", result, test.expected)
			}
		})
	}
}

func TestGetCategory(t *testing.T) {
	if got := GetCategory(fmt.Errorf("x: %w", ConfigError("bad", nil))); got != CategoryConfig {
		t.Errorf("GetCategory() = %v, want config", got)
	}
	if got := GetCategory(fmt.Errorf("plain")); got != CategoryInternal {
		t.Errorf("GetCategory() = %v, want internal", got)
	}
}

func TestBuildFailed(t *testing.T) {
	cause := fmt.Errorf("TeX compilation failed")
	err := BuildFailed("out/book.pdf", cause)
	if err.Category != CategoryBuild {
		t.Errorf("Category = %v, want %v", err.Category, CategoryBuild)
	}
	if err.Context["output"] != "out/book.pdf" {
		t.Errorf("Context[output] = %v, want out/book.pdf", err.Context["output"])
	}
	if !stdErrors.Is(err, cause) {
		t.Errorf("Cause should match wrapped cause: %v", cause)
	}

	interrupted := BuildFailed("out/book.pdf", fmt.Errorf("pass 2: %w", interrupt.ErrInterrupted))
	if interrupted.Category != CategoryInterrupted {
		t.Errorf("Category = %v, want %v", interrupted.Category, CategoryInterrupted)
	}
}

func TestExitCodeFor(t *testing.T) {
	a := NewCLIErrorAdapter(console.Discard(), nil)
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain", fmt.Errorf("boom"), 1},
		{"config", ConfigError("bad config", nil), 7},
		{"backend", BackendError(fmt.Errorf("none found")), 9},
		{"build", BuildFailed("a.pdf", fmt.Errorf("failed")), 11},
		{"wrapped build", fmt.Errorf("build: %w", BuildFailed("a.pdf", fmt.Errorf("failed"))), 11},
		{"interrupted", interrupt.ErrInterrupted, 130},
		{"interrupted inside build", BuildFailed("a.pdf", interrupt.ErrInterrupted), 130},
		{"internal", InternalError("bug", nil), 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.ExitCodeFor(tt.err); got != tt.want {
				t.Errorf("ExitCodeFor() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestChain(t *testing.T) {
	root := stdErrors.New("exit status 1")
	err := BuildFailed("book.pdf", fmt.Errorf("pass 1: %w", root))

	headline, details := Chain(err)
	if headline != "could not render output file `book.pdf`" {
		t.Errorf("headline = %q", headline)
	}
	want := []string{"pass 1", "exit status 1"}
	if strings.Join(details, "|") != strings.Join(want, "|") {
		t.Errorf("details = %q, want %q", details, want)
	}
}

func TestFormatError(t *testing.T) {
	a := NewCLIErrorAdapter(console.Discard(), nil)

	got := a.FormatError(ConfigError("invalid project file", fmt.Errorf("outputs: at least one output is required")))
	want := "error: invalid project file\n  | outputs: at least one output is required"
	if got != want {
		t.Errorf("FormatError() = %q, want %q", got, want)
	}

	if got := a.FormatError(BuildFailed("a.pdf", interrupt.ErrInterrupted)); got != "Interrupted" {
		t.Errorf("FormatError() = %q, want Interrupted", got)
	}
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	a := NewCLIErrorAdapter(console.New(console.Options{Out: &buf, Verbosity: console.Normal}), nil)

	code := a.Report(BuildFailed("a.pdf", fmt.Errorf("TeX compilation failed")))
	if code != 11 {
		t.Errorf("Report() = %d, want 11", code)
	}
	out := buf.String()
	if !strings.Contains(out, "could not render output file `a.pdf`") || !strings.Contains(out, "  | TeX compilation failed") {
		t.Errorf("unexpected output:\n%s", out)
	}

	buf.Reset()
	if code := a.Report(fmt.Errorf("outer: %w", interrupt.ErrInterrupted)); code != ExitInterrupted {
		t.Errorf("Report() = %d, want %d", code, ExitInterrupted)
	}
	if strings.Count(buf.String(), "Interrupted") != 1 || strings.Contains(buf.String(), "  | ") {
		t.Errorf("interrupt should print a single notice, got:\n%s", buf.String())
	}
}
