package errors

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"

	"git.home.luguber.info/inful/texbuilder/internal/console"
	"git.home.luguber.info/inful/texbuilder/internal/interrupt"
)

// ExitInterrupted is the conventional exit code after SIGINT.
const ExitInterrupted = 130

// CLIErrorAdapter handles error presentation and exit code determination for CLI applications.
type CLIErrorAdapter struct {
	console *console.Console
	logger  *slog.Logger
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(con *console.Console, logger *slog.Logger) *CLIErrorAdapter {
	if con == nil {
		con = console.New(console.Options{})
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		console: con,
		logger:  logger,
	}
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	if interrupt.IsInterrupted(err) {
		return ExitInterrupted
	}

	var be *BuildError
	if errors.As(err, &be) {
		return a.exitCodeFromBuildError(be)
	}

	return 1
}

// exitCodeFromBuildError maps BuildError to exit codes.
func (a *CLIErrorAdapter) exitCodeFromBuildError(err *BuildError) int {
	switch err.Category {
	case CategoryConfig:
		return 7 // Configuration error
	case CategoryBackend:
		return 9 // No usable TeX backend
	case CategoryBuild, CategoryFileSystem:
		return 11 // Build error
	case CategoryInterrupted:
		return ExitInterrupted
	case CategoryInternal:
		return 10 // Internal error
	default:
		return 1 // General error
	}
}

// Chain splits err into a headline and the messages of its causes, outermost
// first. Each entry holds only the text its layer added.
func Chain(err error) (headline string, details []string) {
	if err == nil {
		return "", nil
	}
	var layers []string
	for e := err; e != nil; {
		next := errors.Unwrap(e)
		msg := e.Error()
		if be, ok := e.(*BuildError); ok {
			msg = be.Message
		} else if next != nil {
			msg = strings.TrimSuffix(msg, ": "+next.Error())
		}
		if msg != "" {
			layers = append(layers, msg)
		}
		e = next
	}
	if len(layers) == 0 {
		return err.Error(), nil
	}
	return layers[0], layers[1:]
}

// FormatError formats an error for plain-text display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	if interrupt.IsInterrupted(err) {
		return "Interrupted"
	}
	headline, details := Chain(err)
	var b strings.Builder
	b.WriteString("error: ")
	b.WriteString(headline)
	for _, d := range details {
		b.WriteString("\n  | ")
		b.WriteString(d)
	}
	return b.String()
}

// Report prints err on the console and returns the exit code.
func (a *CLIErrorAdapter) Report(err error) int {
	if err == nil {
		return 0
	}
	exitCode := a.ExitCodeFor(err)

	if a.console.Verbosity() == console.Quiet {
		a.logError(err)
		return exitCode
	}

	if interrupt.IsInterrupted(err) {
		a.console.Warning("Interrupted")
		return exitCode
	}
	headline, details := Chain(err)
	a.console.Error(headline, details)
	if a.console.Verbosity() >= console.Verbose {
		a.logError(err)
	}
	return exitCode
}

// HandleError processes an error and exits the program with appropriate code.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}
	os.Exit(a.Report(err))
}

// logError logs an error with appropriate level and context.
func (a *CLIErrorAdapter) logError(err error) {
	var be *BuildError
	if errors.As(err, &be) {
		level := a.slogLevelFromSeverity(be.Severity)
		attrs := []slog.Attr{
			slog.String("category", string(be.Category)),
			slog.String("error", err.Error()),
		}
		for k, v := range be.Context {
			attrs = append(attrs, slog.Any(k, v))
		}

		a.logger.LogAttrs(context.Background(), level, be.Message, attrs...)
		return
	}

	a.logger.Error("Unclassified error", "error", err)
}

// slogLevelFromSeverity converts BuildError severity to slog level.
func (a *CLIErrorAdapter) slogLevelFromSeverity(severity ErrorSeverity) slog.Level {
	switch severity {
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
