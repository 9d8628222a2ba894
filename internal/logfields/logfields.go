package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyOutput   = "output"
	KeyTexFile  = "tex_file"
	KeyPath     = "path"
	KeyProgram  = "program"
	KeyDistro   = "distro"
	KeyPass     = "pass"
	KeyStatus   = "status"
	KeyExitCode = "exit_code"
	KeyLines    = "lines"
	KeyDuration = "duration_ms"
	KeyError    = "error"
)

func Output(p string) slog.Attr       { return slog.String(KeyOutput, p) }
func TexFile(p string) slog.Attr      { return slog.String(KeyTexFile, p) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Program(p string) slog.Attr      { return slog.String(KeyProgram, p) }
func Distro(d string) slog.Attr       { return slog.String(KeyDistro, d) }
func Pass(n int) slog.Attr            { return slog.Int(KeyPass, n) }
func Status(s string) slog.Attr       { return slog.String(KeyStatus, s) }
func ExitCode(c int) slog.Attr        { return slog.Int(KeyExitCode, c) }
func Lines(n int) slog.Attr           { return slog.Int(KeyLines, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDuration, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
