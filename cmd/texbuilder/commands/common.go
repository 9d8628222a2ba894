package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/texbuilder/internal/config"
	"git.home.luguber.info/inful/texbuilder/internal/console"
	tberrors "git.home.luguber.info/inful/texbuilder/internal/errors"
	"git.home.luguber.info/inful/texbuilder/internal/interrupt"
)

// Global carries process-wide state shared by subcommands.
type Global struct {
	Flag    *interrupt.Flag
	Console *console.Console
	Logger  *slog.Logger
	// Stdout receives machine-readable command output.
	Stdout io.Writer
}

// Errors returns the adapter that renders command errors.
func (g *Global) Errors() *tberrors.CLIErrorAdapter {
	return tberrors.NewCLIErrorAdapter(g.Console, g.Logger)
}

func (g *Global) stdout() io.Writer {
	if g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Project file path" default:"texbuilder.yaml"`
	Verbose bool             `short:"v" help:"Echo commands and pass TeX output through"`
	Quiet   bool             `short:"q" help:"Print errors only"`
	Color   string           `help:"Colored output (${enum})" enum:"auto,always,never" default:"auto"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build     BuildCmd     `cmd:"" help:"Compile the project's outputs, or the given .tex files, into PDFs"`
	Probe     ProbeCmd     `cmd:"" help:"Resolve the TeX backend and print it"`
	SortLines SortLinesCmd `cmd:"" name:"sort-lines" help:"Sort runs of lines in a file by a regex capture group"`
	Cp        CpCmd        `cmd:"" help:"Copy a file (for post-processing scripts)"`
	Init      InitCmd      `cmd:"" help:"Initialize a new project file"`
	Tectonic  TectonicCmd  `cmd:"" hidden:"" passthrough:"" help:"Run the embedded TeX engine"`
}

// AfterApply runs after flag parsing; setup logging and the console once.
func (c *CLI) AfterApply(g *Global) error {
	verbosity := console.VerbosityFromFlags(c.Quiet, c.Verbose)

	var color *bool
	switch c.Color {
	case "always":
		on := true
		color = &on
	case "never":
		off := false
		color = &off
	}
	g.Console = console.New(console.Options{Out: os.Stderr, Verbosity: verbosity, Color: color})

	level := parseLogLevel(verbosity)
	g.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(g.Logger)
	return nil
}

// parseLogLevel maps the verbosity tier to a log level. Status output goes
// through the console, so routine logs stay below the default threshold.
// TEXBUILDER_LOG_LEVEL overrides.
func parseLogLevel(v console.Verbosity) slog.Level {
	fallback := slog.LevelWarn
	switch v {
	case console.Verbose:
		fallback = slog.LevelDebug
	case console.Quiet:
		fallback = slog.LevelError
	}
	return config.NormalizeLogLevel(os.Getenv(config.EnvLogLevel)).SlogLevel(fallback)
}
