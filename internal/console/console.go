// Package console prints the user-facing build status: a right-aligned,
// colored verb column followed by a message, plus streamed subprocess
// output whose presentation depends on the verbosity tier.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/term"
)

// Verbosity selects how much is printed.
type Verbosity int

const (
	// Quiet prints nothing; subprocess output is only buffered.
	Quiet Verbosity = iota
	// Normal prints status lines and keeps a single, overwritten line of
	// subprocess output.
	Normal
	// Verbose echoes commands and passes subprocess output through.
	Verbose
)

// VerbosityFromFlags maps the -q/-v flag pair; both set cancel out.
func VerbosityFromFlags(quiet, verbose bool) Verbosity {
	switch {
	case quiet && !verbose:
		return Quiet
	case verbose && !quiet:
		return Verbose
	default:
		return Normal
	}
}

const verbWidth = 12

// Console writes status output. It is safe for concurrent use.
type Console struct {
	mu        sync.Mutex
	out       io.Writer
	verbosity Verbosity
	color     bool
	tty       bool

	statusStyle  lipgloss.Style
	successStyle lipgloss.Style
	warnStyle    lipgloss.Style
	errorStyle   lipgloss.Style
}

// Options configures a Console.
type Options struct {
	Out       io.Writer // defaults to os.Stderr
	Verbosity Verbosity
	// Color forces colors on or off; nil auto-detects a terminal.
	Color *bool
}

// New creates a Console writing to opts.Out.
func New(opts Options) *Console {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	tty := isTerminal(out)
	color := tty
	if opts.Color != nil {
		color = *opts.Color && tty
	}

	r := lipgloss.NewRenderer(out)
	bold := r.NewStyle().Bold(true)
	return &Console{
		out:          out,
		verbosity:    opts.Verbosity,
		color:        color,
		tty:          tty,
		statusStyle:  bold.Foreground(lipgloss.Color("14")),
		successStyle: bold.Foreground(lipgloss.Color("10")),
		warnStyle:    bold.Foreground(lipgloss.Color("11")),
		errorStyle:   bold.Foreground(lipgloss.Color("9")),
	}
}

// Discard returns a quiet Console, handy in tests.
func Discard() *Console {
	return New(Options{Out: io.Discard, Verbosity: Quiet})
}

// Verbosity returns the configured tier.
func (c *Console) Verbosity() Verbosity { return c.verbosity }

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(f.Fd())
}

func (c *Console) paint(style lipgloss.Style, s string) string {
	if !c.color {
		return s
	}
	return style.Render(s)
}

func (c *Console) indentLine(line string) {
	fmt.Fprintf(c.out, "%*s %s\n", verbWidth, "", line)
}

func (c *Console) statusInner(verb string, style lipgloss.Style, msg string) {
	if c.verbosity == Quiet {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprint(c.out, c.paint(style, fmt.Sprintf("%*s", verbWidth, verb)))
	lines := strings.Split(msg, "\n")
	fmt.Fprintf(c.out, " %s\n", lines[0])
	for _, l := range lines[1:] {
		c.indentLine(l)
	}
}

// Status prints routine progress, e.g. Status("Running", "TeX...").
func (c *Console) Status(verb, msg string) {
	c.statusInner(verb, c.statusStyle, msg)
}

// Success prints a success verb with no message.
func (c *Console) Success(verb string) {
	c.statusInner(verb, c.successStyle, "")
}

// Warning prints a warning.
func (c *Console) Warning(msg string) {
	c.statusInner("Warning", c.warnStyle, msg)
}

// Indent prints msg aligned with the message column.
func (c *Console) Indent(msg string) {
	if c.verbosity == Quiet {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, l := range strings.Split(msg, "\n") {
		c.indentLine(l)
	}
}

// Error prints a headline followed by detail lines prefixed with "  | ".
func (c *Console) Error(headline string, details []string) {
	if c.verbosity == Quiet {
		return
	}
	c.statusInner("error", c.errorStyle, headline)

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range details {
		for _, l := range strings.Split(d, "\n") {
			fmt.Fprintf(c.out, "%s%s\n", c.paint(c.errorStyle, "  | "), l)
		}
	}
}

// Command prints the command line the way a shell would show it.
func (c *Console) Command(program string, args []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprint(c.out, c.paint(c.statusStyle, fmt.Sprintf("%*s", verbWidth, "Command")))
	fmt.Fprintf(c.out, " %s", program)
	for _, a := range args {
		fmt.Fprintf(c.out, " %s", a)
	}
	fmt.Fprintln(c.out)
}

// RewindLine moves the cursor up and erases the line. It does nothing when
// the output is not a terminal.
func (c *Console) RewindLine() {
	if c.verbosity == Quiet || !c.tty {
		return
	}
	fmt.Fprint(c.out, ansi.CursorUp(1)+ansi.EraseEntireLine)
}
