// Package process runs external programs with merged, streamed output and
// waits for them without ever blocking past an interrupt.
package process

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"git.home.luguber.info/inful/texbuilder/internal/console"
	"git.home.luguber.info/inful/texbuilder/internal/interrupt"
	"git.home.luguber.info/inful/texbuilder/internal/logfields"
)

// ExitError reports a program that ran but did not exit successfully.
type ExitError struct {
	Program string
	Args    []string
	// Code is the exit code, or -1 when the process was killed by a signal.
	Code       int
	State      string
	Transcript [][]byte
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("program `%s` failed: %s", e.Program, e.State)
}

// TranscriptString joins the captured output.
func (e *ExitError) TranscriptString() string {
	var b strings.Builder
	for _, l := range e.Transcript {
		b.Write(l)
	}
	return b.String()
}

// Supervisor runs programs and reports their output on a Console.
type Supervisor struct {
	Flag    *interrupt.Flag
	Console *console.Console
	// KillOnInterrupt kills the child when the run is interrupted. By default
	// the child is left running and the caller decides.
	KillOnInterrupt bool
	// Env is appended to the inherited environment.
	Env []string
}

// Run starts program with args in dir, streams its merged output and waits
// for it to exit. status labels the output in the Normal tier.
func (s *Supervisor) Run(program string, args []string, dir, status string) error {
	con := s.Console
	if con == nil {
		con = console.Discard()
	}
	verbosity := con.Verbosity()
	if verbosity >= console.Verbose {
		con.Command(program, args)
	}

	cmd := exec.Command(program, args...)
	cmd.Dir = dir
	if len(s.Env) > 0 {
		cmd.Env = append(os.Environ(), s.Env...)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("could not run program `%s`: %w", program, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("could not run program `%s`: %w", program, err)
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("could not run program `%s`: %w", program, err)
	}
	slog.Debug("Started subprocess", logfields.Program(program), "pid", cmd.Process.Pid, logfields.Path(dir))

	lines := NewLines(s.Flag, stdout, stderr)
	defer lines.Close()

	if err := con.SubprocessOutput(lines, program, status); err != nil {
		s.abandon(cmd, err)
		return err
	}

	waitCh := make(chan error, 1)
	go func() { waitCh <- cmd.Wait() }()

	werr, _, err := interrupt.Recv(s.Flag, waitCh)
	if err != nil {
		s.abandon(cmd, err)
		return fmt.Errorf("error running program `%s`: %w", program, err)
	}
	slog.Debug("Subprocess exited", logfields.Program(program),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))

	if werr == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if !errors.As(werr, &exitErr) {
		return fmt.Errorf("error running program `%s`: %w", program, werr)
	}

	if verbosity == console.Normal {
		con.Command(program, args)
		con.Replay(lines.Collected())
	}

	return &ExitError{
		Program:    program,
		Args:       args,
		Code:       exitErr.ExitCode(),
		State:      exitErr.ProcessState.String(),
		Transcript: lines.Collected(),
	}
}

func (s *Supervisor) abandon(cmd *exec.Cmd, cause error) {
	if !errors.Is(cause, interrupt.ErrInterrupted) {
		return
	}
	if s.KillOnInterrupt && cmd.Process != nil {
		_ = cmd.Process.Kill()
		go func() { _ = cmd.Wait() }()
		return
	}
	slog.Debug("Leaving interrupted subprocess running", "pid", cmd.Process.Pid)
}
