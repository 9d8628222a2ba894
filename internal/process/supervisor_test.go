//go:build unix

package process

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"git.home.luguber.info/inful/texbuilder/internal/console"
	"git.home.luguber.info/inful/texbuilder/internal/interrupt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLines_InterleavedOrder(t *testing.T) {
	// Each write is followed by a pause, so the chronological order is the
	// order of the script regardless of which stream was used.
	script := `echo out1; sleep 0.1; echo err1 >&2; sleep 0.1; echo out2; sleep 0.1; echo err2 >&2; sleep 0.1; echo out3`

	var buf bytes.Buffer
	s := &Supervisor{Flag: interrupt.New(), Console: console.New(console.Options{Out: &buf, Verbosity: console.Verbose})}
	require.NoError(t, s.Run("sh", []string{"-c", script}, t.TempDir(), "sh"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.GreaterOrEqual(t, len(lines), 6)
	assert.Equal(t, []string{"out1", "err1", "out2", "err2", "out3"}, lines[len(lines)-5:])
	assert.Contains(t, lines[0], "Command sh -c")
}

func TestRun_FailureCarriesTranscript(t *testing.T) {
	var buf bytes.Buffer
	s := &Supervisor{Flag: interrupt.New(), Console: console.New(console.Options{Out: &buf, Verbosity: console.Normal})}

	err := s.Run("sh", []string{"-c", "echo first; echo second >&2; exit 3"}, t.TempDir(), "sh")
	require.Error(t, err)

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 3, exitErr.Code)
	assert.Len(t, exitErr.Transcript, 2)
	assert.Contains(t, exitErr.TranscriptString(), "first\n")
	assert.Contains(t, exitErr.TranscriptString(), "second\n")

	// Normal tier replays the command and the transcript after a failure.
	out := buf.String()
	assert.Contains(t, out, "Command sh -c")
	assert.Equal(t, 2, strings.Count(out, "first\n"), "live line and replayed line")
}

func TestRun_QuietFailureDoesNotReplay(t *testing.T) {
	var buf bytes.Buffer
	s := &Supervisor{Flag: interrupt.New(), Console: console.New(console.Options{Out: &buf, Verbosity: console.Quiet})}

	err := s.Run("sh", []string{"-c", "echo hidden; exit 1"}, t.TempDir(), "sh")
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Empty(t, buf.String())
	assert.Equal(t, "hidden\n", exitErr.TranscriptString())
}

func TestRun_LargeOutputDoesNotDeadlock(t *testing.T) {
	s := &Supervisor{Flag: interrupt.New(), Console: console.Discard()}
	require.NoError(t, s.Run("sh", []string{"-c", "i=0; while [ $i -lt 2000 ]; do echo line $i; echo err $i >&2; i=$((i+1)); done"}, t.TempDir(), "sh"))
}

func TestRun_MissingProgram(t *testing.T) {
	s := &Supervisor{Flag: interrupt.New(), Console: console.Discard()}
	err := s.Run(filepath.Join(t.TempDir(), "no-such-program"), nil, t.TempDir(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not run program")
}

func TestRun_InterruptedWhileRunning(t *testing.T) {
	flag := interrupt.New()
	s := &Supervisor{Flag: flag, Console: console.Discard(), KillOnInterrupt: true}

	go func() {
		time.Sleep(200 * time.Millisecond)
		flag.Signal()
	}()

	start := time.Now()
	err := s.Run("sleep", []string{"30"}, t.TempDir(), "sleep")
	require.Error(t, err)
	assert.ErrorIs(t, err, interrupt.ErrInterrupted)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRun_WorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	s := &Supervisor{Flag: interrupt.New(), Console: console.New(console.Options{Out: &buf, Verbosity: console.Verbose})}
	require.NoError(t, s.Run("pwd", nil, dir, "pwd"))

	assert.Contains(t, buf.String(), filepath.Base(dir))
}

func TestRun_ExtraEnvironment(t *testing.T) {
	var buf bytes.Buffer
	s := &Supervisor{
		Flag:    interrupt.New(),
		Console: console.New(console.Options{Out: &buf, Verbosity: console.Verbose}),
		Env:     []string{"TEXBUILDER_TEST_OUTPUT=book.pdf"},
	}
	require.NoError(t, s.Run("sh", []string{"-c", `echo "out=$TEXBUILDER_TEST_OUTPUT"`}, t.TempDir(), "sh"))
	assert.Contains(t, buf.String(), "out=book.pdf")
}
