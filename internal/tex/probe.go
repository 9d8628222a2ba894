package tex

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"git.home.luguber.info/inful/texbuilder/internal/interrupt"
	"git.home.luguber.info/inful/texbuilder/internal/logfields"
	texerrors "git.home.luguber.info/inful/texbuilder/internal/tex/errors"
)

// probeAttempts bounds the version query to about 1.5s.
const probeAttempts = 30

// testProgram runs program with args and returns the first line it prints
// on stdout. A program still running after the poll budget is killed; that
// alone is not a failure as long as it printed something.
func testProgram(flag *interrupt.Flag, program string, args ...string) (string, error) {
	var stdout bytes.Buffer
	cmd := exec.Command(program, args...)
	cmd.Stdout = &stdout
	cmd.WaitDelay = 200 * time.Millisecond

	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("could not run `%s`: %w", program, err)
	}

	waitCh := make(chan error, 1)
	go func() { waitCh <- cmd.Wait() }()

	var waitErr error
	exited, err := interrupt.Poll(flag, interrupt.PollInterval, probeAttempts, func() (bool, error) {
		select {
		case waitErr = <-waitCh:
			return true, nil
		default:
			return false, nil
		}
	})
	if err != nil || !exited {
		_ = cmd.Process.Kill()
		<-waitCh
		if err != nil {
			return "", err
		}
		slog.Debug("Killed slow version probe", logfields.Program(program))
	} else if waitErr != nil {
		return "", fmt.Errorf("`%s` failed: %w", program, waitErr)
	}

	first, _, _ := strings.Cut(stdout.String(), "\n")
	first = strings.TrimSpace(first)
	if first == "" {
		return "", fmt.Errorf("`%s` printed no version", program)
	}
	return first, nil
}

// probe checks that cfg is usable and returns its version line.
func (r *Resolver) probe(cfg Config) (string, error) {
	switch cfg.Distro {
	case DistroNone:
		return "", nil
	case DistroTectonicEmbedded:
		if !r.Embedded {
			return "", fmt.Errorf("%w: %s: this binary was built without the embedded engine",
				texerrors.ErrProbeFailed, cfg)
		}
		return "embedded tectonic", nil
	}

	program := cfg.ProgramOrDefault()
	version, err := testProgram(r.Flag, program, cfg.Distro.versionFlag())
	r.recorder().IncProbe(string(cfg.Distro), err == nil)
	if err != nil {
		if errors.Is(err, interrupt.ErrInterrupted) {
			return "", err
		}
		return "", fmt.Errorf("%w: %s: %w", texerrors.ErrProbeFailed, cfg, err)
	}
	slog.Debug("Probed TeX distribution", logfields.Distro(string(cfg.Distro)),
		logfields.Program(program), "version", version)
	return version, nil
}
