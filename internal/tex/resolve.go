package tex

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/texbuilder/internal/console"
	"git.home.luguber.info/inful/texbuilder/internal/interrupt"
	"git.home.luguber.info/inful/texbuilder/internal/logfields"
	"git.home.luguber.info/inful/texbuilder/internal/metrics"
	texerrors "git.home.luguber.info/inful/texbuilder/internal/tex/errors"
)

// EnvVar overrides every other backend setting.
const EnvVar = "TEXBUILDER_TEX"

// autoDetect is the probe order when nothing is configured.
var autoDetect = []Distro{DistroTeXLive, DistroTectonic}

// Resolver decides which backend to use. Sources in priority order:
// the TEXBUILDER_TEX environment variable, the project file, the embedded
// engine, then whatever distribution answers a version probe.
type Resolver struct {
	Flag     *interrupt.Flag
	Console  *console.Console
	Getenv   func(string) string
	Embedded bool
	// Executable is the host binary, used as the embedded engine program.
	// Empty means os.Executable.
	Executable string
	Recorder   metrics.Recorder

	probeFn func(Config) (string, error)
}

// NewResolver returns a Resolver reading the process environment.
func NewResolver(flag *interrupt.Flag, con *console.Console) *Resolver {
	return &Resolver{
		Flag:     flag,
		Console:  con,
		Getenv:   os.Getenv,
		Embedded: EmbeddedAvailable,
	}
}

func (r *Resolver) recorder() metrics.Recorder {
	if r.Recorder == nil {
		return metrics.NoopRecorder{}
	}
	return r.Recorder
}

func (r *Resolver) console() *console.Console {
	if r.Console == nil {
		return console.Discard()
	}
	return r.Console
}

func (r *Resolver) runProbe(cfg Config) (string, error) {
	if r.probeFn != nil {
		return r.probeFn(cfg)
	}
	return r.probe(cfg)
}

// Resolve returns Tools for the first usable backend. fromProject may be nil.
// An explicitly configured backend that fails its probe is an error; there
// is no fallback to auto-detection in that case.
func (r *Resolver) Resolve(fromProject *Config) (*Tools, error) {
	getenv := r.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	if raw := getenv(EnvVar); raw != "" {
		cfg, err := ParseConfig(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvVar, err)
		}
		return r.explicit(cfg, fmt.Sprintf("the %s environment variable", EnvVar))
	}

	if fromProject != nil {
		return r.explicit(*fromProject, "the project file")
	}

	if r.Embedded {
		program := r.Executable
		if program == "" {
			exe, err := os.Executable()
			if err != nil {
				return nil, fmt.Errorf("%w: locating embedded engine: %w", texerrors.ErrBackendUnresolvable, err)
			}
			program = exe
		}
		cfg := Config{Distro: DistroTectonicEmbedded, Program: program}
		slog.Debug("Using embedded TeX engine", logfields.Program(program))
		return r.tools(cfg, "embedded tectonic"), nil
	}

	for _, d := range autoDetect {
		cfg := Config{Distro: d}
		version, err := r.runProbe(cfg)
		if err == nil {
			r.console().Status("Detected", cfg.String())
			r.console().Indent(version)
			return r.tools(cfg, version), nil
		}
		if errors.Is(err, interrupt.ErrInterrupted) {
			return nil, err
		}
		slog.Debug("TeX distribution not usable", logfields.Distro(string(d)), logfields.Error(err))
	}

	return nil, fmt.Errorf("%w: install TeX Live (xelatex) or tectonic, or set %s",
		texerrors.ErrBackendUnresolvable, EnvVar)
}

func (r *Resolver) explicit(cfg Config, source string) (*Tools, error) {
	version, err := r.runProbe(cfg)
	if err != nil {
		return nil, fmt.Errorf("backend `%s` configured from %s: %w", cfg, source, err)
	}
	if version != "" {
		r.console().Status("Using", cfg.String())
		r.console().Indent(version)
	}
	return r.tools(cfg, version), nil
}

func (r *Resolver) tools(cfg Config, version string) *Tools {
	t := NewTools(cfg, r.Flag, r.Console).WithRecorder(r.recorder())
	t.version = version
	return t
}
