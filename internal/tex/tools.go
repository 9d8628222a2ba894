package tex

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"git.home.luguber.info/inful/texbuilder/internal/console"
	"git.home.luguber.info/inful/texbuilder/internal/interrupt"
	"git.home.luguber.info/inful/texbuilder/internal/logfields"
	"git.home.luguber.info/inful/texbuilder/internal/metrics"
	"git.home.luguber.info/inful/texbuilder/internal/process"
	"git.home.luguber.info/inful/texbuilder/internal/sortlines"
	texerrors "git.home.luguber.info/inful/texbuilder/internal/tex/errors"
)

// Runner executes one engine pass. *process.Supervisor implements it.
type Runner interface {
	Run(program string, args []string, dir, status string) error
}

// SortFunc reorders the lines of a file by the key captured by pattern.
type SortFunc func(pattern, path string) (int, error)

// Tools renders PDFs with one resolved backend. Configure it with the With*
// methods before first use; after that it is read-only and safe to share.
type Tools struct {
	cfg      Config
	version  string
	flag     *interrupt.Flag
	console  *console.Console
	runner   Runner
	recorder metrics.Recorder
	sorter   SortFunc
}

// NewTools returns Tools running passes through a process.Supervisor.
func NewTools(cfg Config, flag *interrupt.Flag, con *console.Console) *Tools {
	if con == nil {
		con = console.Discard()
	}
	return &Tools{
		cfg:      cfg,
		flag:     flag,
		console:  con,
		runner:   &process.Supervisor{Flag: flag, Console: con},
		recorder: metrics.NoopRecorder{},
		sorter:   sortlines.SortFile,
	}
}

// WithRunner replaces how passes are executed.
func (t *Tools) WithRunner(r Runner) *Tools {
	t.runner = r
	return t
}

// WithRecorder sets the metrics recorder.
func (t *Tools) WithRecorder(r metrics.Recorder) *Tools {
	if r == nil {
		r = metrics.NoopRecorder{}
	}
	t.recorder = r
	return t
}

// WithSorter replaces the table of contents reorder step.
func (t *Tools) WithSorter(s SortFunc) *Tools {
	t.sorter = s
	return t
}

// Config returns the backend.
func (t *Tools) Config() Config { return t.cfg }

// Version returns the first version line reported by the backend, if probed.
func (t *Tools) Version() string { return t.version }

// RenderPDF compiles job and moves the PDF to job.PDFFile. The job is
// released whatever the outcome.
func (t *Tools) RenderPDF(job *RenderJob) (err error) {
	defer job.Close()

	if t.cfg.Distro == DistroNone {
		job.TexFile.SetRemove(false)
		t.recorder.IncJobOutcome(metrics.ResultSkipped)
		slog.Info("Skipping compilation", logfields.TexFile(job.TexFile.Path()), logfields.Distro(string(DistroNone)))
		return nil
	}

	defer func() {
		switch {
		case err == nil:
			t.recorder.IncJobOutcome(metrics.ResultSuccess)
		case errors.Is(err, interrupt.ErrInterrupted):
			t.recorder.IncJobOutcome(metrics.ResultInterrupted)
		default:
			t.recorder.IncJobOutcome(metrics.ResultFailed)
		}
	}()

	t.console.Status("Running", "TeX...")

	if err := t.pass(job, 1); err != nil {
		return err
	}
	for i := 0; i < job.Reruns; i++ {
		if err := t.flag.Check(); err != nil {
			return err
		}
		if err := t.sortTOC(job); err != nil {
			return err
		}
		if err := t.pass(job, i+2); err != nil {
			return err
		}
	}

	if err := job.movePDF(); err != nil {
		return err
	}
	slog.Info("Rendered PDF", logfields.Output(job.PDFFile), logfields.Pass(job.Reruns+1))
	return nil
}

func (t *Tools) pass(job *RenderJob, n int) error {
	program := t.cfg.ProgramOrDefault()
	args := t.cfg.renderArgs(job.TmpDir.Path(), job.TexFile.Path())
	distro := string(t.cfg.Distro)

	slog.Debug("Starting TeX pass", logfields.Pass(n), logfields.Program(program), logfields.TexFile(job.TexFile.Path()))
	start := time.Now()
	err := t.runner.Run(program, args, job.cwd(), t.cfg.Distro.statusLabel())
	t.recorder.ObservePassDuration(distro, time.Since(start))

	switch {
	case err == nil:
		t.recorder.IncPassResult(distro, metrics.ResultSuccess)
		return nil
	case errors.Is(err, interrupt.ErrInterrupted):
		t.recorder.IncPassResult(distro, metrics.ResultInterrupted)
		return err
	default:
		t.recorder.IncPassResult(distro, metrics.ResultFailed)
		return fmt.Errorf("%w: %w", texerrors.ErrCompileFailed, err)
	}
}

// sortTOC reorders the table of contents written by the previous pass, if
// a key is set and the engine wrote one.
func (t *Tools) sortTOC(job *RenderJob) error {
	if job.TocSortKey == "" {
		return nil
	}
	toc := job.tocFile()
	if !tocExists(toc) {
		slog.Debug("No table of contents to sort", logfields.Path(toc))
		return nil
	}
	n, err := t.sorter(job.TocSortKey, toc)
	if err != nil {
		return fmt.Errorf("could not sort table of contents: %w", err)
	}
	t.recorder.ObserveSortedLines(n)
	return nil
}

// Slot holds Tools that are resolved at most once, on first use.
type Slot struct {
	mu    sync.Mutex
	tools *Tools
}

// Set stores t. Setting twice is a programming error and panics.
func (s *Slot) Set(t *Tools) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tools != nil {
		panic("tex: tools already initialized")
	}
	s.tools = t
}

// Get returns the stored Tools and panics if Set was never called.
func (s *Slot) Get() *Tools {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tools == nil {
		panic("tex: tools not initialized")
	}
	return s.tools
}

// IsSet reports whether Tools are stored.
func (s *Slot) IsSet() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tools != nil
}

// GetOrInit returns the stored Tools, calling init to create them the first
// time. A failed init leaves the slot empty.
func (s *Slot) GetOrInit(init func() (*Tools, error)) (*Tools, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tools != nil {
		return s.tools, nil
	}
	t, err := init()
	if err != nil {
		return nil, err
	}
	s.tools = t
	return t, nil
}
