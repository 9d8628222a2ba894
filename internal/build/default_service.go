package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/texbuilder/internal/config"
	"git.home.luguber.info/inful/texbuilder/internal/console"
	tberrors "git.home.luguber.info/inful/texbuilder/internal/errors"
	"git.home.luguber.info/inful/texbuilder/internal/interrupt"
	"git.home.luguber.info/inful/texbuilder/internal/logfields"
	"git.home.luguber.info/inful/texbuilder/internal/metrics"
	"git.home.luguber.info/inful/texbuilder/internal/process"
	"git.home.luguber.info/inful/texbuilder/internal/tex"
)

// ToolsResolver picks the TeX backend. *tex.Resolver implements it.
type ToolsResolver interface {
	Resolve(fromProject *tex.Config) (*tex.Tools, error)
}

// DefaultBuildService is the standard implementation of BuildService.
// It orchestrates the pipeline: resolve backend → render each output → run scripts.
type DefaultBuildService struct {
	flag     *interrupt.Flag
	console  *console.Console
	resolver ToolsResolver
	slot     *tex.Slot
	recorder metrics.Recorder
}

// NewBuildService creates a new DefaultBuildService resolving the backend
// from the environment, the project file or detection.
func NewBuildService(flag *interrupt.Flag, con *console.Console) *DefaultBuildService {
	if con == nil {
		con = console.Discard()
	}
	return &DefaultBuildService{
		flag:     flag,
		console:  con,
		resolver: tex.NewResolver(flag, con),
		slot:     &tex.Slot{},
		recorder: metrics.NoopRecorder{},
	}
}

// WithResolver allows injecting a custom backend resolver (for testing).
func (s *DefaultBuildService) WithResolver(r ToolsResolver) *DefaultBuildService {
	s.resolver = r
	return s
}

// WithRecorder sets the metrics recorder.
func (s *DefaultBuildService) WithRecorder(r metrics.Recorder) *DefaultBuildService {
	if r == nil {
		r = metrics.NoopRecorder{}
	}
	s.recorder = r
	if tr, ok := s.resolver.(*tex.Resolver); ok {
		tr.Recorder = r
	}
	return s
}

// Run executes the complete build pipeline.
func (s *DefaultBuildService) Run(ctx context.Context, req BuildRequest) (*BuildResult, error) {
	startTime := time.Now()
	result := &BuildResult{StartTime: startTime}
	finish := func(status BuildStatus) {
		result.Status = status
		result.EndTime = time.Now()
		result.Duration = result.EndTime.Sub(startTime)
	}

	if req.Config == nil {
		finish(BuildStatusFailed)
		return result, tberrors.ConfigError("config required", nil)
	}

	// Resolve ahead of rendering so backend problems are reported before
	// any output is touched.
	tools, err := s.slot.GetOrInit(func() (*tex.Tools, error) {
		t, err := s.resolver.Resolve(req.Config.Tex)
		if err != nil {
			return nil, err
		}
		return t.WithRecorder(s.recorder), nil
	})
	if err != nil {
		if interrupt.IsInterrupted(err) {
			finish(BuildStatusCancelled)
			return result, err
		}
		finish(BuildStatusFailed)
		return result, tberrors.BackendError(err)
	}
	result.Backend = tools.Config().String()
	slog.Info("Using TeX backend", logfields.Distro(string(tools.Config().Distro)),
		logfields.Program(tools.Config().ProgramOrDefault()))

	for _, out := range req.Config.Outputs {
		if err := checkCancelled(ctx, s.flag); err != nil {
			finish(BuildStatusCancelled)
			return result, err
		}

		outRes := s.renderOutput(req, tools, out)
		result.Outputs = append(result.Outputs, outRes)
		if outRes.Err != nil {
			if interrupt.IsInterrupted(outRes.Err) {
				finish(BuildStatusCancelled)
			} else {
				finish(BuildStatusFailed)
			}
			return result, outRes.Err
		}
	}

	if tools.Config().Distro == tex.DistroNone {
		finish(BuildStatusSkipped)
	} else {
		finish(BuildStatusSuccess)
	}
	return result, nil
}

func checkCancelled(ctx context.Context, flag *interrupt.Flag) error {
	if err := flag.Check(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", interrupt.ErrInterrupted, err)
	}
	return nil
}

func (s *DefaultBuildService) renderOutput(req BuildRequest, tools *tex.Tools, out config.Output) OutputResult {
	start := time.Now()
	res := OutputResult{File: out.File}
	fail := func(err error) OutputResult {
		res.Status = BuildStatusFailed
		if interrupt.IsInterrupted(err) {
			res.Status = BuildStatusCancelled
		}
		res.Err = err
		res.Duration = time.Since(start)
		slog.Error("Output failed", logfields.Output(out.File), logfields.Error(err))
		return res
	}

	cfg := req.Config
	texPath := cfg.ResolvePath(out.Tex)
	pdfPath := cfg.ResolvePath(out.File)

	s.console.Status("Rendering", out.File)

	if _, err := os.Stat(texPath); err != nil {
		return fail(tberrors.BuildFailed(out.File, fmt.Errorf("source file not found: %w", err)))
	}
	if err := os.MkdirAll(filepath.Dir(pdfPath), 0o755); err != nil {
		return fail(tberrors.BuildFailed(out.File, tberrors.WorkspaceError("create output directory", err)))
	}

	job, err := tex.NewRenderJob(texPath, pdfPath, cfg.Keep, out.TocSortKey, out.RerunCount())
	if err != nil {
		return fail(tberrors.BuildFailed(out.File, tberrors.WorkspaceError("prepare render job", err)))
	}
	if err := tools.RenderPDF(job); err != nil {
		return fail(tberrors.BuildFailed(out.File, err))
	}

	if tools.Config().Distro == tex.DistroNone {
		res.Status = BuildStatusSkipped
		res.Duration = time.Since(start)
		return res
	}

	if out.Script != "" && !req.Options.SkipScripts {
		if err := s.runScript(cfg, out, pdfPath); err != nil {
			return fail(tberrors.ScriptFailed(out.File, err))
		}
	}

	res.Status = BuildStatusSuccess
	res.Duration = time.Since(start)
	return res
}

// runScript runs the output's post-processing script from the PDF's
// directory. The script learns about the build from its environment.
func (s *DefaultBuildService) runScript(cfg *config.Config, out config.Output, pdfPath string) error {
	script := cfg.ResolvePath(out.Script)
	if _, err := os.Stat(script); err != nil {
		return fmt.Errorf("%w: %s", ErrScriptNotFound, script)
	}

	exe, err := os.Executable()
	if err != nil {
		exe = "texbuilder"
	}
	outDir := filepath.Dir(pdfPath)
	sup := &process.Supervisor{
		Flag:    s.flag,
		Console: s.console,
		Env: []string{
			"TEXBUILDER=" + exe,
			"OUTPUT=" + pdfPath,
			"OUTPUT_STEM=" + strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath)),
			"OUTPUT_DIR=" + outDir,
			"PROJECT_DIR=" + cfg.BaseDir,
		},
	}

	s.console.Status("Running", "script "+out.Script)
	if err := sup.Run(script, nil, outDir, "script"); err != nil {
		if errors.Is(err, interrupt.ErrInterrupted) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrScriptFailed, err)
	}
	return nil
}
