package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/texbuilder/internal/build"
	"git.home.luguber.info/inful/texbuilder/internal/config"
	tberrors "git.home.luguber.info/inful/texbuilder/internal/errors"
	"git.home.luguber.info/inful/texbuilder/internal/logfields"
	"git.home.luguber.info/inful/texbuilder/internal/metrics"
	"git.home.luguber.info/inful/texbuilder/internal/workspace"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Tex         []string `arg:"" optional:"" type:"path" help:"Generated .tex files to compile instead of the project's outputs"`
	Output      string   `short:"o" help:"Output PDF path (only with a single .tex argument)"`
	Keep        string   `help:"Keep intermediates: none, tex or all (overrides the project file)"`
	TocSortKey  string   `name:"toc-sort-key" help:"Regex whose first capture group orders table of contents runs (.tex arguments only)"`
	Reruns      int      `help:"Extra TeX passes (.tex arguments only)" default:"1"`
	NoScripts   bool     `name:"no-scripts" help:"Skip post-processing scripts"`
	MetricsFile string   `name:"metrics-file" help:"Write Prometheus metrics in text format to this file"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := b.loadConfig(root)
	if err != nil {
		return err
	}

	var reg *prom.Registry
	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if b.MetricsFile != "" {
		reg = prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(reg)
	}

	svc := build.NewBuildService(g.Flag, g.Console).WithRecorder(recorder)
	result, err := svc.Run(context.Background(), build.BuildRequest{
		Config:  cfg,
		Options: build.BuildOptions{SkipScripts: b.NoScripts},
	})

	if reg != nil {
		if werr := metrics.WriteTextfile(reg, b.MetricsFile); werr != nil {
			slog.Warn("Could not write metrics", logfields.Path(b.MetricsFile), logfields.Error(werr))
		}
	}
	if err != nil {
		return err
	}

	slog.Info("Build finished", logfields.Status(string(result.Status)), "outputs", result.Rendered(),
		logfields.DurationMS(float64(result.Duration.Milliseconds())))
	if result.Status == build.BuildStatusSkipped {
		g.Console.Status("Finished", "TeX sources written, compilation skipped")
	} else {
		g.Console.Status("Finished", fmt.Sprintf("%d PDF(s) in %s", result.Rendered(), result.Duration.Round(10*time.Millisecond)))
	}
	return nil
}

// loadConfig reads the project file, or builds an equivalent configuration
// from the .tex arguments.
func (b *BuildCmd) loadConfig(root *CLI) (*config.Config, error) {
	var cfg *config.Config
	if len(b.Tex) > 0 {
		adhoc, err := b.adhocConfig()
		if err != nil {
			return nil, tberrors.ConfigError("invalid build arguments", err)
		}
		cfg = adhoc
	} else {
		loaded, err := config.Load(root.Config)
		if errors.Is(err, config.ErrNotFound) {
			return nil, tberrors.ConfigNotFound(root.Config)
		}
		if err != nil {
			return nil, tberrors.ConfigError("could not load project file", err).WithContext("path", root.Config)
		}
		cfg = loaded
	}

	if b.Keep != "" {
		keep, err := workspace.ParseKeepLevel(b.Keep)
		if err != nil {
			return nil, tberrors.ConfigError("invalid --keep", err)
		}
		cfg.Keep = keep
	}
	return cfg, nil
}

// adhocConfig keeps the given sources by default: they were not generated
// by this build.
func (b *BuildCmd) adhocConfig() (*config.Config, error) {
	if b.Output != "" && len(b.Tex) > 1 {
		return nil, fmt.Errorf("--output needs exactly one .tex file, got %d", len(b.Tex))
	}
	config.LoadEnv()
	cfg := &config.Config{Keep: workspace.KeepTeX}
	if err := config.ApplyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	for _, texFile := range b.Tex {
		pdf := b.Output
		if pdf == "" {
			pdf = strings.TrimSuffix(texFile, filepath.Ext(texFile)) + ".pdf"
		}
		reruns := b.Reruns
		cfg.Outputs = append(cfg.Outputs, config.Output{
			File:       pdf,
			Tex:        texFile,
			TocSortKey: b.TocSortKey,
			Reruns:     &reruns,
		})
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
