// Package config loads the texbuilder project file (texbuilder.yaml).
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/texbuilder/internal/logfields"
	"git.home.luguber.info/inful/texbuilder/internal/tex"
	"git.home.luguber.info/inful/texbuilder/internal/workspace"
)

// DefaultPath is the project file looked up when --config is not given.
const DefaultPath = "texbuilder.yaml"

// ErrNotFound is returned by Load when the project file does not exist.
var ErrNotFound = errors.New("configuration file not found")

// Config represents the project file.
type Config struct {
	// Tex selects the backend; nil leaves it to the environment or detection.
	Tex     *tex.Config         `yaml:"tex,omitempty"`
	Keep    workspace.KeepLevel `yaml:"keep,omitempty"`
	Outputs []Output            `yaml:"outputs"`

	// BaseDir is the directory relative output paths are resolved against.
	BaseDir string `yaml:"-"`
}

// Output is one PDF to produce from one generated .tex file.
type Output struct {
	File       string `yaml:"file"`
	Tex        string `yaml:"tex"`
	TocSortKey string `yaml:"toc_sort_key,omitempty"`
	// Reruns is the number of extra passes; nil means DefaultReruns.
	Reruns *int `yaml:"reruns,omitempty"`
	// Script is run after the PDF is in place, from the PDF's directory.
	Script string `yaml:"script,omitempty"`
}

// RerunCount returns the effective number of extra passes.
func (o Output) RerunCount() int {
	if o.Reruns == nil {
		return DefaultReruns
	}
	return *o.Reruns
}

// Load loads and validates a project file.
func Load(configPath string) (*Config, error) {
	LoadEnv()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var config Config
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expandedData)))
	dec.KnownFields(true)
	if err := dec.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	abs, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}
	config.BaseDir = filepath.Dir(abs)

	if err := applyEnvOverrides(&config, os.Getenv); err != nil {
		return nil, fmt.Errorf("environment override: %w", err)
	}
	ApplyDefaults(&config)

	if err := Validate(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	slog.Debug("Loaded configuration", logfields.Path(configPath), "outputs", len(config.Outputs))
	return &config, nil
}

// ResolvePath makes p absolute relative to BaseDir.
func (c *Config) ResolvePath(p string) string {
	if filepath.IsAbs(p) || c.BaseDir == "" {
		return p
	}
	return filepath.Join(c.BaseDir, p)
}

// Init writes an example project file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	reruns := DefaultReruns
	exampleConfig := Config{
		Tex:  &tex.Config{Distro: tex.DistroTeXLive},
		Keep: workspace.KeepNone,
		Outputs: []Output{
			{
				File:       "out/songbook.pdf",
				Tex:        "out/songbook.tex",
				TocSortKey: `\\contentsline \{section\}\{([^}]*)\}`,
				Reruns:     &reruns,
			},
		},
	}

	data, err := yaml.Marshal(&exampleConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
