package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/texbuilder/internal/sortlines"
)

// Validate checks the configuration before any output is built. An invalid
// table of contents key is reported here rather than after a TeX pass.
func Validate(cfg *Config) error {
	validator := newConfigurationValidator(cfg)
	return validator.validate()
}

type configurationValidator struct {
	config *Config
}

func newConfigurationValidator(config *Config) *configurationValidator {
	return &configurationValidator{config: config}
}

func (cv *configurationValidator) validate() error {
	if len(cv.config.Outputs) == 0 {
		return errors.New("outputs: at least one output is required")
	}
	seen := make(map[string]int, len(cv.config.Outputs))
	for i, out := range cv.config.Outputs {
		if err := cv.validateOutput(out); err != nil {
			return fmt.Errorf("outputs[%d]: %w", i, err)
		}
		key := filepath.Clean(cv.config.ResolvePath(out.File))
		if prev, dup := seen[key]; dup {
			return fmt.Errorf("outputs[%d]: file %s already produced by outputs[%d]", i, out.File, prev)
		}
		seen[key] = i
	}
	return nil
}

func (cv *configurationValidator) validateOutput(out Output) error {
	if out.File == "" {
		return errors.New("file is required")
	}
	if !strings.EqualFold(filepath.Ext(out.File), ".pdf") {
		return fmt.Errorf("file %s must end in .pdf", out.File)
	}
	if out.Tex == "" {
		return errors.New("tex is required")
	}
	if out.RerunCount() < 0 {
		return fmt.Errorf("reruns must not be negative, got %d", out.RerunCount())
	}
	if out.TocSortKey != "" {
		if _, err := sortlines.Compile(out.TocSortKey); err != nil {
			return fmt.Errorf("toc_sort_key: %w", err)
		}
	}
	return nil
}
