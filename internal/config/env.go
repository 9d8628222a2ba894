package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/texbuilder/internal/logfields"
	"git.home.luguber.info/inful/texbuilder/internal/workspace"
)

// EnvKeep overrides the project file's keep setting.
const EnvKeep = "TEXBUILDER_KEEP"

// envFiles are tried in order; values already in the environment win.
var envFiles = []string{".env", ".env.local"}

// loadEnvFile loads environment variables from .env/.env.local files.
// Existing process environment variables are not overwritten.
func loadEnvFile() error {
	var loaded int
	for _, envPath := range envFiles {
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err != nil {
			return fmt.Errorf("load %s: %w", envPath, err)
		}
		slog.Debug("Loaded environment variables", logfields.Path(envPath))
		loaded++
	}
	if loaded == 0 {
		return errors.New("no .env file found")
	}
	return nil
}

// LoadEnv loads .env and .env.local from the working directory, if present.
func LoadEnv() {
	if err := loadEnvFile(); err != nil {
		slog.Debug("No .env file loaded", logfields.Error(err))
	}
}

// ApplyEnvOverrides applies TEXBUILDER_* settings from the process
// environment to a configuration that was not read by Load.
func ApplyEnvOverrides(cfg *Config) error {
	return applyEnvOverrides(cfg, os.Getenv)
}

// applyEnvOverrides applies TEXBUILDER_* settings on top of the file.
// TEXBUILDER_TEX is read by the backend resolver, which ranks it first.
func applyEnvOverrides(cfg *Config, getenv func(string) string) error {
	if raw := getenv(EnvKeep); raw != "" {
		keep, err := workspace.ParseKeepLevel(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvKeep, err)
		}
		cfg.Keep = keep
	}
	return nil
}
