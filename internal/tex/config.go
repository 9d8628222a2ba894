package tex

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is a resolved backend: a distro and, optionally, the program
// implementing it. Program empty means the distro's default.
type Config struct {
	Distro  Distro
	Program string
}

// ParseConfig parses "<kind>[:<program>]". Everything after the first
// colon is the program, so Windows-style paths survive.
func ParseConfig(raw string) (Config, error) {
	kind, program, _ := strings.Cut(raw, ":")
	d, err := ParseDistro(kind)
	if err != nil {
		return Config{}, err
	}
	return Config{Distro: d, Program: program}, nil
}

func (c Config) String() string {
	if c.Program == "" {
		return string(c.Distro)
	}
	return string(c.Distro) + ":" + c.Program
}

// ProgramOrDefault returns the program to execute.
func (c Config) ProgramOrDefault() string {
	if c.Program != "" {
		return c.Program
	}
	return c.Distro.DefaultProgram()
}

// UnmarshalYAML accepts the same string form as ParseConfig.
func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("tex: expected a string like \"texlive\" or \"tectonic:/path/to/tectonic\": %w", err)
	}
	parsed, err := ParseConfig(raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalYAML writes the ParseConfig form.
func (c Config) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

// renderArgs builds the engine command line for one pass.
func (c Config) renderArgs(tmpDir, texFile string) []string {
	switch c.Distro {
	case DistroTeXLive:
		return []string{"-interaction=nonstopmode", "-output-directory", tmpDir, "--", texFile}
	case DistroTectonic:
		return []string{"-k", "-r", "0", "-o", tmpDir, "-Z", "search-path=" + tmpDir, "--", texFile}
	case DistroTectonicEmbedded:
		return []string{"tectonic", "-o", tmpDir, "--", texFile}
	default:
		return nil
	}
}
