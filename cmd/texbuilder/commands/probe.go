package commands

import (
	"fmt"
	"os"

	"git.home.luguber.info/inful/texbuilder/internal/config"
	tberrors "git.home.luguber.info/inful/texbuilder/internal/errors"
	"git.home.luguber.info/inful/texbuilder/internal/tex"
)

// ProbeCmd implements the 'probe' command.
type ProbeCmd struct{}

// Run prints the resolved backend and its version on stdout. The project
// file's tex setting is honored when the file exists.
func (p *ProbeCmd) Run(g *Global, root *CLI) error {
	var fromProject *tex.Config
	if _, err := os.Stat(root.Config); err == nil {
		cfg, err := config.Load(root.Config)
		if err != nil {
			return tberrors.ConfigError("could not load project file", err).WithContext("path", root.Config)
		}
		fromProject = cfg.Tex
	}

	tools, err := tex.NewResolver(g.Flag, g.Console).Resolve(fromProject)
	if err != nil {
		return tberrors.BackendError(err)
	}

	fmt.Fprintln(g.stdout(), tools.Config().String())
	if v := tools.Version(); v != "" {
		fmt.Fprintln(g.stdout(), v)
	}
	return nil
}
