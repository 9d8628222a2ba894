package commands

import (
	"os"

	"git.home.luguber.info/inful/texbuilder/internal/process"
	"git.home.luguber.info/inful/texbuilder/internal/tex"
)

// TectonicCmd is the embedded engine entry point. The build re-executes
// this binary as "<exe> tectonic -o <dir> -- <tex>" for every pass when the
// backend is tectonicembedded.
type TectonicCmd struct {
	Args []string `arg:"" optional:"" help:"Arguments for the TeX engine"`
}

func (c *TectonicCmd) Run(g *Global) error {
	dir, err := os.Getwd()
	if err != nil {
		return err
	}
	sup := &process.Supervisor{Flag: g.Flag, Console: g.Console, KillOnInterrupt: true}
	return sup.Run(tex.EngineProgram, tex.EngineArgs(c.Args), dir, "Tectonic")
}
