package commands

import (
	"fmt"

	"git.home.luguber.info/inful/texbuilder/internal/sortlines"
)

// SortLinesCmd implements the 'sort-lines' command.
type SortLinesCmd struct {
	Regex string `arg:"" help:"Regex with a capture group holding the sort key"`
	File  string `arg:"" type:"existingfile" help:"File to sort in place"`
}

func (s *SortLinesCmd) Run(g *Global) error {
	n, err := sortlines.SortFile(s.Regex, s.File)
	if err != nil {
		return err
	}
	if n > 0 {
		g.Console.Status("Sorted", fmt.Sprintf("%d lines in %s", n, s.File))
	}
	return nil
}
