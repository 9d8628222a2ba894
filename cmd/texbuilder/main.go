package main

import (
	"os"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/texbuilder/cmd/texbuilder/commands"
	"git.home.luguber.info/inful/texbuilder/internal/interrupt"
	"git.home.luguber.info/inful/texbuilder/internal/version"
)

func main() {
	flag := interrupt.New()
	stop := flag.Notify(os.Interrupt, syscall.SIGTERM)

	global := &commands.Global{Flag: flag, Stdout: os.Stdout}
	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("texbuilder"),
		kong.Description("Compile generated TeX sources into stable PDFs."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Bind(global, cli),
	)

	err := ctx.Run()
	stop()
	global.Errors().HandleError(err)
}
