package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/techdocs-core/cmd/techdocs-core/commands"
	ferrors "git.home.luguber.info/inful/techdocs-core/internal/foundation/errors"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("techdocs-core"),
		kong.Description("Compose mkdocs configuration with the techdocs defaults"),
		kong.UsageOnError(),
	)

	global := &commands.Global{Logger: slog.Default(), Stdout: os.Stdout}
	if err := parser.Run(global, cli); err != nil {
		os.Exit(ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err))
	}
}
