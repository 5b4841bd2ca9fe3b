package commands

import (
	"fmt"

	"git.home.luguber.info/inful/techdocs-core/internal/version"
)

// VersionCmd implements the 'version' command.
type VersionCmd struct{}

func (VersionCmd) Run(g *Global, _ *CLI) error {
	_, err := fmt.Fprintf(g.stdout(), "techdocs-core %s (commit %s, built %s)\n", version.Version, version.GitCommit, version.BuildTime)
	return err
}
