package main

import (
	"fmt"
	"os"

	"github.com/Net-Advantage/ai-showcase/rental/cmd/rentalctl/cli"
)

var (
	version = "0.1.0-dev"
	commit  = "main"
)

func main() {
	root := cli.NewRootCommand(cli.VersionInfo{
		Version: version,
		Commit:  commit,
	})

	root.AddCommand(cli.NewMigrateCommand())
	root.AddCommand(cli.NewPortfolioCommand())
	root.AddCommand(cli.NewRecalculateCommand())
	root.AddCommand(cli.NewExportCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
