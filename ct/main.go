// Command ct inspects the cap table record of a company.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/etnz/captable/cmd"
	"github.com/google/subcommands"
)

func main() {
	cmd.Completion().Complete("ct")

	cfg, err := cmd.ParseConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(int(subcommands.ExitUsageError))
	}

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.SetFlags(flag.CommandLine, cfg)
	cmd.Register(commander)

	flag.Parse()
	cmd.SetupLog()
	os.Exit(int(commander.Execute(context.Background())))
}
