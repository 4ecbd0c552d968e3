// Command sbu is the command line desk of the SBU sales and expenses backend.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/sbudesk/cmd"
	"github.com/etnz/sbudesk/config"
	"github.com/google/subcommands"
)

func main() {
	// Answers the shell when invoked for completion, exits.
	cmd.Completion().Complete("sbu")

	config.RegisterFlags(flag.CommandLine)
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	commander.Register(commander.CommandsCommand(), "help")
	cmd.Register(commander)

	flag.Parse()

	if name := flag.Arg(0); name != "" && !cmd.Has(name) {
		if found, code := cmd.RunExtension(name, flag.Args()[1:]); found {
			os.Exit(code)
		}
	}
	os.Exit(int(commander.Execute(context.Background())))
}
