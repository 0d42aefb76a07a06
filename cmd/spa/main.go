// Command spa is the CLI front end over pkg/engine: a small
// hashicorp/cli multi-command binary with "parse" and "query"
// subcommands, one per half of the driver contract.
package main

import (
	"os"

	"github.com/hashicorp/cli"
	"github.com/hashicorp/go-hclog"

	"github.com/spa-lang/spa/pkg/engine"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "spa",
		Level:  hclog.Warn,
		Output: os.Stderr,
	})

	ui := &cli.BasicUi{
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
		Reader:      os.Stdin,
	}

	c := cli.NewCLI("spa", engine.Version)
	c.Args = args
	c.Commands = map[string]cli.CommandFactory{
		"parse": func() (cli.Command, error) {
			return &ParseCommand{Meta{Ui: ui, Logger: logger.Named("parse")}}, nil
		},
		"query": func() (cli.Command, error) {
			return &QueryCommand{Meta{Ui: ui, Logger: logger.Named("query")}}, nil
		},
	}

	status, err := c.Run()
	if err != nil {
		ui.Error(err.Error())
		return 1
	}
	return status
}
