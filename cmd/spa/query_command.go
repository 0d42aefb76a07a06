package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/spa-lang/spa/pkg/engine"
)

// QueryCommand parses one SIMPLE source file and evaluates a single PQL
// query against it, printing the result list space-joined per line, one
// result per line. Per §6/§7, a malformed query prints nothing and
// exits 0 rather than failing the process — only a failure to parse or
// extract the SIMPLE program itself is a hard error.
type QueryCommand struct {
	Meta
}

func (c *QueryCommand) Help() string {
	return strings.TrimSpace(`
Usage: spa query <file> <pql-query>

  Parses and extracts the given SIMPLE source file, then evaluates the
  given PQL query string against it, printing each result on its own
  line. An empty result (or a malformed query) prints nothing.
`)
}

func (c *QueryCommand) Synopsis() string {
	return "Evaluate a PQL query against a SIMPLE source file"
}

func (c *QueryCommand) Run(args []string) int {
	flags := flag.NewFlagSet("query", flag.ContinueOnError)
	flags.Usage = func() { c.Ui.Output(c.Help()) }
	if err := flags.Parse(args); err != nil {
		return 1
	}
	if flags.NArg() != 2 {
		c.Ui.Error("query requires a SIMPLE source file and a PQL query string")
		return 1
	}

	e := engine.New(engine.NewConfig(engine.WithLogger(c.logger())))
	if err := e.Parse(flags.Arg(0)); err != nil {
		c.Ui.Error(fmt.Sprintf("parse failed: %v", err))
		return 1
	}

	var out []string
	e.Evaluate(flags.Arg(1), &out)
	for _, line := range out {
		c.Ui.Output(line)
	}
	return 0
}
