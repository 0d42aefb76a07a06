package main

import (
	"github.com/hashicorp/cli"
	"github.com/hashicorp/go-hclog"
)

// Meta holds the fields shared by every subcommand, the same way the
// wider pack's nomad-derived command set threads a Ui through its
// command structs.
type Meta struct {
	Ui     cli.Ui
	Logger hclog.Logger
}

func (m *Meta) logger() hclog.Logger {
	if m.Logger == nil {
		return hclog.NewNullLogger()
	}
	return m.Logger
}
