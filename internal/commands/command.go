// Package commands holds the grocery subcommands. Each file registers one
// command with DefaultRegistry from init.
package commands

import (
	"context"
	"flag"
	"io"

	"grocery/internal/config"
	"grocery/internal/service"
)

// Command is one grocery subcommand.
type Command interface {
	// Name is what the user types; Aliases are accepted too.
	Name() string
	Aliases() []string

	// Synopsis and Usage feed the help table.
	Synopsis() string
	Usage() string

	// NeedsSource reports whether the dispatcher must build a retrieval
	// source before Run. Only commands that start a list session
	// (list, shell, serve) need one.
	NeedsSource() bool

	// RegisterFlags adds the command's own flags next to the common ones.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command and returns its exit code.
	// src is nil unless NeedsSource is true; cfg is never nil. Output goes
	// to out, diagnostics and failure lines to errOut.
	Run(ctx context.Context, cfg *config.Config, src service.Source, args []string, out, errOut io.Writer) int
}
