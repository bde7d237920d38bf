package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"grocery/internal/config"
	"grocery/internal/exitcode"
	"grocery/internal/service"
)

// Version is overridden at link time with -ldflags "-X grocery/internal/commands.Version=...".
var Version = "0.1.0"

func init() {
	Register(&VersionCmd{})
}

// VersionCmd prints the binary's version. With --debug it also names the
// configured source and endpoint.
type VersionCmd struct{}

func (c *VersionCmd) Name() string      { return "version" }
func (c *VersionCmd) Aliases() []string { return nil }
func (c *VersionCmd) Synopsis() string  { return "Print version" }
func (c *VersionCmd) Usage() string     { return "grocery version" }
func (c *VersionCmd) NeedsSource() bool { return false }

func (c *VersionCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *VersionCmd) Run(ctx context.Context, cfg *config.Config, src service.Source, args []string, out, errOut io.Writer) int {
	fmt.Fprintf(out, "%s %s\n", config.AppName, Version)
	if cfg.Debug {
		fmt.Fprintf(out, "source: %s (%s)\n", cfg.Settings.Source, cfg.Settings.Endpoint)
	}
	return exitcode.Success
}
