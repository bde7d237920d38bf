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

func init() {
	Register(&HelpCmd{registry: DefaultRegistry})
}

// HelpCmd implements the help command.
type HelpCmd struct {
	registry *Registry
}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "grocery help" }
func (c *HelpCmd) NeedsSource() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, src service.Source, args []string, out, errOut io.Writer) int {
	fmt.Fprintln(out, "Usage:")
	fmt.Fprintf(out, "  %-44s %s\n", "grocery", "List items (same as grocery list)")
	if c.registry != nil {
		for _, cmd := range c.registry.All() {
			fmt.Fprintf(out, "  %-44s %s\n", cmd.Usage(), cmd.Synopsis())
		}
	}
	fmt.Fprint(out, commonFlagsText)
	return exitcode.Success
}

const commonFlagsText = `
Common flags:
  --config <dir>     Override config directory
  --endpoint <url>   Override the list endpoint
  --quiet            Suppress informational output
  --debug            Print debug logs to stderr
`
