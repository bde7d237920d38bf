package commands

import (
	"context"
	"flag"
	"io"
	"strings"

	"grocery/internal/config"
	"grocery/internal/exitcode"
	"grocery/internal/output"
	"grocery/internal/service"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `grocery` (no args) and `grocery list [--search <term>]`.
type ListCmd struct {
	search string
}

// SetSearch sets the search term (for testing).
func (c *ListCmd) SetSearch(term string) {
	c.search = term
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "Load the list and print matching items" }
func (c *ListCmd) Usage() string     { return "grocery list [--search <term>] [term...]" }
func (c *ListCmd) NeedsSource() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.search, "search", "", "")
	fs.StringVar(&c.search, "s", "", "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, src service.Source, args []string, out, errOut io.Writer) int {
	term := c.search
	if len(args) > 0 {
		if term != "" {
			term += " "
		}
		term += strings.Join(args, " ")
	}

	sess := newSession(cfg, src)
	st := startSession(ctx, cfg, sess, out)
	if st.Status == service.Failed {
		output.FormatFailure(errOut, st.Message)
		return exitcode.LoadError
	}

	output.FormatItems(out, sess.Store().VisibleItems(term))
	if !cfg.Quiet {
		output.FormatFooter(out, sess.Store().Len())
	}
	return exitcode.Success
}
