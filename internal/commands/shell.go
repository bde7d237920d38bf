package commands

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"grocery/internal/config"
	"grocery/internal/exitcode"
	"grocery/internal/output"
	"grocery/internal/service"
	"grocery/internal/session"
)

func init() {
	Register(&ShellCmd{})
}

// ShellCmd implements an interactive list session on standard input.
type ShellCmd struct {
	in io.Reader
}

// SetInput sets the input stream (for testing).
func (c *ShellCmd) SetInput(r io.Reader) {
	c.in = r
}

func (c *ShellCmd) Name() string      { return "shell" }
func (c *ShellCmd) Aliases() []string { return nil }
func (c *ShellCmd) Synopsis() string  { return "Edit the list interactively" }
func (c *ShellCmd) Usage() string     { return "grocery shell" }
func (c *ShellCmd) NeedsSource() bool { return true }

func (c *ShellCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ShellCmd) Run(ctx context.Context, cfg *config.Config, src service.Source, args []string, out, errOut io.Writer) int {
	in := c.in
	if in == nil {
		in = os.Stdin
	}

	sh := &shell{
		cfg:    cfg,
		sess:   newSession(cfg, src),
		out:    out,
		errOut: errOut,
	}

	st := startSession(ctx, cfg, sh.sess, out)
	if st.Status == service.Failed {
		output.FormatFailure(errOut, st.Message)
		return exitcode.LoadError
	}
	sh.render()

	stop := make(chan struct{})
	defer close(stop)
	lines, scanErr := readLines(in, stop)

	for {
		sh.prompt()
		select {
		case <-ctx.Done():
			sh.sess.Logger().Debug("shell interrupted", zap.Error(ctx.Err()))
			return exitcode.Success
		case line, ok := <-lines:
			if !ok {
				if err := <-scanErr; err != nil {
					fmt.Fprintf(errOut, "error: reading input: %v\n", err)
					return exitcode.UserError
				}
				return exitcode.Success
			}
			if done := sh.exec(ctx, line); done {
				return exitcode.Success
			}
		}
	}
}

// readLines scans in on its own goroutine. The scan error is sent on the
// second channel before lines is closed. Closing stop releases the goroutine once it has a line to hand
// over; a read still blocked on in ends with the process.
func readLines(in io.Reader, stop <-chan struct{}) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-stop:
				return
			}
		}
		errc <- scanner.Err()
	}()
	return lines, errc
}

// shell holds the state of one interactive session.
type shell struct {
	cfg    *config.Config
	sess   *session.Session
	search string
	out    io.Writer
	errOut io.Writer
}

func (sh *shell) prompt() {
	if !sh.cfg.Quiet {
		fmt.Fprint(sh.out, "> ")
	}
}

// render re-reads the store after every change.
func (sh *shell) render() {
	store := sh.sess.Store()
	output.FormatState(sh.out, store.State(), store.VisibleItems(sh.search))
}

// exec runs one input line. It returns true when the session should end.
func (sh *shell) exec(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	verb, rest := strings.ToLower(fields[0]), fields[1:]
	store := sh.sess.Store()

	sh.sess.Logger().Debug("shell command", zap.String("verb", verb), zap.Int("args", len(rest)))

	switch verb {
	case "quit", "exit":
		return true
	case "help", "?":
		fmt.Fprint(sh.out, shellHelpText)
	case "list", "ls":
		sh.render()
	case "add":
		label := strings.Join(rest, " ")
		if label == "" {
			fmt.Fprintln(sh.errOut, "error: item label required")
			return false
		}
		store.Add(label)
		sh.render()
	case "check", "toggle":
		if id, ok := sh.parseID(rest); ok {
			store.Toggle(id)
			sh.render()
		}
	case "rm", "delete":
		if id, ok := sh.parseID(rest); ok {
			store.Remove(id)
			sh.render()
		}
	case "search":
		sh.search = strings.Join(rest, " ")
		sh.render()
	case "reload":
		if sh.sess.Loaded() && !sh.cfg.Quiet {
			fmt.Fprintln(sh.out, "list already loaded for this session")
		}
		sh.sess.Start(ctx)
		sh.render()
	default:
		fmt.Fprintf(sh.errOut, "error: unknown command: %s\n", verb)
	}
	return false
}

func (sh *shell) parseID(args []string) (int, bool) {
	if len(args) == 0 {
		fmt.Fprintln(sh.errOut, "error: item id required")
		return 0, false
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(sh.errOut, "error: invalid item id: %s\n", args[0])
		return 0, false
	}
	return id, true
}

const shellHelpText = `Commands:
  add <label...>   Add an item
  check <id>       Check or uncheck an item
  rm <id>          Delete an item
  search [term]    Filter items (empty term clears)
  list             Show the list
  reload           Re-run the initial load (no-op once loaded)
  quit             Leave the session
`
