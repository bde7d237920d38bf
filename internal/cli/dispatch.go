package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"grocery/internal/commands"
	"grocery/internal/config"
	"grocery/internal/exitcode"
	"grocery/internal/logging"
	"grocery/internal/service"
)

// SourceFactory creates the retrieval source from config.
// Used to inject the backend during dispatch.
type SourceFactory func(ctx context.Context, cfg *config.Config) (service.Source, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  SourceFactory
}

// NewDispatcher creates a new dispatcher with the given registry and source factory.
func NewDispatcher(registry *commands.Registry, factory SourceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// commonFlags are accepted by every command.
type commonFlags struct {
	configDir string
	endpoint  string
	quiet     bool
	debug     bool
}

func (f *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.configDir, "config", "", "")
	fs.StringVar(&f.endpoint, "endpoint", "", "")
	fs.BoolVar(&f.quiet, "quiet", false, "")
	fs.BoolVar(&f.debug, "debug", false, "")
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// Bare invocation lists the items.
	if len(args) == 0 {
		args = []string{"list"}
	}

	name := args[0]
	if strings.HasPrefix(name, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", name)
		return exitcode.UserError
	}

	cmd, ok := d.registry.Find(name)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", name)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args[1:], out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var common commonFlags
	common.register(fs)
	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagErrorText(err))
		return exitcode.UserError
	}

	positional := fs.Args()
	if len(positional) > 0 && strings.HasPrefix(positional[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positional[0])
		return exitcode.UserError
	}

	cfg, err := config.Load(common.configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.ConfigError
	}
	cfg.Quiet = common.quiet
	cfg.Debug = common.debug
	cfg.Log = logging.New(errOut, common.debug)
	defer func() { _ = cfg.Log.Sync() }()

	if common.endpoint != "" {
		cfg.Settings.Endpoint = common.endpoint
		if err := cfg.Settings.Validate(); err != nil {
			fmt.Fprintf(errOut, "error: %s\n", err)
			return exitcode.ConfigError
		}
	}

	cfg.Log.Debug("dispatch",
		zap.String("command", cmd.Name()),
		zap.String("source", cfg.Settings.Source),
		zap.Strings("args", positional),
	)

	var src service.Source
	if cmd.NeedsSource() {
		if d.factory == nil {
			fmt.Fprintln(errOut, "error: no retrieval source configured")
			return exitcode.ConfigError
		}
		src, err = d.factory(ctx, cfg)
		if err != nil {
			msg := err.Error()
			if strings.Contains(msg, "token") || strings.Contains(msg, "auth") {
				fmt.Fprintf(errOut, "error: auth error: %s\n", msg)
				return exitcode.ConfigError
			}
			fmt.Fprintf(errOut, "error: source error: %s\n", msg)
			return exitcode.LoadError
		}
	}

	return cmd.Run(ctx, cfg, src, positional, out, errOut)
}

// flagErrorText rewrites the flag package's parse errors into the
// "unknown flag" / "flag needs an argument" wording used by the CLI.
func flagErrorText(err error) string {
	if errors.Is(err, flag.ErrHelp) {
		return "unknown flag: -h"
	}
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, "flag provided but not defined: "); ok {
		return "unknown flag: " + rest
	}
	if rest, ok := strings.CutPrefix(msg, "flag needs an argument: "); ok {
		return "flag needs an argument: " + rest
	}
	return msg
}
