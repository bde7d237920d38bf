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
	Register(&ConfigCmd{})
}

// ConfigCmd prints the effective settings, or writes them with --init.
type ConfigCmd struct {
	write bool
}

// SetInit sets the init flag (for testing).
func (c *ConfigCmd) SetInit(v bool) {
	c.write = v
}

func (c *ConfigCmd) Name() string      { return "config" }
func (c *ConfigCmd) Aliases() []string { return nil }
func (c *ConfigCmd) Synopsis() string  { return "Print or initialise settings" }
func (c *ConfigCmd) Usage() string     { return "grocery config [--init]" }
func (c *ConfigCmd) NeedsSource() bool { return false }

func (c *ConfigCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.write, "init", false, "")
}

func (c *ConfigCmd) Run(ctx context.Context, cfg *config.Config, src service.Source, args []string, out, errOut io.Writer) int {
	if c.write {
		if err := cfg.WriteSettings(); err != nil {
			fmt.Fprintf(errOut, "error: failed to write settings: %v\n", err)
			return exitcode.ConfigError
		}
		if !cfg.Quiet {
			fmt.Fprintf(out, "wrote %s\n", cfg.SettingsPath())
		}
		return exitcode.Success
	}

	data, err := config.EncodeSettings(cfg.Settings)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.ConfigError
	}
	fmt.Fprintf(out, "# %s\n", cfg.SettingsPath())
	_, _ = out.Write(data)
	return exitcode.Success
}
