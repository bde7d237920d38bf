package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"grocery/internal/config"
	"grocery/internal/exitcode"
	"grocery/internal/service"
	"grocery/internal/web"
)

func init() {
	Register(&ServeCmd{})
}

// ServeCmd implements the serve command.
type ServeCmd struct {
	addr string
}

func (c *ServeCmd) Name() string      { return "serve" }
func (c *ServeCmd) Aliases() []string { return nil }
func (c *ServeCmd) Synopsis() string  { return "Serve the list as a JSON API" }
func (c *ServeCmd) Usage() string     { return "grocery serve [--addr <host:port>]" }
func (c *ServeCmd) NeedsSource() bool { return true }

func (c *ServeCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.addr, "addr", "", "")
}

func (c *ServeCmd) Run(ctx context.Context, cfg *config.Config, src service.Source, args []string, out, errOut io.Writer) int {
	addr := c.addr
	if addr == "" {
		addr = cfg.Settings.Addr
	}
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	sess := newSession(cfg, src)
	// Requests see "loading" until the initial load settles.
	go sess.Start(ctx)

	srv := web.NewServer(sess, cfg.Logger())
	if !cfg.Quiet {
		fmt.Fprintf(out, "serving on http://%s\n", addr)
	}
	cfg.Logger().Debug("api server starting", zap.String("addr", addr), zap.String("session", sess.ID))

	if err := srv.Run(ctx, addr); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.LoadError
	}
	return exitcode.Success
}
