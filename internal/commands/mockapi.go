package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"

	"grocery/internal/config"
	"grocery/internal/exitcode"
	"grocery/internal/mockapi"
	"grocery/internal/service"
	"grocery/internal/web"
)

func init() {
	Register(&MockAPICmd{})
}

// MockAPICmd serves a static item list for local development.
type MockAPICmd struct {
	addr string
	data string
	path string
	fail bool
}

// SetData sets the data file (for testing).
func (c *MockAPICmd) SetData(path string) {
	c.data = path
}

// SetAddr sets the listen address (for testing).
func (c *MockAPICmd) SetAddr(addr string) {
	c.addr = addr
}

func (c *MockAPICmd) Name() string      { return "mock-api" }
func (c *MockAPICmd) Aliases() []string { return nil }
func (c *MockAPICmd) Synopsis() string  { return "Serve a sample item list endpoint" }
func (c *MockAPICmd) Usage() string {
	return "grocery mock-api [--addr <a>] [--data <file>] [--fail]"
}
func (c *MockAPICmd) NeedsSource() bool { return false }

func (c *MockAPICmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.addr, "addr", "localhost:3500", "")
	fs.StringVar(&c.data, "data", "", "")
	fs.StringVar(&c.path, "path", "/items", "")
	fs.BoolVar(&c.fail, "fail", false, "")
}

func (c *MockAPICmd) Run(ctx context.Context, cfg *config.Config, src service.Source, args []string, out, errOut io.Writer) int {
	items := mockapi.SampleItems
	if c.data != "" {
		var err error
		items, err = mockapi.LoadFile(c.data)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := mockapi.NewRouter(items, mockapi.Options{
		Path:   c.path,
		Fail:   c.fail,
		Logger: cfg.Logger(),
	})
	if !cfg.Quiet {
		fmt.Fprintf(out, "serving %d items on http://%s%s\n", len(items), c.addr, c.path)
	}

	if err := web.ListenAndServe(ctx, c.addr, router); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.LoadError
	}
	return exitcode.Success
}
