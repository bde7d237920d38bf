package cli_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocery/internal/cli"
	"grocery/internal/commands"
	"grocery/internal/config"
	"grocery/internal/exitcode"
	"grocery/internal/service"
	"grocery/internal/testutil"
)

func init() {
	color.NoColor = true
}

// testFactory creates a source factory that returns src and records the
// config it was called with.
func testFactory(src service.Source, seen **config.Config) cli.SourceFactory {
	return func(ctx context.Context, cfg *config.Config) (service.Source, error) {
		if seen != nil {
			*seen = cfg
		}
		return src, nil
	}
}

func run(t *testing.T, factory cli.SourceFactory, args ...string) (string, string, int) {
	t.Helper()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	var stdout, stderr bytes.Buffer
	args = append(args, "--config", t.TempDir())
	code := dispatcher.Run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	_, stderr, code := run(t, nil, "unknowncmd")

	assert.Equal(t, exitcode.UserError, code)
	assert.Equal(t, "error: unknown command: unknowncmd\n", stderr)
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, nil)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"--quiet"}, &stdout, &stderr)

	assert.Equal(t, exitcode.UserError, code)
	assert.Equal(t, "error: unknown command: --quiet\n", stderr.String())
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	_, stderr, code := run(t, nil, "version", "--bogus")

	assert.Equal(t, exitcode.UserError, code)
	assert.Equal(t, "error: unknown flag: -bogus\n", stderr)
}

func TestDispatcher_FlagNeedsArgument(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, nil)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"list", "--search"}, &stdout, &stderr)

	assert.Equal(t, exitcode.UserError, code)
	assert.Equal(t, "error: flag needs an argument: -search\n", stderr.String())
}

func TestDispatcher_VersionNeedsNoSource(t *testing.T) {
	stdout, stderr, code := run(t, nil, "version")

	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, stderr)
	assert.Equal(t, "grocery 0.1.0\n", stdout)
}

func TestDispatcher_NoArgsLists(t *testing.T) {
	src := testutil.NewFakeSource(service.Item{ID: 1, Label: "Milk"})
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(src, nil))
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), nil, &stdout, &stderr)

	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, stderr.String())
	assert.Equal(t, "   1  [ ] Milk\n1 List item\n", stdout.String())
	assert.Equal(t, 1, src.Calls())
}

func TestDispatcher_ListAliasWithSearch(t *testing.T) {
	src := testutil.NewFakeSource(
		service.Item{ID: 1, Label: "Milk"},
		service.Item{ID: 2, Label: "Bread"},
	)

	stdout, _, code := run(t, testFactory(src, nil), "ls", "--quiet", "-s", "BR")

	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "   2  [ ] Bread\n", stdout)
}

func TestDispatcher_LoadFailure(t *testing.T) {
	src := testutil.NewFakeSource()
	src.Err = service.ErrUnexpectedResponse

	stdout, stderr, code := run(t, testFactory(src, nil), "list")

	assert.Equal(t, exitcode.LoadError, code)
	assert.Empty(t, stdout)
	assert.Equal(t, "Error: Did not receive expected data\n", stderr)
}

func TestDispatcher_FactoryErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   int
		stderr string
	}{
		{
			name:   "auth",
			err:    errors.New("no token found (run: grocery login)"),
			code:   exitcode.ConfigError,
			stderr: "error: auth error: no token found (run: grocery login)\n",
		},
		{
			name:   "other",
			err:    errors.New("unknown source: ftp"),
			code:   exitcode.LoadError,
			stderr: "error: source error: unknown source: ftp\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory := func(ctx context.Context, cfg *config.Config) (service.Source, error) {
				return nil, tt.err
			}

			_, stderr, code := run(t, factory, "list")

			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.stderr, stderr)
		})
	}
}

func TestDispatcher_NilFactory(t *testing.T) {
	_, stderr, code := run(t, nil, "list")

	assert.Equal(t, exitcode.ConfigError, code)
	assert.Equal(t, "error: no retrieval source configured\n", stderr)
}

func TestDispatcher_SettingsFromFileAndFlags(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.SettingsFile),
		[]byte("endpoint: http://example.test/items\nload_delay: 1ms\n"), 0600))

	var seen *config.Config
	src := testutil.NewFakeSource()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(src, &seen))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(),
		[]string{"list", "--config", dir, "--quiet", "--endpoint", "http://other.test/x"},
		&stdout, &stderr)

	require.Equal(t, exitcode.Success, code)
	require.NotNil(t, seen)
	assert.Equal(t, "http://other.test/x", seen.Settings.Endpoint)
	assert.Equal(t, "1ms", seen.Settings.LoadDelay.String())
	assert.True(t, seen.Quiet)
	assert.NotNil(t, seen.Log)
}

func TestDispatcher_InvalidSettingsFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.SettingsFile),
		[]byte("source: carrier-pigeon\n"), 0600))

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, nil)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"version", "--config", dir}, &stdout, &stderr)

	assert.Equal(t, exitcode.ConfigError, code)
	assert.Equal(t, "error: unknown source: carrier-pigeon\n", stderr.String())
}

func TestDispatcher_DebugLogsToStderr(t *testing.T) {
	_, stderr, code := run(t, nil, "version", "--debug")

	assert.Equal(t, exitcode.Success, code)
	assert.Contains(t, stderr, "dispatch")
	assert.Contains(t, stderr, `"command": "version"`)
}
