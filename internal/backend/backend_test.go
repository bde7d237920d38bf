package backend_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocery/internal/backend"
	"grocery/internal/backend/httpsource"
	"grocery/internal/config"
)

func TestNewSource_HTTP(t *testing.T) {
	cfg, err := config.New(t.TempDir())
	require.NoError(t, err)

	src, err := backend.NewSource(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &httpsource.Client{}, src)
}

func TestNewSource_GoogleTasksNeedsCredentials(t *testing.T) {
	cfg, err := config.New(t.TempDir())
	require.NoError(t, err)
	cfg.Settings.Source = config.SourceGoogleTasks

	_, err = backend.NewSource(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oauth_client.json")
}

func TestNewSource_Unknown(t *testing.T) {
	cfg, err := config.New(t.TempDir())
	require.NoError(t, err)
	cfg.Settings.Source = "ftp"

	_, err = backend.NewSource(context.Background(), cfg)
	require.EqualError(t, err, "unknown source: ftp")
}
