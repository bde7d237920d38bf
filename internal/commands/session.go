package commands

import (
	"context"
	"io"

	"grocery/internal/config"
	"grocery/internal/output"
	"grocery/internal/service"
	"grocery/internal/session"
)

// newSession creates a session over src using the configured delay and logger.
func newSession(cfg *config.Config, src service.Source) *session.Session {
	return session.New(src, session.Options{
		LoadDelay: cfg.Settings.LoadDelay,
		Logger:    cfg.Logger(),
	})
}

// startSession runs the initial load, showing the loading line while a
// delay is configured.
func startSession(ctx context.Context, cfg *config.Config, sess *session.Session, out io.Writer) service.ListState {
	if cfg.Settings.LoadDelay > 0 && !cfg.Quiet {
		output.FormatLoading(out)
	}
	return sess.Start(ctx)
}
