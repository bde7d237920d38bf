// Package session composes one list store with the loader that fills it.
//
// A Session owns the one-shot latch of its initial retrieval, so separate
// sessions never share load state.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"grocery/internal/loader"
	"grocery/internal/service"
	"grocery/internal/store"
)

// Options configures a Session.
type Options struct {
	// LoadDelay is waited before the initial fetch.
	LoadDelay time.Duration

	// Logger receives debug output. Nil means no logging.
	Logger *zap.Logger
}

// Session is a single grocery list session.
type Session struct {
	// ID identifies the session in logs.
	ID string

	src    service.Source
	latch  *loader.Latch
	loader *loader.Loader
	store  *store.ListStore
	logger *zap.Logger
}

// New creates a session that will load from src.
func New(src service.Source, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.NewString()
	logger = logger.With(zap.String("session", id))

	latch := loader.NewLatch()
	return &Session{
		ID:     id,
		src:    src,
		latch:  latch,
		loader: loader.New(latch, loader.Options{Delay: opts.LoadDelay, Logger: logger}),
		store:  store.New(),
		logger: logger,
	}
}

// Start runs the initial load and settles the store with its outcome.
// Later calls perform no retrieval and return the settled state.
func (s *Session) Start(ctx context.Context) service.ListState {
	st := s.loader.Load(ctx, s.src)
	if err := s.store.Settle(st); err != nil {
		s.logger.Debug("store already settled", zap.Error(err))
		return s.store.State()
	}
	s.logger.Debug("session ready",
		zap.Stringer("status", st.Status),
		zap.Int("items", len(st.Items)),
	)
	return s.store.State()
}

// Store returns the session's list store.
func (s *Session) Store() *store.ListStore {
	return s.store
}

// Loaded reports whether the initial retrieval has run.
func (s *Session) Loaded() bool {
	return s.latch.Fired()
}

// Logger returns the session-scoped logger.
func (s *Session) Logger() *zap.Logger {
	return s.logger
}
