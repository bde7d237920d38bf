// Package loader performs the one-time initial retrieval of a grocery list.
package loader

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"grocery/internal/service"
)

// Latch guards the initial retrieval of one session.
// It fires on the first attempt regardless of the outcome and remembers
// the terminal state that attempt produced.
type Latch struct {
	once  sync.Once
	mu    sync.Mutex
	fired bool
	state service.ListState
}

// NewLatch returns an unfired latch.
func NewLatch() *Latch {
	return &Latch{}
}

// Fired reports whether a retrieval has completed through this latch.
func (l *Latch) Fired() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fired
}

// do runs fn at most once. Every caller gets the state of that single run;
// callers arriving while it is in flight wait for it. A panic in fn, or a
// non-terminal result, is recorded as Failed so the latch never holds Loading.
func (l *Latch) do(fn func() service.ListState) service.ListState {
	l.once.Do(func() {
		var st service.ListState
		defer func() {
			if r := recover(); r != nil {
				st = service.FailedState(fmt.Sprintf("initial load panicked: %v", r))
			} else if !st.Terminal() {
				st = service.FailedState("initial load did not finish")
			}
			l.mu.Lock()
			l.state = st
			l.fired = true
			l.mu.Unlock()
		}()
		st = fn()
	})

	l.mu.Lock()
	defer l.mu.Unlock()
	st := l.state
	st.Items = service.CloneItems(l.state.Items)
	return st
}

// Options configures a Loader.
type Options struct {
	// Delay is waited before the request is issued. Zero disables it.
	Delay time.Duration

	// Logger receives debug output. Nil means no logging.
	Logger *zap.Logger
}

// Loader retrieves the initial list from a source, once per latch.
type Loader struct {
	latch  *Latch
	delay  time.Duration
	logger *zap.Logger
}

// New creates a Loader bound to latch.
func New(latch *Latch, opts Options) *Loader {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		latch:  latch,
		delay:  opts.Delay,
		logger: logger,
	}
}

// Load retrieves the list from src and returns a terminal state:
// Ready with the fetched items or Failed with a message describing the
// failure. Once the latch has fired, Load returns the recorded state
// without touching src again.
func (l *Loader) Load(ctx context.Context, src service.Source) service.ListState {
	if l.latch.Fired() {
		l.logger.Debug("initial load already ran, skipping fetch")
	}
	return l.latch.do(func() service.ListState {
		return l.fetch(ctx, src)
	})
}

func (l *Loader) fetch(ctx context.Context, src service.Source) service.ListState {
	if l.delay > 0 {
		l.logger.Debug("delaying initial load", zap.Duration("delay", l.delay))
		timer := time.NewTimer(l.delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return service.FailedState(ctx.Err().Error())
		}
	}

	start := time.Now()
	items, err := src.FetchItems(ctx)
	if err != nil {
		l.logger.Debug("initial load failed",
			zap.Error(err),
			zap.Bool("malformed", errors.Is(err, service.ErrMalformedItems)),
			zap.Duration("elapsed", time.Since(start)),
		)
		return service.FailedState(err.Error())
	}

	l.logger.Debug("initial load finished",
		zap.Int("items", len(items)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return service.ReadyState(items)
}
