// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"
	"sync/atomic"

	"grocery/internal/service"
)

// FakeSource is an in-memory implementation of service.Source for testing.
type FakeSource struct {
	mu    sync.RWMutex
	items []service.Item
	calls atomic.Int32

	// Err, when set, is returned by FetchItems instead of the items.
	Err error

	// Block, when set, makes FetchItems wait until it is closed or the
	// context is done.
	Block chan struct{}
}

// NewFakeSource creates a FakeSource serving items.
func NewFakeSource(items ...service.Item) *FakeSource {
	return &FakeSource{items: items}
}

// AddItem appends an item to the served list.
func (f *FakeSource) AddItem(id int, label string, checked bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, service.Item{ID: id, Label: label, Checked: checked})
}

// Calls returns how many times FetchItems has been invoked.
func (f *FakeSource) Calls() int {
	return int(f.calls.Load())
}

// FetchItems implements service.Source.
func (f *FakeSource) FetchItems(ctx context.Context) ([]service.Item, error) {
	f.calls.Add(1)

	if f.Block != nil {
		select {
		case <-f.Block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if f.Err != nil {
		return nil, f.Err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	return service.CloneItems(f.items), nil
}
