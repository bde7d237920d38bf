// Package store holds the canonical in-memory grocery list of a session.
package store

import (
	"errors"
	"strings"
	"sync"

	"grocery/internal/service"
)

var (
	// ErrAlreadySettled is returned by Settle once the store has left Loading.
	ErrAlreadySettled = errors.New("list already settled")

	// ErrNotTerminal is returned when Settle is given a Loading state.
	ErrNotTerminal = errors.New("cannot settle list to loading")
)

// ListStore owns the item sequence and load status of one session.
// Mutations are total: unknown ids and empty labels are ignored, and
// nothing changes until the store has been settled to Ready.
type ListStore struct {
	mu    sync.RWMutex
	state service.ListState
}

// New creates a store in Loading status with no items.
func New() *ListStore {
	return &ListStore{state: service.LoadingState()}
}

// Settle applies the terminal outcome of the initial load.
// It may succeed at most once.
func (s *ListStore) Settle(st service.ListState) error {
	if !st.Terminal() {
		return ErrNotTerminal
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Terminal() {
		return ErrAlreadySettled
	}

	switch st.Status {
	case service.Ready:
		s.state = service.ReadyState(st.Items)
	default:
		s.state = service.FailedState(st.Message)
	}
	return nil
}

// Add appends a new unchecked item labelled label.
func (s *ListStore) Add(label string) {
	if label == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Status != service.Ready {
		return
	}
	s.state.Items = append(s.state.Items, service.Item{
		ID:    nextID(s.state.Items),
		Label: label,
	})
}

// Toggle flips the checked flag of the item with the given id.
func (s *ListStore) Toggle(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Status != service.Ready {
		return
	}
	for i := range s.state.Items {
		if s.state.Items[i].ID == id {
			s.state.Items[i].Checked = !s.state.Items[i].Checked
			return
		}
	}
}

// Remove deletes the item with the given id.
func (s *ListStore) Remove(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Status != service.Ready {
		return
	}
	kept := s.state.Items[:0:0]
	for _, it := range s.state.Items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	s.state.Items = kept
}

// VisibleItems returns the items whose label contains term, ignoring case,
// in list order. An empty term returns every item. The result is a copy.
func (s *ListStore) VisibleItems(term string) []service.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if term == "" {
		return service.CloneItems(s.state.Items)
	}

	needle := strings.ToLower(term)
	out := []service.Item{}
	for _, it := range s.state.Items {
		if strings.Contains(strings.ToLower(it.Label), needle) {
			out = append(out, it)
		}
	}
	return out
}

// State returns a copy of the current list state.
func (s *ListStore) State() service.ListState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := s.state
	st.Items = service.CloneItems(s.state.Items)
	return st
}

// Len returns the number of items currently held.
func (s *ListStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.state.Items)
}

// nextID returns max id + 1, or 1 for an empty list.
// Ids of removed items can come back.
func nextID(items []service.Item) int {
	if len(items) == 0 {
		return 1
	}
	top := items[0].ID
	for _, it := range items[1:] {
		if it.ID > top {
			top = it.ID
		}
	}
	return top + 1
}
