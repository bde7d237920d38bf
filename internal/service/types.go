// Package service defines the grocery list model and the source-agnostic
// interface used to retrieve the initial list.
package service

import "fmt"

// Item represents a single grocery list entry.
// The label travels as "item" on the wire.
type Item struct {
	ID      int    `json:"id"`
	Checked bool   `json:"checked"`
	Label   string `json:"item"`
}

// Status is the load status of a list.
type Status int

const (
	// Loading means the initial retrieval has not finished.
	Loading Status = iota

	// Ready means the list was retrieved and may be mutated.
	Ready

	// Failed means the retrieval failed; the list stays empty.
	Failed
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(b []byte) error {
	switch string(b) {
	case "loading":
		*s = Loading
	case "ready":
		*s = Ready
	case "failed":
		*s = Failed
	default:
		return fmt.Errorf("unknown status: %q", string(b))
	}
	return nil
}

// ListState is a snapshot of all items plus the load status.
// Message is only set when Status is Failed.
type ListState struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	Items   []Item `json:"items"`
}

// LoadingState returns the state every session starts in.
func LoadingState() ListState {
	return ListState{Status: Loading, Items: []Item{}}
}

// ReadyState returns a Ready state holding a copy of items.
func ReadyState(items []Item) ListState {
	return ListState{Status: Ready, Items: CloneItems(items)}
}

// FailedState returns a Failed state carrying msg.
func FailedState(msg string) ListState {
	return ListState{Status: Failed, Message: msg, Items: []Item{}}
}

// Terminal reports whether the state has left Loading.
func (s ListState) Terminal() bool {
	return s.Status != Loading
}

// CloneItems returns a copy of items that never aliases the input.
// A nil input yields an empty, non-nil slice.
func CloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
