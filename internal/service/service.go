package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Source retrieves the initial grocery list.
// Implementations live under internal/backend; commands never import them.
type Source interface {
	// FetchItems performs a single read against the source.
	// It returns ErrUnexpectedResponse for a non-success reply, a wrapped
	// transport error for faults, and ErrMalformedItems (wrapped) when the
	// payload cannot be decoded.
	FetchItems(ctx context.Context) ([]Item, error)
}

// UnexpectedResponseMessage is shown to the user verbatim when the source
// answers with a non-success status, hence the capital letter.
const UnexpectedResponseMessage = "Did not receive expected data"

// ErrUnexpectedResponse is returned when the source answers with a
// non-success status. Its text is UnexpectedResponseMessage.
var ErrUnexpectedResponse = errors.New(UnexpectedResponseMessage)

// ErrMalformedItems is returned when a payload is not a valid item array.
var ErrMalformedItems = errors.New("malformed item data")

// DecodeItems decodes a JSON array of items from r.
// A JSON null decodes to an empty list. Duplicate ids are rejected.
func DecodeItems(r io.Reader) ([]Item, error) {
	var items []Item
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedItems, err)
	}

	seen := make(map[int]struct{}, len(items))
	for _, it := range items {
		if _, dup := seen[it.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %d", ErrMalformedItems, it.ID)
		}
		seen[it.ID] = struct{}{}
	}

	if items == nil {
		items = []Item{}
	}
	return items, nil
}
