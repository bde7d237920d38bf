package store_test

import (
	"strings"
	"testing"

	"pgregory.net/rapid"

	"grocery/internal/service"
	"grocery/internal/store"
)

// itemsGenerator generates lists with unique ids in arbitrary order.
func itemsGenerator() *rapid.Generator[[]service.Item] {
	return rapid.Custom(func(t *rapid.T) []service.Item {
		ids := rapid.SliceOfNDistinct(rapid.IntRange(1, 500), 0, 20, rapid.ID[int]).Draw(t, "ids")
		items := make([]service.Item, len(ids))
		for i, id := range ids {
			items[i] = service.Item{
				ID:      id,
				Label:   labelGenerator().Draw(t, "label"),
				Checked: rapid.Bool().Draw(t, "checked"),
			}
		}
		return items
	})
}

func labelGenerator() *rapid.Generator[string] {
	return rapid.StringMatching(`[A-Za-z ]{1,20}`)
}

func settled(t *rapid.T, items []service.Item) *store.ListStore {
	s := store.New()
	if err := s.Settle(service.ReadyState(items)); err != nil {
		t.Fatalf("settle: %v", err)
	}
	return s
}

func maxID(items []service.Item) int {
	m := 0
	for _, it := range items {
		if it.ID > m {
			m = it.ID
		}
	}
	return m
}

func TestAdd_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		items := itemsGenerator().Draw(t, "items")
		label := labelGenerator().Draw(t, "new")
		s := settled(t, items)

		s.Add(label)

		got := s.State().Items
		if len(got) != len(items)+1 {
			t.Fatalf("length %d, want %d", len(got), len(items)+1)
		}
		added := got[len(got)-1]
		if added.ID != maxID(items)+1 {
			t.Fatalf("id %d, want %d", added.ID, maxID(items)+1)
		}
		if added.Checked || added.Label != label {
			t.Fatalf("unexpected item %+v", added)
		}
	})
}

func TestAddEmpty_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		items := itemsGenerator().Draw(t, "items")
		s := settled(t, items)

		s.Add("")

		if got := s.State().Items; len(got) != len(items) {
			t.Fatalf("length changed: %d -> %d", len(items), len(got))
		}
	})
}

func TestToggle_Involution_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		items := itemsGenerator().Filter(func(v []service.Item) bool { return len(v) > 0 }).Draw(t, "items")
		target := rapid.SampledFrom(items).Draw(t, "target")
		s := settled(t, items)

		s.Toggle(target.ID)
		s.Toggle(target.ID)

		for i, it := range s.State().Items {
			if it != items[i] {
				t.Fatalf("item %d changed: %+v -> %+v", i, items[i], it)
			}
		}
	})
}

func TestRemove_Idempotent_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		items := itemsGenerator().Draw(t, "items")
		id := rapid.IntRange(0, 600).Draw(t, "id")
		s := settled(t, items)

		s.Remove(id)
		once := s.State().Items
		s.Remove(id)
		twice := s.State().Items

		if len(once) != len(twice) {
			t.Fatalf("second remove changed length: %d -> %d", len(once), len(twice))
		}
		for _, it := range twice {
			if it.ID == id {
				t.Fatalf("id %d still present", id)
			}
		}
	})
}

func TestVisibleItems_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		items := itemsGenerator().Draw(t, "items")
		term := rapid.StringMatching(`[A-Za-z]{0,3}`).Draw(t, "term")
		s := settled(t, items)

		visible := s.VisibleItems(term)

		// Filtered view is an order-preserving subsequence.
		j := 0
		for _, it := range items {
			match := strings.Contains(strings.ToLower(it.Label), strings.ToLower(term))
			if !match {
				continue
			}
			if j >= len(visible) || visible[j] != it {
				t.Fatalf("missing or misordered match %+v", it)
			}
			j++
		}
		if j != len(visible) {
			t.Fatalf("extra items in view: %d > %d", len(visible), j)
		}

		if after := s.State().Items; len(after) != len(items) {
			t.Fatal("filtering mutated the list")
		}
	})
}
