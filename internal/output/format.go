// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"grocery/internal/service"
)

const (
	// LoadingText is printed while the initial load is outstanding.
	LoadingText = "Loading Items..."

	// EmptyText is printed for a ready list with nothing to show.
	EmptyText = "Your list is empty."
)

var (
	errorColor   = color.New(color.FgRed)
	checkedColor = color.New(color.Faint)
)

// FormatItem formats an item line.
// Format: "{ID:>4}  [x] {LABEL}\n"; checked lines are rendered faint.
func FormatItem(w io.Writer, item service.Item) {
	box := "[ ]"
	if item.Checked {
		box = "[x]"
	}
	line := fmt.Sprintf("%4d  %s %s", item.ID, box, normalizeLabel(item.Label))
	if item.Checked {
		checkedColor.Fprintln(w, line)
		return
	}
	fmt.Fprintln(w, line)
}

// FormatItems formats a list of items, or EmptyText when there are none.
func FormatItems(w io.Writer, items []service.Item) {
	if len(items) == 0 {
		fmt.Fprintln(w, EmptyText)
		return
	}
	for _, it := range items {
		FormatItem(w, it)
	}
}

// FormatFooter formats the item count line.
func FormatFooter(w io.Writer, count int) {
	noun := "items"
	if count == 1 {
		noun = "item"
	}
	fmt.Fprintf(w, "%d List %s\n", count, noun)
}

// FormatLoading formats the loading line.
func FormatLoading(w io.Writer) {
	fmt.Fprintln(w, LoadingText)
}

// FormatFailure formats a failed load, in red.
func FormatFailure(w io.Writer, msg string) {
	errorColor.Fprintf(w, "Error: %s\n", msg)
}

// FormatState formats a full list view: the failure, the loading line, or
// the visible items followed by the footer for the whole list.
func FormatState(w io.Writer, st service.ListState, visible []service.Item) {
	switch st.Status {
	case service.Loading:
		FormatLoading(w)
	case service.Failed:
		FormatFailure(w, st.Message)
	default:
		FormatItems(w, visible)
	}
	FormatFooter(w, len(st.Items))
}

// normalizeLabel normalizes an item label for display.
// - Empty or whitespace-only labels become "(unnamed)"
// - Newlines are replaced with spaces
func normalizeLabel(label string) string {
	label = strings.ReplaceAll(label, "\r", " ")
	label = strings.ReplaceAll(label, "\n", " ")

	if strings.TrimSpace(label) == "" {
		return "(unnamed)"
	}
	return label
}
