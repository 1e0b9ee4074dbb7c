package ui

import (
	"time"

	"github.com/vanderheijden86/histscope/internal/history"
)

// EntryItem wraps a history entry with the projections the picker needs.
// Matching and output always use the raw command text; the decorated display
// line is never matched against and never returned on selection.
type EntryItem struct {
	Entry history.Entry
}

// MatchText is the string the fuzzy matcher ranks against.
func (i EntryItem) MatchText() string {
	return i.Entry.Command
}

// Output is the value delivered to the caller on selection.
func (i EntryItem) Output() string {
	return i.Entry.Command
}

// Display renders the item's list row.
func (i EntryItem) Display(t Theme, now time.Time) string {
	return DisplayLine(t, i.Entry, now)
}

// Preview renders the item's detail block.
func (i EntryItem) Preview(t Theme) string {
	return PreviewText(t, i.Entry)
}

// entrySource adapts a slice of items to the fuzzy matcher's Source.
type entrySource []EntryItem

func (s entrySource) String(i int) string { return s[i].MatchText() }
func (s entrySource) Len() int            { return len(s) }
