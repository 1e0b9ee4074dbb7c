package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/histscope/internal/history"
)

func testOptions() Options {
	return Options{
		Title:   "Directory history /tmp\nheader\n",
		Prompt:  "history〉",
		Preview: false,
		Theme:   TestTheme(),
	}
}

// loadedModel returns a model that has consumed all given entries and seen
// the channel close, as if the producer finished before any keypress.
func loadedModel(t *testing.T, opts Options, entries ...history.Entry) Model {
	t.Helper()
	ch := make(chan history.Entry, len(entries))
	for _, e := range entries {
		ch <- e
	}
	close(ch)

	m := NewModel(opts, ch)
	m.width = 120
	m.height = 40
	for {
		msg := readEntries(ch)()
		em, ok := msg.(entriesMsg)
		if !ok {
			t.Fatalf("unexpected msg %T", msg)
		}
		m = apply(t, m, em)
		if em.closed {
			return m
		}
	}
}

func apply(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return out
}

func typeString(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m = apply(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func sampleEntries() []history.Entry {
	return []history.Entry{
		{Command: "git status"},
		{Command: "make build"},
		{Command: "git push origin"},
	}
}

func TestPickerRanksOnCommandTextOnly(t *testing.T) {
	m := loadedModel(t, testOptions(), sampleEntries()...)

	if len(m.matches) != 3 {
		t.Fatalf("expected all 3 entries before typing, got %d", len(m.matches))
	}

	m = typeString(t, m, "git")
	if len(m.matches) != 2 {
		t.Fatalf("expected 2 git matches, got %d", len(m.matches))
	}
	for _, idx := range m.matches {
		if !strings.Contains(m.items[idx].MatchText(), "git") {
			t.Errorf("unexpected match %q", m.items[idx].MatchText())
		}
	}

	// The decorated display line contains the date placeholder; typing it
	// must match nothing because ranking sees the raw command only.
	m2 := loadedModel(t, testOptions(), sampleEntries()...)
	m2 = typeString(t, m2, "??:??")
	if len(m2.matches) != 0 {
		t.Errorf("display decoration leaked into matching: %d matches", len(m2.matches))
	}
}

func TestPickerAcceptReturnsRawCommand(t *testing.T) {
	m := loadedModel(t, testOptions(), sampleEntries()...)
	m = apply(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	out := m.Result()
	if out.Key != KeyAccept {
		t.Fatalf("expected KeyAccept, got %v", out.Key)
	}
	if out.Selected == nil || out.Selected.Command != "git status" {
		t.Fatalf("expected first entry selected, got %+v", out.Selected)
	}
}

func TestPickerAcceptWithNoEntriesStaysOpen(t *testing.T) {
	m := loadedModel(t, testOptions())
	m = apply(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.quitting {
		t.Fatal("enter with no entries should not end the session")
	}
	if m.Result().Selected != nil {
		t.Fatal("no entry should be selected")
	}
}

func TestPickerAbortKeys(t *testing.T) {
	for _, k := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyCtrlZ} {
		m := loadedModel(t, testOptions(), sampleEntries()...)
		m = apply(t, m, tea.KeyMsg{Type: k})

		if !m.quitting {
			t.Errorf("%v should end the session", k)
		}
		out := m.Result()
		if out.Key != KeyAbort || out.Selected != nil {
			t.Errorf("%v: expected abort with no selection, got %+v", k, out)
		}
	}
}

func TestPickerCycleScopePreservesQuery(t *testing.T) {
	m := loadedModel(t, testOptions(), sampleEntries()...)
	m = typeString(t, m, "git pu")
	m = apply(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})

	out := m.Result()
	if out.Key != KeyCycleScope {
		t.Fatalf("expected KeyCycleScope, got %v", out.Key)
	}
	if out.Query != "git pu" {
		t.Fatalf("query buffer not preserved: %q", out.Query)
	}
}

func TestPickerReloadKey(t *testing.T) {
	m := loadedModel(t, testOptions(), sampleEntries()...)
	m = apply(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})

	if out := m.Result(); out.Key != KeyReload {
		t.Fatalf("expected KeyReload, got %v", out.Key)
	}
}

func TestPickerCursorNavigation(t *testing.T) {
	m := loadedModel(t, testOptions(), sampleEntries()...)

	m = apply(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = apply(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	out := m.Result()
	if out.Selected == nil || out.Selected.Command != "make build" {
		t.Fatalf("expected second entry after down, got %+v", out.Selected)
	}
}

func TestPickerToleratesEmptyStream(t *testing.T) {
	m := loadedModel(t, testOptions())
	if m.loading {
		t.Error("closed channel should end loading")
	}
	if len(m.matches) != 0 {
		t.Errorf("expected no matches, got %d", len(m.matches))
	}
	// View must render without panicking on an empty result set.
	_ = m.View()
}

func TestPickerStoreChangedHint(t *testing.T) {
	m := loadedModel(t, testOptions(), sampleEntries()...)
	next, _ := m.Update(storeChangedMsg{})
	m = next.(Model)

	if !m.stale {
		t.Fatal("expected stale flag after store change")
	}
	if !strings.Contains(m.statusLine(), "ctrl+l") {
		t.Errorf("status line should hint at reload: %q", m.statusLine())
	}
}

func TestPickerInitialQueryRetained(t *testing.T) {
	opts := testOptions()
	opts.InitialQuery = "make"
	m := loadedModel(t, opts, sampleEntries()...)

	if len(m.matches) != 1 {
		t.Fatalf("initial query should pre-filter, got %d matches", len(m.matches))
	}
	if m.Result().Query != "make" {
		t.Fatalf("initial query not retained: %q", m.Result().Query)
	}
}

func TestReadEntriesBatches(t *testing.T) {
	ch := make(chan history.Entry, entryBatchSize+10)
	for i := 0; i < entryBatchSize+10; i++ {
		ch <- history.Entry{Command: "cmd"}
	}

	msg := readEntries(ch)()
	em := msg.(entriesMsg)
	if len(em.items) != entryBatchSize {
		t.Fatalf("expected full batch of %d, got %d", entryBatchSize, len(em.items))
	}
	if em.closed {
		t.Fatal("channel is still open")
	}

	close(ch)
	msg = readEntries(ch)()
	em = msg.(entriesMsg)
	if !em.closed {
		t.Fatal("expected closed after drain")
	}
	if len(em.items) != 10 {
		t.Fatalf("expected trailing 10 items, got %d", len(em.items))
	}
}

func TestPickerViewRendersRows(t *testing.T) {
	m := loadedModel(t, testOptions(), sampleEntries()...)
	m = apply(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	view := m.View()
	if !strings.Contains(view, "git status") {
		t.Errorf("view missing entry row:\n%s", view)
	}
	if !strings.Contains(view, "Directory history") {
		t.Errorf("view missing title:\n%s", view)
	}
}
