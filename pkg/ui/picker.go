// Package ui implements the interactive history picker: a bubbletea program
// that ranks streamed history entries against a typed query and reports the
// key that ended the session.
package ui

import (
	"fmt"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/vanderheijden86/histscope/internal/history"
)

// Key identifies how a picker session ended.
type Key int

const (
	// KeyAbort ends the whole search without a selection (esc, ctrl+c,
	// ctrl+d, ctrl+z).
	KeyAbort Key = iota
	// KeyAccept confirms the highlighted entry (enter).
	KeyAccept
	// KeyCycleScope asks the caller to advance to the next scope (ctrl+r).
	KeyCycleScope
	// KeyReload asks the caller to re-query the same scope (ctrl+l).
	KeyReload
)

// Output is the picker's exit signal: the final key, the selected entry if
// the session ended with an accept, and the query buffer as the user left
// it so the caller can carry it into the next session.
type Output struct {
	Key      Key
	Selected *history.Entry
	Query    string
}

// Options configures one picker session.
type Options struct {
	Title        string
	Prompt       string
	InitialQuery string
	Preview      bool
	Theme        Theme
	// Changed receives a signal when the underlying store has new data;
	// the picker surfaces a reload hint. May be nil.
	Changed <-chan struct{}
}

// entryBatchSize bounds how many entries one message carries so a huge
// history cannot starve the event loop.
const entryBatchSize = 256

type keyMap struct {
	Abort         key.Binding
	Accept        key.Binding
	CycleScope    key.Binding
	Reload        key.Binding
	Up            key.Binding
	Down          key.Binding
	PageUp        key.Binding
	PageDown      key.Binding
	TogglePreview key.Binding
	Copy          key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Abort:         key.NewBinding(key.WithKeys("esc", "ctrl+c", "ctrl+d", "ctrl+z")),
		Accept:        key.NewBinding(key.WithKeys("enter")),
		CycleScope:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "cycle scope")),
		Reload:        key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "reload")),
		Up:            key.NewBinding(key.WithKeys("up", "ctrl+k")),
		Down:          key.NewBinding(key.WithKeys("down", "ctrl+j")),
		PageUp:        key.NewBinding(key.WithKeys("pgup")),
		PageDown:      key.NewBinding(key.WithKeys("pgdown")),
		TogglePreview: key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "preview")),
		Copy:          key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy")),
	}
}

type entriesMsg struct {
	items  []EntryItem
	closed bool
}

type storeChangedMsg struct{}

type clipboardResultMsg struct{ err error }

// Model is the picker's bubbletea model. Exported so tests can drive
// Update/View directly.
type Model struct {
	opts Options
	keys keyMap

	input   textinput.Model
	spin    spinner.Model
	preview viewport.Model

	entries <-chan history.Entry

	items   []EntryItem
	matches []int // indices into items, ranked
	cursor  int   // index into matches
	offset  int   // first visible row

	loading     bool
	stale       bool
	status      string
	showPreview bool

	width  int
	height int
	now    time.Time

	finalKey Key
	choice   *history.Entry
	quitting bool
}

// NewModel builds a picker model consuming entries from the given channel.
func NewModel(opts Options, entries <-chan history.Entry) Model {
	ti := textinput.New()
	ti.Prompt = opts.Prompt
	ti.PromptStyle = opts.Theme.PromptStyle
	ti.SetValue(opts.InitialQuery)
	ti.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.MiniDot))

	return Model{
		opts:        opts,
		keys:        defaultKeyMap(),
		input:       ti,
		spin:        sp,
		preview:     viewport.New(0, 0),
		entries:     entries,
		loading:     true,
		showPreview: opts.Preview,
		now:         time.Now(),
		finalKey:    KeyAbort,
	}
}

// Init starts entry consumption, change watching, and the spinner.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{readEntries(m.entries), m.spin.Tick, textinput.Blink}
	if m.opts.Changed != nil {
		cmds = append(cmds, watchChanges(m.opts.Changed))
	}
	return tea.Batch(cmds...)
}

// readEntries receives the next batch from the producer channel. It blocks
// on the first entry, then drains without blocking up to the batch size.
func readEntries(ch <-chan history.Entry) tea.Cmd {
	return func() tea.Msg {
		first, ok := <-ch
		if !ok {
			return entriesMsg{closed: true}
		}
		items := []EntryItem{{Entry: first}}
		for len(items) < entryBatchSize {
			select {
			case e, ok := <-ch:
				if !ok {
					return entriesMsg{items: items, closed: true}
				}
				items = append(items, EntryItem{Entry: e})
			default:
				return entriesMsg{items: items}
			}
		}
		return entriesMsg{items: items}
	}
}

// watchChanges forwards one store-change notification into the event loop.
func watchChanges(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return storeChangedMsg{}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizePreview()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case entriesMsg:
		m.items = append(m.items, msg.items...)
		if msg.closed {
			m.loading = false
		}
		m.rerank()
		if msg.closed {
			return m, nil
		}
		return m, readEntries(m.entries)

	case storeChangedMsg:
		m.stale = true
		return m, watchChanges(m.opts.Changed)

	case clipboardResultMsg:
		if msg.err != nil {
			m.status = "copy failed"
		} else {
			m.status = "copied to clipboard"
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Abort):
		m.finalKey = KeyAbort
		m.choice = nil
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Accept):
		item, ok := m.selectedItem()
		if !ok {
			// Nothing to accept; stay open.
			return m, nil
		}
		entry := item.Entry
		m.choice = &entry
		m.finalKey = KeyAccept
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.CycleScope):
		m.finalKey = KeyCycleScope
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Reload):
		m.finalKey = KeyReload
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-m.listHeight())
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(m.listHeight())
		return m, nil

	case key.Matches(msg, m.keys.TogglePreview):
		m.showPreview = !m.showPreview
		m.resizePreview()
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		item, ok := m.selectedItem()
		if !ok {
			return m, nil
		}
		text := item.Output()
		return m, func() tea.Msg {
			return clipboardResultMsg{err: clipboard.WriteAll(text)}
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.cursor = 0
		m.offset = 0
		m.rerank()
	}
	return m, cmd
}

// rerank recomputes the ranked match indices for the current query.
// An empty query keeps the store's most-recent-first order.
func (m *Model) rerank() {
	query := m.input.Value()
	if query == "" {
		m.matches = m.matches[:0]
		for i := range m.items {
			m.matches = append(m.matches, i)
		}
	} else {
		ranked := fuzzy.FindFrom(query, entrySource(m.items))
		m.matches = m.matches[:0]
		for _, match := range ranked {
			m.matches = append(m.matches, match.Index)
		}
	}

	if m.cursor >= len(m.matches) {
		m.cursor = max(0, len(m.matches)-1)
	}
	m.clampOffset()
	m.refreshPreview()
}

func (m *Model) moveCursor(delta int) {
	if len(m.matches) == 0 {
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.matches) {
		m.cursor = len(m.matches) - 1
	}
	m.clampOffset()
	m.refreshPreview()
}

func (m *Model) clampOffset() {
	h := m.listHeight()
	if h <= 0 {
		m.offset = 0
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m *Model) selectedItem() (EntryItem, bool) {
	if m.cursor < 0 || m.cursor >= len(m.matches) {
		return EntryItem{}, false
	}
	return m.items[m.matches[m.cursor]], true
}

func (m *Model) refreshPreview() {
	if !m.showPreview {
		return
	}
	item, ok := m.selectedItem()
	if !ok {
		m.preview.SetContent("")
		return
	}
	m.preview.SetContent(item.Preview(m.opts.Theme))
	m.preview.GotoTop()
}

func (m *Model) resizePreview() {
	if !m.showPreview || m.width <= 0 {
		return
	}
	m.preview.Width = m.previewWidth()
	m.preview.Height = m.listHeight()
	m.refreshPreview()
}

// headerHeight counts the title block plus the input and status lines.
func (m Model) headerHeight() int {
	lines := 2 // input + status
	for _, r := range m.opts.Title {
		if r == '\n' {
			lines++
		}
	}
	return lines
}

func (m Model) listHeight() int {
	h := m.height - m.headerHeight()
	if h < 1 {
		return 1
	}
	return h
}

func (m Model) previewWidth() int {
	if m.width < 80 {
		return 0
	}
	return m.width / 2
}

func (m Model) listWidth() int {
	w := m.width
	if m.showPreview {
		w -= m.previewWidth()
	}
	if w < 20 {
		w = 20
	}
	return w
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	t := m.opts.Theme

	header := t.Header.Render(m.opts.Title)
	input := m.input.View()
	status := m.statusLine()

	rows := m.visibleRows()
	list := lipgloss.NewStyle().
		Width(m.listWidth()).
		Height(m.listHeight()).
		MaxWidth(m.listWidth()).
		Render(rows)

	body := list
	if m.showPreview && m.previewWidth() > 0 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, list,
			t.PreviewBorder.Render(m.preview.View()))
	}

	return fmt.Sprintf("%s\n%s\n%s\n%s", header, input, status, body)
}

func (m Model) statusLine() string {
	t := m.opts.Theme
	parts := fmt.Sprintf("  %d/%d", len(m.matches), len(m.items))
	if m.loading {
		parts = m.spin.View() + parts
	} else {
		parts = " " + parts
	}
	if m.stale {
		parts += t.WarnText.Render("  history changed — ctrl+l to reload")
	}
	if m.status != "" {
		parts += t.MutedText.Render("  " + m.status)
	}
	return parts
}

func (m Model) visibleRows() string {
	var out string
	end := m.offset + m.listHeight()
	if end > len(m.matches) {
		end = len(m.matches)
	}
	t := m.opts.Theme
	width := m.listWidth()
	for i := m.offset; i < end; i++ {
		item := m.items[m.matches[i]]
		line := item.Display(t, m.now)
		if i == m.cursor {
			line = t.SelectedRow.Render("▸ " + truncateWidth(line, width-2, "…"))
		} else {
			line = "  " + truncateWidth(line, width-2, "…")
		}
		if out != "" {
			out += "\n"
		}
		out += line
	}
	return out
}

// Result returns the session's exit signal. Valid once the program has quit.
func (m Model) Result() *Output {
	return &Output{
		Key:      m.finalKey,
		Selected: m.choice,
		Query:    m.input.Value(),
	}
}

// RunPicker runs one interactive picker session to completion. The TUI is
// rendered on stderr so stdout stays reserved for the selected command.
// A nil error with a nil Output never happens: any internal picker failure
// surfaces as an error.
func RunPicker(opts Options, entries <-chan history.Entry) (*Output, error) {
	p := tea.NewProgram(NewModel(opts, entries),
		tea.WithAltScreen(),
		tea.WithOutput(os.Stderr),
	)
	res, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("picker failed: %w", err)
	}
	final, ok := res.(Model)
	if !ok {
		return nil, fmt.Errorf("picker returned unexpected model %T", res)
	}
	return final.Result(), nil
}
