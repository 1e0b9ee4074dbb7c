// Package session drives the interactive search loop: one picker session
// per scope, cycling scopes until the user selects an entry or aborts.
package session

import (
	"errors"
	"fmt"

	"github.com/vanderheijden86/histscope/internal/history"
	"github.com/vanderheijden86/histscope/internal/scope"
	"github.com/vanderheijden86/histscope/pkg/debug"
	"github.com/vanderheijden86/histscope/pkg/search"
	"github.com/vanderheijden86/histscope/pkg/ui"
)

// Picker runs one interactive session over a stream of entries and reports
// how it ended. ui.RunPicker satisfies this; tests substitute scripted
// implementations.
type Picker func(opts ui.Options, entries <-chan history.Entry) (*ui.Output, error)

// ErrPickerFailed marks an internal picker failure: a session that produced
// no output at all.
var ErrPickerFailed = errors.New("picker produced no output")

// Options configures a Controller.
type Options struct {
	Store   search.Store
	Env     scope.Env
	Pick    Picker
	Prompt  string
	Preview bool
	Theme   ui.Theme
	// Changed carries store-change notifications through to each picker
	// session. May be nil.
	Changed <-chan struct{}
}

// Result is the outcome of a completed search loop.
type Result struct {
	// Selected is true when the user accepted an entry; Text then holds
	// the raw command to emit. A false Selected is a user abort.
	Selected  bool
	Text      string
	LastScope scope.Scope
}

// Controller owns the active scope and the retained query text. Both are
// mutated only here; every other component just reads what it is handed.
type Controller struct {
	opts Options
}

// New creates a controller. A nil Pick falls back to the interactive picker.
func New(opts Options) *Controller {
	if opts.Pick == nil {
		opts.Pick = ui.RunPicker
	}
	return &Controller{opts: opts}
}

// Run executes the search loop starting at the given scope with the given
// initial query text. Each iteration launches exactly one producer for the
// current scope, hands its stream to the picker, joins the producer, and
// interprets the picker's exit signal. The loop only returns in a terminal
// state: a selection, a user abort, or a fatal error.
func (c *Controller) Run(initial scope.Scope, query string) (Result, error) {
	current := initial

	for {
		debug.Log("scope %s query %q", current, query)

		filter := scope.BuildFilter(current, query, c.opts.Env)
		producer := search.Run(c.opts.Store, filter)

		out, pickErr := c.opts.Pick(ui.Options{
			Title:        current.Title(c.opts.Env),
			Prompt:       c.opts.Prompt,
			InitialQuery: query,
			Preview:      c.opts.Preview,
			Theme:        c.opts.Theme,
			Changed:      c.opts.Changed,
		}, producer.Entries())

		// Join the producer before interpreting anything: no producer
		// may outlive its iteration. The picker may have stopped
		// reading, so drain rather than plain wait.
		if err := producer.Drain(); err != nil {
			return Result{}, fmt.Errorf("history query: %w", err)
		}
		if pickErr != nil {
			return Result{}, fmt.Errorf("interactive picker: %w", pickErr)
		}
		if out == nil {
			return Result{}, ErrPickerFailed
		}

		// The query buffer survives every transition, including the
		// defensive re-loop.
		query = out.Query

		switch out.Key {
		case ui.KeyAccept:
			if out.Selected != nil {
				return Result{
					Selected:  true,
					Text:      ui.EntryItem{Entry: *out.Selected}.Output(),
					LastScope: current,
				}, nil
			}
			// Accept without a selection: re-loop unchanged.

		case ui.KeyAbort:
			return Result{Selected: false, LastScope: current}, nil

		case ui.KeyCycleScope:
			current = current.Next()

		case ui.KeyReload:
			// Re-query the same scope.

		default:
			// Unrecognized exit signal: re-loop unchanged.
		}
	}
}
