// Package orchestrator is the one place fetches are started. It turns filter,
// search and navigation events into bubbletea commands and feeds the results
// back into the state machine; the detail view matches against that list.
package orchestrator

import (
	"context"
	"net/url"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gideonabe/news-today/internal/article"
	"github.com/gideonabe/news-today/internal/feed"
	"github.com/gideonabe/news-today/internal/logging"
	"github.com/gideonabe/news-today/internal/query"
	"github.com/gideonabe/news-today/internal/state"
)

// DefaultDebounce is the search quiet period.
const DefaultDebounce = 600 * time.Millisecond

type Orchestrator struct {
	machine  *state.Machine
	source   feed.Source
	debounce time.Duration

	gen    uint64
	cancel context.CancelFunc
}

// New wires an orchestrator to m. A non-positive debounce uses
// DefaultDebounce.
func New(m *state.Machine, src feed.Source, debounce time.Duration) *Orchestrator {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Orchestrator{machine: m, source: src, debounce: debounce}
}

func (o *Orchestrator) Machine() *state.Machine { return o.machine }

// Type records typed search text and arms the debounce timer. Every call
// starts a new generation, so earlier timers fire into nothing.
func (o *Orchestrator) Type(q string) tea.Cmd {
	o.machine.SetRawQuery(q)
	o.gen++
	gen := o.gen
	return tea.Tick(o.debounce, func(time.Time) tea.Msg {
		return DebounceMsg{Gen: gen, Query: q}
	})
}

// Submit commits q right away, skipping the quiet period.
func (o *Orchestrator) Submit(q string) tea.Cmd {
	o.gen++
	return o.commit(q)
}

// SelectCategory switches to c. Pending search timers are dropped along with
// the search text.
func (o *Orchestrator) SelectCategory(c query.Category) tea.Cmd {
	o.gen++
	if !o.machine.SelectCategory(c) {
		return nil
	}
	return o.fetch()
}

// Navigate applies location parameters. It fetches when the effective query
// changed or nothing has been fetched yet.
func (o *Orchestrator) Navigate(v url.Values) tea.Cmd {
	o.gen++
	if !o.machine.ApplyURL(v) && o.machine.Status() != state.StatusIdle {
		return nil
	}
	return o.fetch()
}

// Retry re-issues the failed query unchanged. It is a no-op outside Error.
func (o *Orchestrator) Retry() tea.Cmd {
	t, ok := o.machine.Retry()
	if !ok {
		return nil
	}
	logging.Info("retrying fetch", "query", t.Selection.Key(), "seq", t.Seq)
	return o.run(t)
}

// Refresh fetches the current selection again.
func (o *Orchestrator) Refresh() tea.Cmd {
	return o.fetch()
}

// Update consumes orchestrator messages. The bool reports whether msg was
// one of them.
func (o *Orchestrator) Update(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case DebounceMsg:
		if msg.Gen != o.gen {
			return true, nil
		}
		return true, o.commit(msg.Query)

	case ResultMsg:
		if !o.machine.Complete(msg.Ticket, msg.Articles, msg.Err) {
			logging.Debug("dropping stale result", "query", msg.Ticket.Selection.Key(), "seq", msg.Ticket.Seq)
			return true, nil
		}
		if msg.Err != nil {
			logging.Warn("fetch failed", "query", msg.Ticket.Selection.Key(), "err", msg.Err)
		} else {
			logging.Debug("fetch done", "query", msg.Ticket.Selection.Key(), "articles", len(msg.Articles), "dropped", msg.Dropped)
		}
		return true, nil
	}
	return false, nil
}

func (o *Orchestrator) commit(q string) tea.Cmd {
	if !o.machine.CommitQuery(q) {
		return nil
	}
	return o.fetch()
}

func (o *Orchestrator) fetch() tea.Cmd {
	return o.run(o.machine.Begin())
}

// run starts the fetch for t, cancelling whatever was in flight.
func (o *Orchestrator) run(t state.Ticket) tea.Cmd {
	if o.cancel != nil {
		o.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	o.cancel = cancel

	src := o.source
	return func() tea.Msg {
		defer cancel()
		raws, err := src.Fetch(ctx, t.Selection)
		if err != nil {
			return ResultMsg{Ticket: t, Err: err}
		}
		articles, dropped := article.NormalizeAll(raws)
		return ResultMsg{Ticket: t, Articles: articles, Dropped: dropped}
	}
}
