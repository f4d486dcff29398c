package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gideonabe/news-today/internal/article"
	"github.com/gideonabe/news-today/internal/orchestrator"
	"github.com/gideonabe/news-today/internal/query"
	"github.com/gideonabe/news-today/internal/state"
)

func orchestratorResult(tk state.Ticket, urls ...string) orchestrator.ResultMsg {
	raws := make([]article.Raw, 0, len(urls))
	for _, u := range urls {
		raws = append(raws, article.Raw{URL: article.StringPtr(u), Title: article.StringPtr(u)})
	}
	articles, _ := article.NormalizeAll(raws)
	return orchestrator.ResultMsg{Ticket: tk, Articles: articles}
}

// countingSource records every fetch and answers with urls.
type countingSource struct {
	urls  []string
	calls []query.Selection
}

func (c *countingSource) Fetch(_ context.Context, sel query.Selection) ([]article.Raw, error) {
	c.calls = append(c.calls, sel)
	raws := make([]article.Raw, 0, len(c.urls))
	for _, u := range c.urls {
		raws = append(raws, article.Raw{URL: article.StringPtr(u), Title: article.StringPtr(u)})
	}
	return raws, nil
}

// run executes cmd and any batch it expands to, feeding fetch results back
// into a. Timers and other messages are not followed.
func run(a *App, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			run(a, c)
		}
	case orchestrator.ResultMsg:
		a.Update(msg)
	}
}
