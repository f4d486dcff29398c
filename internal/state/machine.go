// Package state owns the reader's canonical selection and the fetch status
// that goes with it. There is one Machine per reader; the filter bar, the
// search bar and the list all read the same instance and only the
// orchestrator writes to it.
package state

import (
	"net/url"
	"strings"

	"github.com/gideonabe/news-today/internal/article"
	"github.com/gideonabe/news-today/internal/query"
)

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusLoaded
	StatusEmpty
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusEmpty:
		return "empty"
	case StatusError:
		return "error"
	}
	return "unknown"
}

// Ticket tags one fetch. Only the newest ticket may complete.
type Ticket struct {
	Seq       uint64
	Selection query.Selection
}

type Machine struct {
	sel      query.Selection
	status   Status
	articles []article.Article
	err      error

	seq  uint64
	last Ticket
}

// New starts in Idle with the "all" category selected.
func New() *Machine {
	return &Machine{sel: query.ForCategory(query.CategoryAll)}
}

func (m *Machine) Selection() query.Selection { return m.sel }
func (m *Machine) Status() Status { return m.status }
func (m *Machine) Articles() []article.Article { return m.articles }
func (m *Machine) Err() error { return m.err }

// Last is the most recently issued ticket.
func (m *Machine) Last() Ticket { return m.last }

// SelectCategory switches to category mode and clears any search text. It
// reports whether the effective query changed.
func (m *Machine) SelectCategory(c query.Category) bool {
	before := m.sel.Effective()
	m.sel = query.ForCategory(c)
	return m.sel.Effective() != before
}

// SetRawQuery records typed search text without committing it.
func (m *Machine) SetRawQuery(q string) {
	m.sel.RawQuery = q
}

// CommitQuery makes q the debounced query. A non-empty term switches to
// search mode and clears the category. An empty one clears an active search
// back to "all"; with no search active the category stays as it is.
func (m *Machine) CommitQuery(q string) bool {
	before := m.sel.Effective()
	term := strings.TrimSpace(q)
	switch {
	case term == "" && m.sel.DebouncedQuery == "":
		m.sel.RawQuery = ""
	case term == "":
		m.sel = query.ForCategory(query.CategoryAll)
	default:
		m.sel = query.Selection{Mode: query.ModeSearch, RawQuery: q, DebouncedQuery: term}
	}
	return m.sel.Effective() != before
}

// ApplyURL re-derives the selection from location parameters. The URL wins
// over whatever the controls currently hold.
func (m *Machine) ApplyURL(v url.Values) bool {
	before := m.sel.Effective()
	if s := strings.TrimSpace(v.Get("search")); s != "" {
		m.sel = query.ForSearch(s)
	} else {
		c := query.ParseCategory(v.Get("category"))
		if c == query.CategoryNone {
			c = query.CategoryAll
		}
		m.sel = query.ForCategory(c)
	}
	return m.sel.Effective() != before
}

// URLValues renders the selection as location parameters: exactly one of
// search or category.
func (m *Machine) URLValues() url.Values {
	return m.sel.Params()
}

// Begin moves to Loading and issues a ticket for the current selection.
func (m *Machine) Begin() Ticket {
	m.seq++
	m.last = Ticket{Seq: m.seq, Selection: m.sel.Effective()}
	m.status = StatusLoading
	m.err = nil
	return m.last
}

// Complete applies a fetch result. Results for anything but the newest
// ticket are dropped and Complete returns false.
func (m *Machine) Complete(t Ticket, articles []article.Article, err error) bool {
	if t.Seq != m.seq {
		return false
	}
	switch {
	case err != nil:
		m.status = StatusError
		m.err = err
		m.articles = nil
	case len(articles) == 0:
		m.status = StatusEmpty
		m.articles = nil
	default:
		m.status = StatusLoaded
		m.articles = articles
	}
	return true
}

// Retry re-issues the last query unchanged. It only applies in Error.
func (m *Machine) Retry() (Ticket, bool) {
	if m.status != StatusError {
		return Ticket{}, false
	}
	m.seq++
	m.last = Ticket{Seq: m.seq, Selection: m.last.Selection}
	m.status = StatusLoading
	m.err = nil
	return m.last, true
}
