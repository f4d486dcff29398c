package orchestrator

import (
	"github.com/gideonabe/news-today/internal/article"
	"github.com/gideonabe/news-today/internal/state"
)

// DebounceMsg fires when the search quiet period ends. It is ignored unless
// Gen is still the current generation.
type DebounceMsg struct {
	Gen   uint64
	Query string
}

// ResultMsg carries a finished fetch back to the update loop.
type ResultMsg struct {
	Ticket   state.Ticket
	Articles []article.Article
	Dropped  int
	Err      error
}
