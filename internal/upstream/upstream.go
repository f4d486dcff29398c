// Package upstream talks to the news aggregator. It is only ever used on the
// server side of the /news proxy; the API key stays here.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gideonabe/news-today/internal/article"
	"github.com/gideonabe/news-today/internal/query"
)

const (
	ProviderNewsAPI = "newsapi"
	ProviderRSS     = "rss"
)

// ErrMissingKey is returned when a provider needs an API key and has none.
var ErrMissingKey = errors.New("missing API key")

// Aggregator runs a routed query against the upstream service.
type Aggregator interface {
	Query(ctx context.Context, d query.Description) ([]article.Raw, error)
}

// StatusError is a non-2xx answer from the aggregator.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.StatusCode, e.Message)
}

// Options configures a provider.
type Options struct {
	Provider string
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
	Interval time.Duration // minimum spacing between requests
}

// New builds the aggregator named by opts.Provider.
func New(opts Options) (Aggregator, error) {
	switch opts.Provider {
	case "", ProviderNewsAPI:
		return NewNewsAPI(opts), nil
	case ProviderRSS:
		return NewRSS(opts), nil
	}
	return nil, fmt.Errorf("unknown upstream provider %q", opts.Provider)
}
