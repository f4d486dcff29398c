// Package feed is the reader's side of the /news proxy boundary.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gideonabe/news-today/internal/article"
	"github.com/gideonabe/news-today/internal/query"
	"github.com/gideonabe/news-today/internal/upstream"
)

// ErrUpstreamUnavailable covers transport failures and non-2xx answers.
// Both are recoverable by retrying the same query.
var ErrUpstreamUnavailable = errors.New("news service unavailable")

// Source returns the raw records for a selection's effective query.
type Source interface {
	Fetch(ctx context.Context, sel query.Selection) ([]article.Raw, error)
}

// StatusError is a non-2xx answer from the proxy. It unwraps to
// ErrUpstreamUnavailable.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("news service returned %d: %s", e.StatusCode, e.Message)
}

func (e *StatusError) Unwrap() error {
	return ErrUpstreamUnavailable
}

// Proxy fetches from a running /news proxy.
type Proxy struct {
	baseURL string
	client  *http.Client
}

// NewProxy creates a proxy client. A zero timeout means no client-side
// deadline; the reader always offers retry.
func NewProxy(baseURL string, timeout time.Duration) *Proxy {
	return &Proxy{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// URL is the /news request for sel.
func (p *Proxy) URL(sel query.Selection) string {
	return p.baseURL + "/news?" + sel.Params().Encode()
}

func (p *Proxy) Fetch(ctx context.Context, sel query.Selection) ([]article.Raw, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL(sel), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", ErrUpstreamUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		msg := resp.Status
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			msg = e.Error
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: msg}
	}

	var raws []article.Raw
	if err := json.Unmarshal(body, &raws); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %w", ErrUpstreamUnavailable, err)
	}
	return raws, nil
}

// Direct runs queries against an aggregator in-process, routing them the
// same way the proxy does. Only server-side code constructs one.
type Direct struct {
	agg upstream.Aggregator
}

func NewDirect(agg upstream.Aggregator) *Direct {
	return &Direct{agg: agg}
}

func (d *Direct) Fetch(ctx context.Context, sel query.Selection) ([]article.Raw, error) {
	raws, err := d.agg.Query(ctx, query.Route(sel))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
	return raws, nil
}
