package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/gideonabe/news-today/internal/article"
	"github.com/gideonabe/news-today/internal/query"
)

const defaultNewsAPIBase = "https://newsapi.org"

// NewsAPI queries newsapi.org's v2 endpoints.
type NewsAPI struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
}

// newsAPIResponse covers both the success and the error body.
type newsAPIResponse struct {
	Status       string        `json:"status"`
	TotalResults int           `json:"totalResults"`
	Articles     []article.Raw `json:"articles"`
	Code         string        `json:"code"`
	Message      string        `json:"message"`
}

// NewNewsAPI creates a client. A zero Interval disables pacing.
func NewNewsAPI(opts Options) *NewsAPI {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = defaultNewsAPIBase
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &NewsAPI{
		baseURL: base,
		apiKey:  opts.APIKey,
		client:  &http.Client{Timeout: timeout},
		limiter: newLimiter(opts.Interval),
	}
}

// newLimiter spaces requests by interval. A zero interval disables pacing.
func newLimiter(interval time.Duration) *rate.Limiter {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return rate.NewLimiter(limit, 1)
}

// URL is the request URL for d, without the key.
func (n *NewsAPI) URL(d query.Description) string {
	return n.baseURL + "/v2/" + d.Endpoint() + "?" + d.Values().Encode()
}

// Query runs d and returns the raw articles in response order.
func (n *NewsAPI) Query(ctx context.Context, d query.Description) ([]article.Raw, error) {
	if n.apiKey == "" {
		return nil, ErrMissingKey
	}

	if err := n.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.URL(d), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Api-Key", n.apiKey)
	req.Header.Set("User-Agent", "news-today/1.0")

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("newsapi request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var parsed newsAPIResponse
	decodeErr := json.Unmarshal(body, &parsed)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := parsed.Message
		if decodeErr != nil || msg == "" {
			msg = "NewsAPI request failed"
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("parse response: %w", decodeErr)
	}
	if parsed.Articles == nil {
		return []article.Raw{}, nil
	}
	return parsed.Articles, nil
}
