package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"

	"github.com/gideonabe/news-today/internal/article"
	"github.com/gideonabe/news-today/internal/query"
)

const defaultRSSBase = "https://news.google.com"

// rssTopics maps upstream topics onto Google News section names. "general"
// has no section; it reads the top feed.
var rssTopics = map[string]string{
	"business":   "BUSINESS",
	"technology": "TECHNOLOGY",
}

// RSS serves descriptions from Google News RSS feeds. It needs no key.
type RSS struct {
	baseURL string
	parser  *gofeed.Parser
	limiter *rate.Limiter
}

// NewRSS creates a feed reader paced like NewNewsAPI.
func NewRSS(opts Options) *RSS {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = defaultRSSBase
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	p := gofeed.NewParser()
	p.Client = &http.Client{Timeout: timeout}
	p.UserAgent = "news-today/1.0"
	return &RSS{baseURL: base, parser: p, limiter: newLimiter(opts.Interval)}
}

// URL maps d onto a feed URL.
func (r *RSS) URL(d query.Description) string {
	locale := url.Values{}
	locale.Set("hl", "en-US")
	locale.Set("gl", strings.ToUpper(query.Country))
	locale.Set("ceid", strings.ToUpper(query.Country)+":"+query.Language)

	switch {
	case d.Kind != query.KindTopHeadlines:
		v := url.Values{}
		v.Set("q", d.Keyword)
		for k, vals := range locale {
			v[k] = vals
		}
		return r.baseURL + "/rss/search?" + v.Encode()
	case rssTopics[d.Topic] != "":
		return r.baseURL + "/rss/headlines/section/topic/" + rssTopics[d.Topic] + "?" + locale.Encode()
	default:
		return r.baseURL + "/rss?" + locale.Encode()
	}
}

// Query fetches the feed for d and converts at most d.PageSize items.
func (r *RSS) Query(ctx context.Context, d query.Description) ([]article.Raw, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	feed, err := r.parser.ParseURLWithContext(r.URL(d), ctx)
	if err != nil {
		var httpErr gofeed.HTTPError
		if errors.As(err, &httpErr) {
			return nil, &StatusError{StatusCode: httpErr.StatusCode, Message: httpErr.Status}
		}
		return nil, fmt.Errorf("fetching feed: %w", err)
	}

	items := feed.Items
	if d.PageSize > 0 && len(items) > d.PageSize {
		items = items[:d.PageSize]
	}
	out := make([]article.Raw, 0, len(items))
	for _, item := range items {
		out = append(out, rawFromItem(item, feed.Title))
	}
	return out, nil
}

func rawFromItem(item *gofeed.Item, feedTitle string) article.Raw {
	r := article.Raw{
		Title:       nonEmpty(item.Title),
		URL:         nonEmpty(item.Link),
		Description: nonEmpty(item.Description),
		Content:     nonEmpty(item.Content),
	}
	if item.Author != nil {
		r.Author = nonEmpty(item.Author.Name)
	}
	if item.Image != nil {
		r.URLToImage = nonEmpty(item.Image.URL)
	} else {
		for _, enc := range item.Enclosures {
			if strings.HasPrefix(enc.Type, "image/") {
				r.URLToImage = nonEmpty(enc.URL)
				break
			}
		}
	}
	switch {
	case item.PublishedParsed != nil:
		r.PublishedAt = nonEmpty(item.PublishedParsed.UTC().Format(time.RFC3339))
	case item.UpdatedParsed != nil:
		r.PublishedAt = nonEmpty(item.UpdatedParsed.UTC().Format(time.RFC3339))
	}
	if feedTitle != "" {
		r.Source = &article.RawSource{Name: nonEmpty(feedTitle)}
	}
	return r
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return article.StringPtr(s)
}
