// Package resolve finds the article a detail location points at.
package resolve

import (
	"context"
	"errors"
	"fmt"

	"github.com/gideonabe/news-today/internal/article"
	"github.com/gideonabe/news-today/internal/feed"
	"github.com/gideonabe/news-today/internal/query"
)

// RelatedCount is how many other articles accompany a match.
const RelatedCount = 2

var ErrNotFound = errors.New("article not found")

// Result is a matched article plus the first others from the same response.
type Result struct {
	Article article.Article
	Related []article.Article
}

// Match looks id up in articles. The exact identifier is tried first, then
// the decoded identifier against each source URL, then id itself as a source
// URL. The last pass catches links built from an already-decoded URL that
// contains a '%'.
func Match(articles []article.Article, id string) (Result, error) {
	idx := indexOf(articles, func(a article.Article) bool { return a.Identifier == id })
	if idx < 0 {
		if decoded, err := article.Decode(id); err == nil {
			idx = indexOf(articles, func(a article.Article) bool { return a.SourceURL == decoded })
		}
	}
	if idx < 0 && id != "" {
		idx = indexOf(articles, func(a article.Article) bool { return a.SourceURL == id })
	}
	if idx < 0 {
		return Result{}, ErrNotFound
	}

	match := articles[idx]
	res := Result{Article: match}
	for _, a := range articles {
		if len(res.Related) == RelatedCount {
			break
		}
		if a.SourceURL != match.SourceURL {
			res.Related = append(res.Related, a)
		}
	}
	return res, nil
}

func indexOf(articles []article.Article, match func(article.Article) bool) int {
	for i, a := range articles {
		if match(a) {
			return i
		}
	}
	return -1
}

// Resolver re-runs the list query a detail location carries and matches the
// identifier against it.
type Resolver struct {
	source feed.Source
}

func New(src feed.Source) *Resolver {
	return &Resolver{source: src}
}

// Resolve fetches sel and matches id. Fetch failures come back wrapped and
// are never ErrNotFound.
func (r *Resolver) Resolve(ctx context.Context, id string, sel query.Selection) (Result, error) {
	raws, err := r.source.Fetch(ctx, sel.Effective())
	if err != nil {
		return Result{}, fmt.Errorf("resolving %s: %w", sel.Key(), err)
	}
	articles, _ := article.NormalizeAll(raws)
	return Match(articles, id)
}
