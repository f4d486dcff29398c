package resolve

import (
	"context"
	"errors"
	"testing"

	"github.com/gideonabe/news-today/internal/article"
	"github.com/gideonabe/news-today/internal/feed"
	"github.com/gideonabe/news-today/internal/query"
)

func fixtures(urls ...string) []article.Article {
	out := make([]article.Article, 0, len(urls))
	for _, u := range urls {
		out = append(out, article.Normalize(article.Raw{URL: article.StringPtr(u), Title: article.StringPtr("title " + u)}))
	}
	return out
}

var fiveURLs = []string{
	"https://a.example/one",
	"https://b.example/two?x=1",
	"https://c.example/three",
	"https://d.example/four",
	"https://e.example/five",
}

func TestMatchEncodedAndDecodedAgree(t *testing.T) {
	urls := append([]string{
		"https://x.example/a%20b",
		"https://x.example/100%",
	}, fiveURLs...)
	articles := fixtures(urls...)

	for _, target := range []string{fiveURLs[1], urls[0], urls[1]} {
		byID, err := Match(articles, article.Encode(target))
		if err != nil {
			t.Errorf("Match(encoded %s): %v", target, err)
			continue
		}
		byURL, err := Match(articles, target)
		if err != nil {
			t.Errorf("Match(decoded %s): %v", target, err)
			continue
		}
		if byID.Article.SourceURL != target || byURL.Article.SourceURL != target {
			t.Errorf("got %s and %s, want %s", byID.Article.SourceURL, byURL.Article.SourceURL, target)
		}
	}
}

func TestMatchPrefersDecodedOverAsIs(t *testing.T) {
	// "a%20b" decodes to "a b"; when both exist the decoded form wins.
	articles := fixtures("https://x.example/a%20b", "https://x.example/a b")
	res, err := Match(articles, "https://x.example/a%20b")
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if res.Article.SourceURL != "https://x.example/a b" {
		t.Errorf("Article = %s", res.Article.SourceURL)
	}
}

func TestMatchRelatedAreFirstTwoOthers(t *testing.T) {
	articles := fixtures(fiveURLs...)

	res, err := Match(articles, article.Encode(fiveURLs[2]))
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if len(res.Related) != 2 {
		t.Fatalf("len(Related) = %d, want 2", len(res.Related))
	}
	if res.Related[0].SourceURL != fiveURLs[0] || res.Related[1].SourceURL != fiveURLs[1] {
		t.Errorf("Related = %s, %s", res.Related[0].SourceURL, res.Related[1].SourceURL)
	}

	res, err = Match(articles, article.Encode(fiveURLs[0]))
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if res.Related[0].SourceURL != fiveURLs[1] || res.Related[1].SourceURL != fiveURLs[2] {
		t.Errorf("Related = %s, %s", res.Related[0].SourceURL, res.Related[1].SourceURL)
	}
}

func TestMatchFewRelated(t *testing.T) {
	res, err := Match(fixtures("https://only.example/"), article.Encode("https://only.example/"))
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if len(res.Related) != 0 {
		t.Errorf("Related = %v, want none", res.Related)
	}
}

func TestMatchNotFound(t *testing.T) {
	articles := fixtures(fiveURLs...)
	for _, id := range []string{
		article.Encode("https://nowhere.example/"),
		"%E0%A4%A", // does not decode
		"",
	} {
		if _, err := Match(articles, id); !errors.Is(err, ErrNotFound) {
			t.Errorf("Match(%q) err = %v, want ErrNotFound", id, err)
		}
	}
}

type fakeSource struct {
	raws []article.Raw
	err  error
	got  query.Selection
}

func (f *fakeSource) Fetch(_ context.Context, sel query.Selection) ([]article.Raw, error) {
	f.got = sel
	return f.raws, f.err
}

func TestResolverUsesCarriedContext(t *testing.T) {
	src := &fakeSource{raws: []article.Raw{
		{URL: article.StringPtr(fiveURLs[0])},
		{URL: article.StringPtr(fiveURLs[1])},
	}}
	r := New(src)

	res, err := r.Resolve(context.Background(), article.Encode(fiveURLs[1]), query.ForSearch("rust"))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Article.SourceURL != fiveURLs[1] {
		t.Errorf("Article = %s", res.Article.SourceURL)
	}
	if src.got != query.ForSearch("rust").Effective() {
		t.Errorf("fetched %+v, want the search context", src.got)
	}
}

func TestResolverFetchFailureIsNotNotFound(t *testing.T) {
	src := &fakeSource{err: &feed.StatusError{StatusCode: 502, Message: "bad gateway"}}
	_, err := New(src).Resolve(context.Background(), "x", query.ForCategory(query.CategoryTech))
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("fetch failure must not read as not found")
	}
	if !errors.Is(err, feed.ErrUpstreamUnavailable) {
		t.Errorf("err = %v, want ErrUpstreamUnavailable", err)
	}
}
