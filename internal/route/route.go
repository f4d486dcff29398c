// Package route formats and parses the reader's locations. They have the
// same shape as the web routes:
//
//	/?category=tech
//	/?search=climate
//	/article/{identifier}?category=tech
//	/article/{identifier}?search=climate
package route

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gideonabe/news-today/internal/query"
)

const articlePrefix = "/article/"

type Page int

const (
	PageHome Page = iota
	PageArticle
)

// Location is a parsed reader location.
type Location struct {
	Page Page
	// Identifier is the article segment exactly as it appeared; it is not
	// decoded here.
	Identifier string
	Values     url.Values
}

// Selection derives the query context carried by the location. A non-blank
// search wins; the category defaults to "all".
func (l Location) Selection() query.Selection {
	if s := strings.TrimSpace(l.Values.Get("search")); s != "" {
		return query.ForSearch(s)
	}
	c := query.ParseCategory(l.Values.Get("category"))
	if c == query.CategoryNone {
		c = query.CategoryAll
	}
	return query.ForCategory(c)
}

func (l Location) String() string {
	path := "/"
	if l.Page == PageArticle {
		path = articlePrefix + l.Identifier
	}
	if len(l.Values) == 0 {
		return path
	}
	return path + "?" + l.Values.Encode()
}

// Home is the list location for sel.
func Home(sel query.Selection) Location {
	return Location{Page: PageHome, Values: sel.Params()}
}

// Article is the detail location for id, carrying sel's context so the
// article can be found again.
func Article(id string, sel query.Selection) Location {
	return Location{Page: PageArticle, Identifier: id, Values: sel.Params()}
}

// Parse reads a location string. Full URLs are accepted; only path and
// query are used.
func Parse(s string) (Location, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Location{Page: PageHome, Values: url.Values{}}, nil
	}
	if i := strings.Index(s, "://"); i >= 0 && !strings.HasPrefix(s, "/") {
		rest := s[i+3:]
		j := strings.IndexAny(rest, "/?")
		if j < 0 {
			return Location{Page: PageHome, Values: url.Values{}}, nil
		}
		s = rest[j:]
	}

	path, rawQuery, _ := strings.Cut(s, "?")
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return Location{}, fmt.Errorf("parsing location query: %w", err)
	}

	switch {
	case path == "" || path == "/":
		return Location{Page: PageHome, Values: values}, nil
	case strings.HasPrefix(path, articlePrefix):
		id := strings.TrimPrefix(path, articlePrefix)
		if id == "" {
			return Location{}, fmt.Errorf("location %q: missing article identifier", s)
		}
		return Location{Page: PageArticle, Identifier: id, Values: values}, nil
	}
	return Location{}, fmt.Errorf("unknown location %q", s)
}
