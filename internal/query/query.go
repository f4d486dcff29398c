// Package query maps a category or search selection onto a single upstream
// query description. Everything here is pure: no I/O, no clocks.
package query

import (
	"net/url"
	"strconv"
	"strings"
)

// Category is a filter-bar category. Values outside the known set are kept
// as-is and route to the general headlines.
type Category string

const (
	CategoryNone       Category = ""
	CategoryAll        Category = "all"
	CategoryTopStories Category = "top stories"
	CategoryWorld      Category = "world"
	CategoryPolitics   Category = "politics"
	CategoryBusiness   Category = "business"
	CategoryTech       Category = "tech"
)

// Categories lists the filter-bar categories in display order.
var Categories = []Category{
	CategoryAll,
	CategoryTopStories,
	CategoryWorld,
	CategoryPolitics,
	CategoryBusiness,
	CategoryTech,
}

// ParseCategory normalizes a category as it appears in a URL or on the wire.
func ParseCategory(s string) Category {
	return Category(strings.ToLower(strings.TrimSpace(s)))
}

// Known reports whether c is one of the filter-bar categories.
func (c Category) Known() bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

// Label is the display form: "All", "Top stories", "Tech".
func (c Category) Label() string {
	if c == CategoryNone {
		return ""
	}
	s := string(c)
	return strings.ToUpper(s[:1]) + s[1:]
}

// Mode says which half of a Selection is authoritative.
type Mode int

const (
	ModeCategory Mode = iota
	ModeSearch
)

func (m Mode) String() string {
	if m == ModeSearch {
		return "search"
	}
	return "category"
}

// Selection is the live filter state shared by the filter bar, the search
// bar and the list. Exactly one of Category / DebouncedQuery drives a fetch.
type Selection struct {
	Mode           Mode
	Category       Category
	RawQuery       string
	DebouncedQuery string
}

// ForCategory returns a category-mode selection.
func ForCategory(c Category) Selection {
	return Selection{Mode: ModeCategory, Category: c}
}

// ForSearch returns a search-mode selection with the term already committed.
func ForSearch(term string) Selection {
	term = strings.TrimSpace(term)
	return Selection{Mode: ModeSearch, RawQuery: term, DebouncedQuery: term}
}

// FromParams builds the selection a /news request describes. A non-blank
// search term wins over the category.
func FromParams(category, search string) Selection {
	if strings.TrimSpace(search) != "" {
		return ForSearch(search)
	}
	return ForCategory(ParseCategory(category))
}

// Effective returns the selection reduced to the fields that drive a fetch.
// Two selections with equal Effective values issue the same query.
func (s Selection) Effective() Selection {
	if s.DebouncedQuery != "" {
		return Selection{Mode: ModeSearch, DebouncedQuery: s.DebouncedQuery}
	}
	return Selection{Mode: ModeCategory, Category: s.Category}
}

// Key is a compact string form of the effective query, used for logging and
// for tagging fetches.
func (s Selection) Key() string {
	e := s.Effective()
	if e.Mode == ModeSearch {
		return "search:" + e.DebouncedQuery
	}
	return "category:" + string(e.Category)
}

// Params returns the /news query parameters for the effective query.
func (s Selection) Params() url.Values {
	v := url.Values{}
	e := s.Effective()
	if e.Mode == ModeSearch {
		v.Set("search", e.DebouncedQuery)
	} else {
		v.Set("category", string(e.Category))
	}
	return v
}

// Kind is the upstream query kind.
type Kind int

const (
	KindSearch Kind = iota
	KindTopHeadlines
	KindEverything
)

func (k Kind) String() string {
	switch k {
	case KindSearch:
		return "search"
	case KindTopHeadlines:
		return "top-headlines"
	case KindEverything:
		return "everything"
	}
	return "unknown"
}

// Description is a single upstream query.
type Description struct {
	Kind     Kind
	Keyword  string
	Topic    string
	Country  string
	Language string
	PageSize int
}

// Endpoint is the upstream endpoint name. Search shares the everything
// endpoint; it only differs in where the keyword came from.
func (d Description) Endpoint() string {
	if d.Kind == KindTopHeadlines {
		return "top-headlines"
	}
	return "everything"
}

// Values renders the description as upstream query parameters.
func (d Description) Values() url.Values {
	v := url.Values{}
	if d.Keyword != "" {
		v.Set("q", d.Keyword)
	}
	if d.Language != "" {
		v.Set("language", d.Language)
	}
	if d.Country != "" {
		v.Set("country", d.Country)
	}
	if d.Topic != "" {
		v.Set("category", d.Topic)
	}
	v.Set("pageSize", strconv.Itoa(d.PageSize))
	return v
}
