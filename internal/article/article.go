// Package article holds the canonical Article value and the normalizer that
// turns loosely-shaped upstream records into it.
package article

import (
	"net/url"
	"strings"
)

// Fallbacks used when the upstream omits a field.
const (
	NoSummary        = "No summary available."
	PlaceholderImage = "https://via.placeholder.com/600x400"
	UnknownAuthor    = "Unknown"
)

// Article is one entry of a query response. It only lives for a single
// response cycle; Identifier is unique within that response and nowhere else.
type Article struct {
	Identifier  string  `json:"id"`
	Title       string  `json:"title"`
	Summary     string  `json:"summary"`
	Content     *string `json:"content"`
	ImageURL    string  `json:"image"`
	Author      string  `json:"author"`
	PublishedAt string  `json:"publishedAt"`
	SourceURL   string  `json:"url"`
	SourceName  string  `json:"source,omitempty"`
}

// Body is the cleaned article text, falling back to the summary.
func (a Article) Body() string {
	if a.Content != nil {
		if s := CleanText(*a.Content); s != "" {
			return s
		}
	}
	return CleanText(a.Summary)
}

// Host is the hostname of the source URL, or the raw URL when it does not
// parse.
func (a Article) Host() string {
	u, err := url.Parse(a.SourceURL)
	if err != nil || u.Host == "" {
		return a.SourceURL
	}
	return u.Hostname()
}

// RawSource is the upstream publisher reference.
type RawSource struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`
}

// Raw is an upstream record as delivered by the aggregator. Every field is
// optional.
type Raw struct {
	Source      *RawSource `json:"source,omitempty"`
	Author      *string    `json:"author"`
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	URL         *string    `json:"url"`
	URLToImage  *string    `json:"urlToImage"`
	PublishedAt *string    `json:"publishedAt"`
	Content     *string    `json:"content"`
}

// Valid reports whether the record can be addressed later, i.e. has a URL.
func (r Raw) Valid() bool {
	return strings.TrimSpace(deref(r.URL)) != ""
}

// Normalize maps a valid record onto an Article, filling every optional
// field with its fallback. Callers drop invalid records first.
func Normalize(r Raw) Article {
	sourceURL := deref(r.URL)
	a := Article{
		Identifier:  Encode(sourceURL),
		Title:       deref(r.Title),
		Summary:     orDefault(r.Description, NoSummary),
		ImageURL:    orDefault(r.URLToImage, PlaceholderImage),
		Author:      orDefault(r.Author, UnknownAuthor),
		PublishedAt: deref(r.PublishedAt),
		SourceURL:   sourceURL,
	}
	if r.Content != nil && *r.Content != "" {
		c := *r.Content
		a.Content = &c
	}
	if r.Source != nil {
		a.SourceName = deref(r.Source.Name)
	}
	return a
}

// NormalizeAll normalizes a response in order, dropping records without a
// URL. It returns the number of dropped records.
func NormalizeAll(raws []Raw) ([]Article, int) {
	out := make([]Article, 0, len(raws))
	dropped := 0
	for _, r := range raws {
		if !r.Valid() {
			dropped++
			continue
		}
		out = append(out, Normalize(r))
	}
	return out, dropped
}

// StringPtr is a convenience for building Raw records.
func StringPtr(s string) *string {
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func orDefault(s *string, def string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return def
	}
	return *s
}
