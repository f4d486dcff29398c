package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/gideonabe/news-today/internal/article"
)

func TestTruncateStr(t *testing.T) {
	tests := []struct {
		input string
		n     int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc"},
		{"", 5, ""},
		{"test", 0, ""},
	}
	for _, tt := range tests {
		got := truncateStr(tt.input, tt.n)
		if got != tt.want {
			t.Errorf("truncateStr(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.want)
		}
	}
}

func TestTruncateStrUTF8(t *testing.T) {
	got := truncateStr("日本語テスト", 5)
	want := "日本..."
	if got != want {
		t.Errorf("truncateStr(Japanese, 5) = %q, want %q", got, want)
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Now()

	tests := []struct {
		t    time.Time
		want string
	}{
		{now.Add(-30 * time.Second), "just now"},
		{now.Add(-5 * time.Minute), "5m"},
		{now.Add(-3 * time.Hour), "3h"},
		{now.Add(-2 * 24 * time.Hour), "2d"},
	}
	for _, tt := range tests {
		got := relativeTime(tt.t)
		if got != tt.want {
			t.Errorf("relativeTime(%v ago) = %q, want %q", now.Sub(tt.t), got, tt.want)
		}
	}
}

func TestPublishedFormats(t *testing.T) {
	if got := publishedDate("2025-06-15T08:30:00Z"); got != "Jun 15, 2025" {
		t.Errorf("publishedDate = %q", got)
	}
	if got := publishedAgo("2025-06-15T08:30:00Z"); got != "Jun 15" {
		t.Errorf("publishedAgo = %q", got)
	}
	// Unparseable timestamps pass through untouched.
	if got := publishedAgo("yesterday"); got != "yesterday" {
		t.Errorf("publishedAgo = %q", got)
	}
	if got := publishedDate(""); got != "" {
		t.Errorf("publishedDate(\"\") = %q", got)
	}
}

func TestRenderListPlaceholder(t *testing.T) {
	got := renderList(nil, 0, 9, 40, "No articles found")
	if !strings.Contains(got, "No articles found") {
		t.Errorf("expected placeholder, got %q", got)
	}
}

func TestByline(t *testing.T) {
	a := article.Normalize(article.Raw{URL: article.StringPtr("https://x.example/a")})
	if got := byline(a); got != "By Unknown" {
		t.Errorf("byline = %q", got)
	}
	a.SourceName = "Reuters"
	a.PublishedAt = "2025-06-15T08:30:00Z"
	if got := byline(a); got != "By Unknown · Reuters · Jun 15, 2025" {
		t.Errorf("byline = %q", got)
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("one two three four", 9)
	if got != "one two\nthree\nfour" {
		t.Errorf("wrapText = %q", got)
	}
}
