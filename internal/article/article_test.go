package article

import "testing"

func TestEncodeMatchesURIComponent(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"https://example.com/a", "https%3A%2F%2Fexample.com%2Fa"},
		{"https://example.com/news?id=1&lang=en", "https%3A%2F%2Fexample.com%2Fnews%3Fid%3D1%26lang%3Den"},
		{"a b+c", "a%20b%2Bc"},
		{"keep-_.!~*'()", "keep-_.!~*'()"},
		{"café", "caf%C3%A9"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Encode(tt.input); got != tt.want {
			t.Errorf("Encode(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	urls := []string{
		"https://example.com/2024/01/story.html",
		"https://example.com/news?id=42&ref=home#top",
		"https://example.com/path with spaces/ü?q=a+b",
		"https://example.com/~user/(draft)/it's",
		"https://news.example.org/a;b,c/@d$e",
	}
	for _, u := range urls {
		got, err := Decode(Encode(u))
		if err != nil {
			t.Fatalf("Decode(Encode(%q)): %v", u, err)
		}
		if got != u {
			t.Errorf("round trip of %q = %q", u, got)
		}

		decoded, err := Decode(u)
		if err != nil {
			t.Fatalf("Decode(%q): %v", u, err)
		}
		if Encode(decoded) != Encode(u) {
			t.Errorf("Encode(Decode(%q)) = %q, want %q", u, Encode(decoded), Encode(u))
		}
	}
}

func TestDecodeKeepsPlus(t *testing.T) {
	got, err := Decode("a+b%20c")
	if err != nil {
		t.Fatal(err)
	}
	if got != "a+b c" {
		t.Errorf("Decode = %q, want %q", got, "a+b c")
	}
}

func TestDecodeMalformed(t *testing.T) {
	if _, err := Decode("100%zz"); err == nil {
		t.Error("expected error for malformed escape")
	}
}

func TestNormalizeFallbacks(t *testing.T) {
	a := Normalize(Raw{URL: StringPtr("https://example.com/x")})

	if a.Identifier != "https%3A%2F%2Fexample.com%2Fx" {
		t.Errorf("unexpected identifier %q", a.Identifier)
	}
	if a.Summary != NoSummary {
		t.Errorf("Summary = %q, want fallback", a.Summary)
	}
	if a.ImageURL != PlaceholderImage {
		t.Errorf("ImageURL = %q, want fallback", a.ImageURL)
	}
	if a.Author != UnknownAuthor {
		t.Errorf("Author = %q, want fallback", a.Author)
	}
	if a.Content != nil {
		t.Errorf("Content = %q, want nil", *a.Content)
	}
}

func TestNormalizeCopiesFields(t *testing.T) {
	r := Raw{
		Source:      &RawSource{Name: StringPtr("Example Times")},
		Author:      StringPtr("Jane Roe"),
		Title:       StringPtr("Headline"),
		Description: StringPtr("Short description"),
		URL:         StringPtr("https://example.com/h"),
		URLToImage:  StringPtr("https://example.com/h.jpg"),
		PublishedAt: StringPtr("2025-03-01T10:00:00Z"),
		Content:     StringPtr("Body text"),
	}
	a := Normalize(r)
	if a.Title != "Headline" || a.Summary != "Short description" || a.Author != "Jane Roe" {
		t.Errorf("unexpected article: %+v", a)
	}
	if a.ImageURL != "https://example.com/h.jpg" || a.PublishedAt != "2025-03-01T10:00:00Z" {
		t.Errorf("unexpected article: %+v", a)
	}
	if a.Content == nil || *a.Content != "Body text" {
		t.Errorf("unexpected content: %v", a.Content)
	}
	if a.SourceName != "Example Times" {
		t.Errorf("SourceName = %q", a.SourceName)
	}
}

func TestNormalizeAllDropsRecordsWithoutURL(t *testing.T) {
	raws := []Raw{
		{URL: StringPtr("https://example.com/1"), Title: StringPtr("one")},
		{Title: StringPtr("no url")},
		{URL: StringPtr("   "), Title: StringPtr("blank url")},
		{URL: StringPtr("https://example.com/2"), Title: StringPtr("two")},
	}
	got, dropped := NormalizeAll(raws)
	if dropped != 2 {
		t.Errorf("dropped = %d, want 2", dropped)
	}
	if len(got) != 2 || got[0].Title != "one" || got[1].Title != "two" {
		t.Errorf("unexpected articles: %+v", got)
	}
}

func TestNormalizeAllEmpty(t *testing.T) {
	got, dropped := NormalizeAll(nil)
	if got == nil || len(got) != 0 || dropped != 0 {
		t.Errorf("NormalizeAll(nil) = %v, %d", got, dropped)
	}
}

func TestBodyFallsBackToSummary(t *testing.T) {
	a := Article{Summary: "Summary <b>text</b>"}
	if got := a.Body(); got != "Summary text" {
		t.Errorf("Body() = %q", got)
	}
	a.Content = StringPtr("Real content [+1200 chars]")
	if got := a.Body(); got != "Real content" {
		t.Errorf("Body() = %q", got)
	}
}

func TestHost(t *testing.T) {
	a := Article{SourceURL: "https://www.example.com:8443/a/b"}
	if got := a.Host(); got != "www.example.com" {
		t.Errorf("Host() = %q", got)
	}
	a.SourceURL = "not a url"
	if got := a.Host(); got != "not a url" {
		t.Errorf("Host() = %q", got)
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"<p>Hello</p>", "Hello"},
		{"<b>Bold</b> and <i>italic</i>", "Bold and italic"},
		{"<p>One</p><p>Two</p>", "One Two"},
		{"No tags here", "No tags here"},
		{"Some text… [+2345 chars]", "Some text…"},
		{"Story body. Read more at example.com", "Story body."},
		{"  lots   of\n\nspace ", "lots of space"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CleanText(tt.input); got != tt.want {
			t.Errorf("CleanText(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
