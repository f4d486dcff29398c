package article

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	// NewsAPI truncates content and appends "[+1234 chars]".
	truncMarkerRe = regexp.MustCompile(`(?i)\[\+\d+\s*chars\]`)
	readMoreRe    = regexp.MustCompile(`(?is)(Read more|Click here|Continue reading).*$`)
)

// CleanText turns upstream content into plain display text: markup is
// dropped, truncation markers and "read more" tails are cut, whitespace is
// collapsed.
func CleanText(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	if strings.ContainsAny(s, "<>") {
		s = htmlText(s)
	}
	s = truncMarkerRe.ReplaceAllString(s, "")
	s = readMoreRe.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

func htmlText(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	doc.Find("script, style").Remove()

	// Collect text nodes one by one so adjacent elements keep a word boundary.
	var parts []string
	var walk func(*goquery.Selection)
	walk = func(sel *goquery.Selection) {
		sel.Contents().Each(func(_ int, c *goquery.Selection) {
			if goquery.NodeName(c) == "#text" {
				parts = append(parts, c.Text())
				return
			}
			walk(c)
		})
	}
	walk(doc.Find("body"))
	return strings.Join(parts, " ")
}
