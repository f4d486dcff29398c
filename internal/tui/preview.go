package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gideonabe/news-today/internal/article"
)

func renderPreview(a *article.Article, width, height, scroll int) string {
	if a == nil {
		return lipglossCenter("Select an article", width, height)
	}

	contentWidth := width - 2
	if contentWidth < 10 {
		contentWidth = 10
	}

	title := previewTitleStyle.Width(contentWidth).Render(a.Title)
	source := previewSourceStyle.Render(byline(*a))
	body := previewBodyStyle.Width(contentWidth).Render(wrapText(a.Summary, contentWidth))
	link := previewLinkStyle.Width(contentWidth).Render("enter read · o open " + a.Host())

	content := lipgloss.JoinVertical(lipgloss.Left, title, source, "", body, "", link)
	return clip(content, height, scroll)
}

// byline is "author · source · date", skipping what is missing.
func byline(a article.Article) string {
	parts := []string{"By " + a.Author}
	if a.SourceName != "" {
		parts = append(parts, a.SourceName)
	}
	if d := publishedDate(a.PublishedAt); d != "" {
		parts = append(parts, d)
	}
	return strings.Join(parts, " · ")
}

// clip applies a scroll offset and pads or cuts content to height lines.
func clip(content string, height, scroll int) string {
	lines := strings.Split(content, "\n")
	if scroll > 0 && scroll < len(lines) {
		lines = lines[scroll:]
	}

	if len(lines) < height {
		lines = append(lines, make([]string, height-len(lines))...)
	} else if len(lines) > height {
		lines = lines[:height]
	}

	return strings.Join(lines, "\n")
}

func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len([]rune(line))+1+len([]rune(w)) > width {
			lines = append(lines, line)
			line = w
		} else {
			line += " " + w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

func numbered(n int, title string, width int) string {
	return relatedKeyStyle.Render(fmt.Sprintf("[%d]", n)) + " " + truncateStr(title, width-4)
}
