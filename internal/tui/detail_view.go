package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/gideonabe/news-today/internal/query"
	"github.com/gideonabe/news-today/internal/resolve"
)

func renderDetail(res resolve.Result, sel query.Selection, width, height, scroll int) string {
	contentWidth := width - 2
	if contentWidth < 10 {
		contentWidth = 10
	}
	a := res.Article

	lines := []string{
		breadcrumbStyle.Render("News / " + activeLabel(sel)),
		"",
		previewTitleStyle.Width(contentWidth).Render(a.Title),
		previewSourceStyle.Render(byline(a)),
		previewBodyStyle.Width(contentWidth).Render(wrapText(a.Body(), contentWidth)),
		"",
		previewLinkStyle.Width(contentWidth).Render("Read the full article on " + a.Host() + " (o)"),
		itemTimeStyle.Render(truncateStr(a.SourceURL, contentWidth)),
	}

	if len(res.Related) > 0 {
		lines = append(lines, "", relatedHeadingStyle.Render("Related"))
		for i, r := range res.Related {
			lines = append(lines, numbered(i+1, r.Title, contentWidth))
		}
	}

	return clip(lipgloss.JoinVertical(lipgloss.Left, lines...), height, scroll)
}

func renderNotFound(width, height int) string {
	card := lipgloss.JoinVertical(lipgloss.Center,
		relatedHeadingStyle.Render("Article not found"),
		"",
		helpDimStyle.Render("It may have dropped out of the latest results."),
		"",
		helpDimStyle.Render("esc back to the news"),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func renderDetailError(err error, width, height int) string {
	card := lipgloss.JoinVertical(lipgloss.Center,
		errorStyle.Render("Couldn't load the article"),
		"",
		helpDimStyle.Render(truncateStr(err.Error(), width-8)),
		"",
		helpDimStyle.Render("r retry · esc back"),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
