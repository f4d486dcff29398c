package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/gideonabe/news-today/internal/state"
)

func renderStatusBar(status state.Status, articleCount int, label string, err error, width int, hints string) string {
	var left string
	switch status {
	case state.StatusLoading:
		left = "loading · " + label
	case state.StatusEmpty:
		left = "no articles · " + label
	case state.StatusError:
		left = errorStyle.Render("couldn't load news") + " · r retry"
		if err != nil {
			left += " · " + truncateStr(err.Error(), width/2)
		}
	default:
		left = fmt.Sprintf("%d articles · %s", articleCount, label)
	}

	right := " " + hints + " "

	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 0 {
		gap = 0
	}

	bar := left + fmt.Sprintf("%*s", gap, "") + right

	return statusBarStyle.Width(width).Render(bar)
}
