package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/gideonabe/news-today/internal/query"
)

// filterBar is the category row. It holds only the cursor; which category is
// active is read from the shared selection on every render.
type filterBar struct {
	filterMode   bool
	filterCursor int
}

// focus puts the cursor on the active category, or the first one.
func (f *filterBar) focus(sel query.Selection) {
	f.filterMode = true
	f.filterCursor = 0
	for i, c := range query.Categories {
		if sel.Mode == query.ModeCategory && c == sel.Category {
			f.filterCursor = i
		}
	}
}

func (f *filterBar) left() {
	if f.filterCursor > 0 {
		f.filterCursor--
	}
}

func (f *filterBar) right() {
	if f.filterCursor < len(query.Categories)-1 {
		f.filterCursor++
	}
}

func (f *filterBar) current() query.Category {
	return query.Categories[f.filterCursor]
}

// activeLabel names what the list is showing.
func activeLabel(sel query.Selection) string {
	e := sel.Effective()
	if e.Mode == query.ModeSearch {
		return "Search: " + e.DebouncedQuery
	}
	if e.Category == query.CategoryNone {
		return "General"
	}
	return e.Category.Label()
}

func (f *filterBar) render(sel query.Selection, width int) string {
	sep := tabSeparatorStyle.Render(" · ")
	var parts []string

	for i, c := range query.Categories {
		style := tabInactiveStyle
		if sel.Mode == query.ModeCategory && sel.Category == c {
			style = tabActiveStyle
		}
		label := c.Label()
		if f.filterMode && i == f.filterCursor {
			label = "[" + label + "]"
		}
		parts = append(parts, style.Render(label))
	}
	if sel.Mode == query.ModeSearch && sel.DebouncedQuery != "" {
		parts = append(parts, tabActiveStyle.Render("/ "+sel.DebouncedQuery))
	}

	// Build row with · separators, stopping when we'd exceed width
	var row string
	for i, part := range parts {
		candidate := row
		if i > 0 {
			candidate += sep
		}
		candidate += part
		if lipgloss.Width(candidate) > width && row != "" {
			break
		}
		row = candidate
	}

	barStyle := lipgloss.NewStyle().
		Background(colorTabBg).
		Width(width).
		PaddingLeft(1)
	return barStyle.Render(row)
}
