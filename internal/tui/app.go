package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gideonabe/news-today/internal/article"
	"github.com/gideonabe/news-today/internal/browser"
	"github.com/gideonabe/news-today/internal/feed"
	"github.com/gideonabe/news-today/internal/logging"
	"github.com/gideonabe/news-today/internal/orchestrator"
	"github.com/gideonabe/news-today/internal/query"
	"github.com/gideonabe/news-today/internal/resolve"
	"github.com/gideonabe/news-today/internal/route"
	"github.com/gideonabe/news-today/internal/state"
)

type focusPane int

const (
	focusList focusPane = iota
	focusPreview
)

type mode int

const (
	modeNormal mode = iota
	modeSearch
	modeFilter
	modeHelp
)

// Recorder receives every location the reader visits.
type Recorder interface {
	RecordVisit(location string) error
}

type detailState struct {
	loading  bool
	result   *resolve.Result
	notFound bool
	err      error
	scroll   int
}

type App struct {
	orch     *orchestrator.Orchestrator
	machine  *state.Machine
	history  *route.History
	recorder Recorder
	openURL  func(string) error

	cursor int
	focus  focusPane
	mode   mode

	width  int
	height int

	// Sub-components
	searchInput textinput.Model
	spinner     spinner.Model
	filterBar   filterBar

	previewScroll int
	detail        detailState
	currentDate   string
	err           error
}

// RunOpts holds all parameters for launching the TUI.
type RunOpts struct {
	Source   feed.Source
	Debounce time.Duration
	Start    route.Location
	Recorder Recorder
}

func NewApp(opts RunOpts) *App {
	ti := textinput.New()
	ti.Placeholder = "Search news..."
	ti.Prompt = searchPromptStyle.Render("/ ")
	ti.CharLimit = 100

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	machine := state.New()
	start := opts.Start
	if start.Values == nil {
		start = route.Home(machine.Selection())
	}

	return &App{
		orch:        orchestrator.New(machine, opts.Source, opts.Debounce),
		machine:     machine,
		history:     route.NewHistory(start),
		recorder:    opts.Recorder,
		openURL:     browser.Open,
		searchInput: ti,
		spinner:     sp,
		currentDate: time.Now().Format("Mon Jan 2"),
	}
}

func (a *App) Init() tea.Cmd {
	return a.enter(a.history.Current())
}

// visit moves to loc, pushing it onto the history.
func (a *App) visit(loc route.Location) tea.Cmd {
	a.history.Push(loc)
	return a.enter(loc)
}

// enter makes loc the displayed location. The selection is re-derived from
// it, so a detail location's list is the one the orchestrator holds.
func (a *App) enter(loc route.Location) tea.Cmd {
	cmds := []tea.Cmd{a.record(loc), a.orch.Navigate(loc.Values)}
	a.searchInput.SetValue(a.machine.Selection().RawQuery)
	a.cursor = 0
	a.previewScroll = 0

	a.detail = detailState{}
	a.resolveDetail()
	cmds = append(cmds, a.spinner.Tick)
	return tea.Batch(cmds...)
}

// resolveDetail matches the current article location against the list for
// its context. While that list is loading the detail stays loading; the next
// orchestrator result calls back in here.
func (a *App) resolveDetail() {
	cur := a.history.Current()
	if cur.Page != route.PageArticle {
		return
	}
	d := detailState{scroll: a.detail.scroll}
	switch a.machine.Status() {
	case state.StatusIdle, state.StatusLoading:
		d.loading = true
	case state.StatusError:
		d.err = a.machine.Err()
	default:
		res, err := resolve.Match(a.machine.Articles(), cur.Identifier)
		if errors.Is(err, resolve.ErrNotFound) {
			d.notFound = true
		} else {
			d.result = &res
		}
	}
	a.detail = d
}

// syncLocation keeps the current home location in step with the selection
// after a search commit. The new location is recorded like any other visit.
func (a *App) syncLocation() tea.Cmd {
	cur := a.history.Current()
	if cur.Page != route.PageHome {
		return nil
	}
	sel := a.machine.Selection().Effective()
	if cur.Selection().Effective() == sel {
		return nil
	}
	loc := route.Home(sel)
	a.history.Replace(loc)
	return a.record(loc)
}

func (a *App) record(loc route.Location) tea.Cmd {
	if a.recorder == nil {
		return nil
	}
	rec := a.recorder
	s := loc.String()
	return func() tea.Msg {
		if err := rec.RecordVisit(s); err != nil {
			logging.Warn("recording visit", "location", s, "err", err)
		}
		return nil
	}
}

func (a *App) openCmd(rawURL string) tea.Cmd {
	open := a.openURL
	return func() tea.Msg {
		if err := open(rawURL); err != nil {
			return openErrMsg{err: err}
		}
		return nil
	}
}

func (a *App) loading() bool {
	return a.machine.Status() == state.StatusLoading || a.detail.loading
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handled, cmd := a.orch.Update(msg); handled {
		rec := a.syncLocation()
		if n := len(a.machine.Articles()); a.cursor >= n {
			a.cursor = max(0, n-1)
		}
		if a.detail.loading {
			a.resolveDetail()
		}
		return a, tea.Batch(cmd, rec, a.spinner.Tick)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		// Clear sticky error on any keypress
		a.err = nil
		return a.handleKey(msg)

	case openErrMsg:
		a.err = msg.err
		return a, nil

	case spinner.TickMsg:
		if a.loading() {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	}

	switch a.mode {
	case modeSearch:
		return a.handleSearchKey(msg)
	case modeFilter:
		return a.handleFilterKey(msg)
	case modeHelp:
		if msg.String() == "?" || msg.String() == "esc" || msg.String() == "q" {
			a.mode = modeNormal
		}
		return a, nil
	}

	// History keys work on every page
	switch msg.String() {
	case "[":
		if loc, ok := a.history.Back(); ok {
			return a, a.enter(loc)
		}
		return a, nil
	case "]":
		if loc, ok := a.history.Forward(); ok {
			return a, a.enter(loc)
		}
		return a, nil
	case "?":
		a.mode = modeHelp
		return a, nil
	case "q":
		return a, tea.Quit
	}

	if a.history.Current().Page == route.PageArticle {
		return a.handleDetailKey(msg)
	}
	return a.handleListKey(msg)
}

func (a *App) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	articles := a.machine.Articles()

	switch msg.String() {
	case "j", "down":
		if a.focus == focusList && a.cursor < len(articles)-1 {
			a.cursor++
			a.previewScroll = 0
		} else if a.focus == focusPreview {
			a.previewScroll++
		}
		return a, nil
	case "k", "up":
		if a.focus == focusList && a.cursor > 0 {
			a.cursor--
			a.previewScroll = 0
		} else if a.focus == focusPreview && a.previewScroll > 0 {
			a.previewScroll--
		}
		return a, nil
	case "tab":
		if a.focus == focusList {
			a.focus = focusPreview
		} else {
			a.focus = focusList
		}
		return a, nil
	case "enter":
		if a.cursor < len(articles) {
			loc := route.Article(articles[a.cursor].Identifier, a.machine.Selection())
			return a, a.visit(loc)
		}
		return a, nil
	case "o":
		if a.cursor < len(articles) {
			return a, a.openCmd(articles[a.cursor].SourceURL)
		}
		return a, nil
	case "/":
		a.mode = modeSearch
		a.searchInput.SetValue(a.machine.Selection().RawQuery)
		a.searchInput.CursorEnd()
		return a, a.searchInput.Focus()
	case "f":
		a.mode = modeFilter
		a.filterBar.focus(a.machine.Selection())
		return a, nil
	case "r":
		cmd := a.orch.Retry()
		if cmd == nil {
			cmd = a.orch.Refresh()
		}
		return a, tea.Batch(cmd, a.spinner.Tick)
	}

	return a, nil
}

func (a *App) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cur := a.history.Current()

	switch msg.String() {
	case "esc", "backspace", "h":
		return a, a.visit(route.Home(cur.Selection()))
	case "j", "down":
		a.detail.scroll++
		return a, nil
	case "k", "up":
		if a.detail.scroll > 0 {
			a.detail.scroll--
		}
		return a, nil
	case "o":
		if a.detail.result != nil {
			return a, a.openCmd(a.detail.result.Article.SourceURL)
		}
		return a, nil
	case "r":
		if a.detail.loading {
			return a, nil
		}
		cmd := a.orch.Retry()
		if cmd == nil {
			cmd = a.orch.Refresh()
		}
		a.resolveDetail()
		return a, tea.Batch(cmd, a.spinner.Tick)
	case "1", "2":
		if a.detail.result == nil {
			return a, nil
		}
		idx := int(msg.String()[0] - '1')
		if related := a.detail.result.Related; idx < len(related) {
			return a, a.visit(route.Article(related[idx].Identifier, cur.Selection()))
		}
		return a, nil
	}
	return a, nil
}

func (a *App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = modeNormal
		a.searchInput.SetValue("")
		a.searchInput.Blur()
		cmd := a.orch.Submit("")
		return a, tea.Batch(cmd, a.syncLocation())
	case "enter":
		a.mode = modeNormal
		a.searchInput.Blur()
		cmd := a.orch.Submit(a.searchInput.Value())
		a.cursor = 0
		return a, tea.Batch(cmd, a.syncLocation(), a.spinner.Tick)
	}

	before := a.searchInput.Value()
	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	// Only re-arm the debounce on actual value changes, not cursor moves etc.
	if v := a.searchInput.Value(); v != before {
		return a, tea.Batch(cmd, a.orch.Type(v))
	}
	return a, cmd
}

func (a *App) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "f":
		a.mode = modeNormal
		a.filterBar.filterMode = false
		return a, nil
	case "left", "h":
		a.filterBar.left()
		return a, nil
	case "right", "l":
		a.filterBar.right()
		return a, nil
	case " ", "enter":
		return a, a.selectCategory(a.filterBar.current())
	case "1", "2", "3", "4", "5", "6":
		idx := int(msg.String()[0] - '1')
		if idx < len(query.Categories) {
			a.filterBar.filterCursor = idx
			return a, a.selectCategory(query.Categories[idx])
		}
		return a, nil
	}
	return a, nil
}

// selectCategory switches the list to c and pushes the new location.
func (a *App) selectCategory(c query.Category) tea.Cmd {
	cmd := a.orch.SelectCategory(c)
	a.searchInput.SetValue("")
	a.cursor = 0
	loc := route.Home(a.machine.Selection())
	if loc.String() == a.history.Current().String() {
		return cmd
	}
	a.history.Push(loc)
	return tea.Batch(cmd, a.record(loc), a.spinner.Tick)
}

func (a *App) header() string {
	headerLeft := headerStyle.Render("news today")
	if a.loading() {
		headerLeft += " " + a.spinner.View()
	}
	headerRight := headerDateStyle.Render(a.currentDate)
	headerGap := a.width - lipgloss.Width(headerLeft) - lipgloss.Width(headerRight)
	if headerGap < 0 {
		headerGap = 0
	}
	return headerLeft + fmt.Sprintf("%*s", headerGap, "") + headerRight
}

func (a *App) View() string {
	if a.width == 0 {
		return lipgloss.NewStyle().Foreground(colorAccent).Render("  news today")
	}

	if a.mode == modeHelp {
		return a.renderHelp()
	}

	if a.history.Current().Page == route.PageArticle {
		return a.viewDetail()
	}
	return a.viewList()
}

func (a *App) viewList() string {
	headerHeight := 1
	filterHeight := 1
	statusHeight := 1
	contentHeight := a.height - headerHeight - filterHeight - statusHeight - 2 // borders
	if contentHeight < 3 {
		contentHeight = 3
	}

	listWidth := int(float64(a.width) * 0.4)
	previewWidth := a.width - listWidth - 1

	sel := a.machine.Selection()
	filter := a.filterBar.render(sel, a.width)
	if a.mode == modeSearch {
		filter = a.searchInput.View()
	}

	articles := a.machine.Articles()
	placeholder := "Loading..."
	switch a.machine.Status() {
	case state.StatusEmpty:
		placeholder = "No articles found"
	case state.StatusError:
		placeholder = "Couldn't load news · r retry"
	}

	innerListW := listWidth - 4
	listContent := renderList(articles, a.cursor, contentHeight, innerListW, placeholder)
	listStyle, previewStyle := listPaneStyle, previewPaneActiveStyle
	if a.focus == focusList {
		listStyle, previewStyle = listPaneActiveStyle, previewPaneStyle
	}
	listPane := listStyle.Width(listWidth - 2).Height(contentHeight).Render(listContent)

	var selected *article.Article
	if a.cursor < len(articles) {
		selected = &articles[a.cursor]
	}
	previewContent := renderPreview(selected, previewWidth-4, contentHeight, a.previewScroll)
	previewPane := previewStyle.Width(previewWidth - 2).Height(contentHeight).Render(previewContent)

	content := lipgloss.JoinHorizontal(lipgloss.Top, listPane, previewPane)

	hints := "/ search  f filter  enter read  [ ] history  ? help  q quit"
	if a.mode == modeSearch {
		hints = "esc clear  enter search"
	} else if a.mode == modeFilter {
		hints = "←/→ move  enter select  esc done"
	}
	status := renderStatusBar(a.machine.Status(), len(articles), activeLabel(sel), a.machine.Err(), a.width, hints)
	if a.err != nil {
		status = errorStyle.Render(a.err.Error())
	}

	return lipgloss.JoinVertical(lipgloss.Left, a.header(), filter, content, status)
}

func (a *App) viewDetail() string {
	cur := a.history.Current()
	bodyHeight := a.height - 2

	var body string
	switch {
	case a.detail.notFound:
		body = renderNotFound(a.width, bodyHeight)
	case a.detail.err != nil:
		body = renderDetailError(a.detail.err, a.width, bodyHeight)
	case a.detail.result != nil:
		inner := previewPaneStyle.Width(a.width - 2).Height(bodyHeight - 2)
		body = inner.Render(renderDetail(*a.detail.result, cur.Selection(), a.width-4, bodyHeight-2, a.detail.scroll))
	default:
		body = lipgloss.Place(a.width, bodyHeight, lipgloss.Center, lipgloss.Center,
			a.spinner.View()+" Loading article...")
	}

	hints := "esc back  o open  1/2 related  [ ] history  q quit"
	bar := statusBarStyle.Width(a.width).Render(truncateStr(cur.String(), a.width/2) +
		strings.Repeat(" ", max(0, a.width-lipgloss.Width(hints)-a.width/2-4)) + hints)
	if a.err != nil {
		bar = errorStyle.Render(a.err.Error())
	}

	return lipgloss.JoinVertical(lipgloss.Left, a.header(), body, bar)
}

func (a *App) renderHelp() string {
	title := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render("news today")
	dim := helpDimStyle

	help := title + dim.Render(" · keyboard shortcuts") + "\n\n" +
		dim.Render("List") + "\n" +
		"  j/k, ↑/↓      Move through the list\n" +
		"  tab           Switch focus between list and preview\n" +
		"  enter         Read the article\n" +
		"  o             Open the source in the browser\n" +
		"  /             Search (waits for a pause in typing)\n" +
		"  f             Pick a category\n" +
		"  r             Retry after an error, otherwise reload\n\n" +
		dim.Render("Article") + "\n" +
		"  esc           Back to the news\n" +
		"  1, 2          Open a related article\n" +
		"  o             Open the source in the browser\n\n" +
		dim.Render("General") + "\n" +
		"  [ / ]         Back / forward\n" +
		"  ?             Toggle this help\n" +
		"  q, ctrl+c     Quit"

	card := helpCardStyle.Render(help)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

// Location is the reader's current location.
func (a *App) Location() route.Location {
	return a.history.Current()
}

// Run starts the TUI application.
func Run(opts RunOpts) error {
	app := NewApp(opts)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
