package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/pokedex/internal/catalog"
	"github.com/rshade/pokedex/internal/listctl"
	"github.com/rshade/pokedex/internal/prefetch"
	listview "github.com/rshade/pokedex/internal/tui/list"
)

const (
	defaultSearchDebounce = 250 * time.Millisecond
	searchInputCharLimit  = 40
	searchInputWidth      = 30
	nameColumnWidth       = 24
	minNameColumnWidth    = 8
	// rowOverhead is the cursor marker, the number column and its padding.
	rowOverhead = 10
)

// Messages produced by browser commands.
type (
	initialLoadedMsg struct{ err error }
	refreshedMsg     struct{ err error }
	moreLoadedMsg    struct{ appended bool }
	searchTickMsg    struct {
		seq   int
		query string
	}
	searchDoneMsg   struct{ query string }
	prefetchDoneMsg struct {
		snap prefetch.Snapshot
		err  error
	}
)

// cacheResetter is implemented by loaders whose cached records can be
// dropped, such as *catalog.DetailLoader.
type cacheResetter interface {
	Reset()
}

// BrowserDeps wires the browser to the catalog.
type BrowserDeps struct {
	Controller *listctl.Controller
	Loader     ProfileLoader
	// Prefetcher resolves types for listed entries; optional.
	Prefetcher *prefetch.Prefetcher
	Detail     DetailOptions
	// SearchDebounce delays searches while the user types.
	SearchDebounce time.Duration
}

// BrowserModel is the list screen: search box, running total, an
// infinitely scrolling list and a detail view.
type BrowserModel struct {
	ctx  context.Context
	deps BrowserDeps
	ctl  *listctl.Controller

	state    ViewState
	list     *listview.VirtualListModel[catalog.EntryRef]
	input    textinput.Model
	typing   bool
	debounce time.Duration
	seq      int

	detail   *DetailModel
	loading  *LoadingState
	prefetch *prefetch.Snapshot

	// prefetchCtx scopes background lookups to one list generation.
	prefetchCtx    context.Context
	prefetchCancel context.CancelFunc

	width  int
	height int
}

// NewBrowserModel creates the browser. Init performs the first load.
func NewBrowserModel(ctx context.Context, deps BrowserDeps) *BrowserModel {
	debounce := deps.SearchDebounce
	if debounce <= 0 {
		debounce = defaultSearchDebounce
	}

	m := &BrowserModel{
		ctx:      ctx,
		deps:     deps,
		ctl:      deps.Controller,
		state:    ViewStateLoading,
		input:    newSearchInput(),
		debounce: debounce,
		loading:  NewLoadingState(),
		width:    defaultWidth,
		height:   defaultHeight,
	}
	m.list = listview.NewVirtualListModel([]catalog.EntryRef{}, m.listHeight(), m.width, m.renderRow)
	return m
}

func newSearchInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "Search by name or number"
	ti.Prompt = "Search: "
	ti.CharLimit = searchInputCharLimit
	ti.Width = searchInputWidth
	return ti
}

// State returns the current view state.
func (m *BrowserModel) State() ViewState {
	return m.state
}

// Init starts the spinner and loads the first page.
func (m *BrowserModel) Init() tea.Cmd {
	ctx, ctl := m.ctx, m.ctl
	return tea.Batch(m.loading.Init(), func() tea.Msg {
		return initialLoadedMsg{err: ctl.LoadInitial(ctx)}
	})
}

// Update routes messages to the active screen.
//
//nolint:gocyclo // Central message router.
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if winMsg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = winMsg.Width
		m.height = winMsg.Height
		m.list.SetSize(m.width, m.listHeight())
		if m.detail != nil {
			_, _ = m.detail.Update(msg)
		}
		return m, nil
	}

	switch msg := msg.(type) {
	case initialLoadedMsg:
		return m.handleLoaded(msg.err)
	case refreshedMsg:
		return m.handleLoaded(msg.err)
	case moreLoadedMsg:
		m.syncList()
		if msg.appended {
			return m, m.prefetchVisible()
		}
		return m, nil
	case searchTickMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		return m, m.searchCmd(msg.query)
	case searchDoneMsg:
		m.syncList()
		m.list.SetSelected(0)
		return m, m.prefetchVisible()
	case prefetchDoneMsg:
		if msg.err == nil {
			m.prefetch = &msg.snap
		}
		return m, nil
	case detailClosedMsg:
		m.detail = nil
		m.state = ViewStateList
		return m, nil
	}

	switch m.state {
	case ViewStateLoading:
		if _, ok := msg.(tea.KeyMsg); ok {
			return m.handleGlobalKey(msg)
		}
		return m, m.loading.Update(msg)
	case ViewStateList:
		return m.handleListUpdate(msg)
	case ViewStateDetail:
		return m.handleDetailUpdate(msg)
	case ViewStateError:
		return m.handleErrorUpdate(msg)
	case ViewStateQuitting:
		return m, nil
	default:
		return m, nil
	}
}

func (m *BrowserModel) handleLoaded(err error) (tea.Model, tea.Cmd) {
	if err != nil && m.ctl.State().Error != "" {
		m.state = ViewStateError
		return m, nil
	}
	m.state = ViewStateList
	m.input.SetValue(m.ctl.State().Query)
	m.syncList()
	m.list.SetSelected(0)
	return m, m.prefetchVisible()
}

func (m *BrowserModel) handleGlobalKey(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyQuit, keyCtrlC:
			m.state = ViewStateQuitting
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *BrowserModel) handleErrorUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == keyRefresh {
		return m, m.refreshCmd()
	}
	return m.handleGlobalKey(msg)
}

func (m *BrowserModel) handleListUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, m.loading.Update(msg)
	}

	if m.typing {
		return m.handleSearchInput(keyMsg)
	}

	switch keyMsg.String() {
	case keyQuit, keyCtrlC:
		m.state = ViewStateQuitting
		return m, tea.Quit
	case keySlash:
		m.typing = true
		m.input.Focus()
		return m, textinput.Blink
	case keyRefresh:
		return m, m.refreshCmd()
	case keyEsc:
		if m.input.Value() != "" {
			m.input.SetValue("")
			m.seq++
			return m, m.searchCmd("")
		}
		return m, nil
	case keyEnter:
		return m, m.openDetail()
	}

	from, to := m.list.VisibleFrom(), m.list.VisibleTo()
	_, _ = m.list.Update(keyMsg)
	var prefetchCmd tea.Cmd
	if m.list.VisibleFrom() != from || m.list.VisibleTo() != to {
		prefetchCmd = m.prefetchVisible()
	}
	return m, tea.Batch(prefetchCmd, m.maybeLoadMore())
}

func (m *BrowserModel) handleSearchInput(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMsg.String() {
	case keyCtrlC:
		m.state = ViewStateQuitting
		return m, tea.Quit
	case keyEnter:
		m.typing = false
		m.input.Blur()
		// Run a search still waiting on the debounce now, so that the list
		// never pages while the box shows a query.
		if value := m.input.Value(); value != m.ctl.State().Query {
			m.seq++
			return m, m.searchCmd(value)
		}
		return m, nil
	case keyEsc:
		m.typing = false
		m.input.Blur()
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(keyMsg)
	after := m.input.Value()
	if after == before {
		return m, cmd
	}

	m.seq++
	seq := m.seq
	// Clearing the box restores the list without waiting.
	if strings.TrimSpace(after) == "" {
		return m, tea.Batch(cmd, m.searchCmd(after))
	}
	return m, tea.Batch(cmd, tea.Tick(m.debounce, func(time.Time) tea.Msg {
		return searchTickMsg{seq: seq, query: after}
	}))
}

func (m *BrowserModel) handleDetailUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.detail == nil {
		m.state = ViewStateList
		return m, nil
	}
	_, cmd := m.detail.Update(msg)
	if m.detail.State() == ViewStateQuitting {
		m.state = ViewStateQuitting
	}
	return m, cmd
}

// maybeLoadMore requests the next page when the cursor sits on the last row
// of the paginated listing.
func (m *BrowserModel) maybeLoadMore() tea.Cmd {
	if !m.list.AtEnd() {
		return nil
	}
	st := m.ctl.State()
	p, ok := st.Display.(listctl.Paginated)
	if !ok || !p.HasMore() || st.Busy() {
		return nil
	}
	ctx, ctl := m.ctx, m.ctl
	return func() tea.Msg {
		return moreLoadedMsg{appended: ctl.LoadMore(ctx)}
	}
}

func (m *BrowserModel) openDetail() tea.Cmd {
	ref := m.list.SelectedItem()
	if ref == nil {
		return nil
	}

	opts := m.deps.Detail
	ctl := m.ctl
	onLoaded := opts.OnLoaded
	opts.OnLoaded = func(d *catalog.EntryDetail) {
		ctl.RecordAttributes(d.Name, d.Attributes())
		if onLoaded != nil {
			onLoaded(d)
		}
	}

	m.detail = NewDetailModel(m.ctx, m.deps.Loader, ref.ID(), opts)
	_, _ = m.detail.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	m.state = ViewStateDetail
	return m.detail.Init()
}

func (m *BrowserModel) searchCmd(query string) tea.Cmd {
	ctx, ctl := m.ctx, m.ctl
	return func() tea.Msg {
		ctl.Search(ctx, query)
		return searchDoneMsg{query: query}
	}
}

func (m *BrowserModel) refreshCmd() tea.Cmd {
	m.state = ViewStateLoading
	m.typing = false
	m.input.Blur()
	m.input.SetValue("")
	m.seq++
	m.prefetch = nil
	if m.prefetchCancel != nil {
		m.prefetchCancel()
		m.prefetchCtx, m.prefetchCancel = nil, nil
	}
	if r, ok := m.deps.Loader.(cacheResetter); ok {
		r.Reset()
	}
	ctx, ctl := m.ctx, m.ctl
	return tea.Batch(m.loading.Init(), func() tea.Msg {
		return refreshedMsg{err: ctl.Refresh(ctx)}
	})
}

// prefetchVisible resolves details for the rows currently on screen.
func (m *BrowserModel) prefetchVisible() tea.Cmd {
	refs := m.list.VisibleItems()
	p := m.deps.Prefetcher
	if p == nil || len(refs) == 0 {
		return nil
	}
	if m.prefetchCtx == nil {
		m.prefetchCtx, m.prefetchCancel = context.WithCancel(m.ctx)
	}
	ctx := m.prefetchCtx
	refs = append([]catalog.EntryRef(nil), refs...)
	return func() tea.Msg {
		snap, err := p.Run(ctx, refs)
		return prefetchDoneMsg{snap: snap, err: err}
	}
}

// syncList copies the controller's display set into the list.
func (m *BrowserModel) syncList() {
	m.list.SetItems(m.ctl.Display().List())
}

func (m *BrowserModel) listHeight() int {
	return max(m.height-headerHeight-footerHeight, minHeight)
}

func (m *BrowserModel) renderRow(ref catalog.EntryRef, selected bool) string {
	width := max(min(nameColumnWidth, m.list.Width()-rowOverhead), minNameColumnWidth)
	name := truncate(catalog.DisplayName(ref.Name), width)
	row := fmt.Sprintf("%-6s %-*s", catalog.FormatNumber(ref.ID()), width, name)

	if attrs, ok := m.ctl.Attributes(ref.Name); ok && len(attrs.Types) > 0 {
		row += " " + TypeBadges(attrs.Types)
	}
	if selected {
		return SelectedStyle.Render("> " + row)
	}
	return "  " + row
}

// View renders the active screen.
func (m *BrowserModel) View() string {
	switch m.state {
	case ViewStateQuitting:
		return ""
	case ViewStateLoading:
		return RenderLoading(m.loading, "Loading catalog...")
	case ViewStateError:
		return lipgloss.JoinVertical(lipgloss.Left,
			CriticalStyle.Render(m.ctl.State().Error),
			SubtleStyle.Render("r retry | q quit"),
		)
	case ViewStateDetail:
		if m.detail != nil {
			return m.detail.View()
		}
		return ""
	case ViewStateList:
		return m.renderList()
	default:
		return ""
	}
}

func (m *BrowserModel) renderList() string {
	st := m.ctl.State()

	title := HeaderStyle.Render("Pokédex")
	count := SubtleStyle.Render(fmt.Sprintf("%s entries", formatCount(st.Total)))
	if f, ok := st.Display.(listctl.Filtered); ok {
		count = SubtleStyle.Render(fmt.Sprintf("%s matches for %q", formatCount(len(f.Entries)), f.Query))
	}

	sections := []string{
		lipgloss.JoinHorizontal(lipgloss.Center, title, " ", count),
		m.input.View(),
	}

	switch {
	case st.Searching && len(st.Display.List()) == 0:
		sections = append(sections, RenderLoading(m.loading, "Searching..."))
	case len(st.Display.List()) == 0:
		if f, ok := st.Display.(listctl.Filtered); ok {
			sections = append(sections, WarningStyle.Render(fmt.Sprintf("No entries found for %q", f.Query)))
		} else {
			sections = append(sections, SubtleStyle.Render("No entries."))
		}
	default:
		sections = append(sections, m.list.View())
	}

	sections = append(sections, m.renderFooter(st))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *BrowserModel) renderFooter(st listctl.State) string {
	var parts []string
	switch {
	case st.LoadingMore:
		parts = append(parts, InfoStyle.Render("Loading more..."))
	case st.Searching:
		parts = append(parts, InfoStyle.Render("Searching..."))
	}
	if n := m.list.ItemCount(); n > 0 {
		parts = append(parts, SubtleStyle.Render(fmt.Sprintf("%d/%d", m.list.Selected()+1, n)))
	}
	if m.prefetch != nil && !m.prefetch.IsComplete() {
		parts = append(parts, SubtleStyle.Render(fmt.Sprintf("details %d/%d", m.prefetch.Done(), m.prefetch.Total)))
	}
	parts = append(parts, SubtleStyle.Render("/ search | enter details | r refresh | q quit"))
	return strings.Join(parts, "  ")
}
