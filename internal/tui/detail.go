package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/pokedex/internal/catalog"
)

const (
	statLabelWidth = 8
	statValueWidth = 4
	statBarWidth   = 30
)

// DetailTab selects the detail pane.
type DetailTab int

// Detail panes.
const (
	TabAbout DetailTab = iota
	TabStats
	numDetailTabs
)

func (t DetailTab) String() string {
	if t == TabStats {
		return "Stats"
	}
	return "About"
}

// ProfileLoader fetches an entry's detail and narrative.
type ProfileLoader interface {
	Profile(ctx context.Context, idOrName string) (*catalog.Profile, error)
}

// profileLoadedMsg carries the result of a profile lookup for id.
type profileLoadedMsg struct {
	id      int
	profile *catalog.Profile
	err     error
}

// detailClosedMsg tells the parent to return to the list.
type detailClosedMsg struct{}

// copiedMsg reports the outcome of a clipboard write.
type copiedMsg struct {
	text string
	err  error
}

// DetailModel shows one entry and navigates to adjacent identifiers.
type DetailModel struct {
	ctx      context.Context
	loader   ProfileLoader
	policy   catalog.Policy
	language string
	entryURL func(int) string
	copyFn   func(string) error
	onLoaded func(*catalog.EntryDetail)

	id      int
	state   ViewState
	tab     DetailTab
	profile *catalog.Profile
	err     error
	status  string

	loading *LoadingState
	bar     progress.Model
	width   int
	height  int
}

// DetailOptions are the collaborators of a DetailModel beyond its loader.
type DetailOptions struct {
	Policy   catalog.Policy
	Language string
	// EntryURL builds the resource URL copied by "y".
	EntryURL func(id int) string
	// Copy writes to the clipboard; defaults to the system clipboard.
	Copy func(string) error
	// OnLoaded observes every successfully loaded detail.
	OnLoaded func(*catalog.EntryDetail)
}

// NewDetailModel creates a detail view for id, clamped to the canonical range.
func NewDetailModel(ctx context.Context, loader ProfileLoader, id int, opts DetailOptions) *DetailModel {
	if opts.Policy.Ceiling == 0 {
		opts.Policy = catalog.DefaultPolicy()
	}
	if opts.Language == "" {
		opts.Language = catalog.DefaultLanguage
	}
	if opts.Copy == nil {
		opts.Copy = clipboard.WriteAll
	}

	return &DetailModel{
		ctx:      ctx,
		loader:   loader,
		policy:   opts.Policy,
		language: opts.Language,
		entryURL: opts.EntryURL,
		copyFn:   opts.Copy,
		onLoaded: opts.OnLoaded,
		id:       opts.Policy.Clamp(id),
		state:    ViewStateLoading,
		loading:  NewLoadingState(),
		bar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(statBarWidth),
			progress.WithoutPercentage(),
		),
		width:  defaultWidth,
		height: defaultHeight,
	}
}

// ID returns the identifier being shown.
func (m *DetailModel) ID() int {
	return m.id
}

// State returns the current view state.
func (m *DetailModel) State() ViewState {
	return m.state
}

// Init starts the spinner and the first lookup.
func (m *DetailModel) Init() tea.Cmd {
	return tea.Batch(m.loading.Init(), m.fetch())
}

func (m *DetailModel) fetch() tea.Cmd {
	id, ctx, loader := m.id, m.ctx, m.loader
	return func() tea.Msg {
		p, err := loader.Profile(ctx, strconv.Itoa(id))
		return profileLoadedMsg{id: id, profile: p, err: err}
	}
}

// Update handles navigation and lookup results.
func (m *DetailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case profileLoadedMsg:
		return m.handleLoaded(msg)
	case copiedMsg:
		if msg.err != nil {
			m.status = "Copy failed: " + msg.err.Error()
		} else {
			m.status = "Copied " + msg.text
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	if m.state != ViewStateLoading {
		return m, nil
	}
	return m, m.loading.Update(msg)
}

func (m *DetailModel) handleLoaded(msg profileLoadedMsg) (tea.Model, tea.Cmd) {
	// A response for an entry the user already navigated away from.
	if msg.id != m.id {
		return m, nil
	}
	if msg.err != nil {
		m.err = msg.err
		m.state = ViewStateError
		return m, nil
	}
	m.profile = msg.profile
	m.err = nil
	m.state = ViewStateDetail
	if m.onLoaded != nil && msg.profile != nil && msg.profile.Detail != nil {
		m.onLoaded(msg.profile.Detail)
	}
	return m, nil
}

func (m *DetailModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyQuit, keyCtrlC:
		m.state = ViewStateQuitting
		return m, tea.Quit
	case keyEsc, keyBack:
		return m, func() tea.Msg { return detailClosedMsg{} }
	case keyTab:
		m.tab = (m.tab + 1) % numDetailTabs
		return m, nil
	case keyNext, keyRight:
		return m, m.navigate(1)
	case keyPrev, keyLeft:
		return m, m.navigate(-1)
	case keyRefresh:
		if m.state == ViewStateError {
			m.state = ViewStateLoading
			m.err = nil
			return m, tea.Batch(m.loading.Init(), m.fetch())
		}
	case keyCopy:
		return m, m.copyURL()
	}
	return m, nil
}

// navigate moves to the adjacent identifier, staying inside [1, ceiling].
func (m *DetailModel) navigate(delta int) tea.Cmd {
	next := m.policy.Clamp(m.id + delta)
	if next == m.id {
		return nil
	}
	m.id = next
	m.profile = nil
	m.err = nil
	m.status = ""
	m.state = ViewStateLoading
	return tea.Batch(m.loading.Init(), m.fetch())
}

func (m *DetailModel) copyURL() tea.Cmd {
	if m.entryURL == nil {
		return nil
	}
	text := m.entryURL(m.id)
	copyFn := m.copyFn
	return func() tea.Msg {
		return copiedMsg{text: text, err: copyFn(text)}
	}
}

// View renders the current pane.
func (m *DetailModel) View() string {
	switch m.state {
	case ViewStateQuitting:
		return ""
	case ViewStateLoading:
		return RenderLoading(m.loading, fmt.Sprintf("Loading %s...", catalog.FormatNumber(m.id)))
	case ViewStateError:
		return lipgloss.JoinVertical(lipgloss.Left,
			CriticalStyle.Render(m.errorText()),
			SubtleStyle.Render("r retry | n/p adjacent | esc back | q quit"),
		)
	default:
		return m.renderProfile()
	}
}

func (m *DetailModel) errorText() string {
	if catalog.IsNotFound(m.err) {
		return fmt.Sprintf("Entry %s was not found.", catalog.FormatNumber(m.id))
	}
	return fmt.Sprintf("Failed to load %s: %v", catalog.FormatNumber(m.id), m.err)
}

func (m *DetailModel) renderProfile() string {
	d := m.profile.Detail
	title := TitleStyle(d).Render(fmt.Sprintf("%s %s", catalog.FormatNumber(d.ID), catalog.DisplayName(d.Name)))

	tabs := make([]string, 0, numDetailTabs)
	for t := range numDetailTabs {
		style := TabStyle
		if t == m.tab {
			style = ActiveTabStyle
		}
		tabs = append(tabs, style.Render(t.String()))
	}

	var body string
	if m.tab == TabStats {
		body = m.renderStats(d)
	} else {
		body = m.renderAbout(d)
	}

	sections := []string{
		title,
		TypeBadges(d.Types),
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		BoxStyle.Width(max(m.width-borderPadding, statBarWidth)).Render(body),
	}
	if m.status != "" {
		sections = append(sections, InfoStyle.Render(m.status))
	}
	sections = append(sections,
		SubtleStyle.Render("tab switch pane | n/p adjacent | y copy URL | esc back | q quit"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *DetailModel) renderAbout(d *catalog.EntryDetail) string {
	var b strings.Builder

	if n := m.profile.Narrative; n != nil {
		if n.Genus != "" {
			b.WriteString(InfoStyle.Render(n.Genus) + "\n")
		}
		b.WriteString(n.Description(m.language) + "\n\n")
	}

	fmt.Fprintf(&b, "%s %s\n", LabelStyle.Render("Height: "), ValueStyle.Render(fmt.Sprintf("%.1f m", d.HeightMeters())))
	fmt.Fprintf(&b, "%s %s\n", LabelStyle.Render("Weight: "), ValueStyle.Render(fmt.Sprintf("%.1f kg", d.WeightKilograms())))

	abilities := make([]string, 0, len(d.Abilities))
	for _, a := range d.Abilities {
		name := catalog.DisplayName(a.Name)
		if a.Hidden {
			name += " (hidden)"
		}
		abilities = append(abilities, name)
	}
	fmt.Fprintf(&b, "%s %s", LabelStyle.Render("Abilities:"), ValueStyle.Render(strings.Join(abilities, ", ")))
	return b.String()
}

func (m *DetailModel) renderStats(d *catalog.EntryDetail) string {
	lines := make([]string, 0, len(d.Stats)+1)
	total := 0
	for _, s := range d.Stats {
		total += s.Base
		lines = append(lines, fmt.Sprintf("%-*s %*d %s",
			statLabelWidth, catalog.StatLabel(s.Name),
			statValueWidth, s.Base,
			m.bar.ViewAs(s.Percent()),
		))
	}
	lines = append(lines, fmt.Sprintf("%-*s %*d", statLabelWidth, "Total", statValueWidth, total))
	return strings.Join(lines, "\n")
}
