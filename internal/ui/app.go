package ui

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/five82/portal/internal/detail"
	"github.com/five82/portal/internal/favorites"
	"github.com/five82/portal/internal/prefs"
	"github.com/five82/portal/internal/query"
	"github.com/five82/portal/internal/search"
	"github.com/five82/portal/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewList View = iota
	ViewDetail
)

// inputField names the text filter being edited.
type inputField int

const (
	inputNone inputField = iota
	inputName
	inputSpecies
)

// Options configures the UI. Search, Detail, Favorites, Store and History
// are required.
type Options struct {
	Context   context.Context
	Search    *search.Orchestrator
	Detail    *detail.Loader
	Favorites *favorites.Store
	// FavoritesReady closes once the favorites store has loaded. A nil
	// channel means it already has.
	FavoritesReady <-chan struct{}
	Store          *state.Store
	History        *query.History
	Logger         *log.Logger
	SearchDebounce time.Duration
	ThemeName      string
	PrefsPath      string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	search    *search.Orchestrator
	detail    *detail.Loader
	favs      *favorites.Store
	favsReady <-chan struct{}
	store     *state.Store
	history   *query.History
	logger    *log.Logger
	prefsPath string
	debounce  time.Duration

	// UI state
	keys        keyMap
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	notice      string

	// Data state
	snapshot    state.Snapshot
	selectedRow int

	spinner        spinner.Model
	detailViewport viewport.Model

	// Text filter editing
	input      textinput.Model
	editing    inputField
	debounceID int
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	debounce := opts.SearchDebounce
	if debounce <= 0 {
		debounce = DefaultSearchDebounce
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.Default().Theme
	}

	history := opts.History
	if history == nil {
		history = query.NewHistory(query.ListLocation(opts.Search.Params()))
	}

	theme := GetTheme(themeName)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Accent))

	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 32

	m := Model{
		ctx:       ctx,
		search:    opts.Search,
		detail:    opts.Detail,
		favs:      opts.Favorites,
		favsReady: opts.FavoritesReady,
		store:     opts.Store,
		history:   history,
		logger:    logger.With("component", "ui"),
		prefsPath: opts.PrefsPath,
		debounce:  debounce,
		keys:      DefaultKeyMap(),
		theme:     theme,
		spinner:   s,
		input:     ti,
	}
	if _, ok := detailIDFromPath(history.Current().Path); ok {
		m.currentView = ViewDetail
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		waitForFavoritesCmd(m.ctx, m.favsReady),
	}
	if raw, ok := detailIDFromPath(m.history.Current().Path); ok {
		// Started on a detail address; the loader runs before the list gate
		// lifts.
		cmds = append(cmds, detailCmd(m.detail.Load(raw)))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.initDetailViewport()
		}
		m.ready = true
		m.resizeDetailViewport()
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case favoritesReadyMsg:
		req := m.search.FavoritesLoaded()
		m.refresh()
		return m, searchCmd(req)

	case searchResultMsg:
		if m.search.Resolve(search.Result(msg)) {
			m.refresh()
		}
		return m, nil

	case detailResultMsg:
		if m.detail.Resolve(detail.Result(msg)) {
			m.refresh()
			m.detailViewport.GotoTop()
		}
		return m, nil

	case debounceMsg:
		return m.handleDebounce(msg)
	}

	if m.editing != inputNone {
		// Cursor blink and other input internals.
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.editing != inputNone {
		return m.handleInputKey(msg)
	}

	m.notice = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, m.quit()

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
		return m, nil
	}

	switch m.currentView {
	case ViewDetail:
		return m.handleDetailKey(msg)
	default:
		return m.handleListKey(msg)
	}
}

// quit abandons in-flight fetches and ends the program.
func (m Model) quit() tea.Cmd {
	m.search.Cancel()
	m.detail.Cancel()
	return tea.Quit
}

// cycleTheme switches to the next theme and saves it with the current list
// address.
func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	m.spinner.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Accent))
	m.updateDetailViewport()
	m.savePrefs()
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, LastQuery: query.Encode(m.search.Params())}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("preferences not saved", "path", m.prefsPath, "err", err)
		m.notice = "preferences not saved"
	}
}

// refresh re-reads the state store and keeps the selection in range.
func (m *Model) refresh() {
	if m.store == nil {
		return
	}
	m.snapshot = m.store.Snapshot()
	m.clampSelection()
	m.updateDetailViewport()
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	b.WriteString(m.renderContent())

	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewDetail:
		return m.renderDetail()
	default:
		return m.renderList()
	}
}

// Messages

type favoritesReadyMsg struct{}

type searchResultMsg search.Result

type detailResultMsg detail.Result

type debounceMsg struct {
	id    int
	field inputField
	value string
}

// Commands

func waitForFavoritesCmd(ctx context.Context, ready <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if ready != nil {
			select {
			case <-ready:
			case <-ctx.Done():
			}
		}
		return favoritesReadyMsg{}
	}
}

// searchCmd runs req off the event loop. A nil request needs no command.
func searchCmd(req *search.Request) tea.Cmd {
	if req == nil {
		return nil
	}
	return func() tea.Msg {
		return searchResultMsg(req.Do())
	}
}

func detailCmd(req *detail.Request) tea.Cmd {
	if req == nil {
		return nil
	}
	return func() tea.Msg {
		return detailResultMsg(req.Do())
	}
}

func debounceCmd(d time.Duration, msg debounceMsg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return msg
	})
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		fm.savePrefs()
	}
	return err
}
