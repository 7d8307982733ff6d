package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Back       key.Binding
	Retry      key.Binding

	// Navigation
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
	Open   key.Binding

	// Filters
	EditName        key.Binding
	EditSpecies     key.Binding
	CycleStatus     key.Binding
	CycleGender     key.Binding
	CycleSort       key.Binding
	ToggleOrder     key.Binding
	ToggleFavorites key.Binding
	ClearFilters    key.Binding

	// Pages
	NextPage  key.Binding
	PrevPage  key.Binding
	FirstPage key.Binding
	LastPage  key.Binding

	// Favorites
	ToggleFavorite key.Binding

	// Input
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "Back to list"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Retry failed fetch"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Open character"),
		),

		EditName: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Filter by name"),
		),
		EditSpecies: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Filter by species"),
		),
		CycleStatus: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "Cycle status"),
		),
		CycleGender: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Cycle gender"),
		),
		CycleSort: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "Cycle sort field"),
		),
		ToggleOrder: key.NewBinding(
			key.WithKeys("O"),
			key.WithHelp("O", "Toggle sort order"),
		),
		ToggleFavorites: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Favorites only"),
		),
		ClearFilters: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Clear filters"),
		),

		NextPage: key.NewBinding(
			key.WithKeys("n", "right"),
			key.WithHelp("n", "Next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("p", "left"),
			key.WithHelp("p", "Previous page"),
		),
		FirstPage: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "First page"),
		),
		LastPage: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "Last page"),
		),

		ToggleFavorite: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("Space", "Toggle favorite"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Apply"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Discard edit"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view, one group per
// help section.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.Open, k.Back},
		{k.EditName, k.EditSpecies, k.CycleStatus, k.CycleGender, k.CycleSort, k.ToggleOrder, k.ToggleFavorites, k.ClearFilters},
		{k.NextPage, k.PrevPage, k.FirstPage, k.LastPage},
		{k.ToggleFavorite, k.Retry, k.CycleTheme, k.Help, k.Quit},
	}
}
