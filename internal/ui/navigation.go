package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/portal/internal/query"
)

const detailPathPrefix = "/character/"

// detailIDFromPath returns the raw id segment of a detail address.
func detailIDFromPath(path string) (string, bool) {
	return strings.CutPrefix(path, detailPathPrefix)
}

// openDetail pushes the detail address for id and starts loading it.
func (m *Model) openDetail(id int) tea.Cmd {
	m.history.Push(query.DetailLocation(id))
	return m.visit(m.history.Current())
}

// goBack pops the address bar. Leaving a detail page that has no list entry
// behind it rewrites it into the list address for the current parameters.
func (m *Model) goBack() tea.Cmd {
	loc, ok := m.history.Back()
	if !ok {
		loc = query.ListLocation(m.search.Params())
		m.history.Replace(loc)
	}
	return m.visit(loc)
}

// visit switches to the view that renders loc.
func (m *Model) visit(loc query.Location) tea.Cmd {
	if raw, ok := detailIDFromPath(loc.Path); ok {
		m.currentView = ViewDetail
		req := m.detail.Load(raw)
		m.refresh()
		m.detailViewport.GotoTop()
		return detailCmd(req)
	}

	m.detail.Cancel()
	m.currentView = ViewList
	req := m.search.Navigate(query.Decode(loc.Query))
	m.refresh()
	return searchCmd(req)
}

// address returns the current address bar text.
func (m Model) address() string {
	return m.history.Current().String()
}
