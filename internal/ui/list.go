package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/portal/internal/catalog"
	"github.com/five82/portal/internal/query"
	"github.com/five82/portal/internal/results"
	"github.com/five82/portal/internal/state"
)

// handleListKey processes keyboard input for the list view.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.search.Params()
	rows := m.snapshot.List.Page.Results
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case key.Matches(msg, m.keys.Down):
		if m.selectedRow < len(rows)-1 {
			m.selectedRow++
		}
	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selectedRow = max(len(rows)-1, 0)

	case key.Matches(msg, m.keys.Open):
		if r, ok := m.selectedResource(); ok {
			cmd = m.openDetail(r.ID)
		}

	case key.Matches(msg, m.keys.EditName):
		cmd = m.startEditing(inputName, p.Name)
	case key.Matches(msg, m.keys.EditSpecies):
		cmd = m.startEditing(inputSpecies, p.Species)
	case key.Matches(msg, m.keys.CycleStatus):
		cmd = m.apply(query.SetStatus(p.Status.Next()))
	case key.Matches(msg, m.keys.CycleGender):
		cmd = m.apply(query.SetGender(p.Gender.Next()))
	case key.Matches(msg, m.keys.CycleSort):
		cmd = m.apply(query.SetSort(query.Sort{By: p.Sort.By.Next(), Order: p.Sort.Order}))
	case key.Matches(msg, m.keys.ToggleOrder):
		cmd = m.apply(query.SetSort(query.Sort{By: p.Sort.By, Order: p.Sort.Order.Toggle()}))
	case key.Matches(msg, m.keys.ToggleFavorites):
		cmd = m.apply(query.SetFavorites(!p.Favorites))
	case key.Matches(msg, m.keys.ClearFilters):
		cmd = m.apply(query.Clear())

	case key.Matches(msg, m.keys.NextPage):
		if p.Page < m.totalPages() {
			cmd = m.apply(query.SetPage(p.Page + 1))
		}
	case key.Matches(msg, m.keys.PrevPage):
		if p.Page > 1 {
			cmd = m.apply(query.SetPage(p.Page - 1))
		}
	case key.Matches(msg, m.keys.FirstPage):
		if p.Page != 1 {
			cmd = m.apply(query.SetPage(1))
		}
	case key.Matches(msg, m.keys.LastPage):
		if last := m.totalPages(); last > 0 && p.Page != last {
			cmd = m.apply(query.SetPage(last))
		}

	case key.Matches(msg, m.keys.ToggleFavorite):
		if r, ok := m.selectedResource(); ok {
			cmd = m.toggleFavorite(r.ID)
		}
	case key.Matches(msg, m.keys.Retry):
		if m.snapshot.List.Phase == state.Failed {
			req := m.search.Retry()
			m.refresh()
			cmd = searchCmd(req)
		}
	}

	return m, cmd
}

// apply hands a parameter patch to the orchestrator and resets the selection.
func (m *Model) apply(patch query.Patch) tea.Cmd {
	req := m.search.Update(patch)
	m.selectedRow = 0
	m.refresh()
	return searchCmd(req)
}

// toggleFavorite flips id and, in favorites mode, re-reconciles the list.
func (m *Model) toggleFavorite(id int) tea.Cmd {
	if m.favs == nil || !m.favs.IsLoaded() {
		m.notice = "favorites are still loading"
		return nil
	}
	m.favs.Toggle(id)
	req := m.search.FavoritesChanged()
	m.refresh()
	return searchCmd(req)
}

func (m Model) isFavorite(id int) bool {
	return m.favs != nil && m.favs.IsFavorite(id)
}

func (m Model) totalPages() int {
	return m.snapshot.List.Page.Info.Pages
}

// selectedResource returns the record under the cursor.
func (m Model) selectedResource() (catalog.Resource, bool) {
	rows := m.snapshot.List.Page.Results
	if m.selectedRow < 0 || m.selectedRow >= len(rows) {
		return catalog.Resource{}, false
	}
	return rows[m.selectedRow], true
}

// clampSelection keeps the cursor inside the current page.
func (m *Model) clampSelection() {
	count := len(m.snapshot.List.Page.Results)
	if count == 0 {
		m.selectedRow = 0
		return
	}
	if m.selectedRow >= count {
		m.selectedRow = count - 1
	}
}

func (m Model) listBoxHeight() int {
	return max(m.height-chromeHeight-1, 4)
}

// renderList renders the filter bar, the results box and the pager.
func (m Model) renderList() string {
	boxHeight := m.listBoxHeight()
	innerWidth := m.width - 2
	list := m.snapshot.List

	var body string
	switch list.Phase {
	case state.Idle:
		body = m.renderCentered(m.spinner.View()+" Loading favorites...", innerWidth, boxHeight-2)
	case state.Loading:
		body = m.renderCentered(m.spinner.View()+" Loading characters...", innerWidth, boxHeight-2)
	case state.Failed:
		body = m.renderCentered(m.failureText(list.Err, true), innerWidth, boxHeight-2)
	default:
		if list.IsEmpty() {
			body = m.renderCentered(m.emptyText(list.Params), innerWidth, boxHeight-2)
		} else {
			body = m.renderTable(innerWidth, boxHeight-2)
		}
	}

	return m.renderFilterBar() + "\n" +
		m.renderTitledBox(m.listTitle(), body, m.width, boxHeight, true) + "\n" +
		m.renderPager()
}

func (m Model) listTitle() string {
	title := "Characters"
	if m.snapshot.List.Params.Favorites {
		title = "Favorites"
	}
	if m.snapshot.List.Phase == state.Ready {
		title += fmt.Sprintf(" · %d", m.snapshot.List.Page.Info.Count)
	}
	return title
}

func (m Model) emptyText(p query.Params) string {
	styles := m.theme.Styles()
	filters := p
	filters.Favorites = false
	if p.Favorites && !filters.HasActiveFilters() {
		return styles.MutedText.Render("No favorites yet. Press Space on a character to add one.")
	}
	text := styles.MutedText.Render("No characters found")
	if p.HasActiveFilters() {
		text += "\n" + styles.FaintText.Render("Press c to clear filters")
	}
	return text
}

// failureText renders err with an optional retry hint.
func (m Model) failureText(err error, retry bool) string {
	styles := m.theme.Styles()
	msg := "Something went wrong"
	if err != nil {
		msg = err.Error()
	}
	text := styles.DangerText.Render(msg)
	if retry {
		text += "\n" + styles.FaintText.Render("Press r to retry")
	}
	return text
}

func (m Model) renderCentered(content string, width, height int) string {
	return lipgloss.Place(max(width, 1), max(height, 1), lipgloss.Center, lipgloss.Center, content)
}

// renderTable renders the column header and one row per record, scrolled so
// the selection stays visible.
func (m Model) renderTable(width, height int) string {
	styles := m.theme.Styles()
	rows := m.snapshot.List.Page.Results
	showGender := m.width >= LayoutWideWidth

	visible := max(height-1, 1)
	start := 0
	if m.selectedRow >= visible {
		start = m.selectedRow - visible + 1
	}
	end := min(start+visible, len(rows))

	lines := make([]string, 0, end-start+1)
	lines = append(lines, styles.FaintText.Bold(true).Render(
		m.formatRow("#", " ", "Name", "Status", "Species", "Gender", width, showGender)))

	for i := start; i < end; i++ {
		r := rows[i]
		fav := " "
		if m.isFavorite(r.ID) {
			fav = "★"
		}
		line := m.formatRow(strconv.Itoa(r.ID), fav, r.Name, r.Status, r.Species, r.Gender, width, showGender)
		if i == m.selectedRow {
			lines = append(lines, styles.Selected.Width(width).Render(line))
			continue
		}
		lines = append(lines, m.styleRow(line, r, width))
	}
	return strings.Join(lines, "\n")
}

// formatRow lays out one table row as plain text.
func (m Model) formatRow(id, fav, name, status, species, gender string, width int, showGender bool) string {
	fixed := colIDWidth + colFavWidth + colStatusWidth + colSpeciesWidth + 4
	if showGender {
		fixed += colGenderWidth + 1
	}
	nameWidth := max(width-fixed, 8)

	cols := []string{
		fmt.Sprintf("%*s", colIDWidth, truncate(id, colIDWidth)),
		padRight(fav, colFavWidth-1),
		padRight(truncate(name, nameWidth), nameWidth),
		padRight(truncate(status, colStatusWidth), colStatusWidth),
		padRight(truncate(species, colSpeciesWidth), colSpeciesWidth),
	}
	if showGender {
		cols = append(cols, padRight(truncate(gender, colGenderWidth), colGenderWidth))
	}
	return strings.Join(cols, " ")
}

// styleRow colours the star and the status of an unselected row.
func (m Model) styleRow(line string, r catalog.Resource, width int) string {
	styles := m.theme.Styles()
	if m.isFavorite(r.ID) {
		line = strings.Replace(line, "★", styles.WarningText.Render("★"), 1)
	}
	if r.Status != "" {
		status := padRight(truncate(r.Status, colStatusWidth), colStatusWidth)
		line = strings.Replace(line, " "+status+" ", " "+styles.StatusText(r.Status).Render(status)+" ", 1)
	}
	return styles.Text.Width(width).Render(line)
}

// renderFilterBar summarises the active parameters. The field being edited
// shows its text input instead.
func (m Model) renderFilterBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := newBar(m.theme.Background)
	p := m.search.Params()

	field := func(label, value string, active bool) string {
		style := styles.MutedText
		if active {
			style = styles.AccentText
		}
		return bg.text(label+":", styles.FaintText) + bg.pad(1) + bg.text(value, style)
	}
	text := func(f inputField, label, value string) string {
		if m.editing == f {
			return bg.text(label+":", styles.AccentText.Bold(true)) + bg.pad(1) + m.input.View()
		}
		if value == "" {
			return field(label, "any", false)
		}
		return field(label, value, true)
	}

	order := "↑"
	if p.Sort.Order == query.Desc {
		order = "↓"
	}
	mode := "all"
	if p.Favorites {
		mode = "favorites"
	}

	parts := []string{
		text(inputName, "Name", p.Name),
		text(inputSpecies, "Species", p.Species),
		field("Status", p.Status.Label(), p.Status != query.StatusAny),
		field("Gender", p.Gender.Label(), p.Gender != query.GenderAny),
		field("Sort", string(p.Sort.By)+" "+order, p.Sort != query.Defaults().Sort),
		field("Show", mode, p.Favorites),
	}
	return bg.fill(bg.pad(1)+bg.join(parts, "  "), m.width)
}

// renderPager renders the pagination window and result counts.
func (m Model) renderPager() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := newBar(m.theme.Surface)
	list := m.snapshot.List

	if list.Phase != state.Ready || list.Page.Info.Pages == 0 {
		return styles.Footer.Width(m.width).Render("")
	}

	current := list.Params.Page
	var pages []string
	for _, n := range results.Window(current, list.Page.Info.Pages) {
		switch n {
		case results.Ellipsis:
			pages = append(pages, bg.text("…", styles.FaintText))
		case current:
			pages = append(pages, bg.text("["+strconv.Itoa(n)+"]", styles.AccentText.Bold(true)))
		default:
			pages = append(pages, bg.text(strconv.Itoa(n), styles.MutedText))
		}
	}

	summary := bg.text(fmt.Sprintf("page %d of %d · %d results", current, list.Page.Info.Pages, list.Page.Info.Count), styles.MutedText)
	content := summary
	if len(pages) > 0 {
		content = bg.join(pages, " ") + bg.pad(3) + summary
	}
	return styles.Footer.Width(m.width).Render(content)
}

// renderTitledBox renders a bordered box with the title embedded in the top
// border, padding or cutting content to the box height.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	var borderColorStr, bgColorStr string
	if focused {
		borderColorStr = m.theme.BorderFocus
		bgColorStr = m.theme.FocusBg
	} else {
		borderColorStr = m.theme.Border
		bgColorStr = m.theme.SurfaceAlt
	}
	bg := newBar(bgColorStr)
	borderColor := lipgloss.Color(borderColorStr)
	bgColor := lipgloss.Color(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0)
	title = truncate(title, max(innerWidth-2, 0))
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.text("┌", borderStyle) +
		bg.text(strings.Repeat("─", leftPad), borderStyle) +
		bg.text(" "+title+" ", titleStyle) +
		bg.text(strings.Repeat("─", rightPad), borderStyle) +
		bg.text("┐", borderStyle)

	bottomBorder := bg.text("└", borderStyle) +
		bg.text(strings.Repeat("─", innerWidth), borderStyle) +
		bg.text("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).MaxWidth(innerWidth).Background(bgColor)

	contentLines := strings.Split(content, "\n")
	boxHeight := max(height-2, 0)

	paddedLines := make([]string, 0, boxHeight)
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		paddedLines = append(paddedLines,
			bg.text("│", borderStyle)+
				contentStyle.Render(line)+
				bg.text("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(paddedLines, "\n") + "\n" + bottomBorder
}
