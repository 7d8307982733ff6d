package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/portal/internal/catalog"
	"github.com/five82/portal/internal/detail"
	"github.com/five82/portal/internal/state"
)

const episodeCellWidth = 5

// handleDetailKey processes keyboard input for the detail view. Keys not
// bound here scroll the viewport.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := m.snapshot.Detail
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.keys.Back):
		cmd = m.goBack()

	case key.Matches(msg, m.keys.ToggleFavorite):
		if d.Phase == state.Ready {
			cmd = m.toggleFavorite(d.Resource.ID)
		}

	case key.Matches(msg, m.keys.Retry):
		if d.Phase == state.Failed {
			req := m.detail.Retry()
			m.refresh()
			cmd = detailCmd(req)
		}

	case key.Matches(msg, m.keys.Top):
		m.detailViewport.GotoTop()

	case key.Matches(msg, m.keys.Bottom):
		m.detailViewport.GotoBottom()

	default:
		m.detailViewport, cmd = m.detailViewport.Update(msg)
	}

	return m, cmd
}

func (m *Model) initDetailViewport() {
	m.detailViewport = viewport.New(0, 0)
}

func (m *Model) resizeDetailViewport() {
	m.detailViewport.Width = max(m.width-4, 1)
	m.detailViewport.Height = max(m.height-chromeHeight-1, 1)
}

// updateDetailViewport re-renders the record into the viewport.
func (m *Model) updateDetailViewport() {
	if !m.ready || m.snapshot.Detail.Phase != state.Ready {
		return
	}
	m.detailViewport.SetContent(m.renderDetailContent(m.snapshot.Detail.Resource, m.detailViewport.Width))
}

// renderDetail renders the detail box. Loading and failure states are drawn
// directly so the spinner keeps animating.
func (m Model) renderDetail() string {
	d := m.snapshot.Detail
	height := max(m.height-2, 4)
	innerWidth := m.width - 2

	title := "Character"
	if d.ID > 0 {
		title = fmt.Sprintf("Character #%d", d.ID)
	}

	var body string
	switch d.Phase {
	case state.Ready:
		title = d.Resource.Name
		if m.isFavorite(d.Resource.ID) {
			title = "★ " + title
		}
		body = lipgloss.NewStyle().Padding(0, 1).Render(m.detailViewport.View())
	case state.Failed:
		body = m.renderCentered(m.detailFailureText(d.Err), innerWidth, height-2)
	default:
		body = m.renderCentered(m.spinner.View()+" Loading character...", innerWidth, height-2)
	}

	return m.renderTitledBox(title, body, m.width, height, true)
}

// detailFailureText explains a failed lookup. Invalid ids and missing
// records cannot be retried.
func (m Model) detailFailureText(err error) string {
	styles := m.theme.Styles()

	var invalid *detail.ValidationError
	if errors.As(err, &invalid) {
		return styles.DangerText.Render(invalid.Error()) + "\n" +
			styles.FaintText.Render("Press esc to go back")
	}

	var remote *catalog.RemoteError
	if errors.As(err, &remote) && remote.StatusCode == 404 {
		return styles.DangerText.Render("Character not found") + "\n" +
			styles.FaintText.Render("Press esc to go back")
	}

	return m.failureText(err, true)
}

// renderDetailContent renders the record fields and the episode grid.
func (m Model) renderDetailContent(r catalog.Resource, width int) string {
	styles := m.theme.Styles()
	label := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Muted)).Width(12)

	var b strings.Builder
	row := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			value = "—"
		}
		b.WriteString(label.Render(name))
		b.WriteString(styles.Text.Render(value))
		b.WriteString("\n")
	}

	b.WriteString(styles.AccentText.Bold(true).Render(r.Name))
	b.WriteString("  ")
	b.WriteString(styles.StatusStyle(r.Status).Render(titleCase(r.Status)))
	b.WriteString("\n\n")

	row("Species", r.Species)
	row("Type", r.Type)
	row("Gender", r.Gender)
	row("Origin", r.Origin.Name)
	row("Location", r.Location.Name)

	episodes := detail.EpisodeNumbers(r)
	if first, ok := detail.FirstSeen(r); ok {
		row("First seen", fmt.Sprintf("Episode %d", first))
	} else {
		row("First seen", "")
	}
	row("Episodes", strconv.Itoa(len(r.Episode)))
	if created := r.ParsedCreated(); !created.IsZero() {
		row("Created", created.Format("2006-01-02"))
	}
	row("Favorite", ternary(m.isFavorite(r.ID), "yes", "no"))

	if len(episodes) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.AccentText.Bold(true).Render("Episodes"))
		b.WriteString("\n")
		b.WriteString(renderEpisodeGrid(episodes, width))
	}

	return strings.TrimRight(b.String(), "\n")
}

// renderEpisodeGrid lays episode numbers out in fixed-width cells.
func renderEpisodeGrid(episodes []int, width int) string {
	perRow := max(width/episodeCellWidth, 1)

	var lines []string
	var line strings.Builder
	for i, n := range episodes {
		line.WriteString(padRight("E"+strconv.Itoa(n), episodeCellWidth))
		if (i+1)%perRow == 0 {
			lines = append(lines, strings.TrimRight(line.String(), " "))
			line.Reset()
		}
	}
	if line.Len() > 0 {
		lines = append(lines, strings.TrimRight(line.String(), " "))
	}
	return strings.Join(lines, "\n")
}
