package ui

import (
	"fmt"
	"strings"

	"github.com/five82/portal/internal/state"
)

// renderHeader renders the status bar: logo, address bar, fetch phase and
// favorites count.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := newBar(m.theme.Surface)
	compact := m.width < LayoutCompactWidth
	sep := bg.pad(2)

	maxAddr := 60
	if compact {
		maxAddr = 30
	}

	parts := []string{
		bg.text("portal", styles.Logo),
		bg.text(truncateMiddle(m.address(), maxAddr), styles.InfoText),
		m.renderPhase(styles, bg),
	}

	if m.favs != nil && m.favs.IsLoaded() {
		parts = append(parts,
			bg.text("★", styles.WarningText)+bg.pad(1)+
				bg.text(fmt.Sprintf("%d", m.favs.Len()), styles.Text))
	}

	if n := m.snapshot.List.ConsecutiveFailures; n > 1 && !compact {
		parts = append(parts, bg.text(fmt.Sprintf("%d failures in a row", n), styles.WarningText))
	}

	if m.notice != "" {
		parts = append(parts,
			bg.text("!", styles.WarningText.Bold(true))+bg.pad(1)+
				bg.text(m.notice, styles.WarningText))
	}

	return styles.Header.Width(m.width).Render(strings.Join(parts, sep))
}

// renderPhase renders the fetch phase of the active view.
func (m Model) renderPhase(styles Styles, bg bar) string {
	phase := m.snapshot.List.Phase
	if m.currentView == ViewDetail {
		phase = m.snapshot.Detail.Phase
	}

	switch phase {
	case state.Loading:
		return m.spinner.View() + bg.text("loading", styles.WarningText)
	case state.Failed:
		return bg.text("● failed", styles.DangerText)
	case state.Ready:
		return bg.text("● ready", styles.SuccessText)
	default:
		return bg.text("● waiting", styles.MutedText)
	}
}

// renderCommandBar renders the key hints for the current view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := newBar(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch {
	case m.editing != inputNone:
		commands = []cmd{
			{"enter", "Apply"},
			{"esc", "Done"},
		}
	case m.currentView == ViewDetail:
		commands = []cmd{
			{"esc", "Back"},
			{"Space", "Favorite"},
			{"j/k", "Scroll"},
			{"r", "Retry"},
			{"?", "More"},
		}
	default:
		commands = []cmd{
			{"/", "Name"},
			{"s", "Species"},
			{"S", "Status"},
			{"x", "Gender"},
			{"o/O", "Sort"},
			{"f", ternary(m.search.Params().Favorites, "All", "Favorites")},
			{"n/p", "Page"},
			{"enter", "Open"},
			{"?", "More"},
		}
	}

	colon := bg.text(":", styles.FaintText)
	sep := bg.pad(2)

	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.text(c.key, styles.AccentText)+colon+bg.text(c.desc, styles.MutedText))
	}

	segments = append(segments,
		bg.text("T", styles.AccentText)+colon+bg.text(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}
