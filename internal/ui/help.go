package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var helpTitles = []string{"Navigation", "Filters", "Pages", "General"}

// helpSections groups the key map bindings under their section titles.
func (m Model) helpSections() []helpSection {
	groups := m.keys.FullHelp()
	sections := make([]helpSection, 0, len(groups))
	for i, group := range groups {
		section := helpSection{title: helpTitles[i]}
		for _, b := range group {
			h := b.Help()
			section.items = append(section.items, helpItem{key: h.Key, desc: h.Desc})
		}
		sections = append(sections, section)
	}
	return sections
}

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()
	sections := m.helpSections()

	var b strings.Builder

	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	for i, section := range sections {
		b.WriteString(styles.AccentText.Bold(true).Render(section.title))
		b.WriteString("\n")

		for _, item := range section.items {
			keyStyle := lipgloss.NewStyle().
				Foreground(lipgloss.Color(m.theme.Warning)).
				Width(12)
			b.WriteString(keyStyle.Render(item.key))
			b.WriteString(styles.Text.Render(item.desc))
			b.WriteString("\n")
		}

		if i < len(sections)-1 {
			b.WriteString("\n")
		}
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(40)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}

type helpSection struct {
	title string
	items []helpItem
}

type helpItem struct {
	key  string
	desc string
}
