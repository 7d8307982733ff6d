package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// bar paints header, command bar and pager segments on one surface color.
// Words are styled one at a time and joined by painted spaces, because the
// reset a styled run ends with would otherwise leave unpainted gaps.
type bar struct {
	bg    lipgloss.Color
	plain lipgloss.Style
	gap   string
}

func newBar(surface string) bar {
	bg := lipgloss.Color(surface)
	plain := lipgloss.NewStyle().Background(bg)
	return bar{bg: bg, plain: plain, gap: plain.Render(" ")}
}

// text paints s in style. Runs of spaces are kept.
func (b bar) text(s string, style lipgloss.Style) string {
	if s == "" {
		return ""
	}
	style = style.Background(b.bg)
	words := strings.Split(s, " ")
	for i, w := range words {
		if w != "" {
			words[i] = style.Render(w)
		}
	}
	return strings.Join(words, b.gap)
}

// pad returns n painted spaces.
func (b bar) pad(n int) string {
	if n <= 0 {
		return ""
	}
	return b.plain.Render(strings.Repeat(" ", n))
}

func (b bar) join(segments []string, sep string) string {
	return strings.Join(segments, b.plain.Render(sep))
}

// fill stretches a rendered line to width so the surface reaches the edge.
func (b bar) fill(line string, width int) string {
	return b.plain.Width(width).Render(line)
}
