package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	want := []string{"Nightfox", "Kanagawa", "Slate"}
	if len(names) != len(want) {
		t.Fatalf("ThemeNames() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("ThemeNames() = %v, want %v", names, want)
		}
	}
}

func TestNextTheme(t *testing.T) {
	cases := map[string]string{
		"Nightfox": "Kanagawa",
		"Kanagawa": "Slate",
		"Slate":    "Nightfox",
		"Unknown":  "Nightfox",
	}
	for current, want := range cases {
		if got := NextTheme(current); got != want {
			t.Fatalf("NextTheme(%q) = %q, want %q", current, got, want)
		}
	}
}

func TestGetTheme_FallsBackToNightfox(t *testing.T) {
	if got := GetTheme("Slate").Name; got != "Slate" {
		t.Fatalf("GetTheme(Slate).Name = %q", got)
	}
	if got := GetTheme("Dracula").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(Dracula).Name = %q, want Nightfox (fallback)", got)
	}
}

func TestThemes_CoverEveryStatus(t *testing.T) {
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		for _, status := range []string{"alive", "dead", "unknown"} {
			if th.StatusColors[status] == "" {
				t.Fatalf("theme %s has no color for %q", name, status)
			}
		}
	}
}

func TestStatusColor_NormalisesAndFallsBack(t *testing.T) {
	th := GetTheme("Nightfox")
	styles := th.Styles()

	if got := styles.statusColor("  Dead "); got != th.StatusColors["dead"] {
		t.Fatalf("statusColor(Dead) = %q, want %q", got, th.StatusColors["dead"])
	}
	if got := styles.statusColor("zombie"); got != th.Muted {
		t.Fatalf("statusColor(zombie) = %q, want muted %q", got, th.Muted)
	}
	if got := styles.WithBackground(th.Surface).statusColor("zombie"); got != th.Muted {
		t.Fatalf("WithBackground dropped the muted fallback: %q", got)
	}
}

func TestStrings(t *testing.T) {
	if got := truncate("Abradolf Lincler", 8); got != "Abradol…" {
		t.Fatalf("truncate = %q", got)
	}
	if got := padRight("E1", 5); got != "E1   " {
		t.Fatalf("padRight = %q", got)
	}
	if got := titleCase("unknown"); got != "Unknown" {
		t.Fatalf("titleCase = %q", got)
	}
	if got := titleCase(" alive "); got != "Alive" {
		t.Fatalf("titleCase = %q", got)
	}
	if got := truncateMiddle("/?name=rick&status=alive&species=human&gender=male", 20); got != "/?name=ri…ender=male" {
		t.Fatalf("truncateMiddle = %q", got)
	}
	if got := truncateMiddle("/character/2", 20); got != "/character/2" {
		t.Fatalf("short address changed: %q", got)
	}
}

func TestBar(t *testing.T) {
	b := newBar("#1e1e2e")
	plain := lipgloss.NewStyle()

	if got := b.text("Rick  Sanchez", plain); !strings.Contains(ansi.Strip(got), "Rick  Sanchez") {
		t.Fatalf("text lost spacing: %q", ansi.Strip(got))
	}
	if got := b.text("", plain); got != "" {
		t.Fatalf("text(\"\") = %q", got)
	}
	if got := b.pad(0); got != "" {
		t.Fatalf("pad(0) = %q", got)
	}
	if got := ansi.Strip(b.join([]string{"a", "b"}, ": ")); got != "a: b" {
		t.Fatalf("join = %q", got)
	}
	if got := ansi.Strip(b.fill("x", 4)); got != "x   " {
		t.Fatalf("fill = %q", got)
	}
}
