package ui

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const ellipsis = "…"

// truncate cuts value to limit runes, ending in an ellipsis when shortened.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	runes := []rune(value)
	if limit <= 0 || len(runes) <= limit {
		return value
	}
	if limit == 1 {
		return string(runes[:1])
	}
	return string(runes[:limit-1]) + ellipsis
}

// truncateMiddle shortens an address from the middle so both the path and
// the last query parameter stay readable.
func truncateMiddle(value string, limit int) string {
	value = strings.TrimSpace(value)
	runes := []rune(value)
	if limit <= 0 || len(runes) <= limit {
		return value
	}
	if limit <= 2 {
		return string(runes[:limit])
	}
	keep := limit - 1
	head := keep / 2
	tail := keep - head
	return string(runes[:head]) + ellipsis + string(runes[len(runes)-tail:])
}

// titleCase capitalizes API enum values such as "unknown" for display.
func titleCase(value string) string {
	return cases.Title(language.English).String(strings.TrimSpace(value))
}

// padRight pads s with spaces to width runes.
func padRight(s string, width int) string {
	if n := width - len([]rune(s)); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

func ternary(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}
