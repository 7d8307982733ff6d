package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100

	// LayoutWideWidth is the minimum width to show the gender column.
	LayoutWideWidth = 120
)

// List table column widths.
const (
	colIDWidth      = 6
	colFavWidth     = 2
	colStatusWidth  = 9
	colSpeciesWidth = 16
	colGenderWidth  = 12
)

// Timing constants.
const (
	// DefaultSearchDebounce is how long text filters wait for typing to stop.
	DefaultSearchDebounce = 300 * time.Millisecond
)

// chromeHeight is the header, command bar and filter bar.
const chromeHeight = 3
