// Package ui provides the terminal interface for portal, built on Bubble
// Tea and Lip Gloss.
//
// # Views
//
// Two views share one header and command bar:
//
//   - List: the character table for the current search parameters, with the
//     filter summary above it and the pagination window below it.
//   - Detail: one character with its places and an episode grid, shown in a
//     scrollable viewport.
//
// # Data flow
//
// The UI never fetches directly. Key presses become parameter patches handed
// to the search orchestrator (or ids handed to the detail loader); the
// returned request runs inside a tea.Cmd and its result comes back as a
// message that is resolved on the event loop. After every transition the
// model re-reads the state store, so what is drawn is always the last
// published snapshot.
//
// Name and species edits are debounced: each keystroke bumps a counter and
// schedules a tick, and only the tick carrying the latest counter applies
// the patch.
//
// # Themes
//
// Themes are defined in theme.go. The active theme is cycled with T and
// saved to the preferences file.
package ui
