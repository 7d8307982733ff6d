package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/portal/internal/query"
)

// startEditing focuses the text input on field, seeded with its value.
func (m *Model) startEditing(field inputField, value string) tea.Cmd {
	m.editing = field
	m.input.Placeholder = ternary(field == inputName, "name", "species")
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) stopEditing() {
	m.editing = inputNone
	m.input.Blur()
	m.debounceID++
}

// handleInputKey routes keys to the text input. Every edit schedules a
// debounced patch; enter applies at once and esc drops the pending one.
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	field := m.editing

	switch {
	case msg.Type == tea.KeyCtrlC:
		m.stopEditing()
		return m, m.quit()

	case key.Matches(msg, m.keys.Confirm):
		value := m.input.Value()
		m.stopEditing()
		cmd := m.apply(patchFor(field, value))
		return m, cmd

	case key.Matches(msg, m.keys.Cancel):
		m.stopEditing()
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return m, cmd
	}

	m.debounceID++
	pending := debounceMsg{id: m.debounceID, field: field, value: m.input.Value()}
	return m, tea.Batch(cmd, debounceCmd(m.debounce, pending))
}

// handleDebounce applies a text edit once typing has paused. Ticks from
// earlier keystrokes, or from an edit that was since confirmed or
// discarded, are ignored.
func (m Model) handleDebounce(msg debounceMsg) (tea.Model, tea.Cmd) {
	if msg.id != m.debounceID || m.editing != msg.field {
		return m, nil
	}
	cmd := m.apply(patchFor(msg.field, msg.value))
	return m, cmd
}

func patchFor(field inputField, value string) query.Patch {
	if field == inputSpecies {
		return query.SetSpecies(value)
	}
	return query.SetName(value)
}
