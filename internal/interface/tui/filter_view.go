package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		m.mode = listView
		m.input.Blur()
		return m, nil

	case "enter":
		m.mode = listView
		m.input.Blur()
		return m, loadRevisions(m.picker, strings.TrimSpace(m.input.Value()))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) viewFilter() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Filter by message") + "\n\n")
	b.WriteString(m.input.View() + "\n\n")
	b.WriteString(metaStyle.Render("text          case-insensitive substring") + "\n")
	b.WriteString(metaStyle.Render("r:<regex>     regular expression") + "\n")
	b.WriteString(metaStyle.Render("r:f:i:<re>    regular expression with flags") + "\n\n")
	b.WriteString(helpStyle.Render("enter apply • empty clears • esc cancel"))

	return b.String()
}
