package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = listView
		return m, nil
	}

	return m, nil
}

func (m Model) viewHelp() string {
	help := `
svncherrypicker - Help
══════════════════════

REVISION LIST
─────────────
  ↑/↓, j/k     Navigate revisions
  space        Pick or unpick the selected revision
  Enter        View revision details
  /            Filter by commit message
  esc          Clear the filter
  m            Show the merge command
  c            Copy the merge command to the clipboard
  P            Refresh unmerged revisions from svn
  ?            Show this help
  q            Quit

REVISION DETAIL
───────────────
  space        Pick or unpick
  j/k          Scroll line by line
  esc, q       Back to the list

Picks are saved immediately. A message filter also sets the
revisions used by "svncherrypicker pick last".

Press ? or esc to return
`

	return helpStyle.Render(help)
}
