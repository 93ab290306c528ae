package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"

	"github.com/kksharma1618/svncherrypicker/internal/core/models"
)

func createViewport(r models.Revision, picked bool, loc *time.Location, width, height int) viewport.Model {
	vp := viewport.New(width, listHeight(height))
	vp.SetContent(renderDetail(r, picked, loc, width))
	return vp
}

func renderDetail(r models.Revision, picked bool, loc *time.Location, width int) string {
	var b strings.Builder

	title := fmt.Sprintf("Revision r%d", r.Rev)
	if picked {
		title += " (picked)"
	}
	b.WriteString(titleStyle.Render(title) + "\n")
	b.WriteString(fmt.Sprintf("Author: %s\n", r.Author))
	b.WriteString(fmt.Sprintf("Date:   %s\n", formatDate(r.Date, loc)))
	b.WriteString(strings.Repeat("─", max(width, 20)) + "\n\n")

	msg := strings.TrimSpace(r.Message)
	if width > 4 {
		msg = wordwrap.String(msg, width-2)
	}
	b.WriteString(msg + "\n\n")

	b.WriteString(metaStyle.Render(fmt.Sprintf("Changed paths (%d)", len(r.Paths))) + "\n")
	for _, p := range r.Paths {
		b.WriteString("  " + p + "\n")
	}

	return b.String()
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Clear):
		m.mode = listView
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		if r, ok := m.selected(); ok {
			return m, togglePick(m.picker, r.Rev, m.picked[r.Rev])
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) viewDetail() string {
	footer := helpStyle.Render("space pick/unpick • j/k scroll • esc back • q back")
	if m.status != "" {
		footer = statusStyle.Render(m.status) + "\n" + footer
	}
	return m.viewport.View() + "\n" + footer
}
