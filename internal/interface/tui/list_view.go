package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/kksharma1618/svncherrypicker/internal/core/models"
)

type revisionItem struct {
	rev    models.Revision
	picked bool
	loc    *time.Location
}

func (i revisionItem) FilterValue() string {
	return i.rev.Message
}

func (i revisionItem) Title() string {
	mark := "[ ]"
	if i.picked {
		mark = "[x]"
	}
	return fmt.Sprintf("%s r%d  %s", mark, i.rev.Rev, firstLine(i.rev.Message, 72))
}

func (i revisionItem) Description() string {
	return fmt.Sprintf("%s | %s | %s", i.rev.Author, formatDate(i.rev.Date, i.loc), formatPathCount(len(i.rev.Paths)))
}

// revisionDelegate highlights picked revisions
type revisionDelegate struct {
	list.DefaultDelegate
}

func (d revisionDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	r, ok := item.(revisionItem)
	if !ok {
		d.DefaultDelegate.Render(w, m, index, item)
		return
	}

	title := r.Title()
	desc := r.Description()

	switch {
	case index == m.Index():
		title = selectedItemStyle.Render(title)
		desc = selectedItemStyle.Faint(true).Render(desc)
	case r.picked:
		title = pickedItemStyle.Render(title)
		desc = itemStyle.Render(desc)
	default:
		title = itemStyle.Render(title)
		desc = itemStyle.Render(desc)
	}

	fmt.Fprintf(w, "%s\n%s", title, desc)
}

func createRevisionList(items []list.Item, width, height int) list.Model {
	delegate := revisionDelegate{DefaultDelegate: list.NewDefaultDelegate()}

	l := list.New(items, delegate, width, height)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false) // Message filtering goes through the picker with /
	l.KeyMap.Quit.SetEnabled(false)

	return l
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Toggle):
		if r, ok := m.selected(); ok {
			return m, togglePick(m.picker, r.Rev, m.picked[r.Rev])
		}
		return m, nil

	case key.Matches(msg, m.keys.Detail):
		if r, ok := m.selected(); ok {
			m.viewport = createViewport(r, m.picked[r.Rev], m.loc, m.width, m.height)
			m.mode = detailView
		}
		return m, nil

	case key.Matches(msg, m.keys.Filter):
		m.mode = filterView
		m.err = nil
		m.input.SetValue(m.filter)
		cmd := m.input.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Clear):
		if m.filter != "" {
			return m, loadRevisions(m.picker, "")
		}
		return m, nil

	case key.Matches(msg, m.keys.Merge):
		return m, mergeCommand(m.picker, false)

	case key.Matches(msg, m.keys.Copy):
		return m, mergeCommand(m.picker, true)

	case key.Matches(msg, m.keys.Populate):
		if m.populating {
			return m, nil
		}
		m.populating = true
		m.err = nil
		m.status = ""
		return m, startPopulate(m.ctx, m.picker)
	}

	if !m.loaded {
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) viewList() string {
	var b strings.Builder

	header := fmt.Sprintf("%d revisions | %d picked", len(m.revisions), len(m.picked))
	if m.filter != "" {
		header += " | message: " + m.filter
	}
	b.WriteString(titleStyle.Render("svncherrypicker") + "  " + metaStyle.Render(header) + "\n")

	switch {
	case !m.loaded:
		b.WriteString(metaStyle.Render("Loading revisions..."))
	case len(m.revisions) == 0 && m.filter != "":
		b.WriteString(metaStyle.Render("No revisions match. Press esc to clear the filter."))
	case len(m.revisions) == 0:
		b.WriteString(metaStyle.Render("No unmerged revisions. Press P to populate."))
	default:
		b.WriteString(m.list.View())
	}
	b.WriteString("\n")

	switch {
	case m.populating && m.populateTotal > 0:
		b.WriteString(renderProgressBar(m.populateDone, m.populateTotal, m.width))
	case m.populating:
		b.WriteString(metaStyle.Render("Finding unmerged revisions..."))
	case m.status != "":
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")

	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// formatDate renders the commit time like "3 days ago (Jan 2, 2024)"
func formatDate(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return "unknown date"
	}
	return fmt.Sprintf("%s (%s)", humanize.Time(t), t.In(loc).Format("Jan 2, 2006"))
}

func formatPathCount(n int) string {
	if n == 1 {
		return "1 path"
	}
	return fmt.Sprintf("%d paths", n)
}

func firstLine(s string, maxLen int) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}

// renderProgressBar draws the populate progress like the CLI reporter
func renderProgressBar(current, total int, width int) string {
	if total == 0 {
		return ""
	}

	pct := float64(current) / float64(total) * 100

	barWidth := width - 30 // Leave space for percentage and counts
	if barWidth > 50 {
		barWidth = 50
	}
	if barWidth < 20 {
		barWidth = 20
	}

	filled := int(float64(barWidth) * float64(current) / float64(total))
	if filled > barWidth {
		filled = barWidth
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	return fmt.Sprintf("[%s] %3.0f%% (%d/%d)", bar, pct, current, total)
}
