package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kksharma1618/svncherrypicker/internal/core/filter"
	"github.com/kksharma1618/svncherrypicker/internal/core/models"
	"github.com/kksharma1618/svncherrypicker/internal/core/picker"
	"github.com/kksharma1618/svncherrypicker/internal/core/populate"
)

// Picker is the part of picker.Picker the browser drives
type Picker interface {
	Cache() (*models.Cache, error)
	Filter(c filter.Criteria, opts picker.FilterOptions) ([]models.Revision, error)
	Pick(selector string) ([]int64, error)
	Unpick(selector string) ([]int64, error)
	MergeCommand() (string, error)
	Populate(ctx context.Context, progress populate.Progress) (*models.Cache, error)
	Location() *time.Location
}

type viewMode int

const (
	listView viewMode = iota
	detailView
	filterView
	helpView
)

type Model struct {
	ctx    context.Context
	picker Picker
	loc    *time.Location

	mode     viewMode
	list     list.Model
	viewport viewport.Model
	input    textinput.Model
	help     help.Model
	keys     keyMap
	width    int
	height   int
	loaded   bool
	err      error

	revisions []models.Revision
	picked    map[int64]bool
	filter    string // message pattern of the active filter, empty for none
	status    string

	populating    bool
	populateDone  int
	populateTotal int
}

// New creates the browser for the current session's cache
func New(ctx context.Context, p Picker) Model {
	input := textinput.New()
	input.Placeholder = "fix, r:^hotfix or r:f:i:merge"
	input.Prompt = "Message: "
	input.CharLimit = 256

	return Model{
		ctx:    ctx,
		picker: p,
		loc:    p.Location(),
		mode:   listView,
		input:  input,
		help:   help.New(),
		keys:   newKeyMap(),
		picked: map[int64]bool{},
	}
}

func (m Model) Init() tea.Cmd {
	return loadRevisions(m.picker, "")
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if m.loaded {
			m.list.SetSize(msg.Width, listHeight(msg.Height))
		}
		if m.mode == detailView {
			m.viewport.Width = msg.Width
			m.viewport.Height = listHeight(msg.Height)
		}
		return m, nil

	case tea.KeyMsg:
		// The filter input consumes every key, including q
		if m.mode == filterView {
			return m.updateFilter(msg)
		}

		switch msg.String() {
		case "ctrl+c", "q":
			if m.mode == listView {
				return m, tea.Quit
			}
			m.mode = listView
			return m, nil

		case "?":
			if m.mode == helpView {
				m.mode = listView
			} else {
				m.mode = helpView
			}
			return m, nil
		}

		switch m.mode {
		case listView:
			return m.updateList(msg)
		case detailView:
			return m.updateDetail(msg)
		case helpView:
			return m.updateHelp(msg)
		}

	case revisionsLoadedMsg:
		m.err = nil
		m.revisions = msg.revisions
		m.filter = msg.filter
		m.picked = pickedSet(msg.picked)
		m.list = createRevisionList(m.items(), m.width, listHeight(m.height))
		m.loaded = true
		return m, nil

	case pickedMsg:
		m.picked = pickedSet(msg.picked)
		m.status = formatPickCount(len(msg.picked))
		if m.mode == detailView {
			if r, ok := m.selected(); ok {
				m.viewport.SetContent(renderDetail(r, m.picked[r.Rev], m.loc, m.width))
			}
		}
		cmd := m.list.SetItems(m.items())
		return m, cmd

	case mergeCommandMsg:
		m.status = msg.command
		if msg.copied {
			m.status += " (copied)"
		}
		return m, nil

	case populateProgressMsg:
		m.populateDone = msg.done
		m.populateTotal = msg.total
		return m, waitForPopulate(msg.ch)

	case populateDoneMsg:
		m.populating = false
		m.populateDone, m.populateTotal = 0, 0
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.status = formatRevisionCount(msg.count)
		return m, loadRevisions(m.picker, "")

	case errMsg:
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	if m.err != nil {
		return errorStyle.Render("Error: "+m.err.Error()) + "\n\nPress q to quit, P to populate"
	}

	switch m.mode {
	case listView:
		return m.viewList()
	case detailView:
		return m.viewDetail()
	case filterView:
		return m.viewFilter()
	case helpView:
		return m.viewHelp()
	}

	return ""
}

// Picked returns the picked revisions among those currently listed
func (m Model) Picked() []int64 {
	var ids []int64
	for _, r := range m.revisions {
		if m.picked[r.Rev] {
			ids = append(ids, r.Rev)
		}
	}
	return ids
}

func (m Model) items() []list.Item {
	items := make([]list.Item, len(m.revisions))
	for i, r := range m.revisions {
		items[i] = revisionItem{rev: r, picked: m.picked[r.Rev], loc: m.loc}
	}
	return items
}

func (m Model) selected() (models.Revision, bool) {
	if !m.loaded {
		return models.Revision{}, false
	}
	item, ok := m.list.SelectedItem().(revisionItem)
	if !ok {
		return models.Revision{}, false
	}
	return item.rev, true
}

func pickedSet(ids []int64) map[int64]bool {
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// listHeight leaves room for the header, status and help lines
func listHeight(height int) int {
	if height < 6 {
		return height
	}
	return height - 4
}
