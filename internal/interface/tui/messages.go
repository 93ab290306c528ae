package tui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kksharma1618/svncherrypicker/internal/core/filter"
	"github.com/kksharma1618/svncherrypicker/internal/core/models"
	"github.com/kksharma1618/svncherrypicker/internal/core/picker"
)

type errMsg struct {
	err error
}

type revisionsLoadedMsg struct {
	revisions []models.Revision
	picked    []int64
	filter    string
}

type pickedMsg struct {
	picked []int64
}

type mergeCommandMsg struct {
	command string
	copied  bool
}

type populateProgressMsg struct {
	done  int
	total int
	ch    chan tea.Msg
}

type populateDoneMsg struct {
	count int
	err   error
}

// loadRevisions lists the cached revisions. A non-empty pattern runs a
// message filter, which also records the matches for "pick last".
func loadRevisions(p Picker, pattern string) tea.Cmd {
	return func() tea.Msg {
		var revs []models.Revision
		if pattern == "" {
			cache, err := p.Cache()
			if err != nil {
				return errMsg{err}
			}
			revs = make([]models.Revision, 0, len(cache.Revisions))
			for _, id := range cache.SortedIDs() {
				revs = append(revs, cache.Revisions[id])
			}
			return revisionsLoadedMsg{revisions: revs, picked: cache.PickedRevisions}
		}

		tp, err := filter.ParseMessagePattern(pattern)
		if err != nil {
			return errMsg{err}
		}
		revs, err = p.Filter(filter.Criteria{Message: tp}, picker.FilterOptions{})
		if err != nil {
			return errMsg{err}
		}

		cache, err := p.Cache()
		if err != nil {
			return errMsg{err}
		}
		return revisionsLoadedMsg{revisions: revs, picked: cache.PickedRevisions, filter: pattern}
	}
}

// togglePick adds rev to the pick list, or removes it when already picked
func togglePick(p Picker, rev int64, picked bool) tea.Cmd {
	return func() tea.Msg {
		selector := strconv.FormatInt(rev, 10)
		var (
			ids []int64
			err error
		)
		if picked {
			ids, err = p.Unpick(selector)
		} else {
			ids, err = p.Pick(selector)
		}
		if err != nil {
			return errMsg{err}
		}
		return pickedMsg{picked: ids}
	}
}

func mergeCommand(p Picker, copyToClipboard bool) tea.Cmd {
	return func() tea.Msg {
		cmd, err := p.MergeCommand()
		if err != nil {
			return errMsg{err}
		}
		if copyToClipboard {
			if err := clipboard.WriteAll(cmd); err != nil {
				return errMsg{fmt.Errorf("failed to copy to clipboard: %w", err)}
			}
		}
		return mergeCommandMsg{command: cmd, copied: copyToClipboard}
	}
}

// channelProgress forwards populate progress to the UI. Updates are dropped
// while the UI is behind; only the final result is guaranteed.
type channelProgress struct {
	ch chan tea.Msg
}

func (c channelProgress) Update(done, total int, rev int64, reused bool) {
	select {
	case c.ch <- populateProgressMsg{done: done, total: total, ch: c.ch}:
	default:
	}
}

func (c channelProgress) Finish() {}

// startPopulate refreshes the cache in the background and streams progress
func startPopulate(ctx context.Context, p Picker) tea.Cmd {
	return func() tea.Msg {
		ch := make(chan tea.Msg, 16)
		go func() {
			defer close(ch)
			cache, err := p.Populate(ctx, channelProgress{ch: ch})
			if err != nil {
				ch <- populateDoneMsg{err: err}
				return
			}
			ch <- populateDoneMsg{count: len(cache.Revisions)}
		}()
		return waitForPopulate(ch)()
	}
}

func waitForPopulate(ch chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

func formatPickCount(n int) string {
	if n == 1 {
		return "1 revision picked"
	}
	return fmt.Sprintf("%d revisions picked", n)
}

func formatRevisionCount(n int) string {
	if n == 1 {
		return "1 unmerged revision found"
	}
	return fmt.Sprintf("%d unmerged revisions found", n)
}
