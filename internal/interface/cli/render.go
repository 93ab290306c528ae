package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/kksharma1618/svncherrypicker/internal/core/models"
	"github.com/kksharma1618/svncherrypicker/internal/core/picker"
)

// Display modes
const (
	displayCount = "c"
	displayTable = "t"
	displayJSON  = "j"
	displayYAML  = "y"
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("green"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	borderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("246"))
)

// fieldNames maps field letters to table headers
var fieldNames = map[string]string{
	"a": "Author",
	"d": "Date",
	"p": "Paths",
	"m": "Message",
}

// normalizeDisplay falls back to the table for unknown modes
func normalizeDisplay(d string) string {
	switch d {
	case displayCount, displayTable, displayJSON, displayYAML:
		return d
	}
	return displayTable
}

// parseFields returns the known field letters of a list like "a,d,p,m",
// in the given order and without repeats
func parseFields(s string) []string {
	var fields []string
	seen := map[string]bool{}
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if _, ok := fieldNames[f]; !ok || seen[f] {
			continue
		}
		seen[f] = true
		fields = append(fields, f)
	}
	return fields
}

// revisionView is a revision reduced to the selected fields
type revisionView struct {
	Rev     int64      `json:"rev" yaml:"rev"`
	Author  *string    `json:"author,omitempty" yaml:"author,omitempty"`
	Date    *time.Time `json:"date,omitempty" yaml:"date,omitempty"`
	Paths   *[]string  `json:"paths,omitempty" yaml:"paths,omitempty"`
	Message *string    `json:"message,omitempty" yaml:"message,omitempty"`
}

func newRevisionView(r models.Revision, fields []string) revisionView {
	v := revisionView{Rev: r.Rev}
	for _, f := range fields {
		switch f {
		case "a":
			author := r.Author
			v.Author = &author
		case "d":
			date := r.Date
			v.Date = &date
		case "p":
			paths := r.Paths
			if paths == nil {
				paths = []string{}
			}
			v.Paths = &paths
		case "m":
			msg := r.Message
			v.Message = &msg
		}
	}
	return v
}

// formatDay renders a date like "1st Jan 2024"
func formatDay(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	t = t.In(loc)
	return fmt.Sprintf("%s %s %d", humanize.Ordinal(t.Day()), t.Format("Jan"), t.Year())
}

// renderRevisions writes revisions in the given display mode. countFormat
// is used for the count mode and receives the number of revisions.
func renderRevisions(w io.Writer, revs []models.Revision, display, fieldList, countFormat string, loc *time.Location) error {
	display = normalizeDisplay(display)
	fields := parseFields(fieldList)

	switch display {
	case displayCount:
		_, err := fmt.Fprintln(w, successStyle.Render(fmt.Sprintf(countFormat, len(revs))))
		return err

	case displayJSON, displayYAML:
		views := make([]revisionView, 0, len(revs))
		for _, r := range revs {
			views = append(views, newRevisionView(r, fields))
		}
		if display == displayYAML {
			enc := yaml.NewEncoder(w)
			enc.SetIndent(2)
			if err := enc.Encode(views); err != nil {
				return fmt.Errorf("failed to encode yaml: %w", err)
			}
			return enc.Close()
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "    ")
		if err := enc.Encode(views); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	}

	_, err := fmt.Fprintln(w, revisionTable(revs, fields, loc))
	return err
}

func revisionTable(revs []models.Revision, fields []string, loc *time.Location) string {
	headers := []string{"Revision"}
	for _, f := range fields {
		headers = append(headers, fieldNames[f])
	}

	rows := make([][]string, 0, len(revs))
	for _, r := range revs {
		row := []string{strconv.FormatInt(r.Rev, 10)}
		for _, f := range fields {
			switch f {
			case "a":
				row = append(row, r.Author)
			case "d":
				row = append(row, formatDay(r.Date, loc))
			case "p":
				row = append(row, strings.Join(r.Paths, "\n"))
			case "m":
				row = append(row, strings.TrimSpace(r.Message))
			}
		}
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)

	return t.String()
}

// formatPicked renders a pick list like the pick and unpick commands print it
func formatPicked(ids []int64) string {
	return "Picked revisions " + picker.FormatIDs(ids)
}
