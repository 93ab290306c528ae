package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// Day is a calendar date with no time of day
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf returns the calendar day of t as seen in loc
func DayOf(t time.Time, loc *time.Location) Day {
	y, m, d := t.In(loc).Date()
	return Day{Year: y, Month: m, Day: d}
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or after o
func (d Day) Compare(o Day) int {
	switch {
	case d.Year != o.Year:
		return sign(d.Year - o.Year)
	case d.Month != o.Month:
		return sign(int(d.Month) - int(o.Month))
	default:
		return sign(d.Day - o.Day)
	}
}

func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

// InvalidDateError reports a date criterion that could not be parsed
type InvalidDateError struct {
	Value string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date %q, expected yyyy-mm-dd", e.Value)
}

// ParseDay parses a date criterion.
// Supports yyyy-mm-dd (single digit month/day allowed) and natural language
// expressions such as "yesterday" or "last friday", resolved relative to now.
// Numeric dates are never handed to the natural language parser, and an
// expression only counts when it spans the whole input.
func ParseDay(s string, now time.Time) (Day, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-1-2", s); err == nil {
		return DayOf(t, time.UTC), nil
	}
	if looksNumeric(s) {
		return Day{}, &InvalidDateError{Value: s}
	}

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	result, err := w.Parse(s, now)
	if err == nil && result != nil && result.Index == 0 && len(result.Text) == len(s) {
		return DayOf(result.Time, now.Location()), nil
	}

	return Day{}, &InvalidDateError{Value: s}
}

// looksNumeric reports whether s is made of digit groups joined by date separators
func looksNumeric(s string) bool {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '/' || r == '.'
	})
	if len(parts) < 2 {
		return false
	}
	for _, part := range parts {
		for _, r := range part {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}
