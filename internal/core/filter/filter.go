// Package filter evaluates revision criteria against cached revision metadata.
package filter

import (
	"time"

	"github.com/kksharma1618/svncherrypicker/internal/core/models"
)

// Criteria is a set of predicates combined with AND. Zero-valued fields are
// not applied.
type Criteria struct {
	Author     string       // exact author match
	Message    *TextPattern // commit message pattern
	Paths      *TextPattern // matched against every changed path, any may match
	DateBefore *Day         // strictly before this day
	DateAfter  *Day         // strictly after this day
	Date       *Day         // on this day
	RevAfter   int64        // strictly greater revision number
	RevBefore  int64        // strictly smaller revision number

	// Revs restricts matches to an explicit allow-list. A nil slice applies
	// no restriction; an empty non-nil slice matches nothing.
	Revs []int64
}

// Match reports whether r satisfies every criterion. Dates are compared as
// calendar days in loc.
func (c *Criteria) Match(r models.Revision, loc *time.Location) bool {
	if c.Author != "" && r.Author != c.Author {
		return false
	}

	if c.Message != nil && !c.Message.MatchMessage(r.Message) {
		return false
	}

	if c.Paths != nil && !c.Paths.MatchPaths(r.Paths) {
		return false
	}

	if c.DateBefore != nil || c.DateAfter != nil || c.Date != nil {
		day := DayOf(r.Date, loc)
		if c.DateBefore != nil && day.Compare(*c.DateBefore) >= 0 {
			return false
		}
		if c.DateAfter != nil && day.Compare(*c.DateAfter) <= 0 {
			return false
		}
		if c.Date != nil && day.Compare(*c.Date) != 0 {
			return false
		}
	}

	if c.RevAfter != 0 && r.Rev <= c.RevAfter {
		return false
	}
	if c.RevBefore != 0 && r.Rev >= c.RevBefore {
		return false
	}

	if c.Revs != nil && !containsRev(c.Revs, r.Rev) {
		return false
	}

	return true
}

// Apply returns the revisions matching c, preserving input order
func Apply(revisions []models.Revision, c Criteria, loc *time.Location) []models.Revision {
	if loc == nil {
		loc = time.Local
	}
	matched := []models.Revision{}
	for _, r := range revisions {
		if c.Match(r, loc) {
			matched = append(matched, r)
		}
	}
	return matched
}

func containsRev(revs []int64, rev int64) bool {
	for _, r := range revs {
		if r == rev {
			return true
		}
	}
	return false
}
