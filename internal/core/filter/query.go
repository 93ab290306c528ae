package filter

import (
	"time"
)

// Query is the raw, user-supplied form of Criteria as it arrives from the
// command line or an MCP tool call.
type Query struct {
	Author     string `json:"author,omitempty"`
	Message    string `json:"message,omitempty"`
	Paths      string `json:"paths,omitempty"`
	Date       string `json:"date,omitempty"`
	DateBefore string `json:"date_before,omitempty"`
	DateAfter  string `json:"date_after,omitempty"`
	RevAfter   int64  `json:"rev_after,omitempty"`
	RevBefore  int64  `json:"rev_before,omitempty"`
}

// Compile parses every pattern and date of the query once. Relative dates
// are resolved against now.
func (q Query) Compile(now time.Time) (Criteria, error) {
	c := Criteria{
		Author:    q.Author,
		RevAfter:  q.RevAfter,
		RevBefore: q.RevBefore,
	}

	var err error
	if c.Message, err = ParseMessagePattern(q.Message); err != nil {
		return c, err
	}
	if c.Paths, err = ParsePathPattern(q.Paths); err != nil {
		return c, err
	}

	if c.Date, err = parseOptionalDay(q.Date, now); err != nil {
		return c, err
	}
	if c.DateBefore, err = parseOptionalDay(q.DateBefore, now); err != nil {
		return c, err
	}
	if c.DateAfter, err = parseOptionalDay(q.DateAfter, now); err != nil {
		return c, err
	}

	return c, nil
}

func parseOptionalDay(s string, now time.Time) (*Day, error) {
	if s == "" {
		return nil, nil
	}
	d, err := ParseDay(s, now)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
