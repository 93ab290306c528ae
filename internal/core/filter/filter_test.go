package filter

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/kksharma1618/svncherrypicker/internal/core/models"
)

func sampleRevisions() []models.Revision {
	return []models.Revision{
		{
			Rev:     1,
			Author:  "alice",
			Date:    time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
			Paths:   []string{"/src/a.js"},
			Message: "fix bug",
		},
		{
			Rev:     2,
			Author:  "bob",
			Date:    time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC),
			Paths:   []string{"/docs/readme.md"},
			Message: "update docs",
		},
		{
			Rev:     3,
			Author:  "carol",
			Date:    time.Date(2024, 2, 15, 18, 0, 0, 0, time.UTC),
			Paths:   nil,
			Message: "just sent the release notes",
		},
	}
}

func revIDs(revs []models.Revision) []int64 {
	ids := []int64{}
	for _, r := range revs {
		ids = append(ids, r.Rev)
	}
	return ids
}

func mustQuery(t *testing.T, q Query) Criteria {
	t.Helper()
	c, err := q.Compile(time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Compile(%+v) error = %v", q, err)
	}
	return c
}

func TestApply(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  []int64
	}{
		{"no criteria", Query{}, []int64{1, 2, 3}},
		{"author exact", Query{Author: "alice"}, []int64{1}},
		{"author is case sensitive", Query{Author: "Alice"}, []int64{}},
		{"glob on base name", Query{Paths: "g:*.js"}, []int64{1}},
		{"glob with directories", Query{Paths: "g:/docs/**"}, []int64{2}},
		{"path substring ignores case", Query{Paths: "README"}, []int64{2}},
		{"path substring at start", Query{Paths: "/src"}, []int64{1}},
		{"path regex", Query{Paths: `r:\.md$`}, []int64{2}},
		{"rev after", Query{RevAfter: 1}, []int64{2, 3}},
		{"rev before", Query{RevBefore: 3}, []int64{1, 2}},
		{"rev window", Query{RevAfter: 1, RevBefore: 3}, []int64{2}},
		{"message regex", Query{Message: "r:^fix"}, []int64{1}},
		{"message regex with flags", Query{Message: "r:f:i:UPDATE"}, []int64{2}},
		{"message substring", Query{Message: "SENT"}, []int64{3}},
		{"combined criteria", Query{Author: "bob", Paths: "g:*.js"}, []int64{}},
		{"date exact", Query{Date: "2024-02-01"}, []int64{2}},
		{"date after", Query{DateAfter: "2024-01-01"}, []int64{2, 3}},
		{"date before", Query{DateBefore: "2024-02-15"}, []int64{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(sampleRevisions(), mustQuery(t, tt.query), time.UTC)
			if diff := cmp.Diff(tt.want, revIDs(got)); diff != "" {
				t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// A substring found at the very start of the message is not a match.
// This is long-standing behavior and kept deliberately.
func TestMessageSubstringQuirkAtIndexZero(t *testing.T) {
	p, err := ParseMessagePattern("sent")
	if err != nil {
		t.Fatal(err)
	}

	if p.MatchMessage("sent update") {
		t.Error(`"sent" should not match "sent update" (index 0)`)
	}
	if !p.MatchMessage("just sent") {
		t.Error(`"sent" should match "just sent" (index 5)`)
	}
	if !p.MatchMessage("Just SENT") {
		t.Error("substring match should ignore case")
	}
}

func TestDateBoundariesAreExclusive(t *testing.T) {
	rev := models.Revision{Rev: 9, Date: time.Date(2024, 5, 20, 23, 59, 0, 0, time.UTC)}
	day := Day{Year: 2024, Month: time.May, Day: 20}

	tests := []struct {
		name     string
		criteria Criteria
		want     bool
	}{
		{"before same day", Criteria{DateBefore: &day}, false},
		{"after same day", Criteria{DateAfter: &day}, false},
		{"on same day", Criteria{Date: &day}, true},
		{"before next day", Criteria{DateBefore: &Day{2024, time.May, 21}}, true},
		{"after previous day", Criteria{DateAfter: &Day{2024, time.May, 19}}, true},
		{"on other day", Criteria{Date: &Day{2023, time.May, 20}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.criteria.Match(rev, time.UTC); got != tt.want {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDateUsesLocation(t *testing.T) {
	// 23:30 UTC on the 1st is already the 2nd in UTC+2
	rev := models.Revision{Rev: 1, Date: time.Date(2024, 6, 1, 23, 30, 0, 0, time.UTC)}
	c := Criteria{Date: &Day{2024, time.June, 2}}

	if c.Match(rev, time.UTC) {
		t.Error("should not match in UTC")
	}
	if !c.Match(rev, time.FixedZone("UTC+2", 2*60*60)) {
		t.Error("should match in UTC+2")
	}
}

func TestEmptyPathsNeverMatch(t *testing.T) {
	for _, q := range []string{"g:*", "r:.*", "a"} {
		p, err := ParsePathPattern(q)
		if err != nil {
			t.Fatal(err)
		}
		if p.MatchPaths(nil) {
			t.Errorf("%q matched an empty path list", q)
		}
	}
}

func TestRevsAllowList(t *testing.T) {
	revs := sampleRevisions()

	got := Apply(revs, Criteria{Revs: []int64{3, 1}}, time.UTC)
	if diff := cmp.Diff([]int64{1, 3}, revIDs(got)); diff != "" {
		t.Errorf("allow-list mismatch (-want +got):\n%s", diff)
	}

	got = Apply(revs, Criteria{Revs: []int64{}}, time.UTC)
	if len(got) != 0 {
		t.Errorf("empty allow-list matched %v", revIDs(got))
	}
}

func TestParseRegexFlags(t *testing.T) {
	tests := []struct {
		in        string
		wantExpr  string
		wantFlags string
		wantErr   bool
	}{
		{"r:sent", "sent", "", false},
		{"r:f:gi:sent", "sent", "gi", false},
		{"r:f:i:a:b:c", "a:b:c", "i", false},
		{"r:f:i", "", "i", false},
		{"r:f:q:sent", "", "", true},
		{"r:(unclosed", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, err := ParseMessagePattern(tt.in)
			if tt.wantErr {
				var pe *InvalidPatternError
				if !errors.As(err, &pe) {
					t.Fatalf("expected InvalidPatternError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Kind != Regex {
				t.Errorf("Kind = %v, want regex", p.Kind)
			}
			if p.Expr != tt.wantExpr || p.Flags != tt.wantFlags {
				t.Errorf("got expr=%q flags=%q, want expr=%q flags=%q", p.Expr, p.Flags, tt.wantExpr, tt.wantFlags)
			}
		})
	}
}

func TestParsePatternKinds(t *testing.T) {
	p, _ := ParseMessagePattern("g:*.js")
	if p.Kind != Substring {
		t.Errorf("message g: prefix should be a substring, got %v", p.Kind)
	}

	p, _ = ParsePathPattern("g:*.js")
	if p.Kind != Glob || p.Expr != "*.js" {
		t.Errorf("path glob = %+v", p)
	}

	if p, _ := ParsePathPattern(""); p != nil {
		t.Error("empty pattern should be nil")
	}

	if _, err := ParsePathPattern("g:[abc"); err == nil {
		t.Error("expected error for malformed glob")
	}
}

func TestParseDay(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		in      string
		want    Day
		wantErr bool
	}{
		{"2024-01-05", Day{2024, time.January, 5}, false},
		{" 2024-1-5 ", Day{2024, time.January, 5}, false},
		{"yesterday", Day{2024, time.March, 9}, false},
		{"last friday", Day{2024, time.March, 8}, false},
		{"2024-02-30", Day{}, true},
		{"2024-13-01", Day{}, true},
		{"01-05-2024", Day{}, true},
		{"2024/01/05", Day{}, true},
		{"2024.01.05", Day{}, true},
		{"fixed yesterday", Day{}, true},
		{"yesterday or so", Day{}, true},
		{"banana", Day{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDay(tt.in, now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDay() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseDay() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQueryCompileErrors(t *testing.T) {
	now := time.Now()

	if _, err := (Query{DateAfter: "banana"}).Compile(now); err == nil {
		t.Error("expected date error")
	} else {
		var de *InvalidDateError
		if !errors.As(err, &de) {
			t.Errorf("expected InvalidDateError, got %T", err)
		}
	}

	if _, err := (Query{Paths: "r:["}).Compile(now); err == nil {
		t.Error("expected pattern error")
	}
}
