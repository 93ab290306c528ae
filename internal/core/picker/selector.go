package picker

import (
	"strconv"
	"strings"
)

// SelectorKind tells how a pick/unpick argument resolves to revision ids
type SelectorKind int

const (
	SelectorNone SelectorKind = iota // empty argument
	SelectorAll                      // "all"
	SelectorLast                     // "last", the ids of the most recent filter
	SelectorIDs                      // explicit comma separated ids
)

// Selector is a parsed pick/unpick argument
type Selector struct {
	Kind SelectorKind
	IDs  []int64 // set for SelectorIDs
	Raw  string
}

// ParseSelector parses a pick/unpick argument.
// Tokens of an id list are parsed by their leading digits ("12abc" is 12);
// tokens without a positive number are dropped.
func ParseSelector(s string) Selector {
	raw := strings.TrimSpace(s)
	switch raw {
	case "":
		return Selector{Kind: SelectorNone, Raw: raw}
	case "all":
		return Selector{Kind: SelectorAll, Raw: raw}
	case "last":
		return Selector{Kind: SelectorLast, Raw: raw}
	}

	ids := []int64{}
	for _, tok := range strings.Split(raw, ",") {
		if id := leadingInt(strings.TrimSpace(tok)); id > 0 {
			ids = append(ids, id)
		}
	}
	return Selector{Kind: SelectorIDs, IDs: ids, Raw: raw}
}

func leadingInt(s string) int64 {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// FormatIDs joins ids with commas, as accepted by ParseSelector and svn merge -c
func FormatIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

// appendUnique appends ids to list, keeping the first occurrence of each id
func appendUnique(list, ids []int64) []int64 {
	seen := make(map[int64]bool, len(list)+len(ids))
	out := make([]int64, 0, len(list)+len(ids))
	for _, id := range append(append([]int64{}, list...), ids...) {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// difference returns list without any of ids, preserving order
func difference(list, ids []int64) []int64 {
	drop := make(map[int64]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	out := make([]int64, 0, len(list))
	for _, id := range list {
		if !drop[id] {
			out = append(out, id)
		}
	}
	return out
}
