// Package svnlog parses the output of `svn log --xml` and
// `svn mergeinfo --show-revs`.
package svnlog

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// LogEntry is a single <logentry> of `svn log --xml --verbose`
type LogEntry struct {
	Revision int64
	Author   string
	Date     time.Time
	Paths    []ChangedPath
	Message  string
}

// ChangedPath is a single <path> of a verbose log entry
type ChangedPath struct {
	Path   string
	Action string // A, M, D or R
	Kind   string // file or dir
}

// PathNames returns the changed paths without their attributes
func (e *LogEntry) PathNames() []string {
	names := make([]string, 0, len(e.Paths))
	for _, p := range e.Paths {
		names = append(names, p.Path)
	}
	return names
}

// rawLog mirrors the XML document produced by svn
type rawLog struct {
	Entries []rawEntry `xml:"logentry"`
}

type rawEntry struct {
	Revision string    `xml:"revision,attr"`
	Author   string    `xml:"author"`
	Date     string    `xml:"date"`
	Paths    []rawPath `xml:"paths>path"`
	Msg      string    `xml:"msg"`
}

type rawPath struct {
	Action string `xml:"action,attr"`
	Kind   string `xml:"kind,attr"`
	Value  string `xml:",chardata"`
}

// ParseLog parses an `svn log --xml` document
func ParseLog(r io.Reader) ([]LogEntry, error) {
	var raw rawLog
	if err := xml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode log xml: %w", err)
	}

	entries := make([]LogEntry, 0, len(raw.Entries))
	for i, re := range raw.Entries {
		rev, err := strconv.ParseInt(strings.TrimSpace(re.Revision), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("entry %d: invalid revision %q: %w", i, re.Revision, err)
		}

		entry := LogEntry{
			Revision: rev,
			Author:   re.Author,
			Message:  re.Msg,
			Paths:    make([]ChangedPath, 0, len(re.Paths)),
		}

		// Revisions without a date exist (e.g. r0 or unreadable entries)
		if ds := strings.TrimSpace(re.Date); ds != "" {
			entry.Date, err = time.Parse(time.RFC3339Nano, ds)
			if err != nil {
				return nil, fmt.Errorf("r%d: invalid date %q: %w", rev, ds, err)
			}
		}

		for _, p := range re.Paths {
			entry.Paths = append(entry.Paths, ChangedPath{
				Path:   strings.TrimSpace(p.Value),
				Action: p.Action,
				Kind:   p.Kind,
			})
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// ParseEligible parses the output of `svn mergeinfo --show-revs eligible`.
// Each line looks like "r1234", optionally followed by "*" for
// non-inheritable ranges. Lines that do not carry a positive revision
// number are skipped.
func ParseEligible(r io.Reader) ([]int64, error) {
	var revs []int64

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "r") {
			continue
		}
		if rev := leadingInt(line[1:]); rev > 0 {
			revs = append(revs, rev)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read mergeinfo output: %w", err)
	}

	return revs, nil
}

// leadingInt parses the decimal digits at the start of s, 0 if there are none
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
