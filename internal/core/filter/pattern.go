package filter

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dlclark/regexp2"
)

// PatternKind selects how a TextPattern is matched
type PatternKind int

const (
	Substring PatternKind = iota // case-insensitive substring
	Regex                        // r:<pattern> or r:f:<flags>:<pattern>
	Glob                         // g:<pattern>, paths only
)

func (k PatternKind) String() string {
	switch k {
	case Regex:
		return "regex"
	case Glob:
		return "glob"
	default:
		return "substring"
	}
}

// Upper bound for a single regex evaluation against one message or path
const matchTimeout = 2 * time.Second

// TextPattern is a message or path criterion parsed from its prefixed string form
type TextPattern struct {
	Kind  PatternKind
	Expr  string // pattern text without the mode prefix
	Flags string // regex flags, as given

	lower string
	re    *regexp2.Regexp
}

// InvalidPatternError reports a pattern that could not be compiled
type InvalidPatternError struct {
	Pattern string
	Err     error
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %v", e.Pattern, e.Err)
}

func (e *InvalidPatternError) Unwrap() error {
	return e.Err
}

// ParseMessagePattern parses a message criterion.
// Supported forms: plain text, r:<regex>, r:f:<flags>:<regex>.
// An empty string yields a nil pattern.
func ParseMessagePattern(s string) (*TextPattern, error) {
	if s == "" {
		return nil, nil
	}
	if strings.HasPrefix(s, "r:") {
		return parseRegex(s)
	}
	return newSubstring(s), nil
}

// ParsePathPattern parses a changed-path criterion.
// Supported forms: plain text, r:<regex>, r:f:<flags>:<regex>, g:<glob>.
// An empty string yields a nil pattern.
func ParsePathPattern(s string) (*TextPattern, error) {
	switch {
	case s == "":
		return nil, nil
	case strings.HasPrefix(s, "r:"):
		return parseRegex(s)
	case strings.HasPrefix(s, "g:"):
		expr := s[2:]
		if !doublestar.ValidatePattern(expr) {
			return nil, &InvalidPatternError{Pattern: s, Err: doublestar.ErrBadPattern}
		}
		return &TextPattern{Kind: Glob, Expr: expr}, nil
	default:
		return newSubstring(s), nil
	}
}

func newSubstring(s string) *TextPattern {
	return &TextPattern{Kind: Substring, Expr: s, lower: strings.ToLower(s)}
}

// parseRegex handles r:<regex> and r:f:<flags>:<regex>. The flags token ends
// at the first colon; everything after it is the expression, colons included.
func parseRegex(s string) (*TextPattern, error) {
	expr := s[2:]
	flags := ""
	if strings.HasPrefix(expr, "f:") {
		parts := strings.Split(expr[2:], ":")
		flags = parts[0]
		expr = strings.Join(parts[1:], ":")
	}

	opts, err := regexOptions(flags)
	if err != nil {
		return nil, &InvalidPatternError{Pattern: s, Err: err}
	}

	re, err := regexp2.Compile(expr, opts)
	if err != nil {
		return nil, &InvalidPatternError{Pattern: s, Err: err}
	}
	re.MatchTimeout = matchTimeout

	return &TextPattern{Kind: Regex, Expr: expr, Flags: flags, re: re}, nil
}

func regexOptions(flags string) (regexp2.RegexOptions, error) {
	opts := regexp2.None
	for _, f := range flags {
		switch f {
		case 'i':
			opts |= regexp2.IgnoreCase
		case 'm':
			opts |= regexp2.Multiline
		case 's':
			opts |= regexp2.Singleline
		case 'g', 'y', 'u':
			// stateful/unicode flags have no meaning for a single test
		default:
			return opts, fmt.Errorf("unsupported regex flag %q", f)
		}
	}
	return opts, nil
}

// MatchMessage reports whether a commit message satisfies the pattern.
//
// Substring patterns only match when the text occurs after the first
// character of the message: a match at index 0 is rejected. Existing pick
// workflows depend on this, so it is kept as is.
func (p *TextPattern) MatchMessage(msg string) bool {
	switch p.Kind {
	case Regex:
		return p.matchRegex(msg)
	default:
		return strings.Index(strings.ToLower(msg), p.lower) > 0
	}
}

// MatchPaths reports whether any of the changed paths satisfies the pattern.
// An empty path list never matches.
func (p *TextPattern) MatchPaths(paths []string) bool {
	for _, candidate := range paths {
		if p.matchPath(candidate) {
			return true
		}
	}
	return false
}

func (p *TextPattern) matchPath(candidate string) bool {
	switch p.Kind {
	case Regex:
		return p.matchRegex(candidate)
	case Glob:
		// Patterns without a slash match against the base name
		name := candidate
		if !strings.Contains(p.Expr, "/") {
			name = path.Base(candidate)
		}
		ok, err := doublestar.Match(p.Expr, name)
		return err == nil && ok
	default:
		return strings.Contains(strings.ToLower(candidate), p.lower)
	}
}

func (p *TextPattern) matchRegex(s string) bool {
	ok, err := p.re.MatchString(s)
	return err == nil && ok
}
