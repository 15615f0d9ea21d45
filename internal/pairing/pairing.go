// Package pairing reads hand-typed match pairings such as
//
//	Nikhit vs Aaron
//	Nikhit & Matt C vs Aaron & Matt N
//
// into ordered lists of match sides. Parsing is lenient: lines that aren't a
// pairing are skipped and reported, never treated as errors.
package pairing

import (
	"strings"

	"github.com/trentd187/ryder-cup/internal/scoring"
)

const (
	separator = "vs"
	joiner    = "&"
)

// Pairing is one parsed line: the two sides in the order they were written.
type Pairing struct {
	A scoring.Group `json:"a"`
	B scoring.Group `json:"b"`
}

// Skipped describes a non-blank line that was not a valid pairing.
type Skipped struct {
	Line   int    `json:"line"` // 1-based
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

// Result holds the recognised pairings in input order plus any lines that were dropped.
type Result struct {
	Pairings []Pairing `json:"pairings"`
	Skipped  []Skipped `json:"skipped,omitempty"`
}

// Parse reads one pairing per line. A line is split on its first standalone
// "vs", and each half on "&", with names trimmed. Blank lines are ignored silently.
func Parse(text string) Result {
	var res Result

	for i, raw := range strings.Split(text, "\n") {
		lineNo := i + 1
		raw = strings.TrimSuffix(raw, "\r")
		if strings.TrimSpace(raw) == "" {
			continue
		}

		p, reason := parseLine(raw)
		if reason != "" {
			res.Skipped = append(res.Skipped, Skipped{Line: lineNo, Text: raw, Reason: reason})
			continue
		}
		res.Pairings = append(res.Pairings, p)
	}

	return res
}

func parseLine(line string) (Pairing, string) {
	left, right, found := cutSeparator(line)
	if !found {
		return Pairing{}, `missing "vs"`
	}

	a, reason := splitSide(left)
	if reason != "" {
		return Pairing{}, "left side: " + reason
	}
	b, reason := splitSide(right)
	if reason != "" {
		return Pairing{}, "right side: " + reason
	}
	return Pairing{A: a, B: b}, ""
}

// cutSeparator splits line around the first "vs" that stands as a word of its
// own, so names that merely contain it ("Travis", "Evslin") are left whole.
func cutSeparator(line string) (before, after string, found bool) {
	for from := 0; from < len(line); {
		i := strings.Index(line[from:], separator)
		if i < 0 {
			break
		}
		start := from + i
		end := start + len(separator)
		if isBlank(line, start-1) && isBlank(line, end) {
			return line[:start], line[end:], true
		}
		from = start + 1
	}
	return line, "", false
}

// isBlank reports whether s[i] is a space or tab, or i is outside s.
func isBlank(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return true
	}
	return s[i] == ' ' || s[i] == '\t'
}

func splitSide(side string) (scoring.Group, string) {
	parts := strings.Split(side, joiner)
	if len(parts) > 2 {
		return nil, "more than two players"
	}

	group := make(scoring.Group, 0, len(parts))
	for _, p := range parts {
		name := strings.TrimSpace(p)
		if name == "" {
			return nil, "empty player name"
		}
		group = append(group, name)
	}
	return group, ""
}
