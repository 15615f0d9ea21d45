// Package scoring is the match-play scoring engine for the Ryder Cup scorekeeper.
// It turns per-hole stroke entries into points, rolls points up across matches,
// and enforces the one-challenge-per-half rule. Everything here is pure: no I/O,
// no shared state, no goroutines.
package scoring

import (
	"errors"
	"fmt"
	"strings"
)

// Identity keys used in stroke entries and tallies for two-person team matches.
// Singles matches are keyed by the players' own names instead.
const (
	TeamAKey = "Team A"
	TeamBKey = "Team B"
)

var (
	// ErrArityMismatch is returned when one side of a match is a single player
	// and the other side is a pair.
	ErrArityMismatch = errors.New("match sides must both be singles or both be pairs")
	// ErrInvalidGroup is returned for a side with no players, more than two
	// players, or a blank name, and for a player listed more than once in a match.
	ErrInvalidGroup = errors.New("a match side must have one or two named players")
)

// Group is one side of a match as written in the pairings: one name for
// singles, two names for a team pair.
type Group []string

// String renders the group the way it appears in a pairing line, e.g. "Nikhit & Matt C".
func (g Group) String() string {
	return strings.Join(g, " & ")
}

// Matchup is the two sides of a single match. It is either Singles or Pair;
// the concrete type decides which identity keys the scores are stored under.
type Matchup interface {
	// Keys returns the identity keys for side A and side B.
	Keys() (string, string)
	// Groups returns the players on side A and side B.
	Groups() (Group, Group)
	// Players lists every player in the match, side A first.
	Players() []string

	isMatchup()
}

// Singles is a one-on-one match keyed by player name.
type Singles struct {
	A string
	B string
}

func (s Singles) Keys() (string, string) { return s.A, s.B }
func (s Singles) Groups() (Group, Group) { return Group{s.A}, Group{s.B} }
func (s Singles) Players() []string { return []string{s.A, s.B} }
func (Singles) isMatchup() {}
func (s Singles) String() string { return s.A + " vs " + s.B }

// Pair is a two-on-two match (scramble or foursomes). Scores are keyed by the
// literal labels "Team A" and "Team B", side A being the first-listed pair.
type Pair struct {
	A [2]string
	B [2]string
}

func (p Pair) Keys() (string, string) { return TeamAKey, TeamBKey }
func (p Pair) Groups() (Group, Group) { return Group(p.A[:]), Group(p.B[:]) }
func (p Pair) Players() []string { return []string{p.A[0], p.A[1], p.B[0], p.B[1]} }
func (Pair) isMatchup() {}
func (p Pair) String() string {
	a, b := p.Groups()
	return a.String() + " vs " + b.String()
}

// NewMatchup builds a Matchup from two groups. Both groups must have the same
// number of players, that number must be one or two, and no player may appear
// twice.
func NewMatchup(a, b Group) (Matchup, error) {
	if err := validateGroup(a); err != nil {
		return nil, err
	}
	if err := validateGroup(b); err != nil {
		return nil, err
	}
	if len(a) != len(b) {
		return nil, fmt.Errorf("%w: %q vs %q", ErrArityMismatch, a.String(), b.String())
	}

	seen := make(map[string]bool, len(a)+len(b))
	for _, name := range append(append(Group{}, a...), b...) {
		if seen[name] {
			return nil, fmt.Errorf("%w: %q appears twice", ErrInvalidGroup, name)
		}
		seen[name] = true
	}

	if len(a) == 1 {
		return Singles{A: a[0], B: b[0]}, nil
	}
	return Pair{A: [2]string{a[0], a[1]}, B: [2]string{b[0], b[1]}}, nil
}

func validateGroup(g Group) error {
	if len(g) == 0 || len(g) > 2 {
		return fmt.Errorf("%w: got %d", ErrInvalidGroup, len(g))
	}
	for _, name := range g {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: blank name in %q", ErrInvalidGroup, g.String())
		}
	}
	return nil
}

// Side identifies one side of a match.
type Side int

const (
	NoSide Side = iota
	SideA
	SideB
)

// SideOf reports which side of the match a player is on, or NoSide when the
// player is not in the match.
func SideOf(m Matchup, player string) Side {
	a, b := m.Groups()
	for _, name := range a {
		if name == player {
			return SideA
		}
	}
	for _, name := range b {
		if name == player {
			return SideB
		}
	}
	return NoSide
}
