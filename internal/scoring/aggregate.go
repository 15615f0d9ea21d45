package scoring

import (
	"errors"
	"fmt"
)

// ErrRosterMismatch is returned when a match's players can't be attributed to
// exactly one of the two rosters each, with the two sides on opposite rosters.
var ErrRosterMismatch = errors.New("match players do not line up with the rosters")

// Rosters are the two overall teams of the tournament.
type Rosters struct {
	A []string
	B []string
}

// SideOf returns the roster a player belongs to. It fails when the player is
// on neither roster or on both.
func (r Rosters) SideOf(player string) (Side, error) {
	inA := contains(r.A, player)
	inB := contains(r.B, player)
	switch {
	case inA && inB:
		return NoSide, fmt.Errorf("%w: %q is on both rosters", ErrRosterMismatch, player)
	case inA:
		return SideA, nil
	case inB:
		return SideB, nil
	default:
		return NoSide, fmt.Errorf("%w: %q is not on either roster", ErrRosterMismatch, player)
	}
}

// Orientation works out which roster side A of the match plays for. It returns
// SideA when the first-listed group belongs to roster A, SideB when the
// pairing was written the other way round.
func (r Rosters) Orientation(m Matchup) (Side, error) {
	a, b := m.Groups()
	sideA, err := r.groupSide(a)
	if err != nil {
		return NoSide, err
	}
	sideB, err := r.groupSide(b)
	if err != nil {
		return NoSide, err
	}
	if sideA == sideB {
		return NoSide, fmt.Errorf("%w: %q and %q are on the same roster", ErrRosterMismatch, a.String(), b.String())
	}
	return sideA, nil
}

func (r Rosters) groupSide(g Group) (Side, error) {
	side := NoSide
	for _, name := range g {
		s, err := r.SideOf(name)
		if err != nil {
			return NoSide, err
		}
		if side != NoSide && s != side {
			return NoSide, fmt.Errorf("%w: %q mixes players from both rosters", ErrRosterMismatch, g.String())
		}
		side = s
	}
	return side, nil
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// Totals are the roster-level points.
type Totals struct {
	A float64 `json:"team_a"`
	B float64 `json:"team_b"`
}

// Add returns the sum of two totals.
func (t Totals) Add(o Totals) Totals {
	return Totals{A: t.A + o.A, B: t.B + o.B}
}

// MatchResult is one match's tally together with the matchup it was scored for.
type MatchResult struct {
	Matchup Matchup
	Tally   Tally
}

// Aggregate sums match tallies into roster totals. Each side's points are
// credited to the roster its players belong to, so a pairing written with the
// roster B players first still lands on the right team. The sum is a plain
// addition per match and does not depend on the order of results.
func Aggregate(results []MatchResult, rosters Rosters) (Totals, error) {
	var total Totals
	for _, res := range results {
		orient, err := rosters.Orientation(res.Matchup)
		if err != nil {
			return Totals{}, err
		}

		a, b := res.Tally.Sides(res.Matchup)
		if orient == SideB {
			a, b = b, a
		}
		total = total.Add(Totals{A: a, B: b})
	}
	return total, nil
}
