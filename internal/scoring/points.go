package scoring

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Holes in a round. Holes 1-9 are the front nine (half 1), 10-18 the back nine (half 2).
const (
	FirstHole     = 1
	LastHole      = 18
	LastFrontNine = 9
)

// StrokeEntry holds the strokes each side took on one hole, keyed by the
// match's identity keys. A hole only counts once both keys are present.
type StrokeEntry map[string]int

// HoleScores maps hole number to that hole's stroke entry.
type HoleScores map[int]StrokeEntry

// UnmarshalJSON accepts hole numbers written as JSON object keys ("1", "12")
// and converts them back to ints. Keys that are not whole numbers are rejected
// rather than dropped, so a bad record surfaces instead of silently losing holes.
func (h *HoleScores) UnmarshalJSON(data []byte) error {
	var raw map[string]StrokeEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(HoleScores, len(raw))
	for k, entry := range raw {
		hole, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil {
			return fmt.Errorf("hole key %q is not a number: %w", k, err)
		}
		out[hole] = entry
	}
	*h = out
	return nil
}

// Tally is the accumulated match-play points per identity key.
type Tally map[string]float64

// NewTally returns a tally with both of the match's keys set to zero.
func NewTally(m Matchup) Tally {
	ka, kb := m.Keys()
	return Tally{ka: 0, kb: 0}
}

// Sides returns the points for side A and side B of the match.
func (t Tally) Sides(m Matchup) (float64, float64) {
	ka, kb := m.Keys()
	return t[ka], t[kb]
}

// holeResult compares one hole. ok is false when either side has no strokes
// recorded, in which case the hole contributes nothing.
func holeResult(entry StrokeEntry, ka, kb string) (a, b float64, ok bool) {
	sa, okA := entry[ka]
	sb, okB := entry[kb]
	if !okA || !okB {
		return 0, 0, false
	}

	switch {
	case sa < sb:
		return 1, 0, true
	case sa > sb:
		return 0, 1, true
	default:
		return 0.5, 0.5, true
	}
}

// ComputeMatchPoints scores a match hole by hole. The lower stroke count wins
// the hole for one point; a tie halves it for half a point each. Holes with a
// side missing are skipped. Keys other than the match's two identity keys are
// ignored.
func ComputeMatchPoints(holes HoleScores, m Matchup) Tally {
	ka, kb := m.Keys()
	tally := NewTally(m)

	for _, entry := range holes {
		a, b, ok := holeResult(entry, ka, kb)
		if !ok {
			continue
		}
		tally[ka] += a
		tally[kb] += b
	}
	return tally
}

// CompletedHoles returns the sorted hole numbers that have strokes for both sides.
func CompletedHoles(holes HoleScores, m Matchup) []int {
	ka, kb := m.Keys()
	var done []int
	for hole, entry := range holes {
		if _, _, ok := holeResult(entry, ka, kb); ok {
			done = append(done, hole)
		}
	}
	sort.Ints(done)
	return done
}

// Status describes the state of the match in match-play notation:
// "A/S thru 4", "Alice 2 UP thru 9", "Alice wins 3 & 2", "Halved".
func Status(holes HoleScores, m Matchup) string {
	ka, kb := m.Keys()
	ga, gb := m.Groups()

	var won, lost, played int
	for _, entry := range holes {
		a, b, ok := holeResult(entry, ka, kb)
		if !ok {
			continue
		}
		played++
		if a > b {
			won++
		} else if b > a {
			lost++
		}
	}

	if played == 0 {
		return "Not started"
	}

	lead := won - lost
	leader := ga.String()
	if lead < 0 {
		lead = -lead
		leader = gb.String()
	}
	remaining := LastHole - played
	if remaining < 0 {
		remaining = 0
	}

	switch {
	case lead > 0 && lead > remaining && remaining == 0:
		return fmt.Sprintf("%s wins %d UP", leader, lead)
	case lead > 0 && lead > remaining:
		return fmt.Sprintf("%s wins %d & %d", leader, lead, remaining)
	case lead == 0 && remaining == 0:
		return "Halved"
	case lead == 0:
		return fmt.Sprintf("A/S thru %d", played)
	default:
		return fmt.Sprintf("%s %d UP thru %d", leader, lead, played)
	}
}
