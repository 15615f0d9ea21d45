package scoring

import (
	"errors"
	"fmt"
)

var (
	// ErrChallengeUsed is returned when a player already has a challenge in
	// the same half of the match. It is a rejection for the user, not a fault.
	ErrChallengeUsed = errors.New("challenge already used this half")
	// ErrUnknownChallenge is returned for a challenge ID outside the catalog.
	ErrUnknownChallenge = errors.New("unknown challenge")
	// ErrInvalidHole is returned for hole numbers outside 1-18.
	ErrInvalidHole = errors.New("hole must be between 1 and 18")
)

// Challenge is one entry of the sabotage challenge catalog.
type Challenge struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Catalog is the fixed list of sabotage challenges a player can call.
var Catalog = []Challenge{
	{ID: "no-tee-for-you", Label: "🦅 NO TEE FOR YOU"},
	{ID: "caddys-choice", Label: "💬 CADDY'S CHOICE"},
	{ID: "full-metal-putter", Label: "🪖 FULL METAL PUTTER"},
	{ID: "stubby-sticks-only", Label: "📏 STUBBY STICKS ONLY"},
	{ID: "baby-grip", Label: "👶 BABY GRIP"},
	{ID: "backwards-grip", Label: "🙃 BACKWARDS GRIP"},
	{ID: "happy-gilmore-only", Label: "🦶 HAPPY GILMORE ONLY"},
	{ID: "flamingo-mode", Label: "🐦 FLAMINGO MODE"},
}

// LookupChallenge finds a catalog entry by ID.
func LookupChallenge(id string) (Challenge, bool) {
	for _, c := range Catalog {
		if c.ID == id {
			return c, true
		}
	}
	return Challenge{}, false
}

// Activation records a challenge called by a player on a hole.
type Activation struct {
	Hole      int    `json:"hole"`
	Half      int    `json:"half"`
	Player    string `json:"player"`
	Challenge string `json:"challenge"`
}

// ValidHole reports whether hole is on the course.
func ValidHole(hole int) bool {
	return hole >= FirstHole && hole <= LastHole
}

// Half returns 1 for the front nine and 2 for the back nine.
func Half(hole int) int {
	if hole <= LastFrontNine {
		return 1
	}
	return 2
}

// IsChallengeEligible reports whether player may call a challenge on hole,
// i.e. they have not already called one in that half.
func IsChallengeEligible(existing []Activation, player string, hole int) bool {
	half := Half(hole)
	for _, a := range existing {
		if a.Player == player && a.Half == half {
			return false
		}
	}
	return true
}

// ActivateChallenge appends a new activation to existing. The returned slice
// is a copy; existing is never modified, including on rejection.
func ActivateChallenge(existing []Activation, player string, hole int, challengeID string) ([]Activation, error) {
	if !ValidHole(hole) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidHole, hole)
	}
	if _, ok := LookupChallenge(challengeID); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChallenge, challengeID)
	}
	if !IsChallengeEligible(existing, player, hole) {
		return nil, fmt.Errorf("%w: %s, half %d", ErrChallengeUsed, player, Half(hole))
	}

	out := make([]Activation, len(existing), len(existing)+1)
	copy(out, existing)
	return append(out, Activation{
		Hole:      hole,
		Half:      Half(hole),
		Player:    player,
		Challenge: challengeID,
	}), nil
}
