// Package tournament ties the scoring engine to a concrete three-day event and to
// the match store. Tournament is the immutable shape of the event built once from
// configuration; Service reads and writes match state through a Store.
package tournament

import (
	"errors"
	"fmt"

	"github.com/trentd187/ryder-cup/internal/config"
	"github.com/trentd187/ryder-cup/internal/models"
	"github.com/trentd187/ryder-cup/internal/pairing"
	"github.com/trentd187/ryder-cup/internal/scoring"
)

// Days in a tournament are numbered 1 through MaxDay.
const MaxDay = 3

var (
	ErrUnknownDay   = errors.New("unknown day")
	ErrUnknownMatch = errors.New("unknown match")
	ErrInvalidSetup = errors.New("invalid tournament configuration")
)

// Team is one of the two overall sides.
type Team struct {
	Name    string   `json:"name"`
	Players []string `json:"players"`
}

// Match is one configured pairing on one day.
type Match struct {
	Day     int
	Index   int
	Matchup scoring.Matchup
}

// Label is the pairing as it would be written, e.g. "Nikhit & Matt C vs Aaron & Matt N".
func (m Match) Label() string {
	a, b := m.Matchup.Groups()
	return a.String() + " vs " + b.String()
}

// Day is one day of play.
type Day struct {
	Number   int
	Format   models.DayFormat
	Subtitle string
	Rules    []string
	Matches  []Match
}

// Warning is a pairing line that was skipped while building the tournament.
type Warning struct {
	Day int `json:"day"`
	pairing.Skipped
}

func (w Warning) String() string {
	return fmt.Sprintf("day %d, line %d: %s (%q)", w.Day, w.Line, w.Reason, w.Text)
}

// Tournament is the fixed structure of the event. It is never modified after New.
type Tournament struct {
	Name    string
	TeamA   Team
	TeamB   Team
	Rosters scoring.Rosters
	Days    []Day
}

// New builds a Tournament from configuration. Every pairing must parse into a
// matchup whose arity fits the day's format, and every player must belong to
// exactly one roster with the two sides of each match on opposite rosters.
// Pairing lines that don't parse are returned as warnings.
func New(cfg config.Tournament) (*Tournament, []Warning, error) {
	t := &Tournament{
		Name:  cfg.Name,
		TeamA: Team{Name: cfg.TeamA.Name, Players: cfg.TeamA.Players},
		TeamB: Team{Name: cfg.TeamB.Name, Players: cfg.TeamB.Players},
		Rosters: scoring.Rosters{
			A: cfg.TeamA.Players,
			B: cfg.TeamB.Players,
		},
	}
	if t.TeamA.Name == "" {
		t.TeamA.Name = scoring.TeamAKey
	}
	if t.TeamB.Name == "" {
		t.TeamB.Name = scoring.TeamBKey
	}

	if len(cfg.TeamA.Players) == 0 || len(cfg.TeamB.Players) == 0 {
		return nil, nil, fmt.Errorf("%w: both rosters need players", ErrInvalidSetup)
	}
	if len(cfg.Days) == 0 {
		return nil, nil, fmt.Errorf("%w: no days configured", ErrInvalidSetup)
	}

	var warnings []Warning
	seen := map[int]bool{}
	for _, dc := range cfg.Days {
		if dc.Number < 1 || dc.Number > MaxDay {
			return nil, nil, fmt.Errorf("%w: day %d is outside 1-%d", ErrInvalidSetup, dc.Number, MaxDay)
		}
		if seen[dc.Number] {
			return nil, nil, fmt.Errorf("%w: day %d is configured twice", ErrInvalidSetup, dc.Number)
		}
		seen[dc.Number] = true

		day, skipped, err := buildDay(dc, t.Rosters)
		if err != nil {
			return nil, nil, err
		}
		for _, s := range skipped {
			warnings = append(warnings, Warning{Day: dc.Number, Skipped: s})
		}
		t.Days = append(t.Days, day)
	}

	return t, warnings, nil
}

func buildDay(dc config.Day, rosters scoring.Rosters) (Day, []pairing.Skipped, error) {
	format := models.DayFormat(dc.Format)
	if format.PairSize() == 0 {
		return Day{}, nil, fmt.Errorf("%w: day %d has unknown format %q", ErrInvalidSetup, dc.Number, dc.Format)
	}

	day := Day{
		Number:   dc.Number,
		Format:   format,
		Subtitle: dc.Subtitle,
		Rules:    dc.Rules,
	}

	parsed := pairing.Parse(dc.Matches)
	for i, p := range parsed.Pairings {
		m, err := scoring.NewMatchup(p.A, p.B)
		if err != nil {
			return Day{}, nil, fmt.Errorf("%w: day %d match %d: %w", ErrInvalidSetup, dc.Number, i+1, err)
		}
		if len(p.A) != format.PairSize() {
			return Day{}, nil, fmt.Errorf("%w: day %d is %s but match %d has %d player(s) per side",
				ErrInvalidSetup, dc.Number, format, i+1, len(p.A))
		}
		if _, err := rosters.Orientation(m); err != nil {
			return Day{}, nil, fmt.Errorf("%w: day %d match %d: %w", ErrInvalidSetup, dc.Number, i+1, err)
		}
		day.Matches = append(day.Matches, Match{Day: dc.Number, Index: i, Matchup: m})
	}

	return day, parsed.Skipped, nil
}

// Day returns the day with the given number.
func (t *Tournament) Day(number int) (*Day, error) {
	for i := range t.Days {
		if t.Days[i].Number == number {
			return &t.Days[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownDay, number)
}

// Match returns the match at index on the given day.
func (t *Tournament) Match(day, index int) (*Match, error) {
	d, err := t.Day(day)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(d.Matches) {
		return nil, fmt.Errorf("%w: day %d has no match %d", ErrUnknownMatch, day, index)
	}
	return &d.Matches[index], nil
}
