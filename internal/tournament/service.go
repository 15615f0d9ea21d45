package tournament

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/trentd187/ryder-cup/internal/metrics"
	"github.com/trentd187/ryder-cup/internal/models"
	"github.com/trentd187/ryder-cup/internal/scoring"
)

// Stroke counts accepted for a single hole.
const (
	MinStrokes = 1
	MaxStrokes = 10
)

var (
	ErrInvalidStrokes = fmt.Errorf("strokes must be between %d and %d", MinStrokes, MaxStrokes)
	ErrUnknownPlayer  = errors.New("player is not in this match")
)

// Store persists one record per match, keyed by day and match index.
//
// FetchMatch returns nil, nil when the match has never been saved. UpsertMatch
// inserts the record or, when a row for (day, match_index) exists, overwrites
// only the named fields (see the models.Field* constants). There is no
// versioning: concurrent writers to the same match race and the last write wins.
type Store interface {
	FetchMatch(ctx context.Context, day, index int) (*models.MatchRecord, error)
	UpsertMatch(ctx context.Context, rec *models.MatchRecord, fields ...string) error
	DeleteMatch(ctx context.Context, day, index int) error
	DeleteAllMatches(ctx context.Context) error
}

// Service is the scorekeeping API used by the HTTP handlers and the CLI.
type Service struct {
	t     *Tournament
	store Store
}

// NewService returns a Service for the tournament t backed by store.
func NewService(t *Tournament, store Store) *Service {
	return &Service{
		t:     t,
		store: store,
	}
}

// Tournament returns the tournament the service was built for.
func (s *Service) Tournament() *Tournament {
	return s.t
}

// MatchView is everything known about one match.
type MatchView struct {
	Day        int                  `json:"day"`
	Index      int                  `json:"index"`
	Label      string               `json:"label"`
	Format     models.DayFormat     `json:"format"`
	SideA      scoring.Group        `json:"side_a"`
	SideB      scoring.Group        `json:"side_b"`
	KeyA       string               `json:"key_a"`
	KeyB       string               `json:"key_b"`
	HoleScores scoring.HoleScores   `json:"hole_scores"`
	Challenges []scoring.Activation `json:"challenges"`
	Points     scoring.Tally        `json:"points"`
	Status     string               `json:"status"`
}

// DayView is a day's details, totals and matches.
type DayView struct {
	Number   int              `json:"number"`
	Format   models.DayFormat `json:"format"`
	Subtitle string           `json:"subtitle"`
	Rules    []string         `json:"rules"`
	Totals   scoring.Totals   `json:"totals"`
	Matches  []MatchView      `json:"matches"`
}

// DayTotals is one line of the scoreboard.
type DayTotals struct {
	Day      int            `json:"day"`
	Subtitle string         `json:"subtitle"`
	Totals   scoring.Totals `json:"totals"`
}

// Scoreboard is the tournament score with a per-day breakdown.
type Scoreboard struct {
	TeamA  Team           `json:"team_a"`
	TeamB  Team           `json:"team_b"`
	Totals scoring.Totals `json:"totals"`
	Days   []DayTotals    `json:"days"`
}

// load fetches a match's record, or an empty one if it has never been saved,
// and computes its tally from the stored strokes. Tallies are never kept between
// calls: other processes (scorectl, a second server) write to the same store.
func (s *Service) load(ctx context.Context, m *Match) (*models.MatchRecord, scoring.Tally, error) {
	rec, err := s.store.FetchMatch(ctx, m.Day, m.Index)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load day %d match %d: %w", m.Day, m.Index, err)
	}
	if rec == nil {
		rec = models.NewMatchRecord(m.Day, m.Index, m.Matchup)
	}
	if rec.HoleScores == nil {
		rec.HoleScores = scoring.HoleScores{}
	}

	return rec, scoring.ComputeMatchPoints(rec.HoleScores, m.Matchup), nil
}

func (s *Service) view(day *Day, m *Match, rec *models.MatchRecord, tally scoring.Tally) MatchView {
	a, b := m.Matchup.Groups()
	ka, kb := m.Matchup.Keys()
	challenges := rec.Challenges
	if challenges == nil {
		challenges = []scoring.Activation{}
	}
	return MatchView{
		Day:        m.Day,
		Index:      m.Index,
		Label:      m.Label(),
		Format:     day.Format,
		SideA:      a,
		SideB:      b,
		KeyA:       ka,
		KeyB:       kb,
		HoleScores: rec.HoleScores,
		Challenges: challenges,
		Points:     tally,
		Status:     scoring.Status(rec.HoleScores, m.Matchup),
	}
}

func (s *Service) lookup(day, index int) (*Day, *Match, error) {
	d, err := s.t.Day(day)
	if err != nil {
		return nil, nil, err
	}
	m, err := s.t.Match(day, index)
	if err != nil {
		return nil, nil, err
	}
	return d, m, nil
}

// Match returns the current state of a match. A match nobody has scored yet
// comes back empty rather than as an error.
func (s *Service) Match(ctx context.Context, day, index int) (*MatchView, error) {
	d, m, err := s.lookup(day, index)
	if err != nil {
		return nil, err
	}
	rec, tally, err := s.load(ctx, m)
	if err != nil {
		return nil, err
	}
	v := s.view(d, m, rec, tally)
	return &v, nil
}

// SaveHole records the strokes for both sides on one hole, replacing whatever
// was there, and stores the recomputed points with it.
func (s *Service) SaveHole(ctx context.Context, day, index, hole, strokesA, strokesB int) (*MatchView, error) {
	d, m, err := s.lookup(day, index)
	if err != nil {
		return nil, err
	}
	if !scoring.ValidHole(hole) {
		return nil, fmt.Errorf("%w: %d", scoring.ErrInvalidHole, hole)
	}
	if !validStrokes(strokesA) || !validStrokes(strokesB) {
		return nil, fmt.Errorf("%w: got %d and %d", ErrInvalidStrokes, strokesA, strokesB)
	}

	rec, _, err := s.load(ctx, m)
	if err != nil {
		return nil, err
	}

	ka, kb := m.Matchup.Keys()
	rec.HoleScores[hole] = scoring.StrokeEntry{ka: strokesA, kb: strokesB}
	rec.Participants = participants(m)
	rec.Points = scoring.ComputeMatchPoints(rec.HoleScores, m.Matchup)

	if err := s.store.UpsertMatch(ctx, rec, models.FieldParticipants, models.FieldHoleScores, models.FieldPoints); err != nil {
		return nil, fmt.Errorf("failed to save day %d match %d hole %d: %w", day, index, hole, err)
	}

	metrics.HolesSavedTotal.WithLabelValues(metrics.Day(day)).Inc()
	log.Printf("Saved day %d match %d hole %d: %s %d, %s %d", day, index, hole, ka, strokesA, kb, strokesB)

	v := s.view(d, m, rec, rec.Points)
	return &v, nil
}

// ActivateChallenge records player calling a challenge on hole. A second
// challenge by the same player in the same half is rejected with
// scoring.ErrChallengeUsed and nothing is written.
func (s *Service) ActivateChallenge(ctx context.Context, day, index, hole int, player, challengeID string) (*MatchView, error) {
	d, m, err := s.lookup(day, index)
	if err != nil {
		return nil, err
	}
	if scoring.SideOf(m.Matchup, player) == scoring.NoSide {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlayer, player)
	}

	rec, tally, err := s.load(ctx, m)
	if err != nil {
		return nil, err
	}

	acts, err := scoring.ActivateChallenge(rec.Challenges, player, hole, challengeID)
	if err != nil {
		if errors.Is(err, scoring.ErrChallengeUsed) {
			metrics.ChallengesTotal.WithLabelValues(metrics.Day(day), "rejected").Inc()
			log.Printf("Rejected challenge on day %d match %d: %v", day, index, err)
		}
		return nil, err
	}

	rec.Challenges = acts
	rec.Participants = participants(m)
	if err := s.store.UpsertMatch(ctx, rec, models.FieldParticipants, models.FieldChallenges); err != nil {
		return nil, fmt.Errorf("failed to save challenge on day %d match %d: %w", day, index, err)
	}

	metrics.ChallengesTotal.WithLabelValues(metrics.Day(day), "accepted").Inc()
	log.Printf("Challenge %s called by %s on day %d match %d hole %d", challengeID, player, day, index, hole)

	v := s.view(d, m, rec, tally)
	return &v, nil
}

// ResetMatch clears all strokes and challenges for one match.
func (s *Service) ResetMatch(ctx context.Context, day, index int) error {
	if _, _, err := s.lookup(day, index); err != nil {
		return err
	}
	if err := s.store.DeleteMatch(ctx, day, index); err != nil {
		return fmt.Errorf("failed to clear day %d match %d: %w", day, index, err)
	}
	metrics.MatchResetsTotal.Inc()
	log.Printf("Cleared day %d match %d", day, index)
	return nil
}

// ResetAll clears every match in the tournament.
func (s *Service) ResetAll(ctx context.Context) error {
	if err := s.store.DeleteAllMatches(ctx); err != nil {
		return fmt.Errorf("failed to clear matches: %w", err)
	}
	metrics.MatchResetsTotal.Inc()
	log.Printf("Cleared all matches")
	return nil
}

// DayTotals sums the points of every match on a day into roster totals.
func (s *Service) DayTotals(ctx context.Context, day int) (scoring.Totals, error) {
	d, err := s.t.Day(day)
	if err != nil {
		return scoring.Totals{}, err
	}

	results := make([]scoring.MatchResult, 0, len(d.Matches))
	for i := range d.Matches {
		m := &d.Matches[i]
		_, t, err := s.load(ctx, m)
		if err != nil {
			return scoring.Totals{}, err
		}
		results = append(results, scoring.MatchResult{Matchup: m.Matchup, Tally: t})
	}
	return scoring.Aggregate(results, s.t.Rosters)
}

// Day returns a day with its totals and all of its matches.
func (s *Service) Day(ctx context.Context, day int) (*DayView, error) {
	d, err := s.t.Day(day)
	if err != nil {
		return nil, err
	}

	view := &DayView{
		Number:   d.Number,
		Format:   d.Format,
		Subtitle: d.Subtitle,
		Rules:    d.Rules,
		Matches:  make([]MatchView, 0, len(d.Matches)),
	}
	results := make([]scoring.MatchResult, 0, len(d.Matches))
	for i := range d.Matches {
		m := &d.Matches[i]
		rec, tally, err := s.load(ctx, m)
		if err != nil {
			return nil, err
		}
		view.Matches = append(view.Matches, s.view(d, m, rec, tally))
		results = append(results, scoring.MatchResult{Matchup: m.Matchup, Tally: tally})
	}

	view.Totals, err = scoring.Aggregate(results, s.t.Rosters)
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Scoreboard returns the tournament totals and the per-day breakdown.
func (s *Service) Scoreboard(ctx context.Context) (*Scoreboard, error) {
	sb := &Scoreboard{
		TeamA: s.t.TeamA,
		TeamB: s.t.TeamB,
		Days:  make([]DayTotals, 0, len(s.t.Days)),
	}
	for _, d := range s.t.Days {
		totals, err := s.DayTotals(ctx, d.Number)
		if err != nil {
			return nil, err
		}
		sb.Days = append(sb.Days, DayTotals{Day: d.Number, Subtitle: d.Subtitle, Totals: totals})
		sb.Totals = sb.Totals.Add(totals)
	}
	return sb, nil
}

func participants(m *Match) [][]string {
	a, b := m.Matchup.Groups()
	return [][]string{a, b}
}

func validStrokes(n int) bool {
	return n >= MinStrokes && n <= MaxStrokes
}
