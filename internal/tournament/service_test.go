package tournament

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/trentd187/ryder-cup/internal/config"
	"github.com/trentd187/ryder-cup/internal/models"
	"github.com/trentd187/ryder-cup/internal/scoring"
)

type matchKey struct {
	day   int
	index int
}

// memStore is an in-memory Store. Records go through JSON on the way in and
// out, like a real text-backed store, so callers never share maps with it.
type memStore struct {
	mu      sync.Mutex
	rows    map[matchKey][]byte
	fetches int
}

func newMemStore() *memStore {
	return &memStore{rows: make(map[matchKey][]byte)}
}

func (s *memStore) FetchMatch(_ context.Context, day, index int) (*models.MatchRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetches++

	data, ok := s.rows[matchKey{day, index}]
	if !ok {
		return nil, nil
	}
	var rec models.MatchRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *memStore) UpsertMatch(_ context.Context, rec *models.MatchRecord, fields ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := matchKey{rec.Day, rec.MatchIndex}
	row := *rec
	if data, ok := s.rows[k]; ok && len(fields) > 0 {
		var existing models.MatchRecord
		if err := json.Unmarshal(data, &existing); err != nil {
			return err
		}
		for _, f := range fields {
			switch f {
			case models.FieldParticipants:
				existing.Participants = rec.Participants
			case models.FieldHoleScores:
				existing.HoleScores = rec.HoleScores
			case models.FieldChallenges:
				existing.Challenges = rec.Challenges
			case models.FieldPoints:
				existing.Points = rec.Points
			}
		}
		row = existing
	}

	data, err := json.Marshal(row)
	if err != nil {
		return err
	}
	s.rows[k] = data
	return nil
}

func (s *memStore) DeleteMatch(_ context.Context, day, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, matchKey{day, index})
	return nil
}

func (s *memStore) DeleteAllMatches(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = make(map[matchKey][]byte)
	return nil
}

func (s *memStore) fetchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetches
}

// MockStore is a testify mock used to simulate store failures.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) FetchMatch(ctx context.Context, day, index int) (*models.MatchRecord, error) {
	args := m.Called(day, index)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MatchRecord), args.Error(1)
}

func (m *MockStore) UpsertMatch(ctx context.Context, rec *models.MatchRecord, fields ...string) error {
	return m.Called(rec.Day, rec.MatchIndex, fields).Error(0)
}

func (m *MockStore) DeleteMatch(ctx context.Context, day, index int) error {
	return m.Called(day, index).Error(0)
}

func (m *MockStore) DeleteAllMatches(ctx context.Context) error {
	return m.Called().Error(0)
}

func newTestService(t *testing.T) (*Service, *memStore) {
	t.Helper()
	tour, _, err := New(config.DefaultTournament())
	require.NoError(t, err)
	store := newMemStore()
	return NewService(tour, store), store
}

func TestService_MatchNeverSaved(t *testing.T) {
	svc, _ := newTestService(t)

	v, err := svc.Match(context.Background(), 1, 0)
	require.NoError(t, err)
	assert.Equal(t, "Nikhit vs Aaron", v.Label)
	assert.Equal(t, scoring.Tally{"Nikhit": 0, "Aaron": 0}, v.Points)
	assert.Empty(t, v.HoleScores)
	assert.Empty(t, v.Challenges)
	assert.Equal(t, "Not started", v.Status)
}

func TestService_SaveHole(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	v, err := svc.SaveHole(ctx, 1, 0, 1, 4, 5)
	require.NoError(t, err)
	assert.Equal(t, scoring.Tally{"Nikhit": 1, "Aaron": 0}, v.Points)

	v, err = svc.SaveHole(ctx, 1, 0, 2, 4, 4)
	require.NoError(t, err)
	assert.Equal(t, scoring.Tally{"Nikhit": 1.5, "Aaron": 0.5}, v.Points)
	assert.Equal(t, "Nikhit 1 UP thru 2", v.Status)

	// Overwriting a hole replaces its entry.
	v, err = svc.SaveHole(ctx, 1, 0, 1, 6, 5)
	require.NoError(t, err)
	assert.Equal(t, scoring.Tally{"Nikhit": 0.5, "Aaron": 1.5}, v.Points)
	assert.Len(t, v.HoleScores, 2)

	got, err := svc.Match(ctx, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, v.Points, got.Points)
	assert.Equal(t, scoring.StrokeEntry{"Nikhit": 6, "Aaron": 5}, got.HoleScores[1])
}

func TestService_SaveHole_TeamMatch(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.SaveHole(ctx, 2, 0, 1, 3, 5)
	require.NoError(t, err)
	v, err := svc.SaveHole(ctx, 2, 0, 2, 4, 4)
	require.NoError(t, err)

	assert.Equal(t, scoring.Tally{scoring.TeamAKey: 1.5, scoring.TeamBKey: 0.5}, v.Points)
	assert.Equal(t, scoring.TeamAKey, v.KeyA)

	rec, err := store.FetchMatch(ctx, 2, 0)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, scoring.StrokeEntry{scoring.TeamAKey: 3, scoring.TeamBKey: 5}, rec.HoleScores[1])
	assert.Equal(t, v.Points, rec.Points)
	assert.Equal(t, [][]string{{"Nikhit", "Matt C"}, {"Aaron", "Matt N"}}, rec.Participants)
}

func TestService_SaveHole_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SaveHole(ctx, 1, 0, 0, 4, 4)
	assert.ErrorIs(t, err, scoring.ErrInvalidHole)

	_, err = svc.SaveHole(ctx, 1, 0, 19, 4, 4)
	assert.ErrorIs(t, err, scoring.ErrInvalidHole)

	_, err = svc.SaveHole(ctx, 1, 0, 1, 0, 4)
	assert.ErrorIs(t, err, ErrInvalidStrokes)

	_, err = svc.SaveHole(ctx, 1, 0, 1, 4, 11)
	assert.ErrorIs(t, err, ErrInvalidStrokes)

	_, err = svc.SaveHole(ctx, 4, 0, 1, 4, 4)
	assert.ErrorIs(t, err, ErrUnknownDay)

	_, err = svc.SaveHole(ctx, 1, 9, 1, 4, 4)
	assert.ErrorIs(t, err, ErrUnknownMatch)
}

func TestService_ActivateChallenge(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	v, err := svc.ActivateChallenge(ctx, 1, 3, 9, "Greg", "flamingo-mode")
	require.NoError(t, err)
	require.Len(t, v.Challenges, 1)
	assert.Equal(t, scoring.Activation{Hole: 9, Half: 1, Player: "Greg", Challenge: "flamingo-mode"}, v.Challenges[0])

	_, err = svc.ActivateChallenge(ctx, 1, 3, 10, "Greg", "baby-grip")
	require.NoError(t, err)

	_, err = svc.ActivateChallenge(ctx, 1, 3, 3, "Greg", "backwards-grip")
	assert.ErrorIs(t, err, scoring.ErrChallengeUsed)

	_, err = svc.ActivateChallenge(ctx, 1, 3, 3, "Ryan", "backwards-grip")
	require.NoError(t, err)

	v, err = svc.Match(ctx, 1, 3)
	require.NoError(t, err)
	require.Len(t, v.Challenges, 3)
	assert.Equal(t, []string{"Greg", "Greg", "Ryan"}, []string{v.Challenges[0].Player, v.Challenges[1].Player, v.Challenges[2].Player})
}

func TestService_ActivateChallenge_KeepsScores(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SaveHole(ctx, 1, 0, 1, 3, 4)
	require.NoError(t, err)
	_, err = svc.ActivateChallenge(ctx, 1, 0, 2, "Aaron", "caddys-choice")
	require.NoError(t, err)

	v, err := svc.Match(ctx, 1, 0)
	require.NoError(t, err)
	assert.Len(t, v.HoleScores, 1)
	assert.Len(t, v.Challenges, 1)
	assert.Equal(t, scoring.Tally{"Nikhit": 1, "Aaron": 0}, v.Points)
}

func TestService_ActivateChallenge_Rejections(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.ActivateChallenge(ctx, 1, 0, 3, "Greg", "baby-grip")
	assert.ErrorIs(t, err, ErrUnknownPlayer)

	_, err = svc.ActivateChallenge(ctx, 1, 0, 3, "Nikhit", "moonwalk")
	assert.ErrorIs(t, err, scoring.ErrUnknownChallenge)

	_, err = svc.ActivateChallenge(ctx, 1, 0, 21, "Nikhit", "baby-grip")
	assert.ErrorIs(t, err, scoring.ErrInvalidHole)
}

func TestService_TotalsAndScoreboard(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// Day 1, match 0: Nikhit (A) beats Aaron (B) on 3 of 4 holes.
	for hole, s := range [][2]int{{4, 5}, {3, 4}, {5, 4}, {2, 3}} {
		_, err := svc.SaveHole(ctx, 1, 0, hole+1, s[0], s[1])
		require.NoError(t, err)
	}
	// Day 2, match 1: Andrew & Greg vs Tony & Ryan, one halve.
	_, err := svc.SaveHole(ctx, 2, 1, 1, 4, 4)
	require.NoError(t, err)

	day1, err := svc.DayTotals(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, scoring.Totals{A: 3, B: 1}, day1)

	sb, err := svc.Scoreboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, scoring.Totals{A: 3.5, B: 1.5}, sb.Totals)
	require.Len(t, sb.Days, 3)
	assert.Equal(t, scoring.Totals{A: 0.5, B: 0.5}, sb.Days[1].Totals)
	assert.Equal(t, scoring.Totals{}, sb.Days[2].Totals)
	assert.Equal(t, "Team A", sb.TeamA.Name)

	dv, err := svc.Day(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, day1, dv.Totals)
	assert.Len(t, dv.Matches, 4)
	assert.Equal(t, "Singles Matches (18 Holes)", dv.Subtitle)
}

func TestService_ResetMatch(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SaveHole(ctx, 1, 0, 1, 3, 4)
	require.NoError(t, err)
	_, err = svc.ActivateChallenge(ctx, 1, 0, 1, "Nikhit", "baby-grip")
	require.NoError(t, err)

	totals, err := svc.DayTotals(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, scoring.Totals{A: 1, B: 0}, totals)

	require.NoError(t, svc.ResetMatch(ctx, 1, 0))

	totals, err = svc.DayTotals(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, scoring.Totals{}, totals, "cleared match must not count")

	v, err := svc.Match(ctx, 1, 0)
	require.NoError(t, err)
	assert.Empty(t, v.HoleScores)
	assert.Empty(t, v.Challenges)

	// The player can call a challenge again in the cleared half.
	_, err = svc.ActivateChallenge(ctx, 1, 0, 1, "Nikhit", "baby-grip")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ResetMatch(ctx, 1, 8), ErrUnknownMatch)
}

func TestService_ResetAll(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SaveHole(ctx, 1, 0, 1, 3, 4)
	require.NoError(t, err)
	_, err = svc.SaveHole(ctx, 3, 1, 1, 3, 4)
	require.NoError(t, err)

	sb, err := svc.Scoreboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, scoring.Totals{A: 2, B: 0}, sb.Totals)

	require.NoError(t, svc.ResetAll(ctx))

	sb, err = svc.Scoreboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, scoring.Totals{}, sb.Totals)
}

func TestService_ReadsSeeOtherWriters(t *testing.T) {
	tour, _, err := New(config.DefaultTournament())
	require.NoError(t, err)
	store := newMemStore()
	ctx := context.Background()

	// Two services over one store, like the server and scorectl sharing DATABASE_URL.
	server := NewService(tour, store)
	other := NewService(tour, store)

	_, err = server.SaveHole(ctx, 1, 0, 1, 3, 5)
	require.NoError(t, err)
	sb, err := server.Scoreboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, scoring.Totals{A: 1, B: 0}, sb.Totals)

	require.NoError(t, other.ResetAll(ctx))

	v, err := server.Match(ctx, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, scoring.Tally{"Nikhit": 0, "Aaron": 0}, v.Points)
	sb, err = server.Scoreboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, scoring.Totals{}, sb.Totals)

	_, err = other.SaveHole(ctx, 1, 1, 1, 5, 3)
	require.NoError(t, err)

	sb, err = server.Scoreboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, scoring.Totals{A: 0, B: 1}, sb.Totals)

	totals, err := server.DayTotals(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, scoring.Totals{A: 0, B: 1}, totals)
}

func TestService_TotalsReadEveryMatch(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.DayTotals(ctx, 2)
	require.NoError(t, err)
	first := store.fetchCount()
	assert.Equal(t, 2, first)

	// Repeated reads go back to the store rather than reusing earlier tallies.
	_, err = svc.DayTotals(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 2*first, store.fetchCount())
}

func TestService_StoreFailures(t *testing.T) {
	tour, _, err := New(config.DefaultTournament())
	require.NoError(t, err)
	ctx := context.Background()
	boom := errors.New("connection refused")

	t.Run("fetch fails", func(t *testing.T) {
		store := new(MockStore)
		svc := NewService(tour, store)
		store.On("FetchMatch", 1, 0).Return(nil, boom).Once()

		_, err := svc.Match(ctx, 1, 0)
		assert.ErrorIs(t, err, boom)
		store.AssertExpectations(t)
	})

	t.Run("write fails", func(t *testing.T) {
		store := new(MockStore)
		svc := NewService(tour, store)
		store.On("FetchMatch", 1, 0).Return(nil, nil)
		store.On("UpsertMatch", 1, 0, mock.Anything).Return(boom).Once()

		v, err := svc.SaveHole(ctx, 1, 0, 1, 4, 5)
		assert.ErrorIs(t, err, boom)
		assert.Nil(t, v)

		// Nothing was written, so the match still reads back empty.
		got, err := svc.Match(ctx, 1, 0)
		require.NoError(t, err)
		assert.Equal(t, scoring.Tally{"Nikhit": 0, "Aaron": 0}, got.Points)
		store.AssertExpectations(t)
	})

	t.Run("challenge write fails", func(t *testing.T) {
		store := new(MockStore)
		svc := NewService(tour, store)
		store.On("FetchMatch", 1, 0).Return(nil, nil)
		store.On("UpsertMatch", 1, 0, mock.Anything).Return(boom).Once()

		_, err := svc.ActivateChallenge(ctx, 1, 0, 4, "Nikhit", "baby-grip")
		assert.ErrorIs(t, err, boom)
		store.AssertExpectations(t)
	})

	t.Run("delete fails", func(t *testing.T) {
		store := new(MockStore)
		svc := NewService(tour, store)
		store.On("DeleteMatch", 1, 0).Return(boom).Once()
		store.On("DeleteAllMatches").Return(boom).Once()

		assert.ErrorIs(t, svc.ResetMatch(ctx, 1, 0), boom)
		assert.ErrorIs(t, svc.ResetAll(ctx), boom)
		store.AssertExpectations(t)
	})
}
