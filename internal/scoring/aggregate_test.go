package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRosters = Rosters{
	A: []string{"Alice", "Nikhit", "Andrew"},
	B: []string{"Bob", "Aaron", "Tony"},
}

func TestAggregate(t *testing.T) {
	testCases := []struct {
		name    string
		results []MatchResult
		want    Totals
		wantErr error
	}{
		{
			name: "singles with roster A first",
			results: []MatchResult{
				{Matchup: Singles{A: "Alice", B: "Bob"}, Tally: Tally{"Alice": 3, "Bob": 1}},
			},
			want: Totals{A: 3, B: 1},
		},
		{
			name: "singles written with roster B first",
			results: []MatchResult{
				{Matchup: Singles{A: "Bob", B: "Alice"}, Tally: Tally{"Bob": 2, "Alice": 5}},
			},
			want: Totals{A: 5, B: 2},
		},
		{
			name: "team match",
			results: []MatchResult{
				{
					Matchup: Pair{A: [2]string{"Nikhit", "Andrew"}, B: [2]string{"Aaron", "Tony"}},
					Tally:   Tally{TeamAKey: 1.5, TeamBKey: 0.5},
				},
			},
			want: Totals{A: 1.5, B: 0.5},
		},
		{
			name: "team match written with roster B first",
			results: []MatchResult{
				{
					Matchup: Pair{A: [2]string{"Aaron", "Tony"}, B: [2]string{"Nikhit", "Andrew"}},
					Tally:   Tally{TeamAKey: 4, TeamBKey: 1},
				},
			},
			want: Totals{A: 1, B: 4},
		},
		{
			name: "missing tally keys count as zero",
			results: []MatchResult{
				{Matchup: Singles{A: "Alice", B: "Bob"}, Tally: Tally{}},
			},
			want: Totals{},
		},
		{
			name:    "no matches",
			results: nil,
			want:    Totals{},
		},
		{
			name: "player on no roster",
			results: []MatchResult{
				{Matchup: Singles{A: "Alice", B: "Zed"}, Tally: Tally{}},
			},
			wantErr: ErrRosterMismatch,
		},
		{
			name: "both sides on one roster",
			results: []MatchResult{
				{Matchup: Singles{A: "Alice", B: "Nikhit"}, Tally: Tally{}},
			},
			wantErr: ErrRosterMismatch,
		},
		{
			name: "pair split across rosters",
			results: []MatchResult{
				{Matchup: Pair{A: [2]string{"Alice", "Bob"}, B: [2]string{"Nikhit", "Aaron"}}, Tally: Tally{}},
			},
			wantErr: ErrRosterMismatch,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Aggregate(tc.results, testRosters)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAggregate_Associative(t *testing.T) {
	m1 := MatchResult{Matchup: Singles{A: "Alice", B: "Bob"}, Tally: Tally{"Alice": 3, "Bob": 1}}
	m2 := MatchResult{Matchup: Singles{A: "Aaron", B: "Nikhit"}, Tally: Tally{"Aaron": 2.5, "Nikhit": 4.5}}
	m3 := MatchResult{
		Matchup: Pair{A: [2]string{"Andrew", "Alice"}, B: [2]string{"Tony", "Bob"}},
		Tally:   Tally{TeamAKey: 0.5, TeamBKey: 6},
	}

	all, err := Aggregate([]MatchResult{m1, m2, m3}, testRosters)
	require.NoError(t, err)

	first, err := Aggregate([]MatchResult{m1, m2}, testRosters)
	require.NoError(t, err)
	last, err := Aggregate([]MatchResult{m3}, testRosters)
	require.NoError(t, err)
	assert.Equal(t, all, first.Add(last))

	reversed, err := Aggregate([]MatchResult{m3, m2, m1}, testRosters)
	require.NoError(t, err)
	assert.Equal(t, all, reversed)

	assert.Equal(t, Totals{A: 8, B: 9.5}, all)
}

func TestRosters_SideOf(t *testing.T) {
	r := Rosters{A: []string{"Alice", "Both"}, B: []string{"Bob", "Both"}}

	side, err := r.SideOf("Alice")
	require.NoError(t, err)
	assert.Equal(t, SideA, side)

	side, err = r.SideOf("Bob")
	require.NoError(t, err)
	assert.Equal(t, SideB, side)

	_, err = r.SideOf("Both")
	assert.ErrorIs(t, err, ErrRosterMismatch)

	_, err = r.SideOf("Nobody")
	assert.ErrorIs(t, err, ErrRosterMismatch)
}
