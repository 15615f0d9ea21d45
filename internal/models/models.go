// Package models defines the data structures that map to database tables, plus the
// small string enums shared across packages.
//
// The scorekeeper stores exactly one row per match, looked up by (day, match_index).
// The row is created the first time anything is saved for the match and holds the
// hole-by-hole strokes, the challenges called so far, and the derived points. The
// points are always recomputable from the strokes; they are stored alongside only so
// the row is readable on its own.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trentd187/ryder-cup/internal/scoring"
)

// --- Enums ---

// UserRole is the permission level carried in a scorer's token.
type UserRole string

const (
	UserRoleAdmin  UserRole = "admin"  // Can clear matches as well as score them
	UserRoleScorer UserRole = "scorer" // Can enter strokes and call challenges
)

// DayFormat is how the matches on a given day are played.
type DayFormat string

const (
	DayFormatSingles   DayFormat = "singles"   // One-on-one match play
	DayFormatScramble  DayFormat = "scramble"  // 2v2, both play from the best shot
	DayFormatFoursomes DayFormat = "foursomes" // 2v2 alternate shot, one ball per side
)

// PairSize is the number of players per side for the format, or 0 for an unknown format.
func (f DayFormat) PairSize() int {
	switch f {
	case DayFormatSingles:
		return 1
	case DayFormatScramble, DayFormatFoursomes:
		return 2
	default:
		return 0
	}
}

// --- Models ---

// MatchRecord is the persisted state of one match.
//
// The JSON columns go through GORM's json serializer. HoleScores is keyed by hole
// number; JSON object keys are text, so scoring.HoleScores converts them back to
// ints on the way out of the database.
type MatchRecord struct {
	ID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Day int       `gorm:"not null;uniqueIndex:idx_matches_day_index"`
	// Zero-based position in the day's pairings.
	MatchIndex int `gorm:"not null;uniqueIndex:idx_matches_day_index"`
	// [side A names, side B names]
	Participants [][]string         `gorm:"type:json;serializer:json;not null"`
	HoleScores   scoring.HoleScores `gorm:"type:json;serializer:json;not null"`
	// In the order they were called.
	Challenges []scoring.Activation `gorm:"type:json;serializer:json;not null"`
	Points     scoring.Tally        `gorm:"type:json;serializer:json;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Column names accepted by the match store's upsert, naming which fields of a
// MatchRecord to write.
const (
	FieldParticipants = "participants"
	FieldHoleScores   = "hole_scores"
	FieldChallenges   = "challenges"
	FieldPoints       = "points"
)

// TableName keeps the table name stable regardless of GORM's pluralisation rules.
func (MatchRecord) TableName() string {
	return "matches"
}

// BeforeCreate assigns the primary key in Go so inserts work the same on
// Postgres and SQLite.
func (m *MatchRecord) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// NewMatchRecord returns an empty record for a match that has never been saved.
func NewMatchRecord(day, index int, m scoring.Matchup) *MatchRecord {
	a, b := m.Groups()
	return &MatchRecord{
		Day:          day,
		MatchIndex:   index,
		Participants: [][]string{a, b},
		HoleScores:   scoring.HoleScores{},
		Challenges:   []scoring.Activation{},
		Points:       scoring.NewTally(m),
	}
}
