package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/trentd187/ryder-cup/internal/models"
)

var allFields = []string{
	models.FieldParticipants,
	models.FieldHoleScores,
	models.FieldChallenges,
	models.FieldPoints,
}

// MatchStore keeps one row per match in the matches table.
type MatchStore struct {
	db *gorm.DB
}

func NewMatchStore(db *gorm.DB) *MatchStore {
	return &MatchStore{db: db}
}

// FetchMatch returns the stored record, or nil, nil if the match has never been saved.
func (s *MatchStore) FetchMatch(ctx context.Context, day, index int) (*models.MatchRecord, error) {
	var rec models.MatchRecord
	err := s.db.WithContext(ctx).
		Where("day = ? AND match_index = ?", day, index).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch match: %w", err)
	}
	return &rec, nil
}

// UpsertMatch writes the named fields of rec (all of them when none are named).
// A record that was read from the store is updated in place; a new one is
// inserted, falling back to an update of the named fields if another writer
// created the row first.
func (s *MatchStore) UpsertMatch(ctx context.Context, rec *models.MatchRecord, fields ...string) error {
	if len(fields) == 0 {
		fields = allFields
	}
	cols := append(append([]string{}, fields...), "updated_at")

	if rec.ID != uuid.Nil {
		res := s.db.WithContext(ctx).
			Model(rec).
			Where("day = ? AND match_index = ?", rec.Day, rec.MatchIndex).
			Select(cols).
			Updates(rec)
		if res.Error != nil {
			return fmt.Errorf("failed to update match: %w", res.Error)
		}
		if res.RowsAffected > 0 {
			return nil
		}
		// The row was cleared since it was read; insert it again under a new ID.
		rec.ID = uuid.Nil
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "day"}, {Name: "match_index"}},
			DoUpdates: clause.AssignmentColumns(cols),
		}).
		Create(rec).Error
	if err != nil {
		return fmt.Errorf("failed to upsert match: %w", err)
	}
	return nil
}

// DeleteMatch removes one match. Deleting a match that was never saved is not an error.
func (s *MatchStore) DeleteMatch(ctx context.Context, day, index int) error {
	err := s.db.WithContext(ctx).
		Where("day = ? AND match_index = ?", day, index).
		Delete(&models.MatchRecord{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete match: %w", err)
	}
	return nil
}

// DeleteAllMatches removes every match.
func (s *MatchStore) DeleteAllMatches(ctx context.Context) error {
	err := s.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.MatchRecord{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete matches: %w", err)
	}
	return nil
}
