package stor

import (
	"errors"
	"math"
	"time"

	"github.com/tallyhq/tally/pkg/tldb/tlmodel"
	"gorm.io/gorm"
)

// GormCompletionStor aggregates the completion log. Rates are the average of
// the completed flag over entries in (start, end]; an empty entry set yields
// NaN so callers can tell "nothing to do" apart from "did everything".
type GormCompletionStor struct {
	db *gorm.DB
}

func NewGormCompletionStor(db *gorm.DB) *GormCompletionStor {
	return &GormCompletionStor{db: db}
}

func (s *GormCompletionStor) LogCompletion(entry *tlmodel.CompletionEntry) (*tlmodel.CompletionEntry, error) {
	if entry.EntryTime.IsZero() {
		entry.EntryTime = time.Now()
	}

	err := s.db.Create(entry).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Same task instance logged twice; first write wins.
		return entry, nil
	}

	if err != nil {
		return nil, err
	}

	return entry, nil
}

func (s *GormCompletionStor) UserCompletionRate(email string, start, end time.Time) (float64, error) {
	return s.rateWhere(start, end, func(q *gorm.DB) *gorm.DB {
		return q.Where("owner_email = ?", email)
	})
}

func (s *GormCompletionStor) TeamCompletionRate(teamID int, start, end time.Time) (float64, error) {
	return s.rateWhere(start, end, func(q *gorm.DB) *gorm.DB {
		return q.Where("team_id = ?", teamID)
	})
}

func (s *GormCompletionStor) UserCompletionRateAcrossTeams(email string, start, end time.Time, teamIDs []int) (float64, error) {
	if len(teamIDs) == 0 {
		return math.NaN(), nil
	}

	return s.rateWhere(start, end, func(q *gorm.DB) *gorm.DB {
		return q.Where("owner_email = ?", email).Where("team_id in ?", teamIDs)
	})
}

// PurgeOlderThan deletes every entry strictly before threshold and reports
// how many rows went away.
func (s *GormCompletionStor) PurgeOlderThan(threshold time.Time) (int64, error) {
	result := s.db.Where("entry_time < ?", threshold).Delete(&tlmodel.CompletionEntry{})
	return result.RowsAffected, result.Error
}

func (s *GormCompletionStor) rateWhere(start, end time.Time, conds func(*gorm.DB) *gorm.DB) (float64, error) {
	base := func() *gorm.DB {
		return conds(s.db.Model(&tlmodel.CompletionEntry{}).
			Where("entry_time > ?", start).
			Where("entry_time <= ?", end))
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return 0, err
	}

	if total == 0 {
		return math.NaN(), nil
	}

	var completed int64
	if err := base().Where("is_completed = ?", true).Count(&completed).Error; err != nil {
		return 0, err
	}

	return float64(completed) / float64(total), nil
}
