package tlmodel

import "time"

// CompletionEntry is one row of the daily completion log: a task instance
// rolled over to OwnerEmail at EntryTime, and whether it was completed.
// TeamID records the task's team at entry time and is kept even after the
// team is soft-deleted. The core treats the log as append-only; the only
// mutation is retention purging.
type CompletionEntry struct {
	TaskID      int       `json:"task_id" gorm:"primaryKey;autoIncrement:false"`
	OwnerEmail  string    `json:"owner_email" gorm:"primaryKey;size:191"`
	EntryTime   time.Time `json:"entry_time" gorm:"primaryKey"`
	IsCompleted bool      `json:"is_completed"`
	TeamID      *int      `json:"team_id" gorm:"index"`
}

func (CompletionEntry) TableName() string {
	return "completion_log"
}
