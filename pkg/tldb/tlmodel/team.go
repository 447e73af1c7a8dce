package tlmodel

import (
	"time"
)

// Team is a collaboration group. OwnerEmail is a normalized identity key;
// the owner is always present in the team's membership rows. A non-nil
// DeletedAt marks the team soft-deleted: its rows stay in place so that
// historical completion entries keep a valid team id, but every active-use
// query treats it as not found.
type Team struct {
	ID          int        `json:"id"`
	UUID        string     `json:"uuid" gorm:"size:64"`
	Slug        string     `json:"slug" gorm:"uniqueIndex;size:191"`
	Name        string     `json:"name" gorm:"size:25"`
	Description string     `json:"description" gorm:"size:250"`
	OwnerEmail  string     `json:"owner_email" gorm:"index;size:191"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

func (t *Team) IsDeleted() bool {
	return t.DeletedAt != nil
}
