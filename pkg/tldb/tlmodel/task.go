package tlmodel

import "time"

// Task is owned by the task subsystem; the collaboration core only ever
// clears its team association when a team is soft-deleted.
type Task struct {
	ID         int       `json:"id"`
	UUID       string    `json:"uuid" gorm:"size:64"`
	Name       string    `json:"name"`
	OwnerEmail string    `json:"owner_email" gorm:"index;size:191"`
	TeamID     *int      `json:"team_id" gorm:"index"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
