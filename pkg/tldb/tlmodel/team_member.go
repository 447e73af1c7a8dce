package tlmodel

import "time"

// TeamMember is a membership edge between a team and a user identity key.
type TeamMember struct {
	TeamID      int       `json:"team_id" gorm:"primaryKey;autoIncrement:false"`
	MemberEmail string    `json:"member_email" gorm:"primaryKey;size:191"`
	CreatedAt   time.Time `json:"created_at"`
}

func (TeamMember) TableName() string {
	return "team2member"
}
