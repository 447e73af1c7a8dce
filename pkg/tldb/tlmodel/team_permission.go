package tlmodel

import "time"

// TeamPermission is a directed visibility edge: members of the subject team
// may view the object team's aggregate completion statistics. There is no
// implied symmetry, and chains of edges are never followed.
type TeamPermission struct {
	SubjectTeamID int       `json:"subject_team_id" gorm:"primaryKey;autoIncrement:false"`
	ObjectTeamID  int       `json:"object_team_id" gorm:"primaryKey;autoIncrement:false"`
	CreatedAt     time.Time `json:"created_at"`
}

func (TeamPermission) TableName() string {
	return "team2team_permission"
}
