package tlmodel

import "time"

// Invite is a pending request to add InviteeEmail to TeamID. It is created
// unauthorized by any team member; the team owner authorizes it (becoming the
// recorded inviter); the invitee then accepts or rejects it. Resolved invites
// are deleted, not archived.
//
// InviterEmail is a pointer because the inviter's account can disappear while
// the invite is still pending; the column is set null rather than cascading
// the invite away. Role checks that ask "is the caller the inviter" treat a
// nil inviter as no-match.
type Invite struct {
	TeamID       int       `json:"team_id" gorm:"primaryKey;autoIncrement:false"`
	InviteeEmail string    `json:"invitee_email" gorm:"primaryKey;size:191"`
	UUID         string    `json:"uuid" gorm:"size:64"`
	InviterEmail *string   `json:"inviter_email" gorm:"index;size:191"`
	IsAuthorized bool      `json:"is_authorized"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Invite) TableName() string {
	return "add_user_requests"
}

// InviterIs reports whether the invite's recorded inviter matches email.
// False when the inviter has been nulled out.
func (i *Invite) InviterIs(email string) bool {
	return i.InviterEmail != nil && *i.InviterEmail == email
}
