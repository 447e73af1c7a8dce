package stor

import (
	"time"

	"github.com/tallyhq/tally/pkg/tldb/tlmodel"
	"gorm.io/gorm"
)

type TeamStor interface {
	CreateTeam(ownerEmail, name, description string) (*tlmodel.Team, error)
	GetTeam(teamID int) (*tlmodel.Team, error)
	GetTeamBySlug(slug string) (*tlmodel.Team, error)
	ListTeams() ([]tlmodel.Team, error)
	UpdateTeam(teamID int, name, description string) (*tlmodel.Team, error)
	SoftDeleteTeam(teamID int) error
}

type TeamMemberStor interface {
	AddMember(teamID int, email string) error
	RemoveMember(teamID int, email string) error
	Leave(teamID int, email string) error
	IsMember(teamID int, email string) bool
	MembersOf(teamID int) ([]tlmodel.TeamMember, error)
	TeamsOf(email string) ([]tlmodel.Team, error)
	TransferOwnership(teamID int, newOwnerEmail string) error
}

type TeamPermissionStor interface {
	Permit(subjectTeamID, objectTeamID int) error
	Forbid(subjectTeamID, objectTeamID int) error
	IsPermitted(subjectTeamID, objectTeamID int) bool
	TeamsThatCanSee(objectTeamID int) ([]tlmodel.Team, error)
	TeamsItSees(subjectTeamID int) ([]tlmodel.Team, error)
	TeamIDsVisibleToUser(email string) (map[int]bool, error)
	UserCanSeeTeam(email string, objectTeamID int) (bool, error)
}

type InviteStor interface {
	Propose(teamID int, callerEmail, inviteeEmail string) (*tlmodel.Invite, error)
	Authorize(teamID int, callerEmail, inviteeEmail string) (*tlmodel.Invite, error)
	Accept(teamID int, callerEmail string) error
	Reject(teamID int, callerEmail string) error
	Rescind(teamID int, callerEmail, inviteeEmail string) error
	Veto(teamID int, callerEmail, inviteeEmail string) error
	InvitesToAccept(email string) ([]tlmodel.Invite, error)
	InvitesToAuthorize(ownerEmail string) ([]tlmodel.Invite, error)
	InvitesCreatedBy(email string) ([]tlmodel.Invite, error)
}

type CompletionStor interface {
	LogCompletion(entry *tlmodel.CompletionEntry) (*tlmodel.CompletionEntry, error)
	UserCompletionRate(email string, start, end time.Time) (float64, error)
	TeamCompletionRate(teamID int, start, end time.Time) (float64, error)
	UserCompletionRateAcrossTeams(email string, start, end time.Time, teamIDs []int) (float64, error)
	PurgeOlderThan(threshold time.Time) (int64, error)
}

type Stors struct {
	TeamStor           TeamStor
	TeamMemberStor     TeamMemberStor
	TeamPermissionStor TeamPermissionStor
	InviteStor         InviteStor
	CompletionStor     CompletionStor
}

func NewGormStors(db *gorm.DB) *Stors {
	return &Stors{
		TeamStor:           NewGormTeamStor(db),
		TeamMemberStor:     NewGormTeamMemberStor(db),
		TeamPermissionStor: NewGormTeamPermissionStor(db),
		InviteStor:         NewGormInviteStor(db),
		CompletionStor:     NewGormCompletionStor(db),
	}
}
