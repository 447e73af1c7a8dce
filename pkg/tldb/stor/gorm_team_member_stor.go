package stor

import (
	"errors"

	"github.com/apex/log"
	"github.com/tallyhq/tally/pkg/tldb/tlmodel"
	"gorm.io/gorm"
)

type GormTeamMemberStor struct {
	db *gorm.DB
}

func NewGormTeamMemberStor(db *gorm.DB) *GormTeamMemberStor {
	return &GormTeamMemberStor{db: db}
}

// AddMember adds email to the team. Adding an existing member is a no-op, as
// is adding to a team that doesn't exist; two concurrent identical adds both
// succeed.
func (s *GormTeamMemberStor) AddMember(teamID int, email string) error {
	_, err := getActiveTeam(s.db, teamID)
	switch {
	case errors.Is(err, ErrNotFound):
		return nil
	case err != nil:
		return err
	}

	member := &tlmodel.TeamMember{TeamID: teamID, MemberEmail: email}
	err = s.db.Create(member).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Already a member.
		return nil
	}

	return err
}

// RemoveMember deletes the membership edge. The current owner can never be
// removed here; ownership has to be transferred or the team deleted first.
// Missing teams and non-members are no-ops.
func (s *GormTeamMemberStor) RemoveMember(teamID int, email string) error {
	team, err := getActiveTeam(s.db, teamID)
	switch {
	case errors.Is(err, ErrNotFound):
		return nil
	case err != nil:
		return err
	}

	if team.OwnerEmail == email {
		return nil
	}

	return s.db.Delete(&tlmodel.TeamMember{TeamID: teamID, MemberEmail: email}).Error
}

// Leave removes email from the team at their own request. An owner can only
// leave a team they are the last member of, in which case the team is
// soft-deleted; otherwise they must transfer ownership first.
func (s *GormTeamMemberStor) Leave(teamID int, email string) error {
	return WithTxRetry(s.db, func(tx *gorm.DB) error {
		team, err := getActiveTeam(tx, teamID)
		if err != nil {
			return err
		}

		if team.OwnerEmail != email {
			return tx.Delete(&tlmodel.TeamMember{TeamID: teamID, MemberEmail: email}).Error
		}

		var others int64
		err = tx.Model(&tlmodel.TeamMember{}).
			Where("team_id = ?", teamID).
			Where("member_email <> ?", email).
			Count(&others).Error
		if err != nil {
			return err
		}

		if others > 0 {
			return ErrInvalidOperation
		}

		return softDeleteTeamTx(tx, team)
	})
}

func (s *GormTeamMemberStor) IsMember(teamID int, email string) bool {
	return memberExists(s.db, teamID, email)
}

func (s *GormTeamMemberStor) MembersOf(teamID int) ([]tlmodel.TeamMember, error) {
	var members []tlmodel.TeamMember
	err := s.db.Where("team_id = ?", teamID).Find(&members).Error
	return members, err
}

func (s *GormTeamMemberStor) TeamsOf(email string) ([]tlmodel.Team, error) {
	var teams []tlmodel.Team
	err := s.db.Where("id in (select team_id from team2member where member_email = ?)", email).
		Where("deleted_at is null").
		Find(&teams).Error
	return teams, err
}

// TransferOwnership makes newOwnerEmail the team's owner. The previous
// owner's membership row stays in place. A transfer to a non-member is
// rejected as a no-op, with one exception: when the stored owner field
// already names newOwnerEmail but the matching membership row is missing,
// the row drifted out of sync and is reinserted here instead.
func (s *GormTeamMemberStor) TransferOwnership(teamID int, newOwnerEmail string) error {
	return WithTxRetry(s.db, func(tx *gorm.DB) error {
		team, err := getActiveTeam(tx, teamID)
		switch {
		case errors.Is(err, ErrNotFound):
			return nil
		case err != nil:
			return err
		}

		if !memberExists(tx, teamID, newOwnerEmail) {
			if team.OwnerEmail != newOwnerEmail {
				// Not a member, nothing to transfer to.
				return nil
			}

			// The owner field already points at newOwnerEmail but the
			// membership row is gone. Repair the invariant rather than
			// treating this as a transfer.
			log.WithFields(log.Fields{
				"team_id": teamID,
				"owner":   newOwnerEmail,
			}).Warn("repairing missing membership row for team owner")

			member := &tlmodel.TeamMember{TeamID: teamID, MemberEmail: newOwnerEmail}
			return tx.Create(member).Error
		}

		return tx.Model(team).Update("owner_email", newOwnerEmail).Error
	})
}
