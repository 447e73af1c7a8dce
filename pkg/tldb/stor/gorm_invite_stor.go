package stor

import (
	"errors"

	"github.com/hashicorp/go-uuid"
	"github.com/tallyhq/tally/pkg/tldb/tlmodel"
	"gorm.io/gorm"
)

// GormInviteStor runs the dual-authorization invite workflow. An invite is
// proposed by a team member, authorized by the team owner, and then accepted
// or rejected by the invitee; the owner can veto and the inviter can rescind
// at any point. Resolved invites leave no row behind.
type GormInviteStor struct {
	db *gorm.DB
}

func NewGormInviteStor(db *gorm.DB) *GormInviteStor {
	return &GormInviteStor{db: db}
}

// Propose creates an unauthorized invite for inviteeEmail to join the team.
// The caller must be a current member and the invitee must not already be
// one. Re-proposing an existing invite returns the existing row unchanged.
func (s *GormInviteStor) Propose(teamID int, callerEmail, inviteeEmail string) (*tlmodel.Invite, error) {
	var invite *tlmodel.Invite

	err := WithTxRetry(s.db, func(tx *gorm.DB) error {
		if _, err := getActiveTeam(tx, teamID); err != nil {
			return err
		}

		if !memberExists(tx, teamID, callerEmail) {
			return ErrInvalidOperation
		}

		if memberExists(tx, teamID, inviteeEmail) {
			return ErrInvalidOperation
		}

		existing, err := getInvite(tx, teamID, inviteeEmail)
		switch {
		case err == nil:
			invite = existing
			return nil
		case !errors.Is(err, ErrNotFound):
			return err
		}

		inviter := callerEmail
		invite = &tlmodel.Invite{
			TeamID:       teamID,
			InviteeEmail: inviteeEmail,
			InviterEmail: &inviter,
		}
		if invite.UUID, err = uuid.GenerateUUID(); err != nil {
			return err
		}

		err = tx.Create(invite).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// A concurrent identical proposal won; converge on its row.
			invite, err = getInvite(tx, teamID, inviteeEmail)
		}

		return err
	})

	if err != nil {
		return nil, err
	}

	return invite, nil
}

// Authorize approves a pending invite. Only the team's current owner may
// authorize, and doing so records them as the invite's inviter. Authorizing
// an already-authorized invite is a no-op.
func (s *GormInviteStor) Authorize(teamID int, callerEmail, inviteeEmail string) (*tlmodel.Invite, error) {
	var invite *tlmodel.Invite

	err := WithTxRetry(s.db, func(tx *gorm.DB) error {
		team, err := getActiveTeam(tx, teamID)
		if err != nil {
			return err
		}

		if invite, err = getInvite(tx, teamID, inviteeEmail); err != nil {
			return err
		}

		if team.OwnerEmail != callerEmail {
			return ErrForbidden
		}

		if invite.IsAuthorized {
			return nil
		}

		err = tx.Model(invite).Updates(map[string]interface{}{
			"is_authorized": true,
			"inviter_email": callerEmail,
		}).Error
		if err != nil {
			return err
		}

		invite.IsAuthorized = true
		invite.InviterEmail = &callerEmail
		return nil
	})

	if err != nil {
		return nil, err
	}

	return invite, nil
}

// Accept converts the caller's authorized invite into a membership row and
// deletes the invite, all in one transaction. An invite that was never
// authorized can't be accepted and reports not found.
func (s *GormInviteStor) Accept(teamID int, callerEmail string) error {
	return WithTxRetry(s.db, func(tx *gorm.DB) error {
		if _, err := getActiveTeam(tx, teamID); err != nil {
			return err
		}

		invite, err := getInvite(tx, teamID, callerEmail)
		if err != nil {
			return err
		}

		if !invite.IsAuthorized {
			return ErrNotFound
		}

		member := &tlmodel.TeamMember{TeamID: teamID, MemberEmail: callerEmail}
		err = tx.Create(member).Error
		if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}

		return tx.Delete(invite).Error
	})
}

// Reject deletes the caller's authorized invite without creating membership.
func (s *GormInviteStor) Reject(teamID int, callerEmail string) error {
	return WithTxRetry(s.db, func(tx *gorm.DB) error {
		if _, err := getActiveTeam(tx, teamID); err != nil {
			return err
		}

		invite, err := getInvite(tx, teamID, callerEmail)
		if err != nil {
			return err
		}

		if !invite.IsAuthorized {
			return ErrNotFound
		}

		return tx.Delete(invite).Error
	})
}

// Rescind withdraws an invite the caller created. An invite whose inviter
// has been nulled out can't be rescinded by anyone.
func (s *GormInviteStor) Rescind(teamID int, callerEmail, inviteeEmail string) error {
	return WithTxRetry(s.db, func(tx *gorm.DB) error {
		invite, err := getInvite(tx, teamID, inviteeEmail)
		if err != nil {
			return err
		}

		if !invite.InviterIs(callerEmail) {
			return ErrForbidden
		}

		return tx.Delete(invite).Error
	})
}

// Veto deletes any invite into a team the caller owns.
func (s *GormInviteStor) Veto(teamID int, callerEmail, inviteeEmail string) error {
	return WithTxRetry(s.db, func(tx *gorm.DB) error {
		team, err := getActiveTeam(tx, teamID)
		if err != nil {
			return err
		}

		invite, err := getInvite(tx, teamID, inviteeEmail)
		if err != nil {
			return err
		}

		if team.OwnerEmail != callerEmail {
			return ErrForbidden
		}

		return tx.Delete(invite).Error
	})
}

// InvitesToAccept lists the authorized invites naming email as invitee.
func (s *GormInviteStor) InvitesToAccept(email string) ([]tlmodel.Invite, error) {
	var invites []tlmodel.Invite
	err := s.db.Where("invitee_email = ?", email).
		Where("is_authorized = ?", true).
		Where("team_id in (select id from teams where deleted_at is null)").
		Find(&invites).Error
	return invites, err
}

// InvitesToAuthorize lists the unauthorized invites on teams ownerEmail owns.
func (s *GormInviteStor) InvitesToAuthorize(ownerEmail string) ([]tlmodel.Invite, error) {
	var invites []tlmodel.Invite
	err := s.db.Where("is_authorized = ?", false).
		Where("team_id in (select id from teams where owner_email = ? and deleted_at is null)", ownerEmail).
		Find(&invites).Error
	return invites, err
}

func (s *GormInviteStor) InvitesCreatedBy(email string) ([]tlmodel.Invite, error) {
	var invites []tlmodel.Invite
	err := s.db.Where("inviter_email = ?", email).
		Where("team_id in (select id from teams where deleted_at is null)").
		Find(&invites).Error
	return invites, err
}

func getInvite(tx *gorm.DB, teamID int, inviteeEmail string) (*tlmodel.Invite, error) {
	var invite tlmodel.Invite
	err := tx.Where("team_id = ?", teamID).
		Where("invitee_email = ?", inviteeEmail).
		First(&invite).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrNotFound
	case err != nil:
		return nil, err
	}

	return &invite, nil
}

func memberExists(tx *gorm.DB, teamID int, email string) bool {
	var count int64
	tx.Model(&tlmodel.TeamMember{}).
		Where("team_id = ?", teamID).
		Where("member_email = ?", email).
		Count(&count)

	return count != 0
}
