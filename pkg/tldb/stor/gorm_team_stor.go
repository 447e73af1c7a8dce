package stor

import (
	"errors"
	"fmt"
	"time"

	"github.com/gosimple/slug"
	"github.com/hashicorp/go-uuid"
	"github.com/tallyhq/tally/pkg/tldb/tlmodel"
	"gorm.io/gorm"
)

type GormTeamStor struct {
	db *gorm.DB
}

func NewGormTeamStor(db *gorm.DB) *GormTeamStor {
	return &GormTeamStor{db: db}
}

// CreateTeam creates a team owned by ownerEmail and inserts the owner's
// membership row in the same transaction, so the team is never observable
// without its owner as a member.
func (s *GormTeamStor) CreateTeam(ownerEmail, name, description string) (*tlmodel.Team, error) {
	var err error

	team := &tlmodel.Team{
		Name:        name,
		Description: description,
		OwnerEmail:  ownerEmail,
	}

	if team.UUID, err = uuid.GenerateUUID(); err != nil {
		return nil, err
	}

	slugOfName := slug.Make(name)
	team.Slug = slugOfName
	slugNext := 1

	err = WithTxRetry(s.db, func(tx *gorm.DB) error {
	CreateLoop:
		for {
			err = tx.Create(team).Error
			switch {
			case err == nil:
				break CreateLoop
			case errors.Is(err, gorm.ErrDuplicatedKey):
				// Collision on the slug. Add an incrementing integer to
				// the slug name and try again.
				team.Slug = fmt.Sprintf("%s-%d", slugOfName, slugNext)
				slugNext = slugNext + 1
			default:
				return err
			}
		}

		owner := &tlmodel.TeamMember{TeamID: team.ID, MemberEmail: ownerEmail}
		return tx.Create(owner).Error
	})

	if err != nil {
		return nil, err
	}

	return team, nil
}

func (s *GormTeamStor) GetTeam(teamID int) (*tlmodel.Team, error) {
	return getActiveTeam(s.db, teamID)
}

func (s *GormTeamStor) GetTeamBySlug(teamSlug string) (*tlmodel.Team, error) {
	var team tlmodel.Team
	err := s.db.Where("slug = ?", teamSlug).Where("deleted_at is null").First(&team).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrNotFound
	case err != nil:
		return nil, err
	}

	return &team, nil
}

func (s *GormTeamStor) ListTeams() ([]tlmodel.Team, error) {
	var teams []tlmodel.Team
	err := s.db.Where("deleted_at is null").Find(&teams).Error
	return teams, err
}

func (s *GormTeamStor) UpdateTeam(teamID int, name, description string) (*tlmodel.Team, error) {
	var team *tlmodel.Team

	err := WithTxRetry(s.db, func(tx *gorm.DB) error {
		var err error
		if team, err = getActiveTeam(tx, teamID); err != nil {
			return err
		}

		return tx.Model(team).Updates(map[string]interface{}{
			"name":        name,
			"description": description,
		}).Error
	})

	if err != nil {
		return nil, err
	}

	return team, nil
}

// SoftDeleteTeam tombstones the team and detaches its active tasks. The
// team's rows are retained so historical completion entries keep a valid
// team id; every active-use query treats the team as not found afterwards.
func (s *GormTeamStor) SoftDeleteTeam(teamID int) error {
	return WithTxRetry(s.db, func(tx *gorm.DB) error {
		team, err := getActiveTeam(tx, teamID)
		if err != nil {
			return err
		}

		return softDeleteTeamTx(tx, team)
	})
}

// getActiveTeam returns the team only if it exists and isn't soft-deleted.
func getActiveTeam(tx *gorm.DB, teamID int) (*tlmodel.Team, error) {
	var team tlmodel.Team
	err := tx.Where("id = ?", teamID).Where("deleted_at is null").First(&team).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrNotFound
	case err != nil:
		return nil, err
	}

	return &team, nil
}

// softDeleteTeamTx marks team deleted, clears the team association on its
// tasks, and drops its pending invites so none dangle against a tombstoned
// team. Must run inside a transaction; also used when an owner leaving
// empties out a team.
func softDeleteTeamTx(tx *gorm.DB, team *tlmodel.Team) error {
	now := time.Now()
	if err := tx.Model(team).Update("deleted_at", &now).Error; err != nil {
		return err
	}

	if err := tx.Where("team_id = ?", team.ID).Delete(&tlmodel.Invite{}).Error; err != nil {
		return err
	}

	return tx.Model(&tlmodel.Task{}).
		Where("team_id = ?", team.ID).
		Update("team_id", nil).Error
}
