package stor

import (
	"errors"

	"github.com/tallyhq/tally/pkg/tldb/tlmodel"
	"gorm.io/gorm"
)

type GormTeamPermissionStor struct {
	db *gorm.DB
}

func NewGormTeamPermissionStor(db *gorm.DB) *GormTeamPermissionStor {
	return &GormTeamPermissionStor{db: db}
}

// Permit grants the subject team visibility into the object team's stats.
// Granting an existing edge is a no-op.
func (s *GormTeamPermissionStor) Permit(subjectTeamID, objectTeamID int) error {
	edge := &tlmodel.TeamPermission{SubjectTeamID: subjectTeamID, ObjectTeamID: objectTeamID}
	err := s.db.Create(edge).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}

	return err
}

// Forbid revokes the edge; revoking one that doesn't exist is a no-op.
func (s *GormTeamPermissionStor) Forbid(subjectTeamID, objectTeamID int) error {
	return s.db.Delete(&tlmodel.TeamPermission{
		SubjectTeamID: subjectTeamID,
		ObjectTeamID:  objectTeamID,
	}).Error
}

func (s *GormTeamPermissionStor) IsPermitted(subjectTeamID, objectTeamID int) bool {
	var count int64
	s.db.Model(&tlmodel.TeamPermission{}).
		Where("subject_team_id = ?", subjectTeamID).
		Where("object_team_id = ?", objectTeamID).
		Count(&count)

	return count != 0
}

func (s *GormTeamPermissionStor) TeamsThatCanSee(objectTeamID int) ([]tlmodel.Team, error) {
	var teams []tlmodel.Team
	err := s.db.Where("id in (select subject_team_id from team2team_permission where object_team_id = ?)", objectTeamID).
		Where("deleted_at is null").
		Find(&teams).Error
	return teams, err
}

func (s *GormTeamPermissionStor) TeamsItSees(subjectTeamID int) ([]tlmodel.Team, error) {
	var teams []tlmodel.Team
	err := s.db.Where("id in (select object_team_id from team2team_permission where subject_team_id = ?)", subjectTeamID).
		Where("deleted_at is null").
		Find(&teams).Error
	return teams, err
}

// TeamIDsVisibleToUser returns the union of every team the user is a member
// of and every team reachable from one of those by a single permission edge.
// Edges are never chained: a team two hops away is not included.
func (s *GormTeamPermissionStor) TeamIDsVisibleToUser(email string) (map[int]bool, error) {
	visible := make(map[int]bool)

	var memberTeamIDs []int
	err := s.db.Model(&tlmodel.Team{}).
		Where("id in (select team_id from team2member where member_email = ?)", email).
		Where("deleted_at is null").
		Pluck("id", &memberTeamIDs).Error
	if err != nil {
		return nil, err
	}

	for _, id := range memberTeamIDs {
		visible[id] = true
	}

	if len(memberTeamIDs) == 0 {
		return visible, nil
	}

	var permittedTeamIDs []int
	err = s.db.Model(&tlmodel.Team{}).
		Where("id in (select object_team_id from team2team_permission where subject_team_id in ?)", memberTeamIDs).
		Where("deleted_at is null").
		Pluck("id", &permittedTeamIDs).Error
	if err != nil {
		return nil, err
	}

	for _, id := range permittedTeamIDs {
		visible[id] = true
	}

	return visible, nil
}

func (s *GormTeamPermissionStor) UserCanSeeTeam(email string, objectTeamID int) (bool, error) {
	if _, err := getActiveTeam(s.db, objectTeamID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	if memberExists(s.db, objectTeamID, email) {
		return true, nil
	}

	// A membership held in a soft-deleted subject team grants nothing.
	var count int64
	err := s.db.Model(&tlmodel.TeamPermission{}).
		Where("object_team_id = ?", objectTeamID).
		Where("subject_team_id in (select team_id from team2member where member_email = ?)", email).
		Where("subject_team_id in (select id from teams where deleted_at is null)").
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count != 0, nil
}
