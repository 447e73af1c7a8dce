package stor

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tallyhq/tally/pkg/tldb"
	"github.com/tallyhq/tally/pkg/tldb/tlmodel"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database with the full schema. Capping
// the pool at one connection keeps the database alive for the test's
// lifetime.
func newTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoErrorf(t, err, "gorm.Open failed: %s", err)

	sqlitedb, err := db.DB()
	require.NoError(t, err)
	sqlitedb.SetMaxOpenConns(1)

	err = tldb.RunMigrations(db)
	require.NoErrorf(t, err, "Migration failed with: %s", err)

	return db
}

// requireOwnerIsMember asserts the standing invariant that a non-deleted
// team's owner appears in its membership rows.
func requireOwnerIsMember(t *testing.T, db *gorm.DB, teamID int) {
	var team tlmodel.Team
	require.NoError(t, db.First(&team, teamID).Error)

	if team.IsDeleted() {
		return
	}

	var count int64
	db.Model(&tlmodel.TeamMember{}).
		Where("team_id = ?", teamID).
		Where("member_email = ?", team.OwnerEmail).
		Count(&count)
	require.EqualValuesf(t, 1, count, "owner %s of team %d is not a member", team.OwnerEmail, teamID)
}

func mustCreateTeam(t *testing.T, db *gorm.DB, owner, name string) *tlmodel.Team {
	team, err := NewGormTeamStor(db).CreateTeam(owner, name, "")
	require.NoError(t, err)
	return team
}
