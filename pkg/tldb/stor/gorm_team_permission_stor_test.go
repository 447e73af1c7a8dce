package stor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tallyhq/tally/pkg/tldb/tlmodel"
)

func TestPermitIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	permStor := NewGormTeamPermissionStor(db)
	alpha := mustCreateTeam(t, db, "a@example.com", "Alpha")
	beta := mustCreateTeam(t, db, "b@example.com", "Beta")

	require.NoError(t, permStor.Permit(beta.ID, alpha.ID))
	require.NoError(t, permStor.Permit(beta.ID, alpha.ID))

	var count int64
	db.Model(&tlmodel.TeamPermission{}).Count(&count)
	assert.EqualValues(t, 1, count)
	assert.True(t, permStor.IsPermitted(beta.ID, alpha.ID))
}

func TestForbid(t *testing.T) {
	db := newTestDB(t)
	permStor := NewGormTeamPermissionStor(db)
	alpha := mustCreateTeam(t, db, "a@example.com", "Alpha")
	beta := mustCreateTeam(t, db, "b@example.com", "Beta")

	require.NoError(t, permStor.Permit(beta.ID, alpha.ID))
	require.NoError(t, permStor.Forbid(beta.ID, alpha.ID))
	assert.False(t, permStor.IsPermitted(beta.ID, alpha.ID))

	t.Run("MissingEdgeIsANoop", func(t *testing.T) {
		require.NoError(t, permStor.Forbid(beta.ID, alpha.ID))
	})
}

// Visibility follows a single edge only: one team granting a second team
// visibility never leaks through to a third.
func TestVisibilityIsNotTransitive(t *testing.T) {
	db := newTestDB(t)
	permStor := NewGormTeamPermissionStor(db)

	a := mustCreateTeam(t, db, "a@example.com", "A")
	b := mustCreateTeam(t, db, "b@example.com", "B")
	c := mustCreateTeam(t, db, "c@example.com", "C")

	// A sees B, B sees C.
	require.NoError(t, permStor.Permit(a.ID, b.ID))
	require.NoError(t, permStor.Permit(b.ID, c.ID))

	visible, err := permStor.TeamIDsVisibleToUser("a@example.com")
	require.NoError(t, err)

	assert.True(t, visible[a.ID])
	assert.True(t, visible[b.ID])
	assert.False(t, visible[c.ID], "two-hop team must not be visible")

	canSee, err := permStor.UserCanSeeTeam("a@example.com", c.ID)
	require.NoError(t, err)
	assert.False(t, canSee)
}

func TestUserCanSeeTeamIsOneDirectional(t *testing.T) {
	db := newTestDB(t)
	permStor := NewGormTeamPermissionStor(db)

	alpha := mustCreateTeam(t, db, "a@x.com", "Alpha")
	beta := mustCreateTeam(t, db, "b@x.com", "Beta")

	// Alpha grants Beta's members visibility into Alpha.
	require.NoError(t, permStor.Permit(beta.ID, alpha.ID))

	canSee, err := permStor.UserCanSeeTeam("b@x.com", alpha.ID)
	require.NoError(t, err)
	assert.True(t, canSee)

	canSee, err = permStor.UserCanSeeTeam("a@x.com", beta.ID)
	require.NoError(t, err)
	assert.False(t, canSee, "the edge must not be readable backwards")
}

func TestNeighborQueries(t *testing.T) {
	db := newTestDB(t)
	teamStor := NewGormTeamStor(db)
	permStor := NewGormTeamPermissionStor(db)

	alpha := mustCreateTeam(t, db, "a@example.com", "Alpha")
	beta := mustCreateTeam(t, db, "b@example.com", "Beta")
	gamma := mustCreateTeam(t, db, "g@example.com", "Gamma")

	require.NoError(t, permStor.Permit(beta.ID, alpha.ID))
	require.NoError(t, permStor.Permit(gamma.ID, alpha.ID))

	viewers, err := permStor.TeamsThatCanSee(alpha.ID)
	require.NoError(t, err)
	assert.Len(t, viewers, 2)

	sees, err := permStor.TeamsItSees(beta.ID)
	require.NoError(t, err)
	require.Len(t, sees, 1)
	assert.Equal(t, alpha.ID, sees[0].ID)

	t.Run("DeletedTeamsDropOut", func(t *testing.T) {
		require.NoError(t, teamStor.SoftDeleteTeam(gamma.ID))
		viewers, err := permStor.TeamsThatCanSee(alpha.ID)
		require.NoError(t, err)
		assert.Len(t, viewers, 1)
	})
}

func TestVisibleTeamsExcludesDeleted(t *testing.T) {
	db := newTestDB(t)
	teamStor := NewGormTeamStor(db)
	permStor := NewGormTeamPermissionStor(db)

	alpha := mustCreateTeam(t, db, "a@example.com", "Alpha")
	beta := mustCreateTeam(t, db, "b@example.com", "Beta")
	require.NoError(t, permStor.Permit(alpha.ID, beta.ID))

	require.NoError(t, teamStor.SoftDeleteTeam(beta.ID))

	visible, err := permStor.TeamIDsVisibleToUser("a@example.com")
	require.NoError(t, err)
	assert.True(t, visible[alpha.ID])
	assert.False(t, visible[beta.ID])

	canSee, err := permStor.UserCanSeeTeam("a@example.com", beta.ID)
	require.NoError(t, err)
	assert.False(t, canSee)
}
