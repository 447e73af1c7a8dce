package webapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tallyhq/tally/pkg/tldb/tlmodel"
)

func TestCreateTeamEndpoint(t *testing.T) {
	stors := newTestStors(t)
	controller := NewTeamController(stors.TeamStor)

	t.Run("CreatesTeamForCaller", func(t *testing.T) {
		body := []byte(`{"name": "Alpha", "description": "first"}`)
		c, rec := setupEchoContext(t, http.MethodPost, "/api/teams", "owner@x.com", body, nil)

		require.NoError(t, controller.CreateTeam(c))
		require.Equal(t, http.StatusOK, rec.Code)

		var team tlmodel.Team
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &team))
		assert.Equal(t, "owner@x.com", team.OwnerEmail)
		assert.Equal(t, "Alpha", team.Name)
	})

	t.Run("NameIsRequired", func(t *testing.T) {
		c, _ := setupEchoContext(t, http.MethodPost, "/api/teams", "owner@x.com", []byte(`{}`), nil)
		requireHTTPStatus(t, controller.CreateTeam(c), http.StatusBadRequest)
	})

	t.Run("NameOverLimitIsRejected", func(t *testing.T) {
		body := []byte(fmt.Sprintf(`{"name": %q}`, strings.Repeat("x", 26)))
		c, _ := setupEchoContext(t, http.MethodPost, "/api/teams", "owner@x.com", body, nil)
		requireHTTPStatus(t, controller.CreateTeam(c), http.StatusBadRequest)
	})
}

func TestGetTeamEndpoint(t *testing.T) {
	stors := newTestStors(t)
	controller := NewTeamController(stors.TeamStor)

	team, err := stors.TeamStor.CreateTeam("owner@x.com", "Alpha", "")
	require.NoError(t, err)

	t.Run("ReturnsTeam", func(t *testing.T) {
		c, rec := setupEchoContext(t, http.MethodGet, "/api/teams/1", "other@x.com", nil,
			map[string]string{"id": fmt.Sprintf("%d", team.ID)})

		require.NoError(t, controller.GetTeam(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("UnknownTeamIs404", func(t *testing.T) {
		c, _ := setupEchoContext(t, http.MethodGet, "/api/teams/999", "other@x.com", nil,
			map[string]string{"id": "999"})
		requireHTTPStatus(t, controller.GetTeam(c), http.StatusNotFound)
	})

	t.Run("BadIDIs400", func(t *testing.T) {
		c, _ := setupEchoContext(t, http.MethodGet, "/api/teams/abc", "other@x.com", nil,
			map[string]string{"id": "abc"})
		requireHTTPStatus(t, controller.GetTeam(c), http.StatusBadRequest)
	})
}

func TestGetTeamBySlugEndpoint(t *testing.T) {
	stors := newTestStors(t)
	controller := NewTeamController(stors.TeamStor)

	team, err := stors.TeamStor.CreateTeam("owner@x.com", "Alpha Squad", "")
	require.NoError(t, err)
	require.Equal(t, "alpha-squad", team.Slug)

	t.Run("ReturnsTeam", func(t *testing.T) {
		c, rec := setupEchoContext(t, http.MethodGet, "/api/teams/slug/alpha-squad", "other@x.com", nil,
			map[string]string{"slug": "alpha-squad"})

		require.NoError(t, controller.GetTeamBySlug(c))
		require.Equal(t, http.StatusOK, rec.Code)

		var got tlmodel.Team
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, team.ID, got.ID)
	})

	t.Run("UnknownSlugIs404", func(t *testing.T) {
		c, _ := setupEchoContext(t, http.MethodGet, "/api/teams/slug/nope", "other@x.com", nil,
			map[string]string{"slug": "nope"})
		requireHTTPStatus(t, controller.GetTeamBySlug(c), http.StatusNotFound)
	})
}

func TestDeleteTeamEndpoint(t *testing.T) {
	stors := newTestStors(t)
	controller := NewTeamController(stors.TeamStor)

	team, err := stors.TeamStor.CreateTeam("owner@x.com", "Alpha", "")
	require.NoError(t, err)
	params := map[string]string{"id": fmt.Sprintf("%d", team.ID)}

	t.Run("OnlyOwnerDeletes", func(t *testing.T) {
		c, _ := setupEchoContext(t, http.MethodDelete, "/api/teams/1", "other@x.com", nil, params)
		requireHTTPStatus(t, controller.DeleteTeam(c), http.StatusForbidden)
	})

	t.Run("OwnerDeletes", func(t *testing.T) {
		c, rec := setupEchoContext(t, http.MethodDelete, "/api/teams/1", "owner@x.com", nil, params)
		require.NoError(t, controller.DeleteTeam(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		// A deleted team reads as not found from then on.
		c, _ = setupEchoContext(t, http.MethodGet, "/api/teams/1", "owner@x.com", nil, params)
		requireHTTPStatus(t, controller.GetTeam(c), http.StatusNotFound)
	})
}
