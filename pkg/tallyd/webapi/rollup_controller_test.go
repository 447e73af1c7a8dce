package webapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tallyhq/tally/pkg/tldb/tlmodel"
)

func TestTeamRateEndpointVisibilityGate(t *testing.T) {
	stors := newTestStors(t)
	controller := NewRollupController(stors.TeamStor, stors.TeamPermissionStor, stors.CompletionStor)

	alpha, err := stors.TeamStor.CreateTeam("a@x.com", "Alpha", "")
	require.NoError(t, err)
	beta, err := stors.TeamStor.CreateTeam("b@x.com", "Beta", "")
	require.NoError(t, err)

	// Alpha lets Beta's members look at its numbers.
	require.NoError(t, stors.TeamPermissionStor.Permit(beta.ID, alpha.ID))

	_, err = stors.CompletionStor.LogCompletion(&tlmodel.CompletionEntry{
		TaskID:      1,
		OwnerEmail:  "a@x.com",
		EntryTime:   time.Now().Add(-time.Hour),
		IsCompleted: true,
		TeamID:      &alpha.ID,
	})
	require.NoError(t, err)

	alphaParams := map[string]string{"id": fmt.Sprintf("%d", alpha.ID)}

	t.Run("PermittedCallerGetsRate", func(t *testing.T) {
		c, rec := setupEchoContext(t, http.MethodGet, "/api/teams/1/completion-rate", "b@x.com", nil, alphaParams)
		require.NoError(t, controller.TeamRate(c))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Rate *float64 `json:"rate"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotNil(t, resp.Rate)
		assert.Equal(t, 1.0, *resp.Rate)
	})

	t.Run("EdgeIsOneDirectional", func(t *testing.T) {
		betaParams := map[string]string{"id": fmt.Sprintf("%d", beta.ID)}
		c, _ := setupEchoContext(t, http.MethodGet, "/api/teams/2/completion-rate", "a@x.com", nil, betaParams)
		requireHTTPStatus(t, controller.TeamRate(c), http.StatusForbidden)
	})

	t.Run("StrangerIs403", func(t *testing.T) {
		c, _ := setupEchoContext(t, http.MethodGet, "/api/teams/1/completion-rate", "nobody@x.com", nil, alphaParams)
		requireHTTPStatus(t, controller.TeamRate(c), http.StatusForbidden)
	})

	t.Run("MissingTeamIs404", func(t *testing.T) {
		c, _ := setupEchoContext(t, http.MethodGet, "/api/teams/999/completion-rate", "a@x.com", nil,
			map[string]string{"id": "999"})
		requireHTTPStatus(t, controller.TeamRate(c), http.StatusNotFound)
	})
}

func TestMyRateEndpointUndefinedWindow(t *testing.T) {
	stors := newTestStors(t)
	controller := NewRollupController(stors.TeamStor, stors.TeamPermissionStor, stors.CompletionStor)

	c, rec := setupEchoContext(t, http.MethodGet, "/api/me/completion-rate", "a@x.com", nil, nil)
	require.NoError(t, controller.MyRate(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// No entries: rate serializes as null, not as a number.
	var resp struct {
		Rate *float64 `json:"rate"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Nil(t, resp.Rate)
}
