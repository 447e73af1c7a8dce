package webapi

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
	"github.com/tallyhq/tally/pkg/tallyd/webapi/apimiddleware"
	"github.com/tallyhq/tally/pkg/tldb/stor"
)

// PermissionController manages the directed team-to-team visibility edges.
// An edge (subject, object) lets members of the subject team view the object
// team's aggregate stats, so granting and revoking are controlled by the
// object team's owner: you decide who may look at you.
type PermissionController struct {
	teamStor       stor.TeamStor
	permissionStor stor.TeamPermissionStor
}

func NewPermissionController(teamStor stor.TeamStor, permissionStor stor.TeamPermissionStor) *PermissionController {
	return &PermissionController{teamStor: teamStor, permissionStor: permissionStor}
}

// Permit grants the subject team visibility into the team named in the path.
func (c *PermissionController) Permit(ctx echo.Context) error {
	subjectID, objectID, err := c.edgeFromRequest(ctx)
	if err != nil {
		return err
	}

	if err := c.permissionStor.Permit(subjectID, objectID); err != nil {
		return toHTTPError(err)
	}

	return ctx.NoContent(http.StatusOK)
}

func (c *PermissionController) Forbid(ctx echo.Context) error {
	subjectID, objectID, err := c.edgeFromRequest(ctx)
	if err != nil {
		return err
	}

	if err := c.permissionStor.Forbid(subjectID, objectID); err != nil {
		return toHTTPError(err)
	}

	return ctx.NoContent(http.StatusOK)
}

// Viewers lists the teams holding a visibility edge into this team.
func (c *PermissionController) Viewers(ctx echo.Context) error {
	teamID, err := teamIDParam(ctx)
	if err != nil {
		return err
	}

	if _, err := c.teamStor.GetTeam(teamID); err != nil {
		return toHTTPError(err)
	}

	teams, err := c.permissionStor.TeamsThatCanSee(teamID)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, teams)
}

// Sees lists the teams this team holds a visibility edge into.
func (c *PermissionController) Sees(ctx echo.Context) error {
	teamID, err := teamIDParam(ctx)
	if err != nil {
		return err
	}

	if _, err := c.teamStor.GetTeam(teamID); err != nil {
		return toHTTPError(err)
	}

	teams, err := c.permissionStor.TeamsItSees(teamID)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, teams)
}

// VisibleTeams returns the ids of every team the caller may view stats for:
// their own teams plus one permission hop, never chained further.
func (c *PermissionController) VisibleTeams(ctx echo.Context) error {
	visible, err := c.permissionStor.TeamIDsVisibleToUser(apimiddleware.GetCaller(ctx))
	if err != nil {
		return toHTTPError(err)
	}

	ids := make([]int, 0, len(visible))
	for id := range visible {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	return ctx.JSON(http.StatusOK, map[string]interface{}{"team_ids": ids})
}

// edgeFromRequest reads the object team from the path and the subject team
// from the body, and checks the caller owns the object team.
func (c *PermissionController) edgeFromRequest(ctx echo.Context) (subjectID, objectID int, err error) {
	var req struct {
		SubjectTeamID int `json:"subject_team_id" validate:"required"`
	}

	if objectID, err = teamIDParam(ctx); err != nil {
		return 0, 0, err
	}

	if err = bindAndValidate(ctx, &req); err != nil {
		return 0, 0, err
	}

	object, err := c.teamStor.GetTeam(objectID)
	if err != nil {
		return 0, 0, toHTTPError(err)
	}

	if object.OwnerEmail != apimiddleware.GetCaller(ctx) {
		return 0, 0, toHTTPError(stor.ErrForbidden)
	}

	if _, err = c.teamStor.GetTeam(req.SubjectTeamID); err != nil {
		return 0, 0, toHTTPError(err)
	}

	return req.SubjectTeamID, objectID, nil
}
