package webapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tallyhq/tally/pkg/tallyd/webapi/apimiddleware"
	"github.com/tallyhq/tally/pkg/tldb/stor"
)

type TeamController struct {
	teamStor stor.TeamStor
}

func NewTeamController(teamStor stor.TeamStor) *TeamController {
	return &TeamController{teamStor: teamStor}
}

func (c *TeamController) CreateTeam(ctx echo.Context) error {
	var req struct {
		Name        string `json:"name" validate:"required,max=25"`
		Description string `json:"description" validate:"max=250"`
	}

	if err := bindAndValidate(ctx, &req); err != nil {
		return err
	}

	team, err := c.teamStor.CreateTeam(apimiddleware.GetCaller(ctx), req.Name, req.Description)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, team)
}

func (c *TeamController) GetTeam(ctx echo.Context) error {
	teamID, err := teamIDParam(ctx)
	if err != nil {
		return err
	}

	team, err := c.teamStor.GetTeam(teamID)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, team)
}

func (c *TeamController) GetTeamBySlug(ctx echo.Context) error {
	team, err := c.teamStor.GetTeamBySlug(ctx.Param("slug"))
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, team)
}

func (c *TeamController) ListTeams(ctx echo.Context) error {
	teams, err := c.teamStor.ListTeams()
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, teams)
}

func (c *TeamController) UpdateTeam(ctx echo.Context) error {
	var req struct {
		Name        string `json:"name" validate:"required,max=25"`
		Description string `json:"description" validate:"max=250"`
	}

	teamID, err := teamIDParam(ctx)
	if err != nil {
		return err
	}

	if err := bindAndValidate(ctx, &req); err != nil {
		return err
	}

	if err := c.requireOwner(ctx, teamID); err != nil {
		return err
	}

	team, err := c.teamStor.UpdateTeam(teamID, req.Name, req.Description)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, team)
}

func (c *TeamController) DeleteTeam(ctx echo.Context) error {
	teamID, err := teamIDParam(ctx)
	if err != nil {
		return err
	}

	if err := c.requireOwner(ctx, teamID); err != nil {
		return err
	}

	if err := c.teamStor.SoftDeleteTeam(teamID); err != nil {
		return toHTTPError(err)
	}

	return ctx.NoContent(http.StatusOK)
}

func (c *TeamController) requireOwner(ctx echo.Context, teamID int) error {
	team, err := c.teamStor.GetTeam(teamID)
	if err != nil {
		return toHTTPError(err)
	}

	if team.OwnerEmail != apimiddleware.GetCaller(ctx) {
		return toHTTPError(stor.ErrForbidden)
	}

	return nil
}
