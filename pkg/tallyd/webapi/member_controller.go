package webapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tallyhq/tally/pkg/tallyd/webapi/apimiddleware"
	"github.com/tallyhq/tally/pkg/tldb/stor"
)

type MemberController struct {
	teamStor   stor.TeamStor
	memberStor stor.TeamMemberStor
}

func NewMemberController(teamStor stor.TeamStor, memberStor stor.TeamMemberStor) *MemberController {
	return &MemberController{teamStor: teamStor, memberStor: memberStor}
}

// ListMembers returns the membership rows of a team the caller can name.
func (c *MemberController) ListMembers(ctx echo.Context) error {
	teamID, err := teamIDParam(ctx)
	if err != nil {
		return err
	}

	if _, err := c.teamStor.GetTeam(teamID); err != nil {
		return toHTTPError(err)
	}

	members, err := c.memberStor.MembersOf(teamID)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, members)
}

// RemoveMember removes a member from the team. Owner only; the owner
// themselves can never be removed this way.
func (c *MemberController) RemoveMember(ctx echo.Context) error {
	teamID, err := teamIDParam(ctx)
	if err != nil {
		return err
	}

	email, err := normalizeEmail(ctx.Param("email"))
	if err != nil {
		return err
	}

	team, err := c.teamStor.GetTeam(teamID)
	if err != nil {
		return toHTTPError(err)
	}

	if team.OwnerEmail != apimiddleware.GetCaller(ctx) {
		return toHTTPError(stor.ErrForbidden)
	}

	if team.OwnerEmail == email {
		// Ownership has to move or the team be deleted first.
		return toHTTPError(stor.ErrInvalidOperation)
	}

	if err := c.memberStor.RemoveMember(teamID, email); err != nil {
		return toHTTPError(err)
	}

	return ctx.NoContent(http.StatusOK)
}

func (c *MemberController) Leave(ctx echo.Context) error {
	teamID, err := teamIDParam(ctx)
	if err != nil {
		return err
	}

	if err := c.memberStor.Leave(teamID, apimiddleware.GetCaller(ctx)); err != nil {
		return toHTTPError(err)
	}

	return ctx.NoContent(http.StatusOK)
}

func (c *MemberController) TransferOwnership(ctx echo.Context) error {
	var req struct {
		NewOwnerEmail string `json:"new_owner_email" validate:"required"`
	}

	teamID, err := teamIDParam(ctx)
	if err != nil {
		return err
	}

	if err := bindAndValidate(ctx, &req); err != nil {
		return err
	}

	newOwner, err := normalizeEmail(req.NewOwnerEmail)
	if err != nil {
		return err
	}

	team, err := c.teamStor.GetTeam(teamID)
	if err != nil {
		return toHTTPError(err)
	}

	if team.OwnerEmail != apimiddleware.GetCaller(ctx) {
		return toHTTPError(stor.ErrForbidden)
	}

	if err := c.memberStor.TransferOwnership(teamID, newOwner); err != nil {
		return toHTTPError(err)
	}

	return ctx.NoContent(http.StatusOK)
}

// MyTeams lists the non-deleted teams the caller belongs to.
func (c *MemberController) MyTeams(ctx echo.Context) error {
	teams, err := c.memberStor.TeamsOf(apimiddleware.GetCaller(ctx))
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, teams)
}
