package webapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/tallyhq/tally/pkg/accounts"
	"github.com/tallyhq/tally/pkg/tallyd/webapi/apimiddleware"
	"github.com/tallyhq/tally/pkg/tldb/stor"
)

// InviteController drives the dual-authorization invite workflow: a member
// proposes, the owner authorizes (or vetoes), the invitee accepts or
// rejects, and the original inviter can rescind.
type InviteController struct {
	inviteStor stor.InviteStor
	accounts   accounts.Client
}

func NewInviteController(inviteStor stor.InviteStor, accountsClient accounts.Client) *InviteController {
	return &InviteController{inviteStor: inviteStor, accounts: accountsClient}
}

func (c *InviteController) Propose(ctx echo.Context) error {
	var req struct {
		InviteeEmail string `json:"invitee_email" validate:"required"`
	}

	teamID, err := teamIDParam(ctx)
	if err != nil {
		return err
	}

	if err := bindAndValidate(ctx, &req); err != nil {
		return err
	}

	invitee, err := normalizeEmail(req.InviteeEmail)
	if err != nil {
		return err
	}

	exists, err := c.accounts.Exists(invitee)
	if err != nil {
		return errors.Wrapf(err, "account lookup for %s failed", invitee)
	}

	if !exists {
		return toHTTPError(stor.ErrNotFound)
	}

	invite, err := c.inviteStor.Propose(teamID, apimiddleware.GetCaller(ctx), invitee)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, invite)
}

func (c *InviteController) Authorize(ctx echo.Context) error {
	teamID, invitee, err := c.inviteFromPath(ctx)
	if err != nil {
		return err
	}

	invite, err := c.inviteStor.Authorize(teamID, apimiddleware.GetCaller(ctx), invitee)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, invite)
}

func (c *InviteController) Accept(ctx echo.Context) error {
	teamID, err := teamIDParam(ctx)
	if err != nil {
		return err
	}

	if err := c.inviteStor.Accept(teamID, apimiddleware.GetCaller(ctx)); err != nil {
		return toHTTPError(err)
	}

	return ctx.NoContent(http.StatusOK)
}

func (c *InviteController) Reject(ctx echo.Context) error {
	teamID, err := teamIDParam(ctx)
	if err != nil {
		return err
	}

	if err := c.inviteStor.Reject(teamID, apimiddleware.GetCaller(ctx)); err != nil {
		return toHTTPError(err)
	}

	return ctx.NoContent(http.StatusOK)
}

func (c *InviteController) Rescind(ctx echo.Context) error {
	teamID, invitee, err := c.inviteFromPath(ctx)
	if err != nil {
		return err
	}

	if err := c.inviteStor.Rescind(teamID, apimiddleware.GetCaller(ctx), invitee); err != nil {
		return toHTTPError(err)
	}

	return ctx.NoContent(http.StatusOK)
}

func (c *InviteController) Veto(ctx echo.Context) error {
	teamID, invitee, err := c.inviteFromPath(ctx)
	if err != nil {
		return err
	}

	if err := c.inviteStor.Veto(teamID, apimiddleware.GetCaller(ctx), invitee); err != nil {
		return toHTTPError(err)
	}

	return ctx.NoContent(http.StatusOK)
}

func (c *InviteController) ToAccept(ctx echo.Context) error {
	invites, err := c.inviteStor.InvitesToAccept(apimiddleware.GetCaller(ctx))
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, invites)
}

func (c *InviteController) ToAuthorize(ctx echo.Context) error {
	invites, err := c.inviteStor.InvitesToAuthorize(apimiddleware.GetCaller(ctx))
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, invites)
}

func (c *InviteController) Created(ctx echo.Context) error {
	invites, err := c.inviteStor.InvitesCreatedBy(apimiddleware.GetCaller(ctx))
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, invites)
}

func (c *InviteController) inviteFromPath(ctx echo.Context) (int, string, error) {
	teamID, err := teamIDParam(ctx)
	if err != nil {
		return 0, "", err
	}

	invitee, err := normalizeEmail(ctx.Param("email"))
	if err != nil {
		return 0, "", err
	}

	return teamID, invitee, nil
}
