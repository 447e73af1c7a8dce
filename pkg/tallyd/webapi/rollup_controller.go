package webapi

import (
	"math"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/tallyhq/tally/pkg/tallyd/webapi/apimiddleware"
	"github.com/tallyhq/tally/pkg/tldb/stor"
	"github.com/tallyhq/tally/pkg/tldb/tlmodel"
)

// RollupController serves windowed completion-rate aggregates. Team rollups
// are gated on the visibility graph: a caller only gets a team's numbers if
// one of their teams holds a permission edge into it (or they're a member).
// The rollup itself is a pure aggregation; all authorization happens here.
type RollupController struct {
	teamStor       stor.TeamStor
	permissionStor stor.TeamPermissionStor
	completionStor stor.CompletionStor
}

func NewRollupController(teamStor stor.TeamStor, permissionStor stor.TeamPermissionStor, completionStor stor.CompletionStor) *RollupController {
	return &RollupController{
		teamStor:       teamStor,
		permissionStor: permissionStor,
		completionStor: completionStor,
	}
}

// rateResponse leaves rate null when the window held no entries. A null rate
// means "nothing to measure", which is not the same answer as 1.0.
type rateResponse struct {
	Rate  *float64  `json:"rate"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func newRateResponse(rate float64, start, end time.Time) rateResponse {
	resp := rateResponse{Start: start, End: end}
	if !math.IsNaN(rate) {
		resp.Rate = &rate
	}

	return resp
}

func (c *RollupController) MyRate(ctx echo.Context) error {
	start, end, err := windowFromRequest(ctx)
	if err != nil {
		return err
	}

	rate, err := c.completionStor.UserCompletionRate(apimiddleware.GetCaller(ctx), start, end)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, newRateResponse(rate, start, end))
}

func (c *RollupController) TeamRate(ctx echo.Context) error {
	teamID, err := teamIDParam(ctx)
	if err != nil {
		return err
	}

	start, end, err := windowFromRequest(ctx)
	if err != nil {
		return err
	}

	if _, err := c.teamStor.GetTeam(teamID); err != nil {
		return toHTTPError(err)
	}

	canSee, err := c.permissionStor.UserCanSeeTeam(apimiddleware.GetCaller(ctx), teamID)
	if err != nil {
		return toHTTPError(err)
	}

	if !canSee {
		return toHTTPError(stor.ErrForbidden)
	}

	rate, err := c.completionStor.TeamCompletionRate(teamID, start, end)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, newRateResponse(rate, start, end))
}

// MyRateAcrossTeams aggregates the caller's entries over every team visible
// to them.
func (c *RollupController) MyRateAcrossTeams(ctx echo.Context) error {
	start, end, err := windowFromRequest(ctx)
	if err != nil {
		return err
	}

	caller := apimiddleware.GetCaller(ctx)

	visible, err := c.permissionStor.TeamIDsVisibleToUser(caller)
	if err != nil {
		return toHTTPError(err)
	}

	teamIDs := make([]int, 0, len(visible))
	for id := range visible {
		teamIDs = append(teamIDs, id)
	}

	rate, err := c.completionStor.UserCompletionRateAcrossTeams(caller, start, end, teamIDs)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, newRateResponse(rate, start, end))
}

// LogCompletion appends a completion-log entry for the caller. The rollover
// job uses this to record each day's task instances.
func (c *RollupController) LogCompletion(ctx echo.Context) error {
	var req struct {
		TaskID      int        `json:"task_id" validate:"required"`
		IsCompleted bool       `json:"is_completed"`
		TeamID      *int       `json:"team_id"`
		EntryTime   *time.Time `json:"entry_time"`
	}

	if err := bindAndValidate(ctx, &req); err != nil {
		return err
	}

	entry := &tlmodel.CompletionEntry{
		TaskID:      req.TaskID,
		OwnerEmail:  apimiddleware.GetCaller(ctx),
		IsCompleted: req.IsCompleted,
		TeamID:      req.TeamID,
	}
	if req.EntryTime != nil {
		entry.EntryTime = *req.EntryTime
	}

	entry, err := c.completionStor.LogCompletion(entry)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, entry)
}

const defaultWindow = 7 * 24 * time.Hour

// windowFromRequest reads the start/end query params (RFC 3339); the window
// defaults to the last seven days.
func windowFromRequest(ctx echo.Context) (start, end time.Time, err error) {
	end = time.Now()
	if raw := ctx.QueryParam("end"); raw != "" {
		if end, err = time.Parse(time.RFC3339, raw); err != nil {
			return start, end, echo.NewHTTPError(http.StatusBadRequest, "invalid end time")
		}
	}

	start = end.Add(-defaultWindow)
	if raw := ctx.QueryParam("start"); raw != "" {
		if start, err = time.Parse(time.RFC3339, raw); err != nil {
			return start, end, echo.NewHTTPError(http.StatusBadRequest, "invalid start time")
		}
	}

	return start, end, nil
}
