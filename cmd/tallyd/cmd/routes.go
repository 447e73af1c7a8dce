package cmd

import (
	"github.com/labstack/echo/v4"
	"github.com/tallyhq/tally/pkg/accounts"
	"github.com/tallyhq/tally/pkg/tallyd/webapi"
	"github.com/tallyhq/tally/pkg/tallyd/webapi/apimiddleware"
	"github.com/tallyhq/tally/pkg/tldb/stor"
)

type RouteOpts struct {
	Stors          *stor.Stors
	AccountsClient accounts.Client
}

func setupRoutes(e *echo.Echo, opts RouteOpts) {
	g := e.Group("/api")
	g.Use(apimiddleware.CallerAuth(apimiddleware.CallerConfig{}))

	teamController := webapi.NewTeamController(opts.Stors.TeamStor)
	g.POST("/teams", teamController.CreateTeam)
	g.GET("/teams", teamController.ListTeams)
	g.GET("/teams/:id", teamController.GetTeam)
	g.GET("/teams/slug/:slug", teamController.GetTeamBySlug)
	g.PUT("/teams/:id", teamController.UpdateTeam)
	g.DELETE("/teams/:id", teamController.DeleteTeam)

	memberController := webapi.NewMemberController(opts.Stors.TeamStor, opts.Stors.TeamMemberStor)
	g.GET("/teams/:id/members", memberController.ListMembers)
	g.DELETE("/teams/:id/members/:email", memberController.RemoveMember)
	g.POST("/teams/:id/leave", memberController.Leave)
	g.POST("/teams/:id/transfer-ownership", memberController.TransferOwnership)
	g.GET("/me/teams", memberController.MyTeams)

	permissionController := webapi.NewPermissionController(opts.Stors.TeamStor, opts.Stors.TeamPermissionStor)
	g.POST("/teams/:id/viewers", permissionController.Permit)
	g.DELETE("/teams/:id/viewers", permissionController.Forbid)
	g.GET("/teams/:id/viewers", permissionController.Viewers)
	g.GET("/teams/:id/sees", permissionController.Sees)
	g.GET("/me/visible-teams", permissionController.VisibleTeams)

	accountCache := apimiddleware.NewAccountCache(opts.AccountsClient)
	inviteController := webapi.NewInviteController(opts.Stors.InviteStor, accountCache)
	g.POST("/teams/:id/invites", inviteController.Propose)
	g.POST("/teams/:id/invites/:email/authorize", inviteController.Authorize)
	g.POST("/teams/:id/invites/accept", inviteController.Accept)
	g.POST("/teams/:id/invites/reject", inviteController.Reject)
	g.DELETE("/teams/:id/invites/:email", inviteController.Rescind)
	g.POST("/teams/:id/invites/:email/veto", inviteController.Veto)
	g.GET("/me/invites/to-accept", inviteController.ToAccept)
	g.GET("/me/invites/to-authorize", inviteController.ToAuthorize)
	g.GET("/me/invites/created", inviteController.Created)

	rollupController := webapi.NewRollupController(opts.Stors.TeamStor, opts.Stors.TeamPermissionStor, opts.Stors.CompletionStor)
	g.GET("/me/completion-rate", rollupController.MyRate)
	g.GET("/me/completion-rate/across-teams", rollupController.MyRateAcrossTeams)
	g.GET("/teams/:id/completion-rate", rollupController.TeamRate)
	g.POST("/completions", rollupController.LogCompletion)
}
