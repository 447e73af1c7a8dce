package cmd

import (
	"os"
	"time"

	"github.com/apex/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"github.com/tallyhq/tally/pkg/accounts"
	"github.com/tallyhq/tally/pkg/clog"
	"github.com/tallyhq/tally/pkg/config"
	"github.com/tallyhq/tally/pkg/tallyd/retention"
	"github.com/tallyhq/tally/pkg/tldb"
	"github.com/tallyhq/tally/pkg/tldb/stor"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tallyd",
	Short: "Run the tally team collaboration API server",
	Long:  ``,
	Run: func(cmd *cobra.Command, args []string) {
		clog.Setup()

		e := echo.New()
		e.HideBanner = true
		e.HidePort = true
		e.Use(middleware.Recover())

		c := config.MustLoadFromTallyDotenv()

		if err := clog.SetLevelFromString(c.GetKeyWithDefault("TALLY_LOG_LEVEL", "info")); err != nil {
			log.Fatalf("Bad TALLY_LOG_LEVEL: %s", err)
		}

		if logFile := c.GetKey("TALLY_LOG_FILE"); logFile != "" {
			f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				log.Fatalf("Unable to open TALLY_LOG_FILE %s: %s", logFile, err)
			}
			clog.SetOutput(f)
		}

		db := tldb.MustConnectToDB(c)
		if err := tldb.RunMigrations(db); err != nil {
			log.Fatalf("Migrations failed: %s", err)
		}

		stors := stor.NewGormStors(db)
		accountsClient := accounts.NewRestyClient(c.MustGetKey("ACCOUNTS_URL"))

		setupRoutes(e, RouteOpts{
			Stors:          stors,
			AccountsClient: accountsClient,
		})

		retentionDays := c.GetIntKeyWithDefault("TALLY_RETENTION_DAYS", 365)
		purger := retention.NewPurger(stors.CompletionStor, time.Duration(retentionDays)*24*time.Hour)
		purger.Start()
		defer purger.Stop()

		port := c.GetKeyWithDefault("TALLYD_PORT", "1384")
		log.Infof("tallyd listening on :%s", port)
		if err := e.Start(":" + port); err != nil {
			log.Fatalf("Unable to start server: %v", err)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
