package tldb

import (
	"fmt"
	"log"
	"time"

	"github.com/tallyhq/tally/pkg/config"
	"github.com/tallyhq/tally/pkg/tldb/tlmodel"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SqliteInMemoryDSN is the DSN tests use for a shared in-memory database.
const SqliteInMemoryDSN = "file::memory:?cache=shared"

// MakeDSN assembles the mysql DSN from the DB_* config keys.
func MakeDSN(c config.Configer) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.GetKey("DB_USERNAME"),
		c.GetKey("DB_PASSWORD"),
		c.GetKey("DB_HOST"),
		c.GetKey("DB_PORT"),
		c.GetKey("DB_DATABASE"))
}

const maxDBRetries = 5

// MustConnectToDB opens the database, retrying up to maxDBRetries times with
// a 3 second pause between attempts. The database frequently comes up after
// the daemon does, so a few failed attempts are normal; running out of
// attempts exits the process.
func MustConnectToDB(c config.Configer) *gorm.DB {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),

		// Duplicate-key inserts from concurrent identical requests are
		// detected with errors.Is(err, gorm.ErrDuplicatedKey) and treated
		// as success in the idempotent stor operations.
		TranslateError: true,
	}

	dsn := MakeDSN(c)

	for attempt := 1; ; attempt++ {
		db, err := gorm.Open(mysql.Open(dsn), gormConfig)
		if err == nil {
			return db
		}

		if attempt >= maxDBRetries {
			log.Fatalf("Failed to open db (%s): %s", dsn, err)
		}

		time.Sleep(3 * time.Second)
	}
}

// RunMigrations creates or updates the schema for every table the
// collaboration core touches.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&tlmodel.Team{},
		&tlmodel.TeamMember{},
		&tlmodel.TeamPermission{},
		&tlmodel.Invite{},
		&tlmodel.Task{},
		&tlmodel.CompletionEntry{},
	)
}
