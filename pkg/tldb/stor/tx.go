package stor

import (
	"errors"

	"github.com/tallyhq/tally/pkg/tldb/config"
	"gorm.io/gorm"
)

func WithTxRetry(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	var err error

	retryCount := config.GetTxRetry()

	if retryCount < 3 {
		retryCount = 3
	}

	for i := 0; i < retryCount; i++ {
		err = db.Transaction(fn)
		if err == nil || isDomainErr(err) {
			break
		}
	}

	return err
}

// isDomainErr reports whether err is a typed business error rather than a
// transient database failure. Retrying those would only repeat the rollback.
func isDomainErr(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrInvalidOperation) ||
		errors.Is(err, ErrInvalidArgument)
}
