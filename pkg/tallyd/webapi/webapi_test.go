package webapi

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/tallyhq/tally/pkg/tallyd/webapi/apimiddleware"
	"github.com/tallyhq/tally/pkg/tldb"
	"github.com/tallyhq/tally/pkg/tldb/stor"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStors(t *testing.T) *stor.Stors {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoErrorf(t, err, "gorm.Open failed: %s", err)

	sqlitedb, err := db.DB()
	require.NoError(t, err)
	sqlitedb.SetMaxOpenConns(1)

	err = tldb.RunMigrations(db)
	require.NoErrorf(t, err, "Migration failed with: %s", err)

	return stor.NewGormStors(db)
}

// setupEchoContext creates a test Echo context for the given request with
// caller already resolved, the way CallerAuth leaves it.
func setupEchoContext(t *testing.T, method, target, caller string, body []byte, pathParams map[string]string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(apimiddleware.CallerKey, caller)

	var names, values []string
	for name, value := range pathParams {
		names = append(names, name)
		values = append(values, value)
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)

	return c, rec
}

func requireHTTPStatus(t *testing.T, err error, status int) {
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.Truef(t, ok, "expected *echo.HTTPError, got %T: %s", err, err)
	require.Equal(t, status, httpErr.Code)
}
