// Package webapi is the HTTP adapter over the collaboration stores. The
// controllers resolve the caller from the request context, validate and
// normalize inputs, and map the stor layer's typed errors onto response
// classes; business rules live in the stor layer.
package webapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/tallyhq/tally/pkg/identity"
	"github.com/tallyhq/tally/pkg/tldb/stor"
)

var validate = validator.New()

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, stor.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, stor.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, stor.ErrInvalidOperation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, stor.ErrInvalidArgument):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return err
	}
}

func bindAndValidate(ctx echo.Context, req interface{}) error {
	if err := ctx.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return nil
}

func teamIDParam(ctx echo.Context) (int, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid team id")
	}

	return id, nil
}

// normalizeEmail wraps identity.Normalize with the HTTP error the adapter
// reports for malformed addresses.
func normalizeEmail(raw string) (string, error) {
	email, ok := identity.Normalize(raw)
	if !ok {
		return "", echo.NewHTTPError(http.StatusBadRequest, "malformed email address")
	}

	return email, nil
}
