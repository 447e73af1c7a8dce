package stor

import "errors"

// Every operation in the stor layer that fails for a business reason returns
// one of these sentinels (possibly wrapped). The web layer maps them onto
// response classes: NotFound -> 404, Forbidden -> 403, the rest -> 400.
var (
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrInvalidArgument  = errors.New("invalid argument")
)
