package handler

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"evalportal/internal/auth"
	"evalportal/internal/errors"
)

// errorResponse converts a service error to an echo.HTTPError carrying the
// standard error body. The original error is kept as the internal cause for logging.
func errorResponse(err error) *echo.HTTPError {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
}

func validationError(format string, args ...interface{}) *echo.HTTPError {
	return errorResponse(fmt.Errorf("%w: "+format, append([]interface{}{errors.ErrValidation}, args...)...))
}

// currentIdentity returns the verified identity of the caller or ErrUnauthorized.
func currentIdentity(c echo.Context, sessions *auth.SessionManager) (*auth.Identity, error) {
	session := sessions.Read(c)
	if !session.Authenticated() {
		return nil, errors.ErrUnauthorized
	}
	return session.Identity, nil
}
