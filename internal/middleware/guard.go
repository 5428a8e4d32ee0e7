package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"evalportal/internal/auth"
	"evalportal/internal/errors"
)

const (
	loginPath = "/login"
	homePath  = "/"
	adminPath = "/admin"
)

var publicPrefixes = []string{
	"/api/auth/",
	"/static/",
	"/swagger/",
}

var publicPaths = map[string]struct{}{
	"/favicon.ico": {},
	"/healthz":     {},
	"/metrics":     {},
}

// AccessGuard redirects page requests without a session to the login page and
// keeps non-administrators out of the admin area. API requests get a 401 instead
// of a redirect.
func AccessGuard(sessions *auth.SessionManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			if isPublic(path) {
				return next(c)
			}

			session := sessions.Read(c)

			switch {
			case path == loginPath:
				if session.Authenticated() {
					return c.Redirect(http.StatusFound, homePath)
				}
				return next(c)

			case strings.HasPrefix(path, "/api/"):
				if !session.Authenticated() {
					return unauthorized()
				}
				return next(c)

			case isAdminArea(path):
				switch session.State {
				case auth.SessionAdmin:
					return next(c)
				case auth.SessionUser:
					return c.Redirect(http.StatusFound, homePath)
				default:
					return c.Redirect(http.StatusFound, loginPath)
				}

			default:
				if !session.Authenticated() {
					return c.Redirect(http.StatusFound, loginPath)
				}
				return next(c)
			}
		}
	}
}

// RequireAdmin rejects API requests whose session is not an administrator's.
func RequireAdmin(sessions *auth.SessionManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if sessions.Read(c).State != auth.SessionAdmin {
				return unauthorized()
			}
			return next(c)
		}
	}
}

func unauthorized() error {
	httpErr := errors.MapErrorToHTTP(errors.ErrUnauthorized)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func isPublic(path string) bool {
	if _, ok := publicPaths[path]; ok {
		return true
	}
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func isAdminArea(path string) bool {
	return path == adminPath || strings.HasPrefix(path, adminPath+"/")
}
