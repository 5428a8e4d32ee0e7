package middleware

import (
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"evalportal/internal/auth"
)

// SessionLoader verifies the session cookie on every request and stores the
// claims under auth.ContextKey. A missing or bad token never aborts the request;
// it is recorded so the access guard can tell the two apart.
func SessionLoader(sessions *auth.SessionManager) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "cookie:" + auth.CookieName,
		ContextKey:  auth.ContextKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return sessions.Parse(c.Request().Context(), token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			sessions.MarkUnresolved(c)
			return nil
		},
		ContinueOnIgnoredError: true,
	})
}
