package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"evalportal/internal/auth"
)

// RequestLogger logs one entry per request. 5xx responses are logged at error
// level and 4xx at warn.
func RequestLogger(logger logrus.FieldLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			if err := next(c); err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			entry := logger.WithFields(logrus.Fields{
				"status":     res.Status,
				"method":     req.Method,
				"path":       req.URL.Path,
				"query":      req.URL.RawQuery,
				"ip":         c.RealIP(),
				"user_agent": req.UserAgent(),
				"latency":    time.Since(start),
				"length":     res.Size,
				"request_id": res.Header().Get(echo.HeaderXRequestID),
			})

			if claims, ok := c.Get(auth.ContextKey).(*auth.Claims); ok {
				entry = entry.WithField("user_id", claims.UserID)
			}

			switch {
			case res.Status >= 500:
				entry.Error("HTTP Request")
			case res.Status >= 400:
				entry.Warn("HTTP Request")
			default:
				entry.Info("HTTP Request")
			}
			return nil
		}
	}
}
