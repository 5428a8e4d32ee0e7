package router

import (
	stderrors "errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	echoSwagger "github.com/swaggo/echo-swagger"

	"evalportal/docs"
	"evalportal/internal/auth"
	"evalportal/internal/config"
	"evalportal/internal/errors"
	"evalportal/internal/handler"
	"evalportal/internal/middleware"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	logger logrus.FieldLogger,
	sessions *auth.SessionManager,
	authHandler *handler.AuthHandler,
	projectHandler *handler.ProjectHandler,
	evaluationHandler *handler.EvaluationHandler,
	adminHandler *handler.AdminHandler,
	pageHandler *handler.PageHandler,
) {
	e.HTTPErrorHandler = NewHTTPErrorHandler(e, logger)

	e.Use(echomiddleware.RequestID())
	e.Use(middleware.Metrics())
	e.Use(middleware.RequestLogger(logger))
	e.Use(echomiddleware.Recover())
	e.Use(middleware.SessionLoader(sessions))
	e.Use(middleware.AccessGuard(sessions))

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	if cfg.SwaggerHost != "" {
		host := strings.TrimPrefix(cfg.SwaggerHost, "https://")
		docs.SwaggerInfo.Host = strings.TrimPrefix(host, "http://")
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Pages
	e.GET("/", pageHandler.Page("index.html"))
	e.GET("/login", pageHandler.Page("login.html"))
	e.GET("/projects", pageHandler.Page("projects.html"))
	e.GET("/evaluate/:id", pageHandler.Page("evaluate.html"))
	e.GET("/admin", pageHandler.Page("admin.html"))
	e.GET("/favicon.ico", pageHandler.Page("favicon.ico"))
	e.Static("/static", filepath.Clean(pageHandler.StaticDir()))

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/login", authHandler.Login)
	api.GET("/auth/session", authHandler.Session)
	api.POST("/auth/logout", authHandler.Logout)

	// Session required (enforced by the access guard)
	api.GET("/projects", projectHandler.ListProjects)
	api.POST("/projects", projectHandler.CreateProject)
	api.GET("/projects/:id", projectHandler.GetProject)
	api.POST("/evaluate", evaluationHandler.Evaluate)

	// Administrator only
	admin := api.Group("/admin", middleware.RequireAdmin(sessions))
	admin.GET("/stats", adminHandler.Stats)
	admin.GET("/export", adminHandler.Export)
}

// NewHTTPErrorHandler logs the internal cause of failed requests and writes the
// public part of the error. Errors that are not echo.HTTPError become a generic 500.
func NewHTTPErrorHandler(e *echo.Echo, logger logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if !stderrors.As(err, &he) {
			logger.WithError(err).Error("unhandled error")
			httpErr := errors.MapErrorToHTTP(err)
			he = echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		} else if he.Internal != nil {
			entry := logger.WithError(he.Internal).WithFields(logrus.Fields{
				"status":     he.Code,
				"path":       c.Request().URL.Path,
				"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
			})
			if he.Code >= http.StatusInternalServerError {
				entry.Error("request failed")
			} else {
				entry.Debug("request rejected")
			}
		}

		e.DefaultHTTPErrorHandler(he, c)
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
