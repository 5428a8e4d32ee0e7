package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"evalportal/internal/auth"
	"evalportal/internal/model"
	"evalportal/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	sessions    *auth.SessionManager
	logger      logrus.FieldLogger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, sessions *auth.SessionManager, logger logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
		logger:      logger,
	}
}

// LoginResponse reports whether the resolved identity is an administrator.
type LoginResponse struct {
	Success bool `json:"success"`
	IsAdmin bool `json:"isAdmin"`
}

// SuccessResponse is returned by endpoints without a payload.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// Login godoc
// @Summary Log in with name, student id and year
// @Description Upserts the student keyed by student id and sets the session cookie.
// @Description The administrator logs in with the configured name and password.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login form"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return validationError("invalid request body")
	}
	if err := c.Validate(&req); err != nil || !req.Year.Set {
		return validationError("name, studentId and year are required")
	}

	user, err := h.authService.Login(c.Request().Context(), service.LoginInput{
		Name:      req.Name,
		StudentID: req.StudentID,
		Year:      req.Year.Value,
		Password:  req.Password,
	})
	if err != nil {
		return errorResponse(err)
	}

	if err := h.sessions.Create(c, identityOf(user)); err != nil {
		return errorResponse(err)
	}

	return c.JSON(http.StatusOK, LoginResponse{
		Success: true,
		IsAdmin: user.IsAdmin,
	})
}

// Session godoc
// @Summary Current session identity
// @Description Returns the identity carried by the session cookie, or null.
// @Tags auth
// @Produce json
// @Success 200 {object} auth.Identity
// @Router /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	return c.JSON(http.StatusOK, h.sessions.Read(c).Identity)
}

// Logout godoc
// @Summary Log out
// @Description Expires the session cookie and revokes its token.
// @Tags auth
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.sessions.Clear(c); err != nil {
		h.logger.WithError(err).Warn("failed to revoke session token")
	}
	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

func identityOf(user *model.User) auth.Identity {
	return auth.Identity{
		ID:        user.ID,
		Name:      user.Name,
		StudentID: user.StudentID,
		Year:      user.Year,
		IsAdmin:   user.IsAdmin,
	}
}
