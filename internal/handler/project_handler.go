package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"evalportal/internal/auth"
	"evalportal/internal/errors"
	"evalportal/internal/model"
	"evalportal/internal/service"
)

// ProjectHandler handles project catalog endpoints.
type ProjectHandler struct {
	projectService service.ProjectService
	sessions       *auth.SessionManager
}

// NewProjectHandler creates a new project handler.
func NewProjectHandler(projectService service.ProjectService, sessions *auth.SessionManager) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		sessions:       sessions,
	}
}

// ProjectListItem is a project annotated with the caller's evaluation.
type ProjectListItem struct {
	model.Project
	UserEvaluation *model.Evaluation `json:"userEvaluation"`
}

// ProjectDetail is a single project annotated with the caller's evaluation.
type ProjectDetail struct {
	model.Project
	MyEvaluation *model.Evaluation `json:"myEvaluation"`
}

// ListProjects godoc
// @Summary List projects
// @Description All projects, newest first, each with the caller's own evaluation or null.
// @Tags projects
// @Produce json
// @Success 200 {array} ProjectListItem
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /projects [get]
func (h *ProjectHandler) ListProjects(c echo.Context) error {
	identity, err := currentIdentity(c, h.sessions)
	if err != nil {
		return errorResponse(err)
	}

	projects, err := h.projectService.ListForEvaluator(c.Request().Context(), identity.ID)
	if err != nil {
		return errorResponse(err)
	}

	items := make([]ProjectListItem, 0, len(projects))
	for _, p := range projects {
		items = append(items, ProjectListItem{Project: p.Project, UserEvaluation: p.Evaluation})
	}
	return c.JSON(http.StatusOK, items)
}

// GetProject godoc
// @Summary Get project
// @Tags projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} ProjectDetail
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /projects/{id} [get]
func (h *ProjectHandler) GetProject(c echo.Context) error {
	identity, err := currentIdentity(c, h.sessions)
	if err != nil {
		return errorResponse(err)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return errorResponse(errors.ErrProjectNotFound)
	}

	project, err := h.projectService.GetForEvaluator(c.Request().Context(), id, identity.ID)
	if err != nil {
		return errorResponse(err)
	}

	return c.JSON(http.StatusOK, ProjectDetail{Project: project.Project, MyEvaluation: project.Evaluation})
}

// CreateProject godoc
// @Summary Create project
// @Tags projects
// @Accept json
// @Produce json
// @Param request body CreateProjectRequest true "Project data"
// @Success 201 {object} model.Project
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /projects [post]
func (h *ProjectHandler) CreateProject(c echo.Context) error {
	if _, err := currentIdentity(c, h.sessions); err != nil {
		return errorResponse(err)
	}

	var req CreateProjectRequest
	if err := c.Bind(&req); err != nil {
		return validationError("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return validationError("project name is required")
	}

	project, err := h.projectService.Create(c.Request().Context(), req.Name, req.Description)
	if err != nil {
		return errorResponse(err)
	}

	return c.JSON(http.StatusCreated, project)
}
