package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"evalportal/internal/auth"
	"evalportal/internal/model"
	"evalportal/internal/service"
)

// EvaluationHandler handles evaluation submissions.
type EvaluationHandler struct {
	evaluationService service.EvaluationService
	sessions          *auth.SessionManager
}

// NewEvaluationHandler creates a new evaluation handler.
func NewEvaluationHandler(evaluationService service.EvaluationService, sessions *auth.SessionManager) *EvaluationHandler {
	return &EvaluationHandler{
		evaluationService: evaluationService,
		sessions:          sessions,
	}
}

// EvaluateResponse carries the stored evaluation.
type EvaluateResponse struct {
	Success    bool              `json:"success"`
	Evaluation *model.Evaluation `json:"evaluation"`
}

// Evaluate godoc
// @Summary Submit an evaluation
// @Description Creates or replaces the caller's evaluation of a project. Score must be 1 to 10.
// @Tags evaluations
// @Accept json
// @Produce json
// @Param request body EvaluateRequest true "Evaluation"
// @Success 200 {object} EvaluateResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /evaluate [post]
func (h *EvaluationHandler) Evaluate(c echo.Context) error {
	identity, err := currentIdentity(c, h.sessions)
	if err != nil {
		return errorResponse(err)
	}

	var req EvaluateRequest
	if err := c.Bind(&req); err != nil {
		return validationError("invalid request body")
	}
	if err := c.Validate(&req); err != nil || !req.Score.Set {
		return validationError("projectId and score are required")
	}

	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		return validationError("projectId %q is not a valid id", req.ProjectID)
	}

	evaluation, err := h.evaluationService.Submit(c.Request().Context(), service.SubmitEvaluationInput{
		EvaluatorID: identity.ID,
		ProjectID:   projectID,
		Score:       req.Score.Value,
		Comment:     req.Comment,
	})
	if err != nil {
		return errorResponse(err)
	}

	return c.JSON(http.StatusOK, EvaluateResponse{
		Success:    true,
		Evaluation: evaluation,
	})
}
