package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"evalportal/internal/errors"
	"evalportal/internal/metrics"
	"evalportal/internal/model"
	"evalportal/internal/repository"
)

const (
	MinScore = 1
	MaxScore = 10
)

// SubmitEvaluationInput is one evaluator's score for one project.
type SubmitEvaluationInput struct {
	EvaluatorID uuid.UUID
	ProjectID   uuid.UUID
	Score       int
	Comment     string
}

// EvaluationService handles evaluation submissions.
type EvaluationService interface {
	Submit(ctx context.Context, in SubmitEvaluationInput) (*model.Evaluation, error)
}

type evaluationService struct {
	projectRepo    repository.ProjectRepository
	evaluationRepo repository.EvaluationRepository
}

// NewEvaluationService creates a new evaluation service.
func NewEvaluationService(projectRepo repository.ProjectRepository, evaluationRepo repository.EvaluationRepository) EvaluationService {
	return &evaluationService{
		projectRepo:    projectRepo,
		evaluationRepo: evaluationRepo,
	}
}

// Submit stores the evaluation for the (project, evaluator) pair, overwriting
// any earlier score and comment, and returns the stored row.
func (s *evaluationService) Submit(ctx context.Context, in SubmitEvaluationInput) (*model.Evaluation, error) {
	if in.EvaluatorID == uuid.Nil {
		return nil, errors.ErrUnauthorized
	}
	if in.ProjectID == uuid.Nil {
		return nil, fmt.Errorf("%w: projectId is required", errors.ErrValidation)
	}
	if in.Score < MinScore || in.Score > MaxScore {
		return nil, errors.ErrScoreOutOfRange
	}

	exists, err := s.projectRepo.Exists(ctx, in.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("check project: %w", err)
	}
	if !exists {
		return nil, errors.ErrProjectNotFound
	}

	evaluation, err := s.evaluationRepo.Upsert(ctx, &model.Evaluation{
		ProjectID:   in.ProjectID,
		EvaluatorID: in.EvaluatorID,
		Score:       in.Score,
		Comment:     in.Comment,
	})
	if err != nil {
		return nil, fmt.Errorf("upsert evaluation: %w", err)
	}

	metrics.EvaluationsSubmittedTotal.Inc()
	metrics.EvaluationScore.Observe(float64(evaluation.Score))
	return evaluation, nil
}
