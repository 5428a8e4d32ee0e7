package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"evalportal/internal/errors"
	"evalportal/internal/metrics"
	"evalportal/internal/model"
	"evalportal/internal/repository"
)

// ProjectWithEvaluation pairs a project with the caller's own evaluation, if any.
type ProjectWithEvaluation struct {
	Project    model.Project
	Evaluation *model.Evaluation
}

// ProjectService handles project catalog operations.
type ProjectService interface {
	ListForEvaluator(ctx context.Context, evaluatorID uuid.UUID) ([]ProjectWithEvaluation, error)
	GetForEvaluator(ctx context.Context, id, evaluatorID uuid.UUID) (*ProjectWithEvaluation, error)
	Create(ctx context.Context, name, description string) (*model.Project, error)
	Update(ctx context.Context, id uuid.UUID, name, description string) (*model.Project, error)
}

type projectService struct {
	projectRepo repository.ProjectRepository
}

// NewProjectService creates a new project service.
func NewProjectService(projectRepo repository.ProjectRepository) ProjectService {
	return &projectService{projectRepo: projectRepo}
}

// ListForEvaluator lists all projects, newest first, each with the evaluator's own evaluation.
func (s *projectService) ListForEvaluator(ctx context.Context, evaluatorID uuid.UUID) ([]ProjectWithEvaluation, error) {
	projects, err := s.projectRepo.ListForEvaluator(ctx, evaluatorID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	result := make([]ProjectWithEvaluation, 0, len(projects))
	for _, p := range projects {
		result = append(result, withOwnEvaluation(p))
	}
	return result, nil
}

// GetForEvaluator loads one project with the evaluator's own evaluation.
func (s *projectService) GetForEvaluator(ctx context.Context, id, evaluatorID uuid.UUID) (*ProjectWithEvaluation, error) {
	project, err := s.projectRepo.FindForEvaluator(ctx, id, evaluatorID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrProjectNotFound
		}
		return nil, fmt.Errorf("find project: %w", err)
	}

	result := withOwnEvaluation(*project)
	return &result, nil
}

// Create adds a project to the catalog. Description defaults to empty.
func (s *projectService) Create(ctx context.Context, name, description string) (*model.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: project name is required", errors.ErrValidation)
	}

	project := &model.Project{
		Name:        name,
		Description: description,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	metrics.ProjectsCreatedTotal.Inc()
	return project, nil
}

// Update renames a project and replaces its description. It is used for out-of-band edits.
func (s *projectService) Update(ctx context.Context, id uuid.UUID, name, description string) (*model.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: project name is required", errors.ErrValidation)
	}

	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrProjectNotFound
		}
		return nil, fmt.Errorf("find project: %w", err)
	}

	project.Name = name
	project.Description = description
	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	return project, nil
}

func withOwnEvaluation(p model.Project) ProjectWithEvaluation {
	result := ProjectWithEvaluation{Project: p}
	if len(p.Evaluations) > 0 {
		ev := p.Evaluations[0]
		result.Evaluation = &ev
	}
	result.Project.Evaluations = nil
	return result
}
