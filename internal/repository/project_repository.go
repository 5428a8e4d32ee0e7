package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"evalportal/internal/model"
)

// ProjectRepository defines project persistence operations.
type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	Update(ctx context.Context, project *model.Project) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Project, error)
	FindByName(ctx context.Context, name string) (*model.Project, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	// ListForEvaluator lists projects newest first, preloading only the evaluator's own evaluation.
	ListForEvaluator(ctx context.Context, evaluatorID uuid.UUID) ([]model.Project, error)
	// FindForEvaluator loads one project, preloading only the evaluator's own evaluation.
	FindForEvaluator(ctx context.Context, id, evaluatorID uuid.UUID) (*model.Project, error)
	// ListWithEvaluations loads every project with all of its evaluations.
	ListWithEvaluations(ctx context.Context) ([]model.Project, error)
	DeleteAll(ctx context.Context) error
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository.
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

// Create creates a new project.
func (r *projectRepository) Create(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// Update saves name and description of an existing project.
func (r *projectRepository) Update(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Model(project).
		Select("name", "description").
		Updates(project).Error
}

// FindByID finds a project by ID.
func (r *projectRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var project model.Project
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// FindByName finds the first project with the given name.
func (r *projectRepository) FindByName(ctx context.Context, name string) (*model.Project, error) {
	var project model.Project
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// Exists reports whether a project with the given ID exists.
func (r *projectRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Project{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *projectRepository) ListForEvaluator(ctx context.Context, evaluatorID uuid.UUID) ([]model.Project, error) {
	var projects []model.Project
	err := r.db.WithContext(ctx).
		Preload("Evaluations", "evaluator_id = ?", evaluatorID).
		Order("created_at desc").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *projectRepository) FindForEvaluator(ctx context.Context, id, evaluatorID uuid.UUID) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).
		Preload("Evaluations", "evaluator_id = ?", evaluatorID).
		Where("id = ?", id).
		First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) ListWithEvaluations(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	err := r.db.WithContext(ctx).
		Preload("Evaluations").
		Order("created_at asc").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *projectRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Project{}).Error
}
