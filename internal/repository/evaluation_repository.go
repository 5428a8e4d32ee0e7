package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"evalportal/internal/model"
)

// EvaluationRepository defines evaluation persistence operations.
type EvaluationRepository interface {
	// Upsert inserts the evaluation or, when the (project, evaluator) pair already
	// has one, overwrites its score and comment. It returns the stored row.
	Upsert(ctx context.Context, evaluation *model.Evaluation) (*model.Evaluation, error)
	// ListWithDetails returns every evaluation with its project and evaluator, newest first.
	ListWithDetails(ctx context.Context) ([]model.Evaluation, error)
	DeleteAll(ctx context.Context) error
}

type evaluationRepository struct {
	db *gorm.DB
}

// NewEvaluationRepository creates a new evaluation repository.
func NewEvaluationRepository(db *gorm.DB) EvaluationRepository {
	return &evaluationRepository{db: db}
}

func (r *evaluationRepository) Upsert(ctx context.Context, evaluation *model.Evaluation) (*model.Evaluation, error) {
	var stored model.Evaluation
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "project_id"}, {Name: "evaluator_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"score", "comment", "updated_at"}),
		}).Create(evaluation).Error
		if err != nil {
			return err
		}
		return tx.Where("project_id = ? AND evaluator_id = ?", evaluation.ProjectID, evaluation.EvaluatorID).
			First(&stored).Error
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *evaluationRepository) ListWithDetails(ctx context.Context) ([]model.Evaluation, error) {
	var evaluations []model.Evaluation
	err := r.db.WithContext(ctx).
		Preload("Project").
		Preload("Evaluator").
		Order("created_at desc").
		Find(&evaluations).Error
	if err != nil {
		return nil, err
	}
	return evaluations, nil
}

func (r *evaluationRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Evaluation{}).Error
}
