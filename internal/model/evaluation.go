package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Evaluation is one evaluator's score for one project.
// (ProjectID, EvaluatorID) is unique; resubmissions update the existing row.
type Evaluation struct {
	ID          uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	ProjectID   uuid.UUID `json:"projectId" gorm:"type:char(36);not null;uniqueIndex:idx_evaluation_project_evaluator"`
	EvaluatorID uuid.UUID `json:"evaluatorId" gorm:"type:char(36);not null;uniqueIndex:idx_evaluation_project_evaluator;index"`
	Score       int       `json:"score" gorm:"not null"`
	Comment     string    `json:"comment" gorm:"type:text"`
	CreatedAt   time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Relations
	Project   *Project `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
	Evaluator *User    `json:"evaluator,omitempty" gorm:"foreignKey:EvaluatorID"`
}

// BeforeCreate sets UUID before creating the record.
func (e *Evaluation) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
