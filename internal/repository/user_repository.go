package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"evalportal/internal/model"
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	// UpsertByStudentID inserts the user or, when the student id already exists,
	// overwrites only updateColumns. It returns the stored row.
	UpsertByStudentID(ctx context.Context, user *model.User, updateColumns []string) (*model.User, error)
	FindByStudentID(ctx context.Context, studentID string) (*model.User, error)
	CountStudents(ctx context.Context) (int64, error)
	CountStudentsWithEvaluations(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) UpsertByStudentID(ctx context.Context, user *model.User, updateColumns []string) (*model.User, error) {
	var stored model.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}},
			DoUpdates: clause.AssignmentColumns(updateColumns),
		}).Create(user).Error
		if err != nil {
			return err
		}
		return tx.Where("student_id = ?", user.StudentID).First(&stored).Error
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *userRepository) FindByStudentID(ctx context.Context, studentID string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("student_id = ?", studentID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CountStudents counts non-administrator users.
func (r *userRepository) CountStudents(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("is_admin = ?", false).Count(&n).Error
	return n, err
}

// CountStudentsWithEvaluations counts non-administrator users with at least one evaluation.
func (r *userRepository) CountStudentsWithEvaluations(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("is_admin = ?", false).
		Where("EXISTS (SELECT 1 FROM evaluations WHERE evaluations.evaluator_id = users.id)").
		Count(&n).Error
	return n, err
}

func (r *userRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.User{}).Error
}
