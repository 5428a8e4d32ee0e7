package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a student evaluator or the administrator. StudentID is the natural key used on login.
type User struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	StudentID string    `json:"studentId" gorm:"size:64;not null;uniqueIndex"`
	Year      int       `json:"year" gorm:"not null"`
	IsAdmin   bool      `json:"isAdmin" gorm:"not null;default:false;index"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	Evaluations []Evaluation `json:"-" gorm:"foreignKey:EvaluatorID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
