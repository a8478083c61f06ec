package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Answer is one student response to one question within an attempt. A
// resubmission before finalization replaces (delete+recreate) the previous
// row for the same question, it never appends.
type Answer struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	AttemptID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"attempt_id"`
	QuestionID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"question_id"`
	QuestionType string         `gorm:"not null" json:"question_type"`
	AnswerData   datatypes.JSON `gorm:"type:jsonb" json:"answer_data"`

	CreatedAt time.Time `json:"created_at"`
}

func (a *Answer) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
