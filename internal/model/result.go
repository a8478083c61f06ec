package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Result is the immutable grading record written at finalization. It
// survives best-score deletion of Attempt rows, so historical reporting
// never loses data.
type Result struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID uint      `gorm:"not null;index" json:"student_id"`
	QuizID    uint      `gorm:"not null;index" json:"quiz_id"`

	TotalQuestions int `gorm:"not null" json:"total_questions"`
	CorrectAnswers int `gorm:"not null" json:"correct_answers"`
	MarksObtained  int `gorm:"not null" json:"marks_obtained"`

	StartedAt time.Time `json:"started_at"`
	EndTime   time.Time `json:"end_time"`

	CreatedAt time.Time `json:"created_at"`
}

func (r *Result) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Percentage is computed against the marks actually at stake in this result.
func (r *Result) Percentage(marksPerQuestion int) float64 {
	total := r.TotalQuestions * marksPerQuestion
	if total == 0 {
		return 0
	}
	return float64(r.MarksObtained) / float64(total) * 100
}

func (r *Result) Duration() time.Duration {
	return r.EndTime.Sub(r.StartedAt)
}
