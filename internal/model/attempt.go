package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ModeLearning = "learning"
	ModeExam     = "exam"
)

// Attempt is one student's pass at a quiz. It stays in progress
// (CompletedAt nil) until finalized; at most one completed attempt per
// (student, quiz) survives best-score retention.
type Attempt struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID uint      `gorm:"not null;index" json:"student_id"`
	Student   User      `json:"-" gorm:"foreignKey:StudentID"`
	QuizID    uint      `gorm:"not null;index" json:"quiz_id"`
	Quiz      Quiz      `json:"-" gorm:"foreignKey:QuizID"`

	StartedAt   time.Time  `gorm:"autoCreateTime" json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Score       int        `json:"score"`

	// Meta records the sampled question ids and the mode chosen at start.
	Meta datatypes.JSONMap `gorm:"type:jsonb" json:"meta,omitempty"`

	Answers []Answer `json:"answers,omitempty" gorm:"foreignKey:AttemptID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (a *Attempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (a *Attempt) IsCompleted() bool { return a.CompletedAt != nil }

// Mode returns the stored attempt mode, defaulting to learning.
func (a *Attempt) Mode() string {
	if m, ok := a.Meta["mode"].(string); ok && m != "" {
		return m
	}
	return ModeLearning
}

// SelectedQuestionIDs returns the question ids sampled at start. JSONB
// round-trips the stored []string as []interface{}, so both are handled.
func (a *Attempt) SelectedQuestionIDs() []string {
	switch v := a.Meta["selected_qids"].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
