package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	QuestionTypeSingleChoice = "scq"
	QuestionTypeMultiChoice  = "mcq"
	QuestionTypeFillInBlank  = "fib"
)

// QuestionBank groups questions of one type; quizzes draw from banks
// through assignments.
type QuestionBank struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Title     string         `gorm:"not null" json:"title"`
	Type      string         `gorm:"not null" json:"type"` // scq, mcq, fib
	Questions []Question     `json:"questions,omitempty" gorm:"foreignKey:QuestionBankID"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Question is immutable once created except by explicit edit. Choice types
// carry four options and a correct-answer label ("B") or label list ("A,C");
// fill-in-blank carries a blank→value answer key instead.
type Question struct {
	QuestionID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"question_id"`
	QuestionBankID uint      `gorm:"not null;index" json:"question_bank_id"`
	Type           string    `gorm:"not null" json:"type"`
	Text           string    `gorm:"type:text;not null" json:"question_text"`

	OptionA string `json:"option_a,omitempty"`
	OptionB string `json:"option_b,omitempty"`
	OptionC string `json:"option_c,omitempty"`
	OptionD string `json:"option_d,omitempty"`

	// scq: single label; mcq: comma-separated labels.
	CorrectAnswer string `json:"-"`
	// fib answer key, e.g. {"blank1": "1,234"}.
	AnswerKey datatypes.JSONMap `gorm:"type:jsonb" json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.QuestionID == uuid.Nil {
		q.QuestionID = uuid.New()
	}
	return nil
}

// OptionMap returns the label→text map used by the grading engine.
func (q *Question) OptionMap() map[string]string {
	return map[string]string{
		"A": q.OptionA,
		"B": q.OptionB,
		"C": q.OptionC,
		"D": q.OptionD,
	}
}

// AnswerKeyValues flattens the JSONB answer key into plain strings for
// fill-in-blank grading.
func (q *Question) AnswerKeyValues() map[string]string {
	out := make(map[string]string, len(q.AnswerKey))
	for k, v := range q.AnswerKey {
		switch t := v.(type) {
		case nil:
			continue
		case string:
			out[k] = t
		default:
			out[k] = toString(t)
		}
	}
	return out
}
