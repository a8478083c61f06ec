package model

import (
	"time"

	"gorm.io/gorm"
)

// Quiz groups question-bank assignments and carries the display metadata the
// frontend needs to render it.
type Quiz struct {
	ID               uint   `gorm:"primarykey" json:"id"`
	Title            string `gorm:"not null" json:"title"`
	Grade            string `gorm:"index" json:"grade"`
	Subject          string `json:"subject"`
	Chapter          string `json:"chapter"`
	MarksPerQuestion int    `gorm:"not null;default:1" json:"marks_per_question"`

	// Display-formatting hints passed through to the client untouched.
	FontSize      string `json:"font_size"`
	TextAlignment string `json:"text_alignment"`
	InputBoxWidth string `json:"input_box_width"`
	LineSpacing   string `json:"line_spacing"`

	Assignments []QuizAssignment `json:"assignments,omitempty" gorm:"foreignKey:QuizID"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// QuizAssignment says "draw NumQuestions questions from this bank".
type QuizAssignment struct {
	ID             uint         `gorm:"primarykey" json:"id"`
	QuizID         uint         `gorm:"not null;index" json:"quiz_id"`
	QuestionBankID uint         `gorm:"not null" json:"question_bank_id"`
	QuestionBank   QuestionBank `json:"question_bank,omitempty" gorm:"foreignKey:QuestionBankID"`
	NumQuestions   int          `gorm:"not null" json:"num_questions"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// IntendedQuestionCount is the total the quiz is configured to ask,
// independent of how many answers actually arrived.
func (q *Quiz) IntendedQuestionCount() int {
	total := 0
	for _, a := range q.Assignments {
		total += a.NumQuestions
	}
	return total
}
