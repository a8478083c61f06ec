package dto

// OptionView is one displayed option. The label stays bound to the stored
// option even when the display order is shuffled, so answers are submitted
// by label.
type OptionView struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// QuestionView is what a student sees during an attempt. It never carries
// the correct answer.
type QuestionView struct {
	QuestionID string       `json:"question_id"`
	Type       string       `json:"type"`
	Text       string       `json:"question_text"`
	Options    []OptionView `json:"options,omitempty"`
}

// FormattingHints are passed through from the quiz untouched.
type FormattingHints struct {
	FontSize      string `json:"font_size"`
	TextAlignment string `json:"text_alignment"`
	InputBoxWidth string `json:"input_box_width"`
	LineSpacing   string `json:"line_spacing"`
}

type StartQuizRequest struct {
	Mode string `json:"mode"`
}

// StartQuizResponse returns a nil AttemptID in preview mode.
type StartQuizResponse struct {
	PreviewMode            bool            `json:"preview_mode"`
	AttemptID              *string         `json:"attempt_id"`
	QuizTitle              string          `json:"quiz_title"`
	Questions              []QuestionView  `json:"questions"`
	TotalExpectedQuestions int             `json:"total_expected_questions"`
	Formatting             FormattingHints `json:"formatting"`
}

type QuizSummary struct {
	ID               uint   `json:"id"`
	Title            string `json:"title"`
	Grade            string `json:"grade"`
	Subject          string `json:"subject"`
	Chapter          string `json:"chapter"`
	MarksPerQuestion int    `json:"marks_per_question"`
	QuestionCount    int    `json:"question_count"`
}
