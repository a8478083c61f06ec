package dto

import "encoding/json"

type SubmitAnswerRequest struct {
	AttemptID    string          `json:"attempt_id" binding:"required"`
	QuestionID   string          `json:"question_id" binding:"required"`
	QuestionType string          `json:"question_type" binding:"required"`
	AnswerData   json.RawMessage `json:"answer_data" binding:"required"`
}

// SubmitAnswerResponse reports per-answer correctness plus the running
// totals across every answer saved so far, so the client can show live
// progress without a second query. Saved=false is the "empty, not saved"
// signal, not an error.
type SubmitAnswerResponse struct {
	Saved          bool   `json:"saved"`
	Message        string `json:"message"`
	IsCorrect      bool   `json:"is_correct"`
	CurrentCorrect int    `json:"current_correct"`
	TotalQuestions int    `json:"total_questions"`
	MarksObtained  int    `json:"marks_obtained"`
}

type FinalizeRequest struct {
	AttemptID string `json:"attempt_id" binding:"required"`
}

// QuestionFeedback is one line of the per-question review returned at
// finalization and on the result detail page.
type QuestionFeedback struct {
	QuestionID    string `json:"question_id"`
	QuestionType  string `json:"question_type"`
	QuestionText  string `json:"question_text,omitempty"`
	StudentAnswer any    `json:"student_answer"`
	CorrectAnswer any    `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
}

type FinalizeResponse struct {
	Message           string             `json:"message"`
	AttemptID         string             `json:"attempt_id"`
	QuizTitle         string             `json:"quiz_title"`
	NewBest           bool               `json:"new_best"`
	PreviousBestScore *int               `json:"previous_best_score,omitempty"`
	CurrentScore      int                `json:"current_score"`
	TotalQuestions    int                `json:"total_questions"`
	CorrectAnswers    int                `json:"correct_answers"`
	MarksObtained     int                `json:"marks_obtained"`
	Percentage        float64            `json:"percentage"`
	Grade             string             `json:"grade"`
	DurationSeconds   int                `json:"duration_seconds"`
	QuestionFeedback  []QuestionFeedback `json:"question_feedback"`
}

type ResultSummary struct {
	AttemptID     string  `json:"attempt_id"`
	QuizTitle     string  `json:"quiz_title"`
	Subject       string  `json:"subject"`
	Grade         string  `json:"grade"`
	Chapter       string  `json:"chapter"`
	MarksObtained int     `json:"marks_obtained"`
	TotalMarks    int     `json:"total_marks"`
	Percentage    float64 `json:"percentage"`
	GradeLetter   string  `json:"grade_letter"`
	CompletedAt   string  `json:"completed_at"`
}

type ResultDetail struct {
	QuizTitle        string             `json:"quiz_title"`
	Subject          string             `json:"subject"`
	Grade            string             `json:"grade"`
	TotalQuestions   int                `json:"total_questions"`
	CorrectAnswers   int                `json:"correct_answers"`
	IncorrectAnswers int                `json:"incorrect_answers"`
	MarksObtained    int                `json:"marks_obtained"`
	Percentage       float64            `json:"percentage"`
	GradeLetter      string             `json:"grade_letter"`
	CompletedAt      string             `json:"completed_at"`
	Questions        []QuestionFeedback `json:"questions"`
}
