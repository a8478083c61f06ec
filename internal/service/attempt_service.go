package service

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/learnifypk/backend/internal/apperror"
	"github.com/learnifypk/backend/internal/dto"
	"github.com/learnifypk/backend/internal/grading"
	"github.com/learnifypk/backend/internal/model"
	"github.com/learnifypk/backend/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AttemptService interface {
	// SubmitAnswer replaces any earlier answer for the same question and
	// returns the recomputed running totals. A blank payload is dropped
	// without error: Saved=false in the response.
	SubmitAnswer(user *model.User, req dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error)

	// Finalize back-fills unanswered questions, grades everything, writes
	// the permanent result row and applies best-score retention.
	Finalize(user *model.User, req dto.FinalizeRequest) (*dto.FinalizeResponse, error)

	ListResults(user *model.User) ([]dto.ResultSummary, error)
	GetResult(viewer *model.User, attemptID string) (*dto.ResultDetail, error)
}

type attemptService struct {
	db           *gorm.DB
	attemptRepo  repository.AttemptRepository
	answerRepo   repository.AnswerRepository
	questionRepo repository.QuestionRepository
	quizRepo     repository.QuizRepository
	resultRepo   repository.ResultRepository
}

func NewAttemptService(
	db *gorm.DB,
	attemptRepo repository.AttemptRepository,
	answerRepo repository.AnswerRepository,
	questionRepo repository.QuestionRepository,
	quizRepo repository.QuizRepository,
	resultRepo repository.ResultRepository,
) AttemptService {
	return &attemptService{
		db:           db,
		attemptRepo:  attemptRepo,
		answerRepo:   answerRepo,
		questionRepo: questionRepo,
		quizRepo:     quizRepo,
		resultRepo:   resultRepo,
	}
}

func (s *attemptService) SubmitAnswer(user *model.User, req dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error) {
	attemptID, err := uuid.Parse(req.AttemptID)
	if err != nil {
		return nil, apperror.InvalidInput("attempt_id is not a valid uuid")
	}
	questionID, err := uuid.Parse(req.QuestionID)
	if err != nil {
		return nil, apperror.InvalidInput("question_id is not a valid uuid")
	}

	if grading.IsBlankPayload(req.AnswerData) {
		return &dto.SubmitAnswerResponse{
			Saved:   false,
			Message: "Empty answer was not saved",
		}, nil
	}

	var resp *dto.SubmitAnswerResponse
	err = s.db.Transaction(func(tx *gorm.DB) error {
		attempt, err := s.lockInProgress(tx, attemptID, user.ID)
		if err != nil {
			return err
		}

		if !containsID(attempt.SelectedQuestionIDs(), req.QuestionID) {
			return apperror.InvalidInput("question is not part of this attempt")
		}

		question, err := s.questionRepo.FindByID(questionID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("question not found")
		}
		if err != nil {
			return err
		}
		if req.QuestionType != "" && req.QuestionType != question.Type {
			return apperror.InvalidInput("question_type does not match the question")
		}

		answer := model.Answer{
			AttemptID:    attempt.ID,
			QuestionID:   question.QuestionID,
			QuestionType: question.Type,
			AnswerData:   datatypes.JSON(req.AnswerData),
		}
		if err := s.answerRepo.Replace(tx, &answer); err != nil {
			log.Error().Err(err).Str("attemptId", req.AttemptID).Msg("Failed to save answer")
			return err
		}

		quiz, err := s.quizRepo.FindByID(attempt.QuizID)
		if err != nil {
			return err
		}

		correct, marks, err := s.scoreAnswers(tx, attempt.ID, quiz.MarksPerQuestion)
		if err != nil {
			return err
		}

		attempt.Score = marks
		if err := s.attemptRepo.Save(tx, attempt); err != nil {
			return err
		}

		isCorrect, graded := gradeAnswer(question, answer.AnswerData)
		if !graded {
			log.Warn().Str("questionId", req.QuestionID).Str("type", question.Type).
				Msg("Skipping answer with ungradable question type")
		}

		qids := attempt.SelectedQuestionIDs()
		total := len(qids)
		if total == 0 {
			total = quiz.IntendedQuestionCount()
		}

		resp = &dto.SubmitAnswerResponse{
			Saved:          true,
			Message:        "Answer saved",
			IsCorrect:      isCorrect,
			CurrentCorrect: correct,
			TotalQuestions: total,
			MarksObtained:  marks,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *attemptService) Finalize(user *model.User, req dto.FinalizeRequest) (*dto.FinalizeResponse, error) {
	attemptID, err := uuid.Parse(req.AttemptID)
	if err != nil {
		return nil, apperror.InvalidInput("attempt_id is not a valid uuid")
	}

	var resp *dto.FinalizeResponse
	err = s.db.Transaction(func(tx *gorm.DB) error {
		attempt, err := s.lockInProgress(tx, attemptID, user.ID)
		if err != nil {
			return err
		}

		quiz, err := s.quizRepo.FindByIDWithAssignments(attempt.QuizID)
		if err != nil {
			return err
		}

		qids := attempt.SelectedQuestionIDs()
		questions, err := s.loadQuestions(qids)
		if err != nil {
			return err
		}

		answers, err := s.answerRepo.ListForAttempt(tx, attempt.ID)
		if err != nil {
			return err
		}
		answered := make(map[uuid.UUID]model.Answer, len(answers))
		for _, a := range answers {
			answered[a.QuestionID] = a
		}

		// Unanswered questions get an explicit empty answer so the review
		// page shows every question the attempt asked.
		for _, q := range questions {
			if _, ok := answered[q.QuestionID]; ok {
				continue
			}
			blank := model.Answer{
				AttemptID:    attempt.ID,
				QuestionID:   q.QuestionID,
				QuestionType: q.Type,
				AnswerData:   emptyAnswerFor(q.Type),
			}
			if err := s.answerRepo.Create(tx, &blank); err != nil {
				return err
			}
			answered[q.QuestionID] = blank
		}

		correct := 0
		feedback := make([]dto.QuestionFeedback, 0, len(questions))
		for _, q := range questions {
			a := answered[q.QuestionID]
			ok, graded := gradeAnswer(&q, a.AnswerData)
			if !graded {
				log.Warn().Str("questionId", q.QuestionID.String()).Str("type", q.Type).
					Msg("Skipping ungradable question type at finalization")
			}
			if ok {
				correct++
			}
			feedback = append(feedback, questionFeedback(&q, a.AnswerData, ok))
		}

		marks := correct * quiz.MarksPerQuestion
		now := time.Now()
		attempt.Score = marks
		attempt.CompletedAt = &now
		if err := s.attemptRepo.Save(tx, attempt); err != nil {
			return err
		}

		// Totals reflect what the quiz intended to ask, not just what the
		// sampling managed to draw from underfilled banks.
		total := quiz.IntendedQuestionCount()
		if total == 0 {
			total = len(questions)
		}

		result := model.Result{
			StudentID:      attempt.StudentID,
			QuizID:         attempt.QuizID,
			TotalQuestions: total,
			CorrectAnswers: correct,
			MarksObtained:  marks,
			StartedAt:      attempt.StartedAt,
			EndTime:        now,
		}
		if err := s.resultRepo.Create(tx, &result); err != nil {
			return err
		}

		newBest := true
		var previousBest *int
		prev, err := s.attemptRepo.FindBestCompletedForUpdate(tx, attempt.StudentID, attempt.QuizID, attempt.ID)
		if err != nil {
			return err
		}
		if prev != nil {
			score := prev.Score
			previousBest = &score
			if attempt.Score > prev.Score {
				if err := s.attemptRepo.Delete(tx, prev); err != nil {
					return err
				}
			} else {
				newBest = false
				if err := s.attemptRepo.Delete(tx, attempt); err != nil {
					return err
				}
			}
		}

		totalMarks := total * quiz.MarksPerQuestion
		percentage := 0.0
		if totalMarks > 0 {
			percentage = float64(marks) / float64(totalMarks) * 100
		}

		message := "Quiz submitted successfully"
		if !newBest {
			message = "Quiz submitted, but this was not a new best score"
		}

		resp = &dto.FinalizeResponse{
			Message:           message,
			AttemptID:         attempt.ID.String(),
			QuizTitle:         quiz.Title,
			NewBest:           newBest,
			PreviousBestScore: previousBest,
			CurrentScore:      marks,
			TotalQuestions:    total,
			CorrectAnswers:    correct,
			MarksObtained:     marks,
			Percentage:        percentage,
			Grade:             grading.LetterGrade(percentage),
			DurationSeconds:   int(now.Sub(attempt.StartedAt).Seconds()),
			QuestionFeedback:  feedback,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// lockInProgress row-locks an in-progress attempt, translating the gorm
// not-found into finalized-vs-missing errors.
func (s *attemptService) lockInProgress(tx *gorm.DB, id uuid.UUID, studentID uint) (*model.Attempt, error) {
	attempt, err := s.attemptRepo.FindInProgressForUpdate(tx, id, studentID)
	if err == nil {
		return attempt, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	existing, lookupErr := s.attemptRepo.FindOwned(tx, id, studentID)
	if lookupErr == nil && existing.IsCompleted() {
		return nil, apperror.Conflict("attempt is already finalized")
	}
	return nil, apperror.NotFound("attempt not found")
}

func (s *attemptService) ListResults(user *model.User) ([]dto.ResultSummary, error) {
	attempts, err := s.attemptRepo.FindCompletedByStudent(user.ID)
	if err != nil {
		log.Error().Err(err).Uint("studentId", user.ID).Msg("Failed to list results")
		return nil, err
	}

	summaries := make([]dto.ResultSummary, 0, len(attempts))
	for i := range attempts {
		a := &attempts[i]
		total := a.Quiz.IntendedQuestionCount()
		if total == 0 {
			total = len(a.SelectedQuestionIDs())
		}
		totalMarks := total * a.Quiz.MarksPerQuestion
		percentage := 0.0
		if totalMarks > 0 {
			percentage = float64(a.Score) / float64(totalMarks) * 100
		}
		summaries = append(summaries, dto.ResultSummary{
			AttemptID:     a.ID.String(),
			QuizTitle:     a.Quiz.Title,
			Subject:       a.Quiz.Subject,
			Grade:         a.Quiz.Grade,
			Chapter:       a.Quiz.Chapter,
			MarksObtained: a.Score,
			TotalMarks:    totalMarks,
			Percentage:    percentage,
			GradeLetter:   grading.LetterGrade(percentage),
			CompletedAt:   a.CompletedAt.Format(time.RFC3339),
		})
	}
	return summaries, nil
}

func (s *attemptService) GetResult(viewer *model.User, attemptID string) (*dto.ResultDetail, error) {
	id, err := uuid.Parse(attemptID)
	if err != nil {
		return nil, apperror.InvalidInput("attempt_id is not a valid uuid")
	}

	attempt, err := s.attemptRepo.FindCompleted(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("result not found")
	}
	if err != nil {
		return nil, err
	}
	if !viewer.CanViewResult(attempt.StudentID) {
		return nil, apperror.Forbidden("you may not view this result")
	}

	questions, err := s.loadQuestions(attempt.SelectedQuestionIDs())
	if err != nil {
		return nil, err
	}
	answers, err := s.answerRepo.ListForAttempt(s.db, attempt.ID)
	if err != nil {
		return nil, err
	}
	answered := make(map[uuid.UUID]model.Answer, len(answers))
	for _, a := range answers {
		answered[a.QuestionID] = a
	}

	correct := 0
	feedback := make([]dto.QuestionFeedback, 0, len(questions))
	for _, q := range questions {
		a := answered[q.QuestionID]
		ok, _ := gradeAnswer(&q, a.AnswerData)
		if ok {
			correct++
		}
		feedback = append(feedback, questionFeedback(&q, a.AnswerData, ok))
	}

	total := attempt.Quiz.IntendedQuestionCount()
	if total == 0 {
		total = len(questions)
	}
	totalMarks := total * attempt.Quiz.MarksPerQuestion
	percentage := 0.0
	if totalMarks > 0 {
		percentage = float64(attempt.Score) / float64(totalMarks) * 100
	}

	return &dto.ResultDetail{
		QuizTitle:        attempt.Quiz.Title,
		Subject:          attempt.Quiz.Subject,
		Grade:            attempt.Quiz.Grade,
		TotalQuestions:   total,
		CorrectAnswers:   correct,
		IncorrectAnswers: total - correct,
		MarksObtained:    attempt.Score,
		Percentage:       percentage,
		GradeLetter:      grading.LetterGrade(percentage),
		CompletedAt:      attempt.CompletedAt.Format(time.RFC3339),
		Questions:        feedback,
	}, nil
}

// scoreAnswers regrades every saved answer of the attempt inside the
// caller's transaction.
func (s *attemptService) scoreAnswers(tx *gorm.DB, attemptID uuid.UUID, marksPerQuestion int) (int, int, error) {
	answers, err := s.answerRepo.ListForAttempt(tx, attemptID)
	if err != nil {
		return 0, 0, err
	}
	ids := make([]uuid.UUID, 0, len(answers))
	for _, a := range answers {
		ids = append(ids, a.QuestionID)
	}
	questions, err := s.questionRepo.FindByIDs(ids)
	if err != nil {
		return 0, 0, err
	}
	byID := make(map[uuid.UUID]*model.Question, len(questions))
	for i := range questions {
		byID[questions[i].QuestionID] = &questions[i]
	}

	correct := 0
	for _, a := range answers {
		q, ok := byID[a.QuestionID]
		if !ok {
			log.Warn().Str("questionId", a.QuestionID.String()).Msg("Answer references a missing question, skipping")
			continue
		}
		if isCorrect, _ := gradeAnswer(q, a.AnswerData); isCorrect {
			correct++
		}
	}
	return correct, correct * marksPerQuestion, nil
}

func (s *attemptService) loadQuestions(qids []string) ([]model.Question, error) {
	ids := make([]uuid.UUID, 0, len(qids))
	for _, raw := range qids {
		id, err := uuid.Parse(raw)
		if err != nil {
			log.Warn().Str("questionId", raw).Msg("Skipping malformed question id in attempt meta")
			continue
		}
		ids = append(ids, id)
	}
	questions, err := s.questionRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}

	// Preserve the sampling order stored at start time.
	byID := make(map[uuid.UUID]model.Question, len(questions))
	for _, q := range questions {
		byID[q.QuestionID] = q
	}
	ordered := make([]model.Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := byID[id]; ok {
			ordered = append(ordered, q)
		}
	}
	return ordered, nil
}

// gradeAnswer dispatches to the grading engine by question type. The second
// return is false when the type is unknown; such answers count as ungraded,
// never as wrong-by-error.
func gradeAnswer(q *model.Question, raw datatypes.JSON) (bool, bool) {
	switch q.Type {
	case model.QuestionTypeSingleChoice:
		return grading.GradeSingleChoice(grading.SelectedOption(raw), q.CorrectAnswer, q.OptionMap()), true
	case model.QuestionTypeMultiChoice:
		return grading.GradeMultiChoice(grading.SelectedOptions(raw), splitLabels(q.CorrectAnswer), q.OptionMap()), true
	case model.QuestionTypeFillInBlank:
		return grading.GradeFillInBlank(grading.BlankValues(raw), q.AnswerKeyValues()), true
	default:
		return false, false
	}
}

func splitLabels(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func emptyAnswerFor(questionType string) datatypes.JSON {
	switch questionType {
	case model.QuestionTypeSingleChoice:
		return datatypes.JSON(`{"selected":""}`)
	case model.QuestionTypeMultiChoice:
		return datatypes.JSON(`{"selected":[]}`)
	default:
		return datatypes.JSON(`{}`)
	}
}

func questionFeedback(q *model.Question, raw datatypes.JSON, isCorrect bool) dto.QuestionFeedback {
	fb := dto.QuestionFeedback{
		QuestionID:   q.QuestionID.String(),
		QuestionType: q.Type,
		QuestionText: q.Text,
		IsCorrect:    isCorrect,
	}
	switch q.Type {
	case model.QuestionTypeSingleChoice:
		fb.StudentAnswer = grading.SelectedOption(raw)
		fb.CorrectAnswer = q.CorrectAnswer
	case model.QuestionTypeMultiChoice:
		fb.StudentAnswer = grading.SelectedOptions(raw)
		fb.CorrectAnswer = splitLabels(q.CorrectAnswer)
	case model.QuestionTypeFillInBlank:
		fb.StudentAnswer = grading.BlankValues(raw)
		fb.CorrectAnswer = q.AnswerKeyValues()
	}
	return fb
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if strings.EqualFold(candidate, id) {
			return true
		}
	}
	return false
}
