package service

import (
	"errors"
	"math/rand"

	"github.com/jinzhu/copier"
	"github.com/learnifypk/backend/internal/apperror"
	"github.com/learnifypk/backend/internal/dto"
	"github.com/learnifypk/backend/internal/model"
	"github.com/learnifypk/backend/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// previewQuestionLimit caps how many questions per assignment a preview
// (guest, teacher, or grade-mismatched student) gets to see.
const previewQuestionLimit = 3

type QuizService interface {
	// StartQuiz samples questions and either opens a real attempt or, for
	// viewers who may not take the quiz, returns a read-only preview.
	// user may be nil (guest browsing).
	StartQuiz(user *model.User, quizID uint, req dto.StartQuizRequest) (*dto.StartQuizResponse, error)
	ListQuizzes() ([]dto.QuizSummary, error)
}

type quizService struct {
	quizRepo     repository.QuizRepository
	questionRepo repository.QuestionRepository
	attemptRepo  repository.AttemptRepository
}

func NewQuizService(
	quizRepo repository.QuizRepository,
	questionRepo repository.QuestionRepository,
	attemptRepo repository.AttemptRepository,
) QuizService {
	return &quizService{
		quizRepo:     quizRepo,
		questionRepo: questionRepo,
		attemptRepo:  attemptRepo,
	}
}

func (s *quizService) StartQuiz(user *model.User, quizID uint, req dto.StartQuizRequest) (*dto.StartQuizResponse, error) {
	quiz, err := s.quizRepo.FindByIDWithAssignments(quizID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("quiz not found")
	}
	if err != nil {
		log.Error().Err(err).Uint("quizId", quizID).Msg("Failed to load quiz")
		return nil, err
	}

	// Anything other than an explicit exam request runs as learning.
	mode := model.ModeLearning
	if req.Mode == model.ModeExam {
		mode = model.ModeExam
	}

	preview := s.isPreview(user, quiz)

	questions, err := s.sampleQuestions(quiz, preview)
	if err != nil {
		return nil, err
	}

	// The expected count reflects what this response actually carries;
	// previews and underfilled banks deliver fewer than configured.
	resp := &dto.StartQuizResponse{
		PreviewMode:            preview,
		QuizTitle:              quiz.Title,
		Questions:              toQuestionViews(questions),
		TotalExpectedQuestions: len(questions),
	}
	copier.Copy(&resp.Formatting, quiz)

	if preview {
		return resp, nil
	}

	qids := make([]string, len(questions))
	for i, q := range questions {
		qids[i] = q.QuestionID.String()
	}
	anyIDs := make([]any, len(qids))
	for i, id := range qids {
		anyIDs[i] = id
	}

	attempt := model.Attempt{
		StudentID: user.ID,
		QuizID:    quiz.ID,
		Meta: datatypes.JSONMap{
			"mode":          mode,
			"selected_qids": anyIDs,
		},
	}
	if err := s.attemptRepo.Create(&attempt); err != nil {
		log.Error().Err(err).Uint("quizId", quizID).Uint("studentId", user.ID).Msg("Failed to create attempt")
		return nil, err
	}

	id := attempt.ID.String()
	resp.AttemptID = &id
	return resp, nil
}

// isPreview: guests, teachers and admins never hold attempts; students get a
// preview when the quiz targets another grade.
func (s *quizService) isPreview(user *model.User, quiz *model.Quiz) bool {
	if user == nil {
		return true
	}
	if !user.IsStudent() {
		return true
	}
	return quiz.Grade != "" && user.Grade != quiz.Grade
}

// sampleQuestions draws each assignment's share at random. A bank with fewer
// questions than configured contributes everything it has.
func (s *quizService) sampleQuestions(quiz *model.Quiz, preview bool) ([]model.Question, error) {
	var out []model.Question
	for _, assignment := range quiz.Assignments {
		pool, err := s.questionRepo.FindByBank(assignment.QuestionBankID)
		if err != nil {
			log.Error().Err(err).Uint("bankId", assignment.QuestionBankID).Msg("Failed to load question bank")
			return nil, err
		}

		n := assignment.NumQuestions
		if preview && n > previewQuestionLimit {
			n = previewQuestionLimit
		}
		if n > len(pool) {
			n = len(pool)
		}

		rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
		out = append(out, pool[:n]...)
	}
	return out, nil
}

// toQuestionViews strips answer data and shuffles the displayed option
// order. Labels travel with their text, so a shuffled view still submits
// the stored label.
func toQuestionViews(questions []model.Question) []dto.QuestionView {
	views := make([]dto.QuestionView, 0, len(questions))
	for _, q := range questions {
		view := dto.QuestionView{
			QuestionID: q.QuestionID.String(),
			Type:       q.Type,
			Text:       q.Text,
		}
		if q.Type == model.QuestionTypeSingleChoice || q.Type == model.QuestionTypeMultiChoice {
			opts := make([]dto.OptionView, 0, 4)
			for label, text := range q.OptionMap() {
				if text == "" {
					continue
				}
				opts = append(opts, dto.OptionView{Label: label, Text: text})
			}
			rand.Shuffle(len(opts), func(i, j int) { opts[i], opts[j] = opts[j], opts[i] })
			view.Options = opts
		}
		views = append(views, view)
	}
	return views
}

func (s *quizService) ListQuizzes() ([]dto.QuizSummary, error) {
	quizzes, err := s.quizRepo.FindAllWithAssignments()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list quizzes")
		return nil, err
	}
	summaries := make([]dto.QuizSummary, 0, len(quizzes))
	for i := range quizzes {
		var summary dto.QuizSummary
		copier.Copy(&summary, &quizzes[i])
		summary.QuestionCount = quizzes[i].IntendedQuestionCount()
		summaries = append(summaries, summary)
	}
	return summaries, nil
}
