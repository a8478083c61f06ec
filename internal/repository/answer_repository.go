package repository

import (
	"github.com/google/uuid"
	"github.com/learnifypk/backend/internal/model"
	"gorm.io/gorm"
)

type AnswerRepository interface {
	// Replace deletes any prior answer for the same (attempt, question)
	// pair and inserts the new one. Must run inside the caller's
	// transaction together with the running-total recompute.
	Replace(tx *gorm.DB, answer *model.Answer) error
	Create(tx *gorm.DB, answer *model.Answer) error
	ListForAttempt(tx *gorm.DB, attemptID uuid.UUID) ([]model.Answer, error)
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) Replace(tx *gorm.DB, answer *model.Answer) error {
	err := tx.Where("attempt_id = ? AND question_id = ?", answer.AttemptID, answer.QuestionID).
		Delete(&model.Answer{}).Error
	if err != nil {
		return err
	}
	return tx.Create(answer).Error
}

func (r *answerRepository) Create(tx *gorm.DB, answer *model.Answer) error {
	return tx.Create(answer).Error
}

func (r *answerRepository) ListForAttempt(tx *gorm.DB, attemptID uuid.UUID) ([]model.Answer, error) {
	var answers []model.Answer
	err := tx.Where("attempt_id = ?", attemptID).
		Order("created_at ASC").
		Find(&answers).Error
	return answers, err
}
