package repository

import (
	"github.com/google/uuid"
	"github.com/learnifypk/backend/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	FindByID(id uuid.UUID) (*model.Question, error)
	FindByIDs(ids []uuid.UUID) ([]model.Question, error)
	FindByBank(bankID uint) ([]model.Question, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) FindByID(id uuid.UUID) (*model.Question, error) {
	var q model.Question
	if err := r.db.First(&q, "question_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *questionRepository) FindByIDs(ids []uuid.UUID) ([]model.Question, error) {
	var qs []model.Question
	if len(ids) == 0 {
		return qs, nil
	}
	err := r.db.Where("question_id IN ?", ids).Find(&qs).Error
	return qs, err
}

func (r *questionRepository) FindByBank(bankID uint) ([]model.Question, error) {
	var qs []model.Question
	err := r.db.Where("question_bank_id = ?", bankID).Find(&qs).Error
	return qs, err
}
