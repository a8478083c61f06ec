package repository

import (
	"github.com/learnifypk/backend/internal/model"
	"gorm.io/gorm"
)

type QuizRepository interface {
	FindByID(id uint) (*model.Quiz, error)
	FindByIDWithAssignments(id uint) (*model.Quiz, error)
	FindAllWithAssignments() ([]model.Quiz, error)
}

type quizRepository struct {
	db *gorm.DB
}

func NewQuizRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) FindByID(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	if err := r.db.First(&quiz, id).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepository) FindByIDWithAssignments(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.db.Preload("Assignments.QuestionBank").First(&quiz, id).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepository) FindAllWithAssignments() ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.db.Preload("Assignments.QuestionBank").
		Order("quizzes.created_at DESC").
		Find(&quizzes).Error
	return quizzes, err
}
