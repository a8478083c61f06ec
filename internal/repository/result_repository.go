package repository

import (
	"github.com/learnifypk/backend/internal/model"
	"gorm.io/gorm"
)

type ResultRepository interface {
	// Create writes the permanent grade-book row. Result rows are never
	// deleted by best-score retention, only Attempt rows are.
	Create(tx *gorm.DB, result *model.Result) error
	FindByStudent(studentID uint) ([]model.Result, error)
}

type resultRepository struct {
	db *gorm.DB
}

func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{db: db}
}

func (r *resultRepository) Create(tx *gorm.DB, result *model.Result) error {
	return tx.Create(result).Error
}

func (r *resultRepository) FindByStudent(studentID uint) ([]model.Result, error) {
	var results []model.Result
	err := r.db.Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&results).Error
	return results, err
}
