package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/learnifypk/backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AttemptRepository interface {
	Create(attempt *model.Attempt) error
	Save(tx *gorm.DB, attempt *model.Attempt) error
	Delete(tx *gorm.DB, attempt *model.Attempt) error

	// FindInProgressForUpdate row-locks the attempt so concurrent
	// answer-submits and finalize for the same attempt serialize.
	FindInProgressForUpdate(tx *gorm.DB, id uuid.UUID, studentID uint) (*model.Attempt, error)

	// FindBestCompletedForUpdate returns the highest-scoring completed
	// attempt for (student, quiz) excluding the given one, locked so two
	// concurrent finalizes cannot both survive best-score retention.
	// Returns nil when there is no previous completed attempt.
	FindBestCompletedForUpdate(tx *gorm.DB, studentID uint, quizID uint, exclude uuid.UUID) (*model.Attempt, error)

	// FindOwned looks the attempt up regardless of state, so callers can
	// tell "already finalized" apart from "does not exist".
	FindOwned(tx *gorm.DB, id uuid.UUID, studentID uint) (*model.Attempt, error)

	FindCompleted(id uuid.UUID) (*model.Attempt, error)
	FindCompletedByStudent(studentID uint) ([]model.Attempt, error)
}

type attemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) Create(attempt *model.Attempt) error {
	return r.db.Create(attempt).Error
}

func (r *attemptRepository) Save(tx *gorm.DB, attempt *model.Attempt) error {
	return tx.Save(attempt).Error
}

func (r *attemptRepository) Delete(tx *gorm.DB, attempt *model.Attempt) error {
	return tx.Delete(attempt).Error
}

func (r *attemptRepository) FindInProgressForUpdate(tx *gorm.DB, id uuid.UUID, studentID uint) (*model.Attempt, error) {
	var attempt model.Attempt
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND student_id = ? AND completed_at IS NULL", id, studentID).
		First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindBestCompletedForUpdate(tx *gorm.DB, studentID uint, quizID uint, exclude uuid.UUID) (*model.Attempt, error) {
	var attempt model.Attempt
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("student_id = ? AND quiz_id = ? AND completed_at IS NOT NULL AND id <> ?", studentID, quizID, exclude).
		Order("score DESC").
		First(&attempt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindOwned(tx *gorm.DB, id uuid.UUID, studentID uint) (*model.Attempt, error) {
	var attempt model.Attempt
	err := tx.Where("id = ? AND student_id = ?", id, studentID).First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindCompleted(id uuid.UUID) (*model.Attempt, error) {
	var attempt model.Attempt
	err := r.db.Preload("Quiz.Assignments").
		Where("id = ? AND completed_at IS NOT NULL", id).
		First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindCompletedByStudent(studentID uint) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.db.Preload("Quiz.Assignments").
		Where("student_id = ? AND completed_at IS NOT NULL", studentID).
		Order("completed_at DESC").
		Find(&attempts).Error
	return attempts, err
}
