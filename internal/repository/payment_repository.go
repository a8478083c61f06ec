package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/learnifypk/backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentRepository interface {
	Create(payment *model.Payment) error
	Save(tx *gorm.DB, payment *model.Payment) error

	FindByID(id uuid.UUID) (*model.Payment, error)
	FindOwned(id uuid.UUID, userID uint) (*model.Payment, error)
	FindByUser(userID uint) ([]model.Payment, error)

	// FindByIDForUpdate and FindByOrderRefForUpdate row-lock the payment
	// so duplicate gateway callbacks serialize and stay idempotent.
	// The order-ref variant returns nil when no payment matches.
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Payment, error)
	FindByOrderRefForUpdate(tx *gorm.DB, orderRef string) (*model.Payment, error)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(payment *model.Payment) error {
	return r.db.Create(payment).Error
}

func (r *paymentRepository) Save(tx *gorm.DB, payment *model.Payment) error {
	return tx.Save(payment).Error
}

func (r *paymentRepository) FindByID(id uuid.UUID) (*model.Payment, error) {
	var p model.Payment
	if err := r.db.First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) FindOwned(id uuid.UUID, userID uint) (*model.Payment, error) {
	var p model.Payment
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) FindByUser(userID uint) ([]model.Payment, error) {
	var payments []model.Payment
	err := r.db.Where("user_id = ?", userID).
		Order("initiated_at DESC").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Payment, error) {
	var p model.Payment
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) FindByOrderRefForUpdate(tx *gorm.DB, orderRef string) (*model.Payment, error) {
	var p model.Payment
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("merchant_order_ref = ?", orderRef).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
