package service

import (
	"time"

	"github.com/learnifypk/backend/internal/model"
	"github.com/learnifypk/backend/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// daysPerSubscriptionMonth keeps renewals arithmetic simple and
// calendar-independent.
const daysPerSubscriptionMonth = 30

type SubscriptionService interface {
	// ApplyPayment extends the paying user's subscription inside the
	// caller's transaction. Idempotence lives in the caller: it must invoke
	// this exactly once per payment transition to success.
	ApplyPayment(tx *gorm.DB, payment *model.Payment) (*model.User, error)
}

type subscriptionService struct {
	userRepo repository.UserRepository
}

func NewSubscriptionService(userRepo repository.UserRepository) SubscriptionService {
	return &subscriptionService{userRepo: userRepo}
}

func (s *subscriptionService) ApplyPayment(tx *gorm.DB, payment *model.Payment) (*model.User, error) {
	user, err := s.userRepo.FindByIDForUpdate(tx, payment.UserID)
	if err != nil {
		return nil, err
	}

	expiry := extendExpiry(time.Now(), user.SubscriptionExpiry, payment.MetaMonths())
	user.SubscriptionExpiry = &expiry
	user.AccountStatus = model.AccountActive
	user.SubscriptionPlan = payment.Plan
	user.PendingRenewal = false

	if err := s.userRepo.Save(tx, user); err != nil {
		return nil, err
	}

	log.Info().Uint("userId", user.ID).Str("paymentId", payment.ID.String()).
		Time("expiry", expiry).Msg("Subscription extended")
	return user, nil
}

// extendExpiry stacks renewals: an unexpired subscription extends from its
// current expiry, an expired or missing one extends from now.
func extendExpiry(now time.Time, current *time.Time, months int) time.Time {
	if months < 1 {
		months = 1
	}
	base := now
	if current != nil && current.After(now) {
		base = *current
	}
	return base.AddDate(0, 0, daysPerSubscriptionMonth*months)
}
