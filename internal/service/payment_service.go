package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/learnifypk/backend/config"
	"github.com/learnifypk/backend/internal/apperror"
	"github.com/learnifypk/backend/internal/dto"
	"github.com/learnifypk/backend/internal/events"
	"github.com/learnifypk/backend/internal/gateway/easypay"
	"github.com/learnifypk/backend/internal/model"
	"github.com/learnifypk/backend/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PaymentService interface {
	// Initiate records a pending payment and tells the client where to
	// send the browser.
	Initiate(user *model.User, req dto.PaymentInitiateRequest) (*dto.PaymentInitiateResponse, error)

	// GatewayRedirect builds the auto-submitting form that posts the
	// encrypted payload to the hosted payment page.
	GatewayRedirect(paymentID string) (*dto.GatewayForm, error)

	// ConfirmForm builds the second bounce that trades the gateway's
	// short-lived auth token for the final status callback. The payment id
	// travels along in the postback URL so the final callback can be
	// resolved even when the gateway drops the order reference.
	ConfirmForm(authToken, paymentID string) (*dto.GatewayForm, error)

	// HandleStatusCallback ingests the gateway's final status delivery.
	// It never fails outward; whatever happens, the browser gets an
	// outcome to land on.
	HandleStatusCallback(params map[string]string) *dto.PaymentOutcome

	ListMine(user *model.User) ([]dto.PaymentSummary, error)
	Get(user *model.User, paymentID string) (*dto.PaymentSummary, error)
}

type paymentService struct {
	db           *gorm.DB
	paymentRepo  repository.PaymentRepository
	subscription SubscriptionService
	dispatcher   *events.Dispatcher
	cfg          *config.Config
}

func NewPaymentService(
	db *gorm.DB,
	paymentRepo repository.PaymentRepository,
	subscription SubscriptionService,
	dispatcher *events.Dispatcher,
	cfg *config.Config,
) PaymentService {
	return &paymentService{
		db:           db,
		paymentRepo:  paymentRepo,
		subscription: subscription,
		dispatcher:   dispatcher,
		cfg:          cfg,
	}
}

func (s *paymentService) gatewayConfig() easypay.Config {
	return easypay.Config{
		Base:        s.cfg.Easypay.BaseURL,
		IndexPath:   s.cfg.Easypay.IndexPath,
		ConfirmPath: s.cfg.Easypay.ConfirmPath,
		StoreID:     s.cfg.Easypay.StoreID,
		HashKey:     s.cfg.Easypay.HashKey,
	}
}

func (s *paymentService) tokenHandlerURL() string {
	return s.cfg.Server.PublicBaseURL + "/api/v1/payments/easypay/token-handler"
}

func (s *paymentService) statusHandlerURL() string {
	return s.cfg.Server.PublicBaseURL + "/api/v1/payments/easypay/status-handler"
}

func (s *paymentService) Initiate(user *model.User, req dto.PaymentInitiateRequest) (*dto.PaymentInitiateResponse, error) {
	// Fail before creating a row if the gateway credentials are unusable.
	if err := s.gatewayConfig().Validate(); err != nil {
		log.Error().Err(err).Msg("Payment initiation refused, gateway misconfigured")
		return nil, err
	}

	plan := req.Plan
	if plan == "" {
		plan = model.PlanMonthly
	}
	months := req.Months
	if months == 0 {
		switch plan {
		case model.PlanYearly:
			months = 12
		default:
			months = 1
		}
	}

	payment := model.Payment{
		UserID:           user.ID,
		Amount:           req.Amount,
		Plan:             plan,
		Months:           months,
		Status:           model.PaymentStatusPending,
		MerchantOrderRef: easypay.NewOrderRef(time.Now()),
	}
	if err := s.paymentRepo.Create(&payment); err != nil {
		log.Error().Err(err).Uint("userId", user.ID).Msg("Failed to create payment")
		return nil, err
	}

	log.Info().Str("paymentId", payment.ID.String()).Str("orderRef", payment.MerchantOrderRef).
		Float64("amount", payment.Amount).Msg("Payment initiated")

	return &dto.PaymentInitiateResponse{
		ID:   payment.ID.String(),
		Next: "/api/v1/payments/easypay/start/" + payment.ID.String(),
	}, nil
}

func (s *paymentService) GatewayRedirect(paymentID string) (*dto.GatewayForm, error) {
	id, err := uuid.Parse(paymentID)
	if err != nil {
		return nil, apperror.InvalidInput("payment id is not a valid uuid")
	}
	payment, err := s.paymentRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("payment not found")
	}
	if err != nil {
		return nil, err
	}
	if payment.Status != model.PaymentStatusPending {
		return nil, apperror.Conflict("payment is no longer pending")
	}

	postBack := s.tokenHandlerURL() + "?pid=" + payment.ID.String()
	reqOut, err := easypay.BuildRequest(s.gatewayConfig(), payment.Amount, payment.MerchantOrderRef, postBack, time.Now())
	if err != nil {
		log.Error().Err(err).Str("paymentId", paymentID).Msg("Failed to build gateway request")
		return nil, err
	}

	// Keep the outbound payload for audit; the canonical string lets a
	// disputed hash be recomputed later.
	payload := datatypes.JSONMap{"canonical": reqOut.Canonical}
	for k, v := range reqOut.Fields {
		payload[k] = v
	}
	payment.RequestPayload = payload
	if err := s.paymentRepo.Save(s.db, payment); err != nil {
		log.Error().Err(err).Str("paymentId", paymentID).Msg("Failed to store request payload")
		return nil, err
	}

	return &dto.GatewayForm{Endpoint: reqOut.Endpoint, Fields: reqOut.Fields}, nil
}

func (s *paymentService) ConfirmForm(authToken, paymentID string) (*dto.GatewayForm, error) {
	if authToken == "" {
		return nil, apperror.InvalidInput("auth token is missing")
	}
	statusURL := s.statusHandlerURL()
	if paymentID != "" {
		statusURL += "?pid=" + paymentID
	}
	return &dto.GatewayForm{
		Endpoint: s.gatewayConfig().ConfirmURL(),
		Fields:   easypay.ConfirmFields(authToken, statusURL),
	}, nil
}

func (s *paymentService) HandleStatusCallback(params map[string]string) *dto.PaymentOutcome {
	cb := easypay.ParseCallback(params)
	outcome := &dto.PaymentOutcome{
		OrderRef:    cb.OrderRef,
		TxnID:       cb.TransactionID,
		Description: firstNonBlank(cb.Description, cb.Message, "OK"),
		Status:      model.PaymentStatusPending,
	}

	if cb.OrderRef == "" && params["pid"] == "" {
		log.Warn().Interface("params", params).Msg("Gateway callback without order reference or payment id")
		outcome.Status = "unknown"
		return outcome
	}

	var succeeded *events.PaymentSucceeded
	var extended *events.SubscriptionExtended

	err := s.db.Transaction(func(tx *gorm.DB) error {
		payment, err := s.resolveCallbackPayment(tx, cb.OrderRef, params["pid"])
		if err != nil {
			return err
		}
		if payment == nil {
			log.Warn().Str("orderRef", cb.OrderRef).Str("pid", params["pid"]).
				Msg("Gateway callback matches no payment")
			outcome.Status = "unknown"
			return nil
		}
		outcome.PaymentID = payment.ID.String()

		payment.AppendCallback(params)

		wasSuccess := payment.IsSuccess()
		switch cb.Classify(payment.Amount) {
		case easypay.OutcomeSuccess:
			payment.MarkSuccess(cb.TransactionID, time.Now())
		case easypay.OutcomeFailed:
			// Success is sticky: a late failure report never demotes a
			// payment that already succeeded.
			if !wasSuccess {
				payment.MarkFailed(time.Now())
			}
		default:
			log.Warn().Str("orderRef", cb.OrderRef).Interface("params", params).
				Msg("Unrecognized gateway callback, payment left unchanged")
		}

		if payment.IsSuccess() && !wasSuccess {
			// Reconciliation rides the same transaction, but its failure
			// must not void the recorded payment.
			user, err := s.subscription.ApplyPayment(tx, payment)
			if err != nil {
				log.Error().Err(err).Str("paymentId", payment.ID.String()).
					Msg("Subscription reconciliation failed, payment kept")
			} else {
				succeeded = &events.PaymentSucceeded{
					PaymentID: payment.ID.String(),
					UserID:    user.ID,
					Email:     user.Email,
					FullName:  user.FullName,
					Amount:    payment.Amount,
					Plan:      payment.Plan,
					OrderRef:  payment.MerchantOrderRef,
					TxnID:     payment.ProviderTxnID,
				}
				if user.SubscriptionExpiry != nil {
					extended = &events.SubscriptionExtended{
						UserID:   user.ID,
						Email:    user.Email,
						FullName: user.FullName,
						Plan:     user.SubscriptionPlan,
						Expiry:   *user.SubscriptionExpiry,
					}
				}
			}
		}

		if err := s.paymentRepo.Save(tx, payment); err != nil {
			return err
		}

		outcome.Status = payment.Status
		if payment.ProviderTxnID != "" {
			outcome.TxnID = payment.ProviderTxnID
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("orderRef", cb.OrderRef).Msg("Failed to process gateway callback")
		outcome.Status = "unknown"
		return outcome
	}

	// Side effects fire only after the commit above.
	if succeeded != nil {
		s.dispatcher.Publish(events.TopicPaymentSucceeded, *succeeded)
	}
	if extended != nil {
		s.dispatcher.Publish(events.TopicSubscriptionExtended, *extended)
	}
	return outcome
}

// resolveCallbackPayment prefers the merchant order reference and falls
// back to a payment id embedded in the callback URL.
func (s *paymentService) resolveCallbackPayment(tx *gorm.DB, orderRef, pid string) (*model.Payment, error) {
	if orderRef != "" {
		payment, err := s.paymentRepo.FindByOrderRefForUpdate(tx, orderRef)
		if err != nil {
			return nil, err
		}
		if payment != nil {
			return payment, nil
		}
	}
	if pid == "" {
		return nil, nil
	}
	id, err := uuid.Parse(pid)
	if err != nil {
		return nil, nil
	}
	payment, err := s.paymentRepo.FindByIDForUpdate(tx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *paymentService) ListMine(user *model.User) ([]dto.PaymentSummary, error) {
	payments, err := s.paymentRepo.FindByUser(user.ID)
	if err != nil {
		log.Error().Err(err).Uint("userId", user.ID).Msg("Failed to list payments")
		return nil, err
	}
	summaries := make([]dto.PaymentSummary, 0, len(payments))
	for i := range payments {
		summaries = append(summaries, toPaymentSummary(&payments[i]))
	}
	return summaries, nil
}

func (s *paymentService) Get(user *model.User, paymentID string) (*dto.PaymentSummary, error) {
	id, err := uuid.Parse(paymentID)
	if err != nil {
		return nil, apperror.InvalidInput("payment id is not a valid uuid")
	}

	var payment *model.Payment
	if user.Role == model.RoleAdmin {
		payment, err = s.paymentRepo.FindByID(id)
	} else {
		payment, err = s.paymentRepo.FindOwned(id, user.ID)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("payment not found")
	}
	if err != nil {
		return nil, err
	}

	summary := toPaymentSummary(payment)
	return &summary, nil
}

func toPaymentSummary(p *model.Payment) dto.PaymentSummary {
	return dto.PaymentSummary{
		ID:               p.ID.String(),
		Amount:           p.Amount,
		Plan:             p.Plan,
		Status:           p.Status,
		MerchantOrderRef: p.MerchantOrderRef,
		ProviderTxnID:    p.ProviderTxnID,
		InitiatedAt:      p.InitiatedAt,
		CompletedAt:      p.CompletedAt,
	}
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
