package model

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	PaymentStatusPending = "pending"
	PaymentStatusSuccess = "success"
	PaymentStatusFailed  = "failed"
)

const (
	PlanMonthly = "monthly"
	PlanYearly  = "yearly"
	PlanCustom  = "custom"
)

// Payment tracks one gateway transaction. Created at checkout initiation,
// mutated only by the gateway-callback handler, never deleted. The raw
// outbound and callback payloads are kept for audit.
type Payment struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uint      `gorm:"not null;index" json:"user_id"`
	User   User      `json:"-" gorm:"foreignKey:UserID"`

	Amount float64 `gorm:"not null" json:"amount"`
	Plan   string  `gorm:"not null;default:'monthly'" json:"plan"`
	Months int     `gorm:"not null;default:1" json:"months"`
	Status string  `gorm:"not null;default:'pending';index" json:"status"`

	// Digits-only, at most 20 chars; correlates the outbound request with
	// its asynchronous callback.
	MerchantOrderRef string `gorm:"size:20;index" json:"merchant_order_ref"`
	ProviderTxnID    string `gorm:"size:64" json:"provider_txn_id"`

	RequestPayload  datatypes.JSONMap `gorm:"type:jsonb" json:"request_payload,omitempty"`
	CallbackPayload datatypes.JSONMap `gorm:"type:jsonb" json:"callback_payload,omitempty"`

	InitiatedAt time.Time  `gorm:"autoCreateTime" json:"initiated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (p *Payment) IsSuccess() bool { return p.Status == PaymentStatusSuccess }

// MarkSuccess is sticky: the provider txn id is only filled in, never
// cleared, and the completion timestamp is set once.
func (p *Payment) MarkSuccess(providerTxnID string, now time.Time) {
	p.Status = PaymentStatusSuccess
	if providerTxnID != "" {
		p.ProviderTxnID = providerTxnID
	}
	if p.CompletedAt == nil {
		p.CompletedAt = &now
	}
}

func (p *Payment) MarkFailed(now time.Time) {
	p.Status = PaymentStatusFailed
	p.CompletedAt = &now
}

// AppendCallback merges raw callback parameters into the audit payload
// under a numbered key so replays never overwrite earlier deliveries.
func (p *Payment) AppendCallback(params map[string]string) {
	if p.CallbackPayload == nil {
		p.CallbackPayload = datatypes.JSONMap{}
	}
	entry := make(map[string]any, len(params))
	for k, v := range params {
		entry[k] = v
	}
	key := fmt.Sprintf("callback_%d", len(p.CallbackPayload)+1)
	p.CallbackPayload[key] = entry
}

// toString renders JSONB scalars the way they were typed.
func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// MetaMonths reads the months stashed at initiation, defaulting to one.
func (p *Payment) MetaMonths() int {
	if p.Months > 0 {
		return p.Months
	}
	return 1
}
