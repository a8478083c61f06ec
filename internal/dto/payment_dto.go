package dto

import "time"

type PaymentInitiateRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
	Plan   string  `json:"plan" binding:"omitempty,oneof=monthly yearly custom"`
	Months int     `json:"months" binding:"omitempty,min=1,max=24"`
}

// PaymentInitiateResponse tells the client which URL to navigate the
// browser to; the gateway is reached by redirect, never server-to-server.
type PaymentInitiateResponse struct {
	ID   string `json:"id"`
	Next string `json:"next"`
}

// GatewayForm is rendered as an auto-submitting HTML form.
type GatewayForm struct {
	Endpoint string
	Fields   map[string]string
}

// PaymentOutcome carries what the callback handler resolved; the controller
// turns it into the frontend redirect query.
type PaymentOutcome struct {
	PaymentID   string
	Status      string
	OrderRef    string
	TxnID       string
	Description string
}

type PaymentSummary struct {
	ID               string     `json:"id"`
	Amount           float64    `json:"amount"`
	Plan             string     `json:"plan"`
	Status           string     `json:"status"`
	MerchantOrderRef string     `json:"merchant_order_ref"`
	ProviderTxnID    string     `json:"provider_txn_id,omitempty"`
	InitiatedAt      time.Time  `json:"initiated_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}
