// Package events is a small in-process dispatcher for post-commit side
// effects. Handlers run synchronously after the database transaction that
// produced the event has committed; a panicking or failing handler is
// logged and never affects the caller.
package events

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	TopicUserCreated          = "user.created"
	TopicPaymentSucceeded     = "payment.succeeded"
	TopicSubscriptionExtended = "subscription.extended"
)

// UserCreated is published by the account boundary when a new user lands in
// the directory. This service only subscribes (welcome mail); account CRUD
// lives elsewhere.
type UserCreated struct {
	UserID   uint
	Email    string
	FullName string
}

// PaymentSucceeded is published once per payment transition to success.
// Duplicate gateway callbacks do not republish it.
type PaymentSucceeded struct {
	PaymentID string
	UserID    uint
	Email     string
	FullName  string
	Amount    float64
	Plan      string
	OrderRef  string
	TxnID     string
}

// SubscriptionExtended is published when a successful payment moved the
// account's expiry forward.
type SubscriptionExtended struct {
	UserID   uint
	Email    string
	FullName string
	Plan     string
	Expiry   time.Time
}

type Handler func(payload any)

type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string][]Handler)}
}

func (d *Dispatcher) Subscribe(topic string, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[topic] = append(d.handlers[topic], h)
}

func (d *Dispatcher) Publish(topic string, payload any) {
	d.mu.RLock()
	handlers := d.handlers[topic]
	d.mu.RUnlock()

	for _, h := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Error().Interface("panic", r).Str("topic", topic).
						Msg("Event handler panicked")
				}
			}()
			h(payload)
		}()
	}
}
