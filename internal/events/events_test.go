package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	d := NewDispatcher()
	var got []string
	d.Subscribe(TopicPaymentSucceeded, func(payload any) {
		ev := payload.(PaymentSucceeded)
		got = append(got, "first:"+ev.PaymentID)
	})
	d.Subscribe(TopicPaymentSucceeded, func(payload any) {
		got = append(got, "second")
	})

	d.Publish(TopicPaymentSucceeded, PaymentSucceeded{PaymentID: "p1"})
	assert.Equal(t, []string{"first:p1", "second"}, got)
}

func TestPublishWithoutSubscribersIsANoop(t *testing.T) {
	d := NewDispatcher()
	assert.NotPanics(t, func() {
		d.Publish(TopicUserCreated, UserCreated{UserID: 1})
	})
}

func TestPanickingHandlerDoesNotStopOthers(t *testing.T) {
	d := NewDispatcher()
	ran := false
	d.Subscribe(TopicSubscriptionExtended, func(payload any) {
		panic("boom")
	})
	d.Subscribe(TopicSubscriptionExtended, func(payload any) {
		ran = true
	})

	assert.NotPanics(t, func() {
		d.Publish(TopicSubscriptionExtended, SubscriptionExtended{UserID: 1})
	})
	assert.True(t, ran)
}

func TestTopicsAreIsolated(t *testing.T) {
	d := NewDispatcher()
	calls := 0
	d.Subscribe(TopicPaymentSucceeded, func(payload any) { calls++ })
	d.Publish(TopicUserCreated, UserCreated{})
	assert.Zero(t, calls)
}
