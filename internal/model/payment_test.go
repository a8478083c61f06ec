package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkSuccessIsSticky(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	p := Payment{Status: PaymentStatusPending}

	p.MarkSuccess("TXN-1", now)
	assert.Equal(t, PaymentStatusSuccess, p.Status)
	assert.Equal(t, "TXN-1", p.ProviderTxnID)
	require.NotNil(t, p.CompletedAt)
	assert.Equal(t, now, *p.CompletedAt)

	// A replayed callback must not clear the txn id or move the timestamp.
	later := now.Add(time.Hour)
	p.MarkSuccess("", later)
	assert.Equal(t, "TXN-1", p.ProviderTxnID)
	assert.Equal(t, now, *p.CompletedAt)
}

func TestAppendCallbackKeepsEveryDelivery(t *testing.T) {
	p := Payment{}
	p.AppendCallback(map[string]string{"status": "pending"})
	p.AppendCallback(map[string]string{"status": "success"})

	assert.Len(t, p.CallbackPayload, 2)
	assert.Contains(t, p.CallbackPayload, "callback_1")
	assert.Contains(t, p.CallbackPayload, "callback_2")
}

func TestMetaMonths(t *testing.T) {
	assert.Equal(t, 1, (&Payment{}).MetaMonths())
	assert.Equal(t, 12, (&Payment{Months: 12}).MetaMonths())
}

func TestAttemptSelectedQuestionIDs(t *testing.T) {
	a := Attempt{Meta: map[string]any{"selected_qids": []any{"id-1", "id-2"}}}
	assert.Equal(t, []string{"id-1", "id-2"}, a.SelectedQuestionIDs())

	b := Attempt{Meta: map[string]any{"selected_qids": []string{"id-3"}}}
	assert.Equal(t, []string{"id-3"}, b.SelectedQuestionIDs())

	assert.Nil(t, (&Attempt{}).SelectedQuestionIDs())
}

func TestAttemptMode(t *testing.T) {
	assert.Equal(t, ModeLearning, (&Attempt{}).Mode())
	a := Attempt{Meta: map[string]any{"mode": ModeExam}}
	assert.Equal(t, ModeExam, a.Mode())
}

func TestResultPercentage(t *testing.T) {
	r := Result{TotalQuestions: 10, MarksObtained: 15}
	assert.InDelta(t, 75.0, r.Percentage(2), 0.001)
	assert.Zero(t, (&Result{}).Percentage(1))
}
