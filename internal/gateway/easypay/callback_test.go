package easypay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCallbackAliases(t *testing.T) {
	cb := ParseCallback(map[string]string{
		"paymentStatus":        "SUCCESS",
		"responseDesc":         "Approved",
		"rc":                   "0000",
		"msg":                  "done",
		"orderRefNumber":       "2403071504051234",
		"transactionRefNumber": "TXN-1",
		"txnAmount":            "300.0",
	})
	assert.Equal(t, "SUCCESS", cb.Status)
	assert.Equal(t, "Approved", cb.Description)
	assert.Equal(t, "0000", cb.ResponseCode)
	assert.Equal(t, "done", cb.Message)
	assert.Equal(t, "2403071504051234", cb.OrderRef)
	assert.Equal(t, "TXN-1", cb.TransactionID)
	assert.Equal(t, "300.0", cb.Amount)
}

func TestParseCallbackFirstNonBlankWins(t *testing.T) {
	cb := ParseCallback(map[string]string{
		"status":        "  ",
		"paymentStatus": "paid",
		"orderRef":      "ref-2",
		"orderRefNum":   "ref-1",
	})
	assert.Equal(t, "paid", cb.Status)
	// orderRefNumber > orderRefNum > orderRef in alias priority.
	assert.Equal(t, "ref-1", cb.OrderRef)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]string
		amount float64
		want   Outcome
	}{
		{"status token", map[string]string{"status": "SUCCESS"}, 300, OutcomeSuccess},
		{"mixed case token", map[string]string{"status": "Paid"}, 300, OutcomeSuccess},
		{"desc token", map[string]string{"desc": "approved"}, 300, OutcomeSuccess},
		{"response code", map[string]string{"responseCode": "0000"}, 300, OutcomeSuccess},
		{"short code", map[string]string{"code": "00"}, 300, OutcomeSuccess},
		{"txn with matching amount", map[string]string{"transactionId": "T1", "amount": "300.0"}, 300, OutcomeSuccess},
		{"txn with equivalent amount", map[string]string{"transactionId": "T1", "amount": "300"}, 300, OutcomeSuccess},
		{"txn without amount", map[string]string{"transactionId": "T1"}, 300, OutcomeSuccess},
		{"txn with wrong amount", map[string]string{"transactionId": "T1", "amount": "250.0"}, 300, OutcomeUnknown},
		{"txn with unparsable amount", map[string]string{"transactionId": "T1", "amount": "lots"}, 300, OutcomeUnknown},
		{"explicit failure", map[string]string{"status": "FAILED"}, 300, OutcomeFailed},
		{"declined", map[string]string{"status": "declined"}, 300, OutcomeFailed},
		{"declined with txn id", map[string]string{"status": "declined", "transactionId": "T-99"}, 300, OutcomeFailed},
		{"rejected with txn id and matching amount", map[string]string{"status": "rejected", "transactionId": "T-99", "amount": "300.0"}, 300, OutcomeFailed},
		{"failure word in desc is not a failure", map[string]string{"desc": "failed"}, 300, OutcomeUnknown},
		{"empty callback", map[string]string{}, 300, OutcomeUnknown},
		{"unrelated fields", map[string]string{"foo": "bar"}, 300, OutcomeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb := ParseCallback(tt.params)
			assert.Equal(t, tt.want, cb.Classify(tt.amount))
		})
	}
}

func TestClassifySuccessBeatsFailureStatus(t *testing.T) {
	// A success code wins even when the status text looks like a failure;
	// token and code checks run before the failure check.
	cb := ParseCallback(map[string]string{"status": "failed", "responseCode": "0000"})
	assert.Equal(t, OutcomeSuccess, cb.Classify(300))
}
