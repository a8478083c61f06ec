package easypay

import (
	"strconv"
	"strings"
)

// The gateway's callback field naming has varied across integration
// iterations, so each logical field maps to an ordered list of candidate
// parameter names; the first non-blank match wins. Extending the table is a
// data change, not a code change.
var fieldAliases = []struct {
	field string
	names []string
}{
	{"status", []string{"status", "paymentStatus", "transactionStatus", "txnStatus"}},
	{"desc", []string{"desc", "description", "statusDesc", "responseDesc"}},
	{"code", []string{"responseCode", "response_code", "code", "errorCode", "rc"}},
	{"message", []string{"message", "msg", "statusMessage"}},
	{"orderRef", []string{"orderRefNumber", "orderRefNum", "orderRef", "orderId", "merchantOrderId"}},
	{"txn", []string{"transactionId", "transactionRefNumber", "txnRefNo", "providerTxnId", "tid"}},
	{"amount", []string{"amount", "transactionAmount", "txnAmount"}},
}

var successTokens = map[string]struct{}{
	"success": {}, "paid": {}, "approved": {}, "completed": {},
	"succeeded": {}, "ok": {}, "captured": {}, "1": {}, "true": {}, "yes": {},
}

var successCodes = map[string]struct{}{
	"0000": {}, "00": {}, "0": {}, "200": {},
}

var failureTokens = map[string]struct{}{
	"failed": {}, "declined": {}, "rejected": {},
}

// Callback is the final status delivery, decoded from whatever field names
// the gateway used this time.
type Callback struct {
	Status        string
	Description   string
	ResponseCode  string
	Message       string
	OrderRef      string
	TransactionID string
	Amount        string
	Raw           map[string]string
}

// ParseCallback extracts the logical fields from merged GET+POST parameters.
func ParseCallback(params map[string]string) Callback {
	pick := func(field string) string {
		for _, fa := range fieldAliases {
			if fa.field != field {
				continue
			}
			for _, name := range fa.names {
				if v := strings.TrimSpace(params[name]); v != "" {
					return v
				}
			}
		}
		return ""
	}
	return Callback{
		Status:        pick("status"),
		Description:   pick("desc"),
		ResponseCode:  pick("code"),
		Message:       pick("message"),
		OrderRef:      pick("orderRef"),
		TransactionID: pick("txn"),
		Amount:        pick("amount"),
		Raw:           params,
	}
}

type Outcome int

const (
	OutcomeUnknown Outcome = iota
	OutcomeSuccess
	OutcomeFailed
)

// Classify decides the payment outcome. Any of status/description/response
// code/message matching a known success token or success code means success.
// An explicit failure token on the status means failed; declines often carry
// a transaction id too, so the failure check runs before the fallback. Only
// then does a present transaction id whose amount (if the callback carried
// one) matches the stored amount count as success. Everything else is unknown
// and must leave the payment untouched.
func (cb Callback) Classify(expectedAmount float64) Outcome {
	for _, v := range []string{cb.Status, cb.Description, cb.ResponseCode, cb.Message} {
		token := strings.ToLower(strings.TrimSpace(v))
		if token == "" {
			continue
		}
		if _, ok := successTokens[token]; ok {
			return OutcomeSuccess
		}
		if _, ok := successCodes[token]; ok {
			return OutcomeSuccess
		}
	}

	if _, ok := failureTokens[strings.ToLower(strings.TrimSpace(cb.Status))]; ok {
		return OutcomeFailed
	}

	if cb.TransactionID != "" && cb.amountMatches(expectedAmount) {
		return OutcomeSuccess
	}
	return OutcomeUnknown
}

func (cb Callback) amountMatches(expected float64) bool {
	if cb.Amount == "" {
		return true
	}
	got, err := strconv.ParseFloat(strings.TrimSpace(cb.Amount), 64)
	if err != nil {
		return false
	}
	return FormatAmount(got) == FormatAmount(expected)
}
