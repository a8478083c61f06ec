// Package easypay speaks the wallet gateway's redirect-based protocol:
// an auto-submitted form to the hosted payment page, a token bounce to the
// confirmation endpoint, and a final status callback. Everything here is
// local computation; the gateway is only ever reached through the user's
// browser.
package easypay

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/learnifypk/backend/internal/apperror"
)

// PaymentMethodWallet is the gateway's code for mobile-wallet payments.
const PaymentMethodWallet = "MA"

type Config struct {
	Base        string // e.g. https://easypay.easypaisa.com.pk
	IndexPath   string // hosted payment page
	ConfirmPath string // token confirmation endpoint
	StoreID     string
	HashKey     string // must be exactly 16 bytes (AES-128)
}

// Validate checks the credentials at use time rather than at startup, so a
// misconfigured gateway fails the payment flow and nothing else.
func (c Config) Validate() error {
	if strings.TrimSpace(c.StoreID) == "" {
		return apperror.ExternalConfig("easypay store id is missing")
	}
	if len(strings.TrimSpace(c.HashKey)) != 16 {
		return apperror.ExternalConfig("easypay hash key must be exactly 16 characters")
	}
	return nil
}

func (c Config) IndexURL() string   { return c.Base + c.IndexPath }
func (c Config) ConfirmURL() string { return c.Base + c.ConfirmPath }

// Request is the fully-built outbound payload: the endpoint to post to, the
// exact canonical string the hash was computed over, and the form fields.
type Request struct {
	Endpoint  string
	Canonical string
	Fields    map[string]string
}

// canonicalOrder is the gateway-mandated field order. The hash is computed
// over exactly this sequence; it must match the posted field set.
var canonicalOrder = []string{
	"storeId",
	"amount",
	"postBackURL",
	"orderRefNum",
	"timeStamp",
	"paymentMethod",
}

// NewOrderRef builds a merchant order reference: digits only, at most 20
// characters, derived from the timestamp plus a random suffix.
func NewOrderRef(now time.Time) string {
	ref := now.Format("060102150405") + fmt.Sprintf("%06d", 100000+rand.Intn(900000))
	if len(ref) > 20 {
		ref = ref[:20]
	}
	return ref
}

// FormatAmount renders an amount with exactly one decimal place, as the
// gateway requires.
func FormatAmount(amount float64) string {
	return fmt.Sprintf("%.1f", amount)
}

// FormatTimestamp renders DD/MM/YYYY HH:MM:SS.
func FormatTimestamp(t time.Time) string {
	return t.Format("02/01/2006 15:04:05")
}

// BuildRequest constructs the canonical string in the mandated order,
// encrypts it into the merchantHashedReq field and returns the complete
// form. The raw values are joined unencoded; URL-encoding them would break
// the hash on the gateway side.
func BuildRequest(cfg Config, amount float64, orderRef, postBackURL string, now time.Time) (*Request, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	values := map[string]string{
		"storeId":       strings.TrimSpace(cfg.StoreID),
		"amount":        FormatAmount(amount),
		"postBackURL":   postBackURL,
		"orderRefNum":   orderRef,
		"timeStamp":     FormatTimestamp(now),
		"paymentMethod": PaymentMethodWallet,
	}

	pairs := make([]string, 0, len(canonicalOrder))
	for _, k := range canonicalOrder {
		pairs = append(pairs, k+"="+values[k])
	}
	canonical := strings.Join(pairs, "&")

	hashed, err := EncryptECBBase64(canonical, strings.TrimSpace(cfg.HashKey))
	if err != nil {
		return nil, err
	}

	fields := make(map[string]string, len(values)+2)
	for k, v := range values {
		fields[k] = v
	}
	fields["merchantHashedReq"] = hashed
	fields["autoRedirect"] = "0"

	return &Request{
		Endpoint:  cfg.IndexURL(),
		Canonical: canonical,
		Fields:    fields,
	}, nil
}

// ConfirmFields builds the second bounce: the short-lived auth token plus
// the callback the gateway should report the final status to.
func ConfirmFields(authToken, postBackURL string) map[string]string {
	return map[string]string{
		"auth_token":  authToken,
		"postBackURL": postBackURL,
	}
}
