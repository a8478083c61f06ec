// Package mailer sends the transactional mails the payment flow produces.
// Delivery is best effort: callers log failures and move on, a lost receipt
// never blocks or reverses a payment.
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type Mailer interface {
	SendWelcome(to, name string) error
	SendPaymentReceipt(to, name string, amount float64, plan, orderRef string) error
	SendSubscriptionExtended(to, name string, plan string, expiry time.Time) error
}

// New returns a real SMTP mailer, or a no-op one when no host is
// configured so development setups run without a mail relay.
func New(cfg Config) Mailer {
	if strings.TrimSpace(cfg.Host) == "" {
		log.Warn().Msg("SMTP host not configured, outgoing mail is disabled")
		return nopMailer{}
	}
	return &smtpMailer{cfg: cfg}
}

var welcomeTmpl = template.Must(template.New("welcome").Parse(`<p>Dear {{.Name}},</p>
<p>Welcome! Your account is ready. Subscribe to unlock quizzes for your grade.</p>`))

var receiptTmpl = template.Must(template.New("receipt").Parse(`<p>Dear {{.Name}},</p>
<p>We received your payment of Rs. {{printf "%.2f" .Amount}} for the {{.Plan}} plan.</p>
<p>Order reference: {{.OrderRef}}</p>
<p>Thank you for learning with us.</p>`))

var extendedTmpl = template.Must(template.New("extended").Parse(`<p>Dear {{.Name}},</p>
<p>Your {{.Plan}} subscription is now active until {{.Expiry}}.</p>`))

type smtpMailer struct {
	cfg Config
}

func (m *smtpMailer) SendWelcome(to, name string) error {
	var body bytes.Buffer
	if err := welcomeTmpl.Execute(&body, map[string]any{"Name": name}); err != nil {
		return err
	}
	return m.send(to, "Welcome aboard", body.String())
}

func (m *smtpMailer) SendPaymentReceipt(to, name string, amount float64, plan, orderRef string) error {
	var body bytes.Buffer
	err := receiptTmpl.Execute(&body, map[string]any{
		"Name":     name,
		"Amount":   amount,
		"Plan":     plan,
		"OrderRef": orderRef,
	})
	if err != nil {
		return err
	}
	return m.send(to, "Payment received", body.String())
}

func (m *smtpMailer) SendSubscriptionExtended(to, name string, plan string, expiry time.Time) error {
	var body bytes.Buffer
	err := extendedTmpl.Execute(&body, map[string]any{
		"Name":   name,
		"Plan":   plan,
		"Expiry": expiry.Format("2 January 2006"),
	})
	if err != nil {
		return err
	}
	return m.send(to, "Subscription extended", body.String())
}

func (m *smtpMailer) send(to, subject, htmlBody string) error {
	if strings.TrimSpace(to) == "" {
		return fmt.Errorf("mailer: empty recipient")
	}
	msg := strings.Join([]string{
		"From: " + m.cfg.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
		"",
		htmlBody,
	}, "\r\n")

	addr := m.cfg.Host + ":" + m.cfg.Port
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	return smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg))
}

type nopMailer struct{}

func (nopMailer) SendWelcome(to, name string) error {
	log.Debug().Str("to", to).Msg("Mail disabled, skipping welcome mail")
	return nil
}

func (nopMailer) SendPaymentReceipt(to, name string, amount float64, plan, orderRef string) error {
	log.Debug().Str("to", to).Msg("Mail disabled, skipping payment receipt")
	return nil
}

func (nopMailer) SendSubscriptionExtended(to, name string, plan string, expiry time.Time) error {
	log.Debug().Str("to", to).Msg("Mail disabled, skipping subscription notice")
	return nil
}
