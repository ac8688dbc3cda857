// Package notify delivers issued receipts by email. Delivery is best-effort:
// the caller surfaces the outcome as a status message and never retries on
// its own.
package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/wneessen/go-mail"
)

// ErrNotConfigured reports that the SMTP environment is incomplete. No
// delivery attempt is made in that case.
var ErrNotConfigured = errors.New("SMTP non configurato nelle variabili d'ambiente")

// Mailer sends receipt documents over SMTP with STARTTLS, the same ambient
// configuration contract as the original application:
// SMTP_SERVER, SMTP_PORT (default 587), SMTP_USER, SMTP_PASSWORD and the
// optional SENDER_EMAIL (default SMTP_USER).
type Mailer struct {
	host     string
	port     int
	user     string
	password string
	sender   string
}

// NewFromEnv builds a Mailer from the ambient configuration, or
// ErrNotConfigured when any required variable is missing.
func NewFromEnv() (*Mailer, error) {
	host := strings.TrimSpace(os.Getenv("SMTP_SERVER"))
	user := strings.TrimSpace(os.Getenv("SMTP_USER"))
	password := os.Getenv("SMTP_PASSWORD")
	sender := strings.TrimSpace(os.Getenv("SENDER_EMAIL"))
	if sender == "" {
		sender = user
	}
	if host == "" || user == "" || password == "" || sender == "" {
		return nil, ErrNotConfigured
	}
	port := 587
	if v := strings.TrimSpace(os.Getenv("SMTP_PORT")); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SMTP_PORT %q: %w", v, err)
		}
		port = p
	}
	return &Mailer{host: host, port: port, user: user, password: password, sender: sender}, nil
}

// SendDocument emails one document as an attachment.
func (m *Mailer) SendDocument(ctx context.Context, recipient, subject, body string, document []byte, filename string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.sender); err != nil {
		return fmt.Errorf("sender address: %w", err)
	}
	if err := msg.To(recipient); err != nil {
		return fmt.Errorf("recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)
	msg.AttachReader(filename, bytes.NewReader(document))

	client, err := mail.NewClient(m.host,
		mail.WithPort(m.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.user),
		mail.WithPassword(m.password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("invio email: %w", err)
	}
	return nil
}

// ReceiptSubject builds the standard subject line for an issued receipt.
func ReceiptSubject(numero, denominazione string) string {
	return fmt.Sprintf("Ricevuta n. %s - %s", numero, denominazione)
}

// ReceiptBody builds the standard plain-text body.
func ReceiptBody(intestatario, denominazione string) string {
	return fmt.Sprintf("Gentile %s,\n\nin allegato trova la ricevuta del versamento effettuato.\n\nSaluti,\n%s",
		intestatario, denominazione)
}
