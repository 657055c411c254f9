package service

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strings"
	"time"

	"github.com/newsportal/internal/config"
)

const smtpDialTimeout = 15 * time.Second

// EmailMessage is a plain text mail.
type EmailMessage struct {
	To      []string
	Subject string
	Body    string
}

// Mailer delivers mail. EmailService is the SMTP implementation.
type Mailer interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// EmailService sends mail over SMTP (implicit TLS, STARTTLS or plain).
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService creates the SMTP mailer.
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// SetConfig swaps the SMTP settings at runtime.
func (s *EmailService) SetConfig(cfg *config.EmailConfig) {
	if cfg == nil {
		return
	}
	s.cfg = cfg
}

// Send delivers msg to every recipient in one SMTP transaction.
func (s *EmailService) Send(ctx context.Context, msg EmailMessage) error {
	if s.cfg == nil || !s.cfg.Enabled {
		return ErrEmailServiceDisabled
	}
	if s.cfg.Host == "" || s.cfg.Port == 0 || s.cfg.From == "" {
		return ErrEmailServiceNotConfigured
	}
	recipients, err := normalizeRecipients(msg.To)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	from := buildFromAddress(s.cfg.From, s.cfg.FromName)
	raw := []byte(buildEmailMessage(from, recipients, msg.Subject, msg.Body))

	addr := net.JoinHostPort(s.cfg.Host, fmt.Sprintf("%d", s.cfg.Port))
	var auth smtp.Auth
	if s.cfg.Username != "" || s.cfg.Password != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	switch {
	case s.cfg.UseSSL:
		err = sendMailWithSSL(ctx, addr, auth, s.cfg.Host, s.cfg.From, recipients, raw)
	case s.cfg.UseTLS:
		err = sendMailWithStartTLS(ctx, addr, auth, s.cfg.Host, s.cfg.From, recipients, raw)
	default:
		err = sendMailPlain(ctx, addr, auth, s.cfg.Host, s.cfg.From, recipients, raw)
	}
	return normalizeEmailSendError(err)
}

func normalizeRecipients(to []string) ([]string, error) {
	recipients := make([]string, 0, len(to))
	for _, item := range to {
		address := strings.TrimSpace(item)
		if address == "" {
			continue
		}
		if _, err := mail.ParseAddress(address); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidEmail, address)
		}
		recipients = append(recipients, address)
	}
	if len(recipients) == 0 {
		return nil, ErrInvalidEmail
	}
	return recipients, nil
}

func buildFromAddress(from, name string) string {
	if strings.TrimSpace(name) == "" {
		return from
	}
	encoded := mime.QEncoding.Encode("UTF-8", name)
	return (&mail.Address{Name: encoded, Address: from}).String()
}

func buildEmailMessage(from string, to []string, subject, body string) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("From: %s\r\n", from))
	buf.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(to, ", ")))
	buf.WriteString(fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject)))
	buf.WriteString(fmt.Sprintf("Date: %s\r\n", time.Now().Format(time.RFC1123Z)))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	buf.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return buf.String()
}

func dialContext(ctx context.Context, addr string) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: smtpDialTimeout}
	return dialer.DialContext(ctx, "tcp", addr)
}

func sendMailWithSSL(ctx context.Context, addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: smtpDialTimeout},
		Config:    &tls.Config{ServerName: host},
	}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	client, err := smtp.NewClient(conn, host)
	if err != nil {
		conn.Close()
		return err
	}
	defer client.Close()
	return authenticateAndSend(client, auth, from, to, msg)
}

func sendMailWithStartTLS(ctx context.Context, addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	conn, err := dialContext(ctx, addr)
	if err != nil {
		return err
	}
	client, err := smtp.NewClient(conn, host)
	if err != nil {
		conn.Close()
		return err
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{ServerName: host}); err != nil {
		return err
	}
	return authenticateAndSend(client, auth, from, to, msg)
}

func sendMailPlain(ctx context.Context, addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	conn, err := dialContext(ctx, addr)
	if err != nil {
		return err
	}
	client, err := smtp.NewClient(conn, host)
	if err != nil {
		conn.Close()
		return err
	}
	defer client.Close()
	return authenticateAndSend(client, auth, from, to, msg)
}

func authenticateAndSend(client *smtp.Client, auth smtp.Auth, from string, to []string, msg []byte) error {
	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}
	if err := client.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func normalizeEmailSendError(err error) error {
	if err == nil {
		return nil
	}
	if isEmailRecipientRejected(err) {
		return fmt.Errorf("%w: %v", ErrEmailRecipientRejected, err)
	}
	return err
}

func isEmailRecipientRejected(err error) bool {
	if err == nil {
		return false
	}
	message := strings.ToLower(strings.TrimSpace(err.Error()))
	if message == "" {
		return false
	}
	directKeywords := []string{
		"no such recipient",
		"no such user",
		"recipient not found",
		"recipient address rejected",
		"invalid recipient",
		"user unknown",
		"unknown user",
		"unknown mailbox",
		"mailbox unavailable",
	}
	for _, keyword := range directKeywords {
		if strings.Contains(message, keyword) {
			return true
		}
	}
	if strings.Contains(message, "550") {
		for _, hint := range []string{"recipient", "user", "mailbox", "address", "rcpt"} {
			if strings.Contains(message, hint) {
				return true
			}
		}
	}
	return false
}
