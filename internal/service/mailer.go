package service

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer sends transactional mail. The surface is deliberately tiny; mail
// delivery is never on a request's critical path.
type Mailer interface {
	SendWelcome(ctx context.Context, to string, name string) error
}

type NoopMailer struct{}

func (NoopMailer) SendWelcome(context.Context, string, string) error { return nil }

type SMTPMailer struct {
	addr string
	auth smtp.Auth
	from string
}

func NewSMTPMailer(host string, port int, user string, pass string, from string) *SMTPMailer {
	var auth smtp.Auth
	if user != "" {
		auth = smtp.PlainAuth("", user, pass, host)
	}

	return &SMTPMailer{
		addr: fmt.Sprintf("%s:%d", host, port),
		auth: auth,
		from: from,
	}
}

func (m *SMTPMailer) SendWelcome(_ context.Context, to string, name string) error {
	if strings.TrimSpace(name) == "" {
		name = "Sakhi"
	}

	body := fmt.Sprintf("Hello %s!\r\n\r\n"+
		"Welcome to Sakhi Junction, your safe space for wellness and community.\r\n"+
		"You can now join discussions, track your cycle and wellness goals, and\r\n"+
		"chat with other women in a judgment-free environment.\r\n\r\n"+
		"With care,\r\nThe Sakhi Junction team\r\n", name)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Welcome to Sakhi Junction!\r\n\r\n%s",
		m.from, to, body)

	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send welcome mail: %w", err)
	}
	return nil
}
