package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"
)

type EmailOptions struct {
	Host     string   `json:"host"`
	Port     int      `json:"port"`
	Username string   `json:"username"`
	Password string   `json:"password"`
	From     string   `json:"from"`
	To       []string `json:"to"`
}

// Enabled reports whether enough is configured to send anything.
func (o EmailOptions) Enabled() bool {
	return o.Host != "" && o.From != "" && len(o.To) > 0
}

type sendFunc func(addr string, auth smtp.Auth, e *email.Email) error

// Email sends every message as its own plain text email over smtp.
type Email struct {
	opts EmailOptions
	send sendFunc
}

func NewEmail(opts EmailOptions) Email {
	if opts.Port == 0 {
		opts.Port = 587
	}
	return Email{
		opts: opts,
		send: func(addr string, auth smtp.Auth, e *email.Email) error {
			return e.Send(addr, auth)
		},
	}
}

func subjectOf(message string) string {
	subject, _, _ := strings.Cut(message, "\n")
	if len(subject) > 78 {
		subject = subject[:75] + "..."
	}
	return subject
}

func (e Email) compose(message string) *email.Email {
	out := email.NewEmail()
	out.From = e.opts.From
	out.To = e.opts.To
	out.Subject = subjectOf(message)
	out.Text = []byte(message)
	return out
}

func (e Email) Notify(ctx context.Context, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var auth smtp.Auth
	if e.opts.Username != "" {
		auth = smtp.PlainAuth("", e.opts.Username, e.opts.Password, e.opts.Host)
	}
	addr := fmt.Sprintf("%s:%d", e.opts.Host, e.opts.Port)
	err := e.send(addr, auth, e.compose(message))
	if err != nil {
		return fmt.Errorf("email: %w", err)
	}
	return nil
}
