package smtp

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/authkit/authkit/internal/config"
	"github.com/authkit/authkit/internal/infrastructure/email"
)

// Notifier delivers auth emails through a plain SMTP relay. It is the
// fallback delivery path when no Resend API key is configured.
type Notifier struct {
	host     string
	port     string
	from     string
	username string
	password string
	appName  string
}

func NewNotifier(cfg *config.Config) *Notifier {
	return &Notifier{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		from:     cfg.SMTPFrom,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		appName:  cfg.AppName,
	}
}

func (n *Notifier) SendVerificationEmail(_ context.Context, to, token, baseURL string) error {
	subject, html := email.Verification(n.appName, token, baseURL)
	return n.send(to, subject, html)
}

func (n *Notifier) SendPasswordResetEmail(_ context.Context, to, token, baseURL string) error {
	subject, html := email.PasswordReset(n.appName, token, baseURL)
	return n.send(to, subject, html)
}

func (n *Notifier) send(to, subject, html string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		n.from, to, subject, html)
	addr := fmt.Sprintf("%s:%s", n.host, n.port)

	var auth smtp.Auth
	if n.username != "" {
		auth = smtp.PlainAuth("", n.username, n.password, n.host)
	}

	return smtp.SendMail(addr, auth, n.from, []string{to}, []byte(msg))
}
