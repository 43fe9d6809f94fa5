package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/researchdesk/researchdesk/internal/config"
	"github.com/researchdesk/researchdesk/internal/models"
)

// Mailer dispatches a single plain-text email.
type Mailer interface {
	Send(to, subject, body string) error
}

var (
	Default   Mailer = discardMailer{}
	clientURL string
)

// Init wires the SMTP dispatcher and the base URL used in account links.
func Init(cfg *config.Config) {
	Default = &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password),
		from:   cfg.SMTP.From,
	}
	clientURL = cfg.ClientURL
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	return m.dialer.DialAndSend(msg)
}

type discardMailer struct{}

func (discardMailer) Send(to, subject, body string) error { return nil }

func SendAccountActivation(user *models.User, uid, token string) error {
	link := fmt.Sprintf("%s/accounts/activate/%s/%s", clientURL, uid, token)
	body := fmt.Sprintf(
		"Hi %s,\n\nPlease activate your account by following this link:\n\n%s\n\nIf you did not register, you can ignore this email.\n",
		user.Name, link,
	)

	return Default.Send(user.Email, "Activate your account", body)
}

func SendPasswordReset(user *models.User, uid, token string) error {
	link := fmt.Sprintf("%s/accounts/reset-password/%s/%s", clientURL, uid, token)
	body := fmt.Sprintf(
		"Hi %s,\n\nYou requested a password reset. Follow this link to choose a new password:\n\n%s\n\nIf you did not request this, you can ignore this email.\n",
		user.Name, link,
	)

	return Default.Send(user.Email, "Reset your password", body)
}
