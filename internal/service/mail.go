package service

import (
	"errors"
	"fmt"

	"akshit029/vig-api/internal/model"

	"github.com/spf13/viper"
	"gopkg.in/gomail.v2"
)

// SendWelcomeMail greets a freshly registered user. Callers treat a
// failure as non-fatal, registration must not break because SMTP is down
func SendWelcomeMail(sendTo, name string) error {
	m := gomail.NewMessage()
	m.SetHeader("Subject", "Welcome to VIG")
	m.SetBody("text/html", fmt.Sprintf(
		"Hi %s,<br><br>Your account is ready and %d free credits are waiting for you. Generate your first voiceover or caption a video to try them out.",
		name, model.FreeCreditAmount))

	return send(m, sendTo)
}

// SendResetMail delivers the password reset link
func SendResetMail(sendTo, token string) error {
	m := gomail.NewMessage()
	m.SetHeader("Subject", "Reset your VIG password")
	m.SetBody("text/html", fmt.Sprintf(
		"Click <a href='%s/reset-password?token=%s'>here</a> to reset your password.<br><br>This link will expire in 1 hour. If you didn't request this you can ignore the email.",
		viper.GetString("host.frontend_url"), token))

	return send(m, sendTo)
}

func send(m *gomail.Message, sendTo string) error {
	from := viper.GetString("mail.sender_address")
	if from == "" {
		return errors.New("mail is not configured")
	}

	if sendTo == from {
		return errors.New("invalid email address")
	}

	m.SetHeader("From", from)
	m.SetHeader("To", sendTo)

	d := gomail.NewDialer(
		viper.GetString("mail.host"),
		viper.GetInt("mail.port"),
		from,
		viper.GetString("mail.password"),
	)

	return d.DialAndSend(m)
}
