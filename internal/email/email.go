package email

import (
	"fmt"
	"net/smtp"
)

type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// SendText sends a plain-text mail. When Host is empty the send is skipped,
// so dev setups without SMTP keep working.
func SendText(cfg SMTPConfig, to, subject, body string) error {
	if cfg.Host == "" {
		return nil
	}

	msg := []byte("From: " + cfg.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" +
		body)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	var a smtp.Auth
	if cfg.User != "" {
		a = smtp.PlainAuth("", cfg.User, cfg.Pass, cfg.Host)
	}
	return smtp.SendMail(addr, a, cfg.From, []string{to}, msg)
}
