package mailer

import (
	"errors"
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
)

var ErrNotConfigured = errors.New("smtp is not configured")

type IEmailService interface {
	Configured() bool
	SendCalendarLink(toEmail, authURL, note string) error
}

// Sender abstracts gomail's dialer so tests can capture messages.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type emailService struct {
	sender      Sender
	host        string
	senderEmail string
	senderName  string
}

func NewEmailService(host string, port int, username, password, senderName string) IEmailService {
	return &emailService{
		sender:      gomail.NewDialer(host, port, username, password),
		host:        host,
		senderEmail: username,
		senderName:  senderName,
	}
}

// NewEmailServiceWithSender is used by tests and by callers with their own transport.
func NewEmailServiceWithSender(sender Sender, senderEmail, senderName string) IEmailService {
	return &emailService{sender: sender, host: "custom", senderEmail: senderEmail, senderName: senderName}
}

func (s *emailService) Configured() bool {
	return s.host != "" && s.senderEmail != ""
}

func (s *emailService) SendCalendarLink(toEmail, authURL, note string) error {
	if !s.Configured() {
		return ErrNotConfigured
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Connect your Google Calendar")

	if note == "" {
		note = "Untuk menyambungkan Google Calendar Anda, silakan klik tombol di bawah."
	}
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Haruhi Agent</h2>
			<p>%s</p>
			<a href="%s" style="background-color: #0D8ABC; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Hubungkan Google Calendar</a>
			<p>Atau salin tautan ini:</p>
			<p>%s</p>
		</div>
	`, html.EscapeString(note), html.EscapeString(authURL), html.EscapeString(authURL))

	m.SetBody("text/html", body)
	m.AddAlternative("text/plain", note+"\n\n"+authURL)

	if err := s.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("send calendar link to %s: %w", toEmail, err)
	}
	return nil
}
