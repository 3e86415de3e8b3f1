package mailer

import (
	"io"
	"strings"

	"gopkg.in/gomail.v2"
)

const attachmentName = "booking.ics"

// Message is one outbound email. Calendar, when non-empty, is attached as
// a text/calendar file named booking.ics.
type Message struct {
	From     string
	To       string
	Subject  string
	Body     string
	Calendar string
}

// Sender delivers a message. Implementations own all transport-level
// failure semantics; callers decide what a failed send means.
type Sender interface {
	Send(msg Message) error
}

// SMTPSender sends mail through a single SMTP account.
type SMTPSender struct {
	dialer *gomail.Dialer
}

func NewSMTP(host string, port int, username, password string) *SMTPSender {
	return &SMTPSender{dialer: gomail.NewDialer(host, port, username, password)}
}

func (s *SMTPSender) Send(msg Message) error {
	return s.dialer.DialAndSend(s.build(msg))
}

func (s *SMTPSender) build(msg Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)
	if msg.Calendar != "" {
		m.Attach(attachmentName,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := io.Copy(w, strings.NewReader(msg.Calendar))
				return err
			}),
			gomail.SetHeader(map[string][]string{
				"Content-Type": {`text/calendar; charset="utf-8"; method=REQUEST`},
			}),
		)
	}
	return m
}
