package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/turfnote/turfapi/models"
)

// EmailSender delivers notifications over plain SMTP. Users without an
// email address are skipped silently.
type EmailSender struct {
	host string
	port string
	from string
}

// NewEmailSender builds an EmailSender, or a nil Sender when no host is
// configured (the channel is then simply absent).
func NewEmailSender(host, port, from string) Sender {
	if host == "" || from == "" {
		return nil
	}
	return &EmailSender{host: host, port: port, from: from}
}

func (e *EmailSender) Name() string { return "email" }

// Send mails title/body to the user's address.
func (e *EmailSender) Send(_ context.Context, user *models.User, title, body string, _ map[string]string) error {
	if user.Email == nil || *user.Email == "" {
		return nil
	}
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", e.from)
	fmt.Fprintf(&msg, "To: %s\r\n", *user.Email)
	fmt.Fprintf(&msg, "Subject: %s\r\n", title)
	msg.WriteString("\r\n")
	msg.WriteString(body)
	msg.WriteString("\r\n")

	addr := e.host + ":" + e.port
	return smtp.SendMail(addr, nil, e.from, []string{*user.Email}, []byte(msg.String()))
}
