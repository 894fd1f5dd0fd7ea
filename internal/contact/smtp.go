package contact

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPRelay mails messages to the site owner through an SMTP server.
type SMTPRelay struct {
	Host string
	Port string
	User string
	Pass string
	To   string

	// send is smtp.SendMail; swapped in tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPRelay(host, port, user, pass, to string) *SMTPRelay {
	return &SMTPRelay{Host: host, Port: port, User: user, Pass: pass, To: to, send: smtp.SendMail}
}

func (r *SMTPRelay) Send(ctx context.Context, msg Message) error {
	if r.User == "" || r.Pass == "" {
		return fmt.Errorf("SMTP credentials not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	auth := smtp.PlainAuth("", r.User, r.Pass, r.Host)
	err := r.send(r.Host+":"+r.Port, auth, r.User, []string{r.To}, r.compose(msg))
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

func (r *SMTPRelay) compose(msg Message) []byte {
	name := headerSafe(msg.Name)
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, msg.Name, msg.Email, msg.Message)

	return []byte("To: " + r.To + "\r\n" +
		"Subject: Portfolio Contact: " + name + "\r\n" +
		"From: " + r.User + "\r\n" +
		"Reply-To: " + headerSafe(msg.Email) + "\r\n" +
		"\r\n" +
		body + "\r\n")
}

// headerSafe drops line breaks so a visitor cannot inject headers.
func headerSafe(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
