package mailservice

import (
	"time"

	"github.com/go-mail/mail/v2"
)

func NewMailer(cfg SMTPConfig, r Renderer) *Mail {
	dialer := mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	dialer.Timeout = 5 * time.Second

	return &Mail{
		dialer:   dialer,
		sender:   cfg.Sender,
		renderer: r,
	}
}

func (m *Mail) message(recipient string, r *Rendered) *mail.Message {
	msg := mail.NewMessage()
	msg.SetHeader("From", m.sender)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", r.Subject)
	msg.SetBody("text/plain", r.Plain)
	msg.AddAlternative("text/html", r.HTML)
	return msg
}

// send renders templateName and delivers it. Nothing is dialed when rendering fails.
func (m *Mail) send(recipient, templateName string, data any) error {
	r, err := m.renderer.Render(templateName, data)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.dialer.DialAndSend(m.message(recipient, r))
}
