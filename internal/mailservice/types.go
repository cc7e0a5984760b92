package mailservice

import (
	"context"
	"html/template"
	"log/slog"
	"sync"

	"github.com/go-mail/mail/v2"

	"github.com/sushihentaime/quillpost/internal/common"
)

type MailService struct {
	mb     common.MessageConsumer
	m      Mailer
	logger *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Sender   string
}

type Mail struct {
	mu       sync.Mutex
	dialer   Dialer
	renderer Renderer
	sender   string
}

type Mailer interface {
	send(recipient, templateName string, data any) error
}

type Dialer interface {
	DialAndSend(m ...*mail.Message) error
}

// Rendered is one mail template executed against its data.
type Rendered struct {
	Subject string
	Plain   string
	HTML    string
}

type Renderer interface {
	Render(name string, data any) (*Rendered, error)
}

// Templates holds every embedded mail template, keyed by file name.
type Templates struct {
	set map[string]*template.Template
}

// WelcomeData is what the welcome mail is rendered with.
type WelcomeData struct {
	Name  string
	Email string
}
