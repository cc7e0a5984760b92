package mailservice

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/sushihentaime/quillpost/internal/common"
	"golang.org/x/exp/rand"
)

const welcomeTemplate = "welcome_email.html"

func NewMailService(mb common.MessageConsumer, cfg SMTPConfig, logger *slog.Logger) (*MailService, error) {
	templates, err := NewTemplates()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &MailService{
		mb:     mb,
		m:      NewMailer(cfg, templates),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// welcomeData greets users who registered without a name by the local part of their address.
func welcomeData(event common.UserCreatedEvent) WelcomeData {
	name := strings.TrimSpace(event.Name)
	if name == "" {
		name, _, _ = strings.Cut(event.Email, "@")
	}
	return WelcomeData{Name: name, Email: event.Email}
}

// SendWelcomeEmail consumes user.created events and mails every new user. Failed sends are retried
// with exponential backoff and jitter. Messages are acknowledged either way.
func (s *MailService) SendWelcomeEmail() {
	msgs, err := s.mb.Consume(common.UserCreatedKey, common.UserExchange, common.UserCreatedQueue)
	if err != nil {
		s.logger.Error("could not consume message", slog.String("error", err.Error()))
		return
	}

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}

				var event common.UserCreatedEvent
				if err := json.Unmarshal(msg.Body, &event); err != nil {
					s.logger.Error("could not unmarshal message", slog.String("error", err.Error()))
					msg.Ack(false)
					continue
				}

				s.deliver(event)
				msg.Ack(false)

			case <-s.ctx.Done():
				s.logger.Info("stopping SendWelcomeEmail due to context cancellation")
				return
			}
		}
	}()
}

func (s *MailService) deliver(event common.UserCreatedEvent) {
	const maxRetries = 5
	const baseDelay = 500 * time.Millisecond

	for attempt := 0; attempt < maxRetries; attempt++ {
		err := s.m.send(event.Email, welcomeTemplate, welcomeData(event))
		if err == nil {
			s.logger.Info("welcome email sent", slog.String("email", event.Email))
			return
		}

		delay := time.Duration(rand.Int63n(int64(baseDelay) << uint(attempt)))
		s.logger.Info("delaying welcome email", slog.String("email", event.Email), slog.Int("attempt", attempt), slog.Duration("delay", delay), slog.String("error", err.Error()))

		select {
		case <-time.After(delay):
		case <-s.ctx.Done():
			return
		}
	}

	s.logger.Error("could not send welcome email", slog.String("email", event.Email))
}

func (s *MailService) Close() {
	s.cancel()
}
