package mailservice

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/sushihentaime/quillpost/internal/common"
)

func newTestMailService(mc common.MessageConsumer, m Mailer) *MailService {
	ctx, cancel := context.WithCancel(context.Background())

	return &MailService{
		mb:     mc,
		m:      m,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		ctx:    ctx,
		cancel: cancel,
	}
}

func TestSendWelcomeEmail(t *testing.T) {
	testCases := []struct {
		name         string
		bodies       [][]byte
		failures     int
		wantTo       []string
		wantAttempts int
	}{
		{
			name:         "delivered",
			bodies:       [][]byte{[]byte(`{"Email": "alice@x.com", "Name": "Alice"}`)},
			wantTo:       []string{"alice@x.com"},
			wantAttempts: 1,
		},
		{
			name:         "retried after a failure",
			bodies:       [][]byte{[]byte(`{"Email": "bob@x.com", "Name": "Bob"}`)},
			failures:     1,
			wantTo:       []string{"bob@x.com"},
			wantAttempts: 2,
		},
		{
			name:         "malformed body is dropped",
			bodies:       [][]byte{[]byte(`not json`), []byte(`{"Email": "carol@x.com", "Name": "Carol"}`)},
			wantTo:       []string{"carol@x.com"},
			wantAttempts: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ack := &MockAcknowledger{}
			mockMC := &MockMessageConsumer{Bodies: tc.bodies, Ack: ack}
			mockMC.On("Consume", common.UserCreatedKey, common.UserExchange, common.UserCreatedQueue).Return(nil)
			mockMailer := &MockMailer{failures: tc.failures}

			s := newTestMailService(mockMC, mockMailer)
			t.Cleanup(s.Close)

			s.SendWelcomeEmail()

			assert.Eventually(t, func() bool {
				return ack.Acked() == len(tc.bodies)
			}, 5*time.Second, 10*time.Millisecond)

			assert.Equal(t, tc.wantTo, mockMailer.Recipients())
			assert.Equal(t, tc.wantAttempts, mockMailer.Attempts())
			mockMC.AssertExpectations(t)
		})
	}
}

func TestSendWelcomeEmailConsumeError(t *testing.T) {
	mockMC := &MockMessageConsumer{}
	mockMC.On("Consume", common.UserCreatedKey, common.UserExchange, common.UserCreatedQueue).Return(errors.New("channel closed"))
	mockMailer := &MockMailer{}

	s := newTestMailService(mockMC, mockMailer)
	defer s.Close()

	s.SendWelcomeEmail()

	assert.Equal(t, 0, mockMailer.Attempts())
	mockMC.AssertExpectations(t)
}
