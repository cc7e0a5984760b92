package mailservice

import (
	"errors"
	"testing"

	"github.com/go-mail/mail/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/sushihentaime/quillpost/internal/common"
)

func commonEvent(email, name string) common.UserCreatedEvent {
	return common.UserCreatedEvent{Email: email, Name: name}
}

func TestSendEmail(t *testing.T) {
	mockRenderer := new(MockRenderer)
	mockDialer := new(MockDialer)

	mailer := Mail{
		dialer:   mockDialer,
		renderer: mockRenderer,
		sender:   "Quillpost <no-reply@quillpost.test>",
	}

	data := WelcomeData{Name: "Test", Email: "test@example.com"}
	mockRenderer.On("Render", welcomeTemplate, data).Return(&Rendered{
		Subject: "Test Subject",
		Plain:   "Test Plain Body",
		HTML:    "<p>Test HTML Body</p>",
	}, nil)

	mockDialer.On("DialAndSend", mock.MatchedBy(func(msgs []*mail.Message) bool {
		if len(msgs) != 1 {
			return false
		}
		m := msgs[0]
		return assert.ObjectsAreEqual([]string{"test@example.com"}, m.GetHeader("To")) &&
			assert.ObjectsAreEqual([]string{"Test Subject"}, m.GetHeader("Subject")) &&
			assert.ObjectsAreEqual([]string{mailer.sender}, m.GetHeader("From"))
	})).Return(nil)

	err := mailer.send("test@example.com", welcomeTemplate, data)
	assert.NoError(t, err)

	mockRenderer.AssertExpectations(t)
	mockDialer.AssertExpectations(t)
}

func TestSendEmailRenderFailure(t *testing.T) {
	mockRenderer := new(MockRenderer)
	mockDialer := new(MockDialer)

	mailer := Mail{dialer: mockDialer, renderer: mockRenderer, sender: "no-reply@quillpost.test"}
	mockRenderer.On("Render", "missing.html", nil).Return((*Rendered)(nil), errors.New("unknown mail template"))

	err := mailer.send("test@example.com", "missing.html", nil)
	assert.Error(t, err)
	mockDialer.AssertNotCalled(t, "DialAndSend", mock.Anything)
}
