package mailservice

import (
	"errors"
	"sync"

	"github.com/go-mail/mail/v2"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/mock"
	"github.com/sushihentaime/quillpost/internal/common"
)

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(name string, data any) (*Rendered, error) {
	args := m.Called(name, data)
	return args.Get(0).(*Rendered), args.Error(1)
}

type MockDialer struct {
	mock.Mock
}

func (d *MockDialer) DialAndSend(m ...*mail.Message) error {
	args := d.Called(m)
	return args.Error(0)
}

// MockMailer records recipients. The first `failures` sends return an error.
type MockMailer struct {
	mu         sync.Mutex
	failures   int
	attempts   int
	recipients []string
}

func (m *MockMailer) send(recipient, templateName string, data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.attempts++
	if m.attempts <= m.failures {
		return errors.New("smtp unavailable")
	}

	m.recipients = append(m.recipients, recipient)
	return nil
}

func (m *MockMailer) Recipients() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]string(nil), m.recipients...)
}

func (m *MockMailer) Attempts() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.attempts
}

// MockAcknowledger counts acknowledged deliveries.
type MockAcknowledger struct {
	mu    sync.Mutex
	acked int
}

func (a *MockAcknowledger) Ack(tag uint64, multiple bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.acked++
	return nil
}

func (a *MockAcknowledger) Nack(tag uint64, multiple, requeue bool) error { return nil }

func (a *MockAcknowledger) Reject(tag uint64, requeue bool) error { return nil }

func (a *MockAcknowledger) Acked() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.acked
}

// MockMessageConsumer delivers the given bodies once, then closes the channel.
type MockMessageConsumer struct {
	mock.Mock
	Bodies [][]byte
	Ack    amqp.Acknowledger
}

func (m *MockMessageConsumer) Consume(key common.BindingKey, exchange common.Exchange, queue common.Queue) (<-chan amqp.Delivery, error) {
	args := m.Called(key, exchange, queue)
	if err := args.Error(0); err != nil {
		return nil, err
	}

	msgsChan := make(chan amqp.Delivery)

	go func() {
		defer close(msgsChan)

		for _, body := range m.Bodies {
			msgsChan <- amqp.Delivery{Acknowledger: m.Ack, Body: body}
		}
	}()

	return msgsChan, nil
}
