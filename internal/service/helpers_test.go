package service

import (
	"context"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
)

type sentEmail struct {
	To      string
	Subject string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentEmail
}

func (n *fakeNotifier) SendEmail(to string, subject string, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentEmail{To: to, Subject: subject})
	return nil
}

func (n *fakeNotifier) Sent() []sentEmail {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentEmail(nil), n.sent...)
}

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) CreatePaymentIntent(ctx context.Context, amount int64, currency string) (string, error) {
	args := m.Called(ctx, amount, currency)
	return args.String(0), args.Error(1)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
