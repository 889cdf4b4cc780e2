package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/tajkir-alam/music-camp-server/internal/metrics"
	"github.com/tajkir-alam/music-camp-server/internal/models"
	"github.com/tajkir-alam/music-camp-server/internal/repository"
)

type PaymentService struct {
	payments repository.PaymentRepository
	carts    repository.CartRepository
	provider PaymentProvider
	notifier Notifier
	currency string
	logger   *logrus.Logger
	now      func() time.Time
}

func NewPaymentService(
	payments repository.PaymentRepository,
	carts repository.CartRepository,
	provider PaymentProvider,
	notifier Notifier,
	currency string,
	logger *logrus.Logger,
) *PaymentService {
	return &PaymentService{
		payments: payments,
		carts:    carts,
		provider: provider,
		notifier: notifier,
		currency: currency,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateIntent converts price to the smallest currency unit and asks the
// provider for a client secret.
func (s *PaymentService) CreateIntent(ctx context.Context, price float64) (string, error) {
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return "", errors.Wrap(ErrInvalidInput, "price must be positive")
	}
	amount := int64(math.Round(price * 100))
	return s.provider.CreatePaymentIntent(ctx, amount, s.currency)
}

// Record stores a completed payment for the caller and then deletes the cart
// rows it paid for. The two writes are not atomic: the payment is inserted
// with cartCleared=false and only flagged once the delete succeeded, so
// ReconcileCarts can finish any payment left half done.
func (s *PaymentService) Record(ctx context.Context, req models.RecordPaymentRequest, callerEmail string) (models.RecordPaymentResponse, error) {
	var resp models.RecordPaymentResponse

	payment := &models.Payment{
		CustomerEmail: callerEmail,
		Amount:        req.Amount,
		TransactionID: req.TransactionID,
		Date:          s.now(),
	}
	if req.CartID != "" {
		id, err := parseID(req.CartID)
		if err != nil {
			return resp, err
		}
		payment.CartID = id
	}
	for _, hex := range req.CartItems {
		id, err := parseID(hex)
		if err != nil {
			return resp, err
		}
		payment.CartItems = append(payment.CartItems, id)
	}
	if len(payment.CartIDs()) == 0 {
		return resp, errors.Wrap(ErrInvalidInput, "cartId is required")
	}

	inserted, err := s.payments.Create(ctx, payment)
	if err != nil {
		return resp, err
	}
	resp.InsertResult = inserted

	deleted, err := s.carts.DeleteOwned(ctx, callerEmail, payment.CartIDs()...)
	if err != nil {
		metrics.PaymentsTotal.WithLabelValues("pending").Inc()
		s.logger.WithError(err).WithField("payment_id", payment.ID.Hex()).Warn("payment recorded, cart cleanup deferred to reconciler")
		return resp, nil
	}
	resp.DeleteResult = deleted

	if err := s.payments.MarkCartCleared(ctx, payment.ID); err != nil {
		s.logger.WithError(err).WithField("payment_id", payment.ID.Hex()).Warn("cart cleared but payment flag not updated")
	}
	metrics.PaymentsTotal.WithLabelValues("cleared").Inc()

	go s.sendReceipt(*payment)
	return resp, nil
}

func (s *PaymentService) sendReceipt(payment models.Payment) {
	subject := "Your Music Camp payment receipt"
	body := fmt.Sprintf(`<p>Thank you for your purchase.</p><p>Amount: <strong>%.2f %s</strong><br>Transaction: %s<br>Date: %s</p>`,
		payment.Amount, s.currency, payment.TransactionID, payment.Date.Format(time.RFC1123))
	if err := s.notifier.SendEmail(payment.CustomerEmail, subject, body); err != nil {
		s.logger.WithError(err).WithField("payment_id", payment.ID.Hex()).Warn("receipt not delivered")
	}
}

// List returns the payments of queryEmail, which must be the caller's own.
func (s *PaymentService) List(ctx context.Context, queryEmail, callerEmail string, newestFirst bool) ([]models.Payment, error) {
	if queryEmail == "" {
		return []models.Payment{}, nil
	}
	if queryEmail != callerEmail {
		return nil, ErrForbidden
	}
	return s.payments.ListByEmail(ctx, callerEmail, newestFirst)
}

// ReconcileCarts repeats the cart delete for payments older than grace that
// never got flagged cartCleared. Deleting is keyed by the payment's own cart
// ids, so running it twice is harmless.
func (s *PaymentService) ReconcileCarts(ctx context.Context, grace time.Duration) (int, error) {
	pending, err := s.payments.ListUncleared(ctx, s.now().Add(-grace))
	if err != nil {
		return 0, err
	}

	var firstErr error
	cleared := 0
	for _, p := range pending {
		if err := s.clearCart(ctx, p); err != nil {
			s.logger.WithError(err).WithField("payment_id", p.ID.Hex()).Warn("reconcile failed")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		cleared++
	}
	metrics.ReconciledCarts.Add(float64(cleared))
	return cleared, firstErr
}

func (s *PaymentService) clearCart(ctx context.Context, p models.Payment) error {
	if _, err := s.carts.DeleteOwned(ctx, p.CustomerEmail, p.CartIDs()...); err != nil {
		return err
	}
	return s.payments.MarkCartCleared(ctx, p.ID)
}
