// Package service holds the business rules that sit between the HTTP
// handlers and the Mongo repositories: role resolution, ownership checks,
// enrollment and the two-phase payment flow.
package service

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrForbidden        = errors.New("forbidden access")
	ErrInvalidID        = errors.New("invalid id")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidInput     = errors.New("invalid input")
	ErrNoSeatsAvailable = errors.New("no seats available")
	ErrUserExists       = errors.New("user already exists")
)

// Notifier sends an HTML email. *utils.Mailer satisfies it.
type Notifier interface {
	SendEmail(to string, subject string, body string) error
}

// PaymentProvider creates payment intents. *payment.StripeClient satisfies it.
type PaymentProvider interface {
	CreatePaymentIntent(ctx context.Context, amount int64, currency string) (string, error)
}

func parseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, errors.Wrapf(ErrInvalidID, "%q", hex)
	}
	return id, nil
}
