package payment

import (
	"context"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/tajkir-alam/music-camp-server/internal/config"
)

// ErrProvider wraps every failure talking to the payment provider.
var ErrProvider = errors.New("payment provider error")

type intentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
}

type stripeError struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// StripeClient creates card PaymentIntents through the Stripe REST API.
type StripeClient struct {
	http *resty.Client
}

func NewStripeClient(cfg config.StripeConfig) *StripeClient {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.SecretKey).
		SetTimeout(15*time.Second).
		SetHeader("Accept", "application/json")
	return &StripeClient{http: client}
}

// CreatePaymentIntent returns the client secret of a new intent for amount,
// given in the smallest unit of currency.
func (c *StripeClient) CreatePaymentIntent(ctx context.Context, amount int64, currency string) (string, error) {
	if amount <= 0 {
		return "", errors.Wrapf(ErrProvider, "amount must be positive, got %d", amount)
	}

	var result intentResponse
	var apiErr stripeError
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Idempotency-Key", uuid.NewString()).
		SetFormData(map[string]string{
			"amount":                 strconv.FormatInt(amount, 10),
			"currency":               currency,
			"payment_method_types[]": "card",
		}).
		SetResult(&result).
		SetError(&apiErr).
		Post("/v1/payment_intents")
	if err != nil {
		return "", errors.Wrapf(ErrProvider, "request failed: %v", err)
	}
	if resp.IsError() {
		return "", errors.Wrapf(ErrProvider, "status %d: %s", resp.StatusCode(), apiErr.Error.Message)
	}
	if result.ClientSecret == "" {
		return "", errors.Wrap(ErrProvider, "response carried no client secret")
	}
	return result.ClientSecret, nil
}
