// Package stripepay implements ports.PaymentProvider on Stripe
// PaymentIntents and Stripe-signed webhooks.
package stripepay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"laundry/internal/core/ports"
	"laundry/internal/pkg/breaker"
	"laundry/internal/pkg/errs"

	"github.com/sony/gobreaker"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

const (
	serviceName     = "stripe"
	orderIDMetadata = "order_id"
)

// intentAPI is the subset of the PaymentIntents client used here.
type intentAPI interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	Get(id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

type Config struct {
	SecretKey     string
	WebhookSecret string
	Currency      string
}

// Provider talks to Stripe through a circuit breaker, so an outage fails
// fast instead of holding order row locks for the full client timeout.
type Provider struct {
	intents       intentAPI
	webhookSecret string
	currency      string
	cb            *gobreaker.CircuitBreaker
}

func NewProvider(cfg Config, logger *slog.Logger) (*Provider, error) {
	if cfg.SecretKey == "" {
		return nil, errs.NewValueIsRequiredError("stripe secret key")
	}
	sc := client.New(cfg.SecretKey, nil)
	return newProvider(sc.PaymentIntents, cfg, logger)
}

func newProvider(intents intentAPI, cfg Config, logger *slog.Logger) (*Provider, error) {
	if cfg.WebhookSecret == "" {
		return nil, errs.NewValueIsRequiredError("stripe webhook secret")
	}
	currency := cfg.Currency
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}

	return &Provider{
		intents:       intents,
		webhookSecret: cfg.WebhookSecret,
		currency:      currency,
		cb:            breaker.New("Stripe", 30*time.Second, logger, breaker.IgnoreErrors(isRequestError)),
	}, nil
}

// CreateIntent creates a PaymentIntent tagged with the order id. Stripe
// returns the original intent when the idempotency key is reused.
func (p *Provider) CreateIntent(ctx context.Context, req ports.CreatePaymentIntentRequest) (ports.PaymentIntent, error) {
	if req.AmountCents <= 0 {
		return ports.PaymentIntent{}, errs.NewValueIsInvalidError("payment amount")
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.AmountCents),
		Currency: stripe.String(p.currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata(orderIDMetadata, req.OrderID.String())
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	return p.call(func() (*stripe.PaymentIntent, error) {
		return p.intents.New(params)
	})
}

func (p *Provider) RetrieveIntent(ctx context.Context, intentID string) (ports.PaymentIntent, error) {
	if intentID == "" {
		return ports.PaymentIntent{}, errs.NewValueIsRequiredError("payment intent id")
	}

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	return p.call(func() (*stripe.PaymentIntent, error) {
		return p.intents.Get(intentID, params)
	})
}

func (p *Provider) call(fn func() (*stripe.PaymentIntent, error)) (ports.PaymentIntent, error) {
	result, err := p.cb.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		return ports.PaymentIntent{}, errs.NewExternalServiceError(serviceName, err)
	}

	pi, ok := result.(*stripe.PaymentIntent)
	if !ok || pi == nil {
		return ports.PaymentIntent{}, errs.NewExternalServiceError(serviceName, errors.New("empty payment intent response"))
	}
	return toIntent(pi), nil
}

// isRequestError matches Stripe rejections of the request itself (bad
// amount, reused idempotency key, unknown intent). They say nothing about
// Stripe's availability; rate limiting does and still counts.
func isRequestError(err error) bool {
	var se *stripe.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.HTTPStatusCode >= 400 && se.HTTPStatusCode < 500 &&
		se.HTTPStatusCode != http.StatusTooManyRequests
}

// ParseEvent verifies the Stripe-Signature header. Events produced by a
// newer API version are accepted; only the intent fields used here are read.
func (p *Provider) ParseEvent(payload []byte, signature string) (ports.PaymentEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, p.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return ports.PaymentEvent{}, fmt.Errorf("%w: %w", ports.ErrInvalidSignature, err)
	}

	parsed := ports.PaymentEvent{ID: event.ID, Type: string(event.Type)}
	if event.Data == nil || len(event.Data.Raw) == 0 {
		return parsed, nil
	}

	if event.Type == stripe.EventTypePaymentIntentSucceeded ||
		event.Type == stripe.EventTypePaymentIntentPaymentFailed ||
		event.Type == stripe.EventTypePaymentIntentCanceled {
		var pi stripe.PaymentIntent
		if err = json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return ports.PaymentEvent{}, errs.NewValueIsInvalidErrorWithCause("webhook payload", err)
		}
		parsed.Intent = toIntent(&pi)
	}

	return parsed, nil
}

func toIntent(pi *stripe.PaymentIntent) ports.PaymentIntent {
	return ports.PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
		AmountCents:  pi.Amount,
		Currency:     string(pi.Currency),
		OrderID:      pi.Metadata[orderIDMetadata],
	}
}
