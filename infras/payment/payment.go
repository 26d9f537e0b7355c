package payment

//go:generate go run go.uber.org/mock/mockgen -source=./payment.go -destination=./mocks/payment_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tourbook/config"
	"tourbook/infras/metrics"
	"tourbook/infras/otel"
	"tourbook/shared/constant"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

const breakerName = "stripe"

const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
	StatusCanceled  = "canceled"
	StatusRefunded  = "refunded"
	StatusPending   = "requires_payment_method"
)

const (
	EventIntentSucceeded = "payment_intent.succeeded"
	EventIntentFailed    = "payment_intent.payment_failed"
	EventIntentCanceled  = "payment_intent.canceled"
	EventDisputeCreated  = "charge.dispute.created"
	EventRefundCreated   = "refund.created"
)

var (
	ErrWebhookSecretMissing = errors.New("webhook secret not configured")
	ErrInvalidSignature     = errors.New("invalid webhook signature")
	ErrUnavailable          = errors.New("payment gateway temporarily unavailable")
)

// DeclinedError carries the gateway's card error message verbatim.
type DeclinedError struct {
	Message string
}

func (e *DeclinedError) Error() string {
	return e.Message
}

// ProviderError is any other failed gateway call. Message is what the gateway reported.
type ProviderError struct {
	Message string
	err     error
}

func (e *ProviderError) Error() string {
	return "stripe: " + e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.err
}

type Intent struct {
	ID           string
	Status       string
	ClientSecret string
	Currency     string
	Amount       int64
	Metadata     map[string]string
}

type CreateIntentInput struct {
	Amount         int64
	Currency       string
	Metadata       map[string]string
	IdempotencyKey string
}

type Dispute struct {
	ID              string
	PaymentIntentID string
	Reason          string
}

type Refund struct {
	ID              string
	PaymentIntentID string
	Amount          int64
}

// Event is a verified webhook event. Exactly one of Intent, Dispute or Refund
// is set for the handled types; all three are nil otherwise.
type Event struct {
	ID      string
	Type    string
	Intent  *Intent
	Dispute *Dispute
	Refund  *Refund
}

type Gateway interface {
	CreateIntent(ctx context.Context, input CreateIntentInput) (*Intent, error)
	GetIntent(ctx context.Context, id string) (*Intent, error)
	ParseWebhook(payload []byte, signature string) (*Event, error)
}

// intentAPI is the subset of the Stripe payment intent client in use.
type intentAPI interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	Get(id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

type stripeGateway struct {
	intents       intentAPI
	webhookSecret string
	breaker       *gobreaker.CircuitBreaker[*stripe.PaymentIntent]
	otel          otel.Otel
}

func New(cfg *config.Config, ot otel.Otel) Gateway {
	sc := &client.API{}
	sc.Init(cfg.External.Stripe.SecretKey, nil)

	if cfg.External.Stripe.SecretKey == "" {
		log.Warn().Msg("Stripe secret key is empty, payment calls will fail")
	}

	return newGateway(sc.PaymentIntents, cfg, ot)
}

func newGateway(intents intentAPI, cfg *config.Config, ot otel.Otel) *stripeGateway {
	breakerCfg := cfg.External.Stripe.Breaker

	settings := gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: breakerCfg.MaxRequests,
		Interval:    time.Duration(breakerCfg.IntervalSeconds) * time.Second,
		Timeout:     time.Duration(breakerCfg.TimeoutSeconds) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerCfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("payment gateway circuit breaker changed state")
			metrics.SetCircuitBreakerState(name, int(to))
		},
		// Declines are answers, not outages.
		IsSuccessful: func(err error) bool {
			var declined *DeclinedError

			return err == nil || errors.As(err, &declined)
		},
	}

	return &stripeGateway{
		intents:       intents,
		webhookSecret: cfg.External.Stripe.WebhookSecret,
		breaker:       gobreaker.NewCircuitBreaker[*stripe.PaymentIntent](settings),
		otel:          ot,
	}
}

func (g *stripeGateway) CreateIntent(ctx context.Context, input CreateIntentInput) (intent *Intent, err error) {
	ctx, scope := g.otel.NewScope(ctx, constant.OtelPaymentScopeName, constant.OtelPaymentScopeName+".CreateIntent")
	defer func() {
		scope.TraceIfError(err)
		scope.End()
	}()

	scope.SetAttributes(map[string]any{
		"amount":   int(input.Amount),
		"currency": input.Currency,
	})

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(input.Amount),
		Currency: stripe.String(input.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx

	for k, v := range input.Metadata {
		params.AddMetadata(k, v)
	}

	if input.IdempotencyKey != "" {
		params.SetIdempotencyKey(input.IdempotencyKey)
	}

	pi, err := g.call("create_intent", func() (*stripe.PaymentIntent, error) {
		return g.intents.New(params)
	})
	if err != nil {
		return nil, err
	}

	return toIntent(pi), nil
}

func (g *stripeGateway) GetIntent(ctx context.Context, id string) (intent *Intent, err error) {
	ctx, scope := g.otel.NewScope(ctx, constant.OtelPaymentScopeName, constant.OtelPaymentScopeName+".GetIntent")
	defer func() {
		scope.TraceIfError(err)
		scope.End()
	}()

	scope.SetAttribute("payment_intent_id", id)

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := g.call("get_intent", func() (*stripe.PaymentIntent, error) {
		return g.intents.Get(id, params)
	})
	if err != nil {
		return nil, err
	}

	return toIntent(pi), nil
}

// call runs fn through the breaker and normalises Stripe errors.
func (g *stripeGateway) call(operation string, fn func() (*stripe.PaymentIntent, error)) (*stripe.PaymentIntent, error) {
	start := time.Now()

	pi, err := g.breaker.Execute(func() (*stripe.PaymentIntent, error) {
		res, callErr := fn()
		if callErr != nil {
			return nil, classify(callErr)
		}

		return res, nil
	})

	metrics.RecordGatewayCall(operation, time.Since(start), err)

	if err == nil {
		return pi, nil
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		log.Warn().Err(err).Str("operation", operation).Msg("payment gateway short-circuited")

		return nil, ErrUnavailable
	}

	log.Error().Err(err).Str("operation", operation).Msg("payment gateway call failed")

	return nil, err
}

func classify(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Type == stripe.ErrorTypeCard {
		return &DeclinedError{Message: stripeErr.Msg}
	}

	if stripeErr != nil && stripeErr.Msg != "" {
		return &ProviderError{Message: stripeErr.Msg, err: err}
	}

	return &ProviderError{Message: err.Error(), err: err}
}

func (g *stripeGateway) ParseWebhook(payload []byte, signature string) (*Event, error) {
	if g.webhookSecret == "" {
		return nil, ErrWebhookSecretMissing
	}

	evt, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		log.Warn().Err(err).Msg("webhook signature verification failed")

		return nil, ErrInvalidSignature
	}

	out := &Event{ID: evt.ID, Type: string(evt.Type)}

	if evt.Data == nil {
		return out, nil
	}

	switch out.Type {
	case EventIntentSucceeded, EventIntentFailed, EventIntentCanceled:
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(evt.Data.Raw, &pi); err != nil {
			return nil, fmt.Errorf("failed to decode payment intent: %w", err)
		}

		out.Intent = toIntent(&pi)
	case EventDisputeCreated:
		var dispute stripe.Dispute
		if err := json.Unmarshal(evt.Data.Raw, &dispute); err != nil {
			return nil, fmt.Errorf("failed to decode dispute: %w", err)
		}

		out.Dispute = &Dispute{ID: dispute.ID, Reason: string(dispute.Reason)}
		if dispute.PaymentIntent != nil {
			out.Dispute.PaymentIntentID = dispute.PaymentIntent.ID
		}
	case EventRefundCreated:
		var refund stripe.Refund
		if err := json.Unmarshal(evt.Data.Raw, &refund); err != nil {
			return nil, fmt.Errorf("failed to decode refund: %w", err)
		}

		out.Refund = &Refund{ID: refund.ID, Amount: refund.Amount}
		if refund.PaymentIntent != nil {
			out.Refund.PaymentIntentID = refund.PaymentIntent.ID
		}
	}

	return out, nil
}

func toIntent(pi *stripe.PaymentIntent) *Intent {
	if pi == nil {
		return nil
	}

	return &Intent{
		ID:           pi.ID,
		Status:       string(pi.Status),
		ClientSecret: pi.ClientSecret,
		Currency:     string(pi.Currency),
		Amount:       pi.Amount,
		Metadata:     pi.Metadata,
	}
}
