package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"tourbook/config"
	"tourbook/infras/otel/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
)

type fakeIntents struct {
	newFn func(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	getFn func(id string) (*stripe.PaymentIntent, error)
	calls int
}

func (f *fakeIntents) New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	f.calls++

	return f.newFn(params)
}

func (f *fakeIntents) Get(id string, _ *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	f.calls++

	return f.getFn(id)
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.External.Stripe.WebhookSecret = "whsec_test"
	cfg.External.Stripe.Breaker.MaxRequests = 1
	cfg.External.Stripe.Breaker.IntervalSeconds = 60
	cfg.External.Stripe.Breaker.TimeoutSeconds = 60
	cfg.External.Stripe.Breaker.FailureThreshold = 2

	return cfg
}

func TestCreateIntent(t *testing.T) {
	fake := &fakeIntents{
		newFn: func(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
			assert.Equal(t, int64(3000000), *params.Amount)
			assert.Equal(t, "lkr", *params.Currency)
			assert.Equal(t, "tour-1", params.Metadata["tour_id"])

			return &stripe.PaymentIntent{
				ID:           "pi_123",
				Status:       stripe.PaymentIntentStatusRequiresPaymentMethod,
				ClientSecret: "pi_123_secret",
				Amount:       3000000,
				Currency:     "lkr",
			}, nil
		},
	}

	gw := newGateway(fake, testConfig(), mocks.NewOtel())

	intent, err := gw.CreateIntent(context.Background(), CreateIntentInput{
		Amount:   3000000,
		Currency: "lkr",
		Metadata: map[string]string{"tour_id": "tour-1"},
	})

	require.NoError(t, err)
	assert.Equal(t, "pi_123", intent.ID)
	assert.Equal(t, "pi_123_secret", intent.ClientSecret)
	assert.Equal(t, StatusPending, intent.Status)
}

func TestCardDeclineDoesNotTripBreaker(t *testing.T) {
	fake := &fakeIntents{
		newFn: func(_ *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
			return nil, &stripe.Error{Type: stripe.ErrorTypeCard, Msg: "Your card was declined."}
		},
	}

	gw := newGateway(fake, testConfig(), mocks.NewOtel())

	for range 3 {
		_, err := gw.CreateIntent(context.Background(), CreateIntentInput{Amount: 100, Currency: "lkr"})

		var declined *DeclinedError
		require.ErrorAs(t, err, &declined)
		assert.Equal(t, "Your card was declined.", declined.Message)
	}

	assert.Equal(t, 3, fake.calls)
}

func TestBreakerOpensOnOutage(t *testing.T) {
	fake := &fakeIntents{
		getFn: func(_ string) (*stripe.PaymentIntent, error) {
			return nil, errors.New("connection reset")
		},
	}

	gw := newGateway(fake, testConfig(), mocks.NewOtel())

	for range 2 {
		_, err := gw.GetIntent(context.Background(), "pi_1")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrUnavailable)
	}

	_, err := gw.GetIntent(context.Background(), "pi_1")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 2, fake.calls, "open breaker short-circuits the call")
}

func TestOutageCarriesGatewayMessage(t *testing.T) {
	fake := &fakeIntents{
		newFn: func(_ *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
			return nil, &stripe.Error{Type: stripe.ErrorTypeAPI, Msg: "An unknown error occurred"}
		},
		getFn: func(_ string) (*stripe.PaymentIntent, error) {
			return nil, errors.New("connection reset")
		},
	}

	gw := newGateway(fake, testConfig(), mocks.NewOtel())

	_, err := gw.CreateIntent(context.Background(), CreateIntentInput{Amount: 100, Currency: "lkr"})

	var provider *ProviderError
	require.ErrorAs(t, err, &provider)
	assert.Equal(t, "An unknown error occurred", provider.Message)

	_, err = gw.GetIntent(context.Background(), "pi_1")
	require.ErrorAs(t, err, &provider)
	assert.Equal(t, "connection reset", provider.Message)
}

func signed(t *testing.T, secret, payload string) string {
	t.Helper()

	sp := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    secret,
		Timestamp: time.Now(),
	})

	return sp.Header
}

func TestParseWebhook(t *testing.T) {
	gw := newGateway(&fakeIntents{}, testConfig(), mocks.NewOtel())

	tests := []struct {
		name    string
		payload string
		check   func(t *testing.T, evt *Event)
	}{
		{
			name:    "intent succeeded",
			payload: `{"id":"evt_1","object":"event","type":"payment_intent.succeeded","data":{"object":{"id":"pi_9","object":"payment_intent","status":"succeeded","amount":500000}}}`,
			check: func(t *testing.T, evt *Event) {
				require.NotNil(t, evt.Intent)
				assert.Equal(t, "pi_9", evt.Intent.ID)
				assert.Equal(t, StatusSucceeded, evt.Intent.Status)
			},
		},
		{
			name:    "dispute created",
			payload: `{"id":"evt_2","object":"event","type":"charge.dispute.created","data":{"object":{"id":"dp_1","object":"dispute","reason":"fraudulent","payment_intent":"pi_9"}}}`,
			check: func(t *testing.T, evt *Event) {
				require.NotNil(t, evt.Dispute)
				assert.Equal(t, "pi_9", evt.Dispute.PaymentIntentID)
				assert.Equal(t, "fraudulent", evt.Dispute.Reason)
			},
		},
		{
			name:    "refund created",
			payload: `{"id":"evt_3","object":"event","type":"refund.created","data":{"object":{"id":"re_1","object":"refund","amount":1500000,"payment_intent":"pi_9"}}}`,
			check: func(t *testing.T, evt *Event) {
				require.NotNil(t, evt.Refund)
				assert.Equal(t, "pi_9", evt.Refund.PaymentIntentID)
				assert.Equal(t, int64(1500000), evt.Refund.Amount)
			},
		},
		{
			name:    "unhandled type",
			payload: `{"id":"evt_4","object":"event","type":"customer.created","data":{"object":{"id":"cus_1","object":"customer"}}}`,
			check: func(t *testing.T, evt *Event) {
				assert.Equal(t, "customer.created", evt.Type)
				assert.Nil(t, evt.Intent)
				assert.Nil(t, evt.Dispute)
				assert.Nil(t, evt.Refund)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evt, err := gw.ParseWebhook([]byte(tt.payload), signed(t, "whsec_test", tt.payload))
			require.NoError(t, err)
			tt.check(t, evt)
		})
	}
}

func TestParseWebhookRejects(t *testing.T) {
	payload := `{"id":"evt_1","object":"event","type":"payment_intent.succeeded","data":{"object":{"id":"pi_9"}}}`

	gw := newGateway(&fakeIntents{}, testConfig(), mocks.NewOtel())

	_, err := gw.ParseWebhook([]byte(payload), signed(t, "whsec_other", payload))
	assert.ErrorIs(t, err, ErrInvalidSignature)

	cfg := testConfig()
	cfg.External.Stripe.WebhookSecret = ""

	_, err = newGateway(&fakeIntents{}, cfg, mocks.NewOtel()).ParseWebhook([]byte(payload), "t=1,v1=abc")
	assert.ErrorIs(t, err, ErrWebhookSecretMissing)
}
