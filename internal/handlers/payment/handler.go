package payment

import (
	"io"
	"net/http"

	"tourbook/infras/otel"
	"tourbook/internal/domains/payment/model/dto"
	"tourbook/internal/domains/payment/service"
	"tourbook/shared/constant"
	"tourbook/shared/failure"
	"tourbook/shared/validator"
	"tourbook/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// maxWebhookBytes matches the payload ceiling Stripe documents for events.
const maxWebhookBytes = 64 << 10

type Handler struct {
	service service.Payment
	otel    otel.Otel
}

func New(service service.Payment, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(r chi.Router) {
	r.Route("/payments", func(r chi.Router) {
		r.Post("/intent", handler.CreateIntent)
		r.Get("/intent", handler.GetIntent)
		r.Post("/confirm", handler.Confirm)
	})

	r.Post("/webhooks/stripe", handler.Webhook)
}

// CreateIntent opens a payment intent for a booking.
// @Summary Create a payment intent
// @Description The amount must equal price times participants.
// @Tags Payment
// @Accept json
// @Produce json
// @Param request body dto.CreateIntentRequest true "Create Intent Request"
// @Success 200 {object} response.Data[dto.CreateIntentResponse]
// @Failure 400 {object} response.Error
// @Failure 402 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 502 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /api/payments/intent [post]
// @Security BearerAuth
func (handler *Handler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Payment.CreateIntent")
	defer scope.End()

	req := dto.CreateIntentRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.CreateIntent(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create payment intent")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Payment intent created " + res.PaymentIntentID)

	response.WithJSON(w, http.StatusOK, res)
}

// GetIntent returns a stored payment intent owned by the caller.
// @Summary Get a payment intent
// @Tags Payment
// @Produce json
// @Param payment_intent_id query string true "Payment intent ID"
// @Success 200 {object} response.Data[dto.IntentResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/payments/intent [get]
// @Security BearerAuth
func (handler *Handler) GetIntent(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Payment.GetIntent")
	defer scope.End()

	res, err := handler.service.GetIntent(ctx, r.URL.Query().Get("payment_intent_id"))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get payment intent")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// Confirm turns a succeeded payment into a confirmed booking.
// @Summary Confirm a payment
// @Tags Payment
// @Accept json
// @Produce json
// @Param request body dto.ConfirmRequest true "Confirm Request"
// @Success 201 {object} response.Data[dto.ConfirmResponse] "Booking confirmed successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/payments/confirm [post]
// @Security BearerAuth
func (handler *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Payment.Confirm")
	defer scope.End()

	req := dto.ConfirmRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Confirm(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to confirm payment")

		response.WithError(w, err)

		return
	}

	response.WithData(w, http.StatusCreated, res, "Booking confirmed successfully")
}

// Webhook receives Stripe events.
// @Summary Stripe webhook
// @Description Verified with the Stripe-Signature header against the raw body.
// @Tags Payment
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Stripe signature"
// @Success 200 {object} dto.WebhookResponse
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/webhooks/stripe [post]
func (handler *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Payment.Webhook")
	defer scope.End()

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBytes))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to read webhook body")

		response.WithError(w, failure.BadRequestFromString("Invalid webhook payload"))

		return
	}

	if err := handler.service.HandleWebhook(ctx, payload, r.Header.Get(constant.RequestHeaderStripeSignature)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to handle webhook")

		response.WithError(w, err)

		return
	}

	response.WithRaw(w, http.StatusOK, dto.WebhookResponse{Received: true})
}
