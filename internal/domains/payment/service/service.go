package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"tourbook/config"
	"tourbook/infras/metrics"
	"tourbook/infras/otel"
	gateway "tourbook/infras/payment"
	bookingModel "tourbook/internal/domains/booking/model"
	bookingRepo "tourbook/internal/domains/booking/repository"
	"tourbook/internal/domains/payment/model"
	"tourbook/internal/domains/payment/model/dto"
	"tourbook/internal/domains/payment/repository"
	tourModel "tourbook/internal/domains/tour/model"
	tourRepo "tourbook/internal/domains/tour/repository"
	"tourbook/shared"
	"tourbook/shared/constant"
	gDto "tourbook/shared/dto"
	"tourbook/shared/failure"
	gModel "tourbook/shared/model"
	gRepo "tourbook/shared/repository"
	"tourbook/shared/timezone"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	originPayment = "payment"

	amountTolerance = 0.01
	minorUnits      = 100

	webhookHandled = "handled"
	webhookIgnored = "ignored"
	webhookFailed  = "error"
)

type Payment interface {
	CreateIntent(ctx context.Context, req dto.CreateIntentRequest) (dto.CreateIntentResponse, error)
	GetIntent(ctx context.Context, id string) (dto.IntentResponse, error)
	Confirm(ctx context.Context, req dto.ConfirmRequest) (dto.ConfirmResponse, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

type serviceImpl struct {
	repo        repository.Payment
	bookingRepo bookingRepo.Booking
	tourRepo    tourRepo.Tour
	gateway     gateway.Gateway
	transactor  gRepo.Transactor
	cfg         *config.Config
	otel        otel.Otel
}

func New(repo repository.Payment, bookingRepo bookingRepo.Booking, tourRepo tourRepo.Tour, gateway gateway.Gateway,
	transactor gRepo.Transactor, cfg *config.Config, otel otel.Otel,
) Payment {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		tourRepo:    tourRepo,
		gateway:     gateway,
		transactor:  transactor,
		cfg:         cfg,
		otel:        otel,
	}
}

func (s *serviceImpl) CreateIntent(ctx context.Context, req dto.CreateIntentRequest) (res dto.CreateIntentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Payment.CreateIntent")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, _ := shared.Actor(ctx)

	date, err := timezone.ParseDate(req.BookingDate)
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	if timezone.IsPastDate(date) {
		return res, failure.BadRequestFromString("Cannot book tours for past dates") // nolint:wrapcheck
	}

	tour, err := s.tourRepo.Get(ctx, gDto.NewFilterGroup(
		gDto.Filter{Field: tourModel.FieldID, Value: req.TourID, Operator: gDto.FilterOperatorEq, Table: tourModel.TableName},
		gDto.Filter{Field: tourModel.FieldIsActive, Value: true, Operator: gDto.FilterOperatorEq, Table: tourModel.TableName},
	))
	if err != nil {
		log.Error().Err(err).Msg("failed to get tour")

		return res, fmt.Errorf("failed to get tour: %w", err)
	}

	if tour.ID == "" {
		return res, failure.NotFound("Tour not found or not available") // nolint:wrapcheck
	}

	if req.Participants > tour.MaxParticipants {
		return res, failure.BadRequestFromString(fmt.Sprintf("Maximum %d participants allowed for this tour", tour.MaxParticipants)) // nolint:wrapcheck
	}

	if math.Abs(req.Amount-tour.Price*float64(req.Participants)) > amountTolerance {
		return res, failure.BadRequestFromString("Amount mismatch. Please refresh and try again.") // nolint:wrapcheck
	}

	bookingDate := bookingModel.CalendarDate(date)
	participants := strconv.Itoa(req.Participants)

	intent, err := s.gateway.CreateIntent(ctx, gateway.CreateIntentInput{
		Amount:   int64(math.Round(req.Amount * minorUnits)),
		Currency: s.cfg.External.Stripe.Currency,
		Metadata: map[string]string{
			"tour_id":      tour.ID,
			"user_id":      userID,
			"booking_date": bookingDate.Format(constant.DateOnlyLayout),
			"participants": participants,
			"platform":     model.Platform,
		},
		IdempotencyKey: shared.Hash(userID, tour.ID, bookingDate.Format(constant.DateOnlyLayout), participants, strconv.FormatFloat(req.Amount, 'f', 2, 64)),
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to create payment intent")

		return res, gatewayFailure(err)
	}

	stored := model.Intent{
		ID:           intent.ID,
		UserID:       userID,
		TourID:       tour.ID,
		Amount:       req.Amount,
		Currency:     dto.DisplayCurrency,
		Status:       intent.Status,
		Participants: req.Participants,
		BookingDate:  bookingDate,
		Metadata:     gModel.NewMetadata(userID, timezone.Now()),
	}

	// The gateway intent already exists, so a failed local copy must not fail the request.
	if err := s.repo.Insert(ctx, stored); err != nil {
		log.Error().Err(err).Str("payment_intent", intent.ID).Msg("failed to store payment intent")
	}

	res = dto.CreateIntentResponse{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
		Amount:          req.Amount,
		Currency:        dto.DisplayCurrency,
	}

	return res, nil
}

func (s *serviceImpl) GetIntent(ctx context.Context, id string) (res dto.IntentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Payment.GetIntent")
	defer scope.End()
	defer scope.TraceIfError(err)

	if id == "" {
		return res, failure.BadRequestFromString("Payment intent ID required") // nolint:wrapcheck
	}

	intent, err := s.owned(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(intent)

	return res, nil
}

func (s *serviceImpl) Confirm(ctx context.Context, req dto.ConfirmRequest) (res dto.ConfirmResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Payment.Confirm")
	defer scope.End()
	defer scope.TraceIfError(err)

	remote, err := s.gateway.GetIntent(ctx, req.PaymentIntentID)
	if err != nil {
		log.Error().Err(err).Msg("failed to retrieve payment intent")

		return res, gatewayFailure(err)
	}

	if remote.Status != gateway.StatusSucceeded {
		return res, failure.BadRequestFromString("Payment not completed") // nolint:wrapcheck
	}

	stored, err := s.owned(ctx, req.PaymentIntentID)
	if err != nil {
		return res, err
	}

	bookingID := req.BookingID
	if bookingID == "" && stored.BookingID != nil {
		bookingID = *stored.BookingID
	}

	now := timezone.Now()
	code := bookingModel.NewConfirmationCode(now)

	var booking bookingModel.Booking

	if bookingID != "" {
		booking, err = s.bookingRepo.Get(ctx, shared.FilterByID(bookingID, bookingModel.FieldID, bookingModel.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to get booking")

			return res, fmt.Errorf("failed to get booking: %w", err)
		}
	}

	if booking.ID != "" {
		booking, err = s.confirmExisting(ctx, booking, stored, code)
		if err != nil {
			return res, err
		}
	} else {
		if bookingID == "" {
			bookingID = uuid.NewString()
		}

		booking, err = s.createConfirmed(ctx, bookingID, stored, code)
		if err != nil {
			return res, err
		}
	}

	res.Booking.FromModel(booking)
	res.PaymentIntent = dto.GatewayIntent{
		ID:     remote.ID,
		Status: remote.Status,
		Amount: float64(remote.Amount) / minorUnits,
	}

	return res, nil
}

// confirmExisting moves the caller's pending booking to confirmed and links the intent to it.
func (s *serviceImpl) confirmExisting(ctx context.Context, booking bookingModel.Booking, stored model.Intent, code string) (bookingModel.Booking, error) {
	if booking.UserID != stored.UserID || !bookingModel.CanTransition(booking.Status, bookingModel.StatusConfirmed, bookingModel.ActorPayment) {
		return booking, failure.Conflict("Booking already exists") // nolint:wrapcheck
	}

	actor := stored.UserID
	now := timezone.Now()

	fields := map[string]any{
		bookingModel.FieldStatus:           bookingModel.StatusConfirmed,
		bookingModel.FieldPaymentStatus:    bookingModel.PaymentPaid,
		bookingModel.FieldPaymentIntentID:  stored.ID,
		bookingModel.FieldConfirmationCode: code,
		constant.FieldModifiedAt:           now,
		constant.FieldModifiedBy:           actor,
	}

	err := s.transactor.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.bookingRepo.UpdateTx(ctx, tx, fields, shared.FilterByID(booking.ID, bookingModel.FieldID, bookingModel.TableName)); err != nil {
			return err //nolint:wrapcheck
		}

		return s.repo.UpdateTx(ctx, tx, linkIntent(booking.ID, actor), shared.FilterByID(stored.ID, model.FieldID, model.TableName)) //nolint:wrapcheck
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to confirm booking")

		return booking, fmt.Errorf("failed to confirm booking: %w", err)
	}

	metrics.RecordBookingTransition(booking.Status, bookingModel.StatusConfirmed)

	booking.Status = bookingModel.StatusConfirmed
	booking.PaymentStatus = bookingModel.PaymentPaid
	booking.PaymentIntentID = &stored.ID
	booking.ConfirmationCode = &code
	booking.ModifiedAt = now

	return booking, nil
}

// createConfirmed books the paid slot through the capacity guard.
func (s *serviceImpl) createConfirmed(ctx context.Context, bookingID string, stored model.Intent, code string) (bookingModel.Booking, error) {
	actor := stored.UserID

	booking := bookingModel.Booking{
		ID:               bookingID,
		UserID:           stored.UserID,
		TourID:           stored.TourID,
		BookingDate:      bookingModel.CalendarDate(stored.BookingDate),
		Participants:     stored.Participants,
		TotalAmount:      stored.Amount,
		Status:           bookingModel.StatusConfirmed,
		PaymentStatus:    bookingModel.PaymentPaid,
		PaymentIntentID:  &stored.ID,
		ConfirmationCode: &code,
		ContactInfo:      gModel.JSONText("{}"),
		Metadata:         gModel.NewMetadata(actor, timezone.Now()),
		TourTitle:        stored.TourTitle,
		TourLocation:     stored.TourLocation,
		TourPrice:        stored.TourPrice,
	}

	slot := bookingModel.Slot{TourID: booking.TourID, Date: booking.BookingDate, Participants: booking.Participants}

	err := s.bookingRepo.Reserve(ctx, slot, func(tx *sqlx.Tx) error {
		if err := s.bookingRepo.InsertTx(ctx, tx, booking); err != nil {
			return err //nolint:wrapcheck
		}

		return s.repo.UpdateTx(ctx, tx, linkIntent(booking.ID, actor), shared.FilterByID(stored.ID, model.FieldID, model.TableName)) //nolint:wrapcheck
	})
	if fail := bookingModel.ReserveFailure(err); fail != nil {
		return booking, fail
	}

	if gRepo.IsUniqueViolation(err) {
		return booking, failure.Conflict("Booking already exists") // nolint:wrapcheck
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to create confirmed booking")

		return booking, fmt.Errorf("failed to create confirmed booking: %w", err)
	}

	metrics.RecordBookingCreated(originPayment)

	return booking, nil
}

func (s *serviceImpl) HandleWebhook(ctx context.Context, payload []byte, signature string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Payment.HandleWebhook")
	defer scope.End()
	defer scope.TraceIfError(err)

	if signature == "" {
		return failure.BadRequestFromString("Missing stripe-signature header") // nolint:wrapcheck
	}

	event, err := s.gateway.ParseWebhook(payload, signature)

	switch {
	case errors.Is(err, gateway.ErrWebhookSecretMissing):
		log.Error().Err(err).Msg("stripe webhook secret is not configured")

		return failure.InternalError(errors.New("Webhook configuration error")) // nolint:wrapcheck
	case errors.Is(err, gateway.ErrInvalidSignature):
		return failure.BadRequestFromString("Invalid signature") // nolint:wrapcheck
	case err != nil:
		log.Error().Err(err).Msg("failed to parse webhook event")

		return fmt.Errorf("failed to parse webhook event: %w", err)
	}

	outcome := webhookHandled

	switch {
	case event.Intent != nil:
		err = s.updateIntentStatus(ctx, event.Intent.ID, intentStatus(event.Type))
	case event.Dispute != nil && event.Dispute.PaymentIntentID != "":
		err = s.handleDispute(ctx, event.Dispute)
	case event.Refund != nil && event.Refund.PaymentIntentID != "":
		err = s.handleRefund(ctx, event.Refund)
	default:
		log.Info().Str("event", event.Type).Str("id", event.ID).Msg("unhandled webhook event")

		outcome = webhookIgnored
	}

	if err != nil {
		outcome = webhookFailed

		log.Error().Err(err).Str("event", event.Type).Str("id", event.ID).Msg("failed to handle webhook event")
	}

	metrics.RecordWebhookEvent(event.Type, outcome)

	if err != nil {
		return fmt.Errorf("failed to handle webhook event: %w", err)
	}

	return nil
}

func (s *serviceImpl) updateIntentStatus(ctx context.Context, id, status string) error {
	fields := map[string]any{
		model.FieldStatus:        status,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: model.Platform,
	}

	return s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)) //nolint:wrapcheck
}

// handleDispute marks the linked booking disputed whatever its current status.
func (s *serviceImpl) handleDispute(ctx context.Context, dispute *gateway.Dispute) error {
	booking, err := s.linkedBooking(ctx, dispute.PaymentIntentID)
	if err != nil || booking.ID == "" {
		return err
	}

	fields := map[string]any{
		bookingModel.FieldStatus: bookingModel.StatusDisputed,
		bookingModel.FieldNotes:  "Dispute created: " + dispute.Reason,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: model.Platform,
	}

	if err := s.bookingRepo.Update(ctx, fields, shared.FilterByID(booking.ID, bookingModel.FieldID, bookingModel.TableName)); err != nil {
		return fmt.Errorf("failed to mark booking disputed: %w", err)
	}

	metrics.RecordBookingTransition(booking.Status, bookingModel.StatusDisputed)

	return nil
}

// handleRefund cancels the linked booking as refunded whatever its current status.
func (s *serviceImpl) handleRefund(ctx context.Context, refund *gateway.Refund) error {
	booking, err := s.linkedBooking(ctx, refund.PaymentIntentID)
	if err != nil {
		return err
	}

	if booking.ID != "" {
		fields := map[string]any{
			bookingModel.FieldStatus:        bookingModel.StatusCancelled,
			bookingModel.FieldPaymentStatus: bookingModel.PaymentRefunded,
			bookingModel.FieldNotes:         fmt.Sprintf("Refund processed: %s %s", formatMinor(refund.Amount), dto.DisplayCurrency),
			constant.FieldModifiedAt:        timezone.Now(),
			constant.FieldModifiedBy:        model.Platform,
		}

		if err := s.bookingRepo.Update(ctx, fields, shared.FilterByID(booking.ID, bookingModel.FieldID, bookingModel.TableName)); err != nil {
			return fmt.Errorf("failed to cancel refunded booking: %w", err)
		}

		metrics.RecordBookingTransition(booking.Status, bookingModel.StatusCancelled)
	}

	return s.updateIntentStatus(ctx, refund.PaymentIntentID, model.StatusRefunded)
}

// linkedBooking returns the booking attached to a stored intent, or a zero booking when there is none.
func (s *serviceImpl) linkedBooking(ctx context.Context, intentID string) (bookingModel.Booking, error) {
	intent, err := s.repo.Get(ctx, shared.FilterByID(intentID, model.FieldID, model.TableName))
	if err != nil {
		return bookingModel.Booking{}, fmt.Errorf("failed to get payment intent: %w", err)
	}

	if intent.BookingID == nil {
		return bookingModel.Booking{}, nil
	}

	booking, err := s.bookingRepo.Get(ctx, shared.FilterByID(*intent.BookingID, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	return booking, nil
}

// owned loads a stored intent belonging to the caller.
func (s *serviceImpl) owned(ctx context.Context, id string) (model.Intent, error) {
	userID, _ := shared.Actor(ctx)

	intent, err := s.repo.Get(ctx, gDto.NewFilterGroup(
		gDto.Filter{Field: model.FieldID, Value: id, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		gDto.Filter{Field: model.FieldUserID, Value: userID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
	))
	if err != nil {
		log.Error().Err(err).Msg("failed to get payment intent")

		return intent, fmt.Errorf("failed to get payment intent: %w", err)
	}

	if intent.ID == "" {
		return intent, failure.NotFound("Payment intent not found") // nolint:wrapcheck
	}

	return intent, nil
}

func linkIntent(bookingID, actor string) map[string]any {
	return map[string]any{
		model.FieldStatus:        model.StatusSucceeded,
		model.FieldBookingID:     bookingID,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: actor,
	}
}

func intentStatus(eventType string) string {
	switch eventType {
	case gateway.EventIntentSucceeded:
		return model.StatusSucceeded
	case gateway.EventIntentFailed:
		return model.StatusFailed
	default:
		return model.StatusCanceled
	}
}

// formatMinor renders minor currency units the way a JavaScript number would print them.
func formatMinor(amount int64) string {
	return strconv.FormatFloat(float64(amount)/minorUnits, 'f', -1, 64)
}

func gatewayFailure(err error) error {
	var (
		declined *gateway.DeclinedError
		provider *gateway.ProviderError
	)

	switch {
	case errors.As(err, &declined):
		return failure.PaymentRequired(declined.Message) // nolint:wrapcheck
	case errors.As(err, &provider):
		return failure.BadGateway(provider.Message) // nolint:wrapcheck
	case errors.Is(err, gateway.ErrUnavailable):
		return failure.ServiceUnavailable("Payment service is temporarily unavailable. Please try again shortly.") // nolint:wrapcheck
	default:
		return failure.BadGateway("Payment provider error. Please try again.") // nolint:wrapcheck
	}
}
