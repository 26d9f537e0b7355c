package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"tourbook/config"
	gateway "tourbook/infras/payment"
	gatewayMocks "tourbook/infras/payment/mocks"
	"tourbook/infras/otel/mocks"
	bookingMocks "tourbook/internal/domains/booking/mocks"
	bookingModel "tourbook/internal/domains/booking/model"
	paymentMocks "tourbook/internal/domains/payment/mocks"
	"tourbook/internal/domains/payment/model"
	"tourbook/internal/domains/payment/model/dto"
	"tourbook/internal/domains/payment/service"
	tourMocks "tourbook/internal/domains/tour/mocks"
	tourModel "tourbook/internal/domains/tour/model"
	"tourbook/shared/constant"
	gDto "tourbook/shared/dto"
	"tourbook/shared/failure"
	repoMocks "tourbook/shared/repository/mocks"
	"tourbook/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	repo        *paymentMocks.MockPayment
	bookingRepo *bookingMocks.MockBooking
	tourRepo    *tourMocks.MockTour
	gateway     *gatewayMocks.MockGateway
	transactor  *repoMocks.MockTransactor
	svc         service.Payment
}

func setup(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:        paymentMocks.NewMockPayment(ctrl),
		bookingRepo: bookingMocks.NewMockBooking(ctrl),
		tourRepo:    tourMocks.NewMockTour(ctrl),
		gateway:     gatewayMocks.NewMockGateway(ctrl),
		transactor:  repoMocks.NewMockTransactor(ctrl),
	}

	cfg := &config.Config{}
	cfg.External.Stripe.Currency = "lkr"

	f.svc = service.New(f.repo, f.bookingRepo, f.tourRepo, f.gateway, f.transactor, cfg, mocks.NewOtel())

	return f
}

func actorContext(userID string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleTourist)
}

func daysFromNow(days int) string {
	return timezone.Now().AddDate(0, 0, days).Format(constant.DateOnlyLayout)
}

func runTx(_ context.Context, fn func(tx *sqlx.Tx) error) error {
	return fn(nil)
}

func runReserve(_ context.Context, _ bookingModel.Slot, write func(tx *sqlx.Tx) error) error {
	return write(nil)
}

func activeTour() tourModel.Tour {
	return tourModel.Tour{ID: "tour-1", Title: "Sigiriya Sunrise", Price: 5000, MaxParticipants: 4, IsActive: true}
}

func storedIntent(bookingID *string) model.Intent {
	return model.Intent{
		ID:           "pi_123",
		UserID:       "user-1",
		TourID:       "tour-1",
		BookingID:    bookingID,
		Amount:       10000,
		Currency:     dto.DisplayCurrency,
		Status:       model.StatusPending,
		Participants: 2,
		BookingDate:  bookingModel.CalendarDate(timezone.Now().AddDate(0, 0, 10)),
	}
}

func assertFailure(t *testing.T, err error, wantCode int, wantMsg string) {
	t.Helper()

	require.Error(t, err)

	if wantCode != 0 {
		assert.Equal(t, wantCode, failure.GetCode(err))
	}

	if wantMsg != "" {
		assert.Equal(t, wantMsg, err.Error())
	}
}

func TestPaymentService_CreateIntent(t *testing.T) {
	req := func(participants int, amount float64, date string) dto.CreateIntentRequest {
		return dto.CreateIntentRequest{TourID: "tour-1", Participants: participants, BookingDate: date, Amount: amount}
	}

	tests := []struct {
		name      string
		req       dto.CreateIntentRequest
		setupMock func(f fixture)
		wantCode  int
		wantMsg   string
		wantErr   bool
	}{
		{
			name: "creates the gateway intent in minor units",
			req:  req(2, 10000, daysFromNow(5)),
			setupMock: func(f fixture) {
				f.tourRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeTour(), nil)
				f.gateway.EXPECT().CreateIntent(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, in gateway.CreateIntentInput) (*gateway.Intent, error) {
						assert.Equal(t, int64(1000000), in.Amount)
						assert.Equal(t, "lkr", in.Currency)
						assert.Equal(t, "2", in.Metadata["participants"])
						assert.Equal(t, "user-1", in.Metadata["user_id"])
						assert.Equal(t, model.Platform, in.Metadata["platform"])
						assert.NotEmpty(t, in.IdempotencyKey)

						return &gateway.Intent{ID: "pi_123", Status: model.StatusPending, ClientSecret: "secret_abc"}, nil
					})
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, intent model.Intent) error {
						assert.Equal(t, "pi_123", intent.ID)
						assert.Equal(t, "user-1", intent.UserID)
						assert.InDelta(t, 10000.0, intent.Amount, 0.001)

						return nil
					})
			},
		},
		{
			name: "local insert failure does not fail the request",
			req:  req(2, 10000, daysFromNow(5)),
			setupMock: func(f fixture) {
				f.tourRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeTour(), nil)
				f.gateway.EXPECT().CreateIntent(gomock.Any(), gomock.Any()).
					Return(&gateway.Intent{ID: "pi_123", ClientSecret: "secret_abc"}, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
		},
		{
			name:      "past date",
			req:       req(2, 10000, daysFromNow(-1)),
			setupMock: func(_ fixture) {},
			wantCode:  http.StatusBadRequest,
			wantMsg:   "Cannot book tours for past dates",
			wantErr:   true,
		},
		{
			name: "inactive tour",
			req:  req(2, 10000, daysFromNow(5)),
			setupMock: func(f fixture) {
				f.tourRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tourModel.Tour{}, nil)
			},
			wantCode: http.StatusNotFound,
			wantMsg:  "Tour not found or not available",
			wantErr:  true,
		},
		{
			name: "too many participants",
			req:  req(5, 25000, daysFromNow(5)),
			setupMock: func(f fixture) {
				f.tourRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeTour(), nil)
			},
			wantCode: http.StatusBadRequest,
			wantMsg:  "Maximum 4 participants allowed for this tour",
			wantErr:  true,
		},
		{
			name: "amount mismatch",
			req:  req(2, 9999, daysFromNow(5)),
			setupMock: func(f fixture) {
				f.tourRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeTour(), nil)
			},
			wantCode: http.StatusBadRequest,
			wantMsg:  "Amount mismatch. Please refresh and try again.",
			wantErr:  true,
		},
		{
			name: "declined by the gateway",
			req:  req(2, 10000, daysFromNow(5)),
			setupMock: func(f fixture) {
				f.tourRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeTour(), nil)
				f.gateway.EXPECT().CreateIntent(gomock.Any(), gomock.Any()).
					Return(nil, &gateway.DeclinedError{Message: "Your card was declined."})
			},
			wantCode: http.StatusPaymentRequired,
			wantMsg:  "Your card was declined.",
			wantErr:  true,
		},
		{
			name: "gateway circuit open",
			req:  req(2, 10000, daysFromNow(5)),
			setupMock: func(f fixture) {
				f.tourRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeTour(), nil)
				f.gateway.EXPECT().CreateIntent(gomock.Any(), gomock.Any()).Return(nil, gateway.ErrUnavailable)
			},
			wantCode: http.StatusServiceUnavailable,
			wantErr:  true,
		},
		{
			name: "gateway error message is surfaced",
			req:  req(2, 10000, daysFromNow(5)),
			setupMock: func(f fixture) {
				f.tourRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeTour(), nil)
				f.gateway.EXPECT().CreateIntent(gomock.Any(), gomock.Any()).
					Return(nil, &gateway.ProviderError{Message: "Invalid currency: xyz"})
			},
			wantCode: http.StatusBadGateway,
			wantMsg:  "Invalid currency: xyz",
			wantErr:  true,
		},
		{
			name: "unexpected gateway error",
			req:  req(2, 10000, daysFromNow(5)),
			setupMock: func(f fixture) {
				f.tourRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeTour(), nil)
				f.gateway.EXPECT().CreateIntent(gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))
			},
			wantCode: http.StatusBadGateway,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)
			tt.setupMock(f)

			res, err := f.svc.CreateIntent(actorContext("user-1"), tt.req)
			if tt.wantErr {
				assertFailure(t, err, tt.wantCode, tt.wantMsg)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "pi_123", res.PaymentIntentID)
			assert.Equal(t, "secret_abc", res.ClientSecret)
			assert.Equal(t, "LKR", res.Currency)
			assert.InDelta(t, tt.req.Amount, res.Amount, 0.001)
		})
	}
}

func TestPaymentService_GetIntent(t *testing.T) {
	tests := []struct {
		name      string
		id        string
		setupMock func(f fixture)
		wantCode  int
		wantMsg   string
		wantErr   bool
	}{
		{
			name: "returns the caller's intent",
			id:   "pi_123",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, filter gDto.FilterGroup, _ ...string) (model.Intent, error) {
						require.Len(t, filter.Filters, 2)
						assert.Equal(t, "user-1", filter.Filters[1].(gDto.Filter).Value)

						return storedIntent(nil), nil
					})
			},
		},
		{
			name:      "missing id",
			setupMock: func(_ fixture) {},
			wantCode:  http.StatusBadRequest,
			wantMsg:   "Payment intent ID required",
			wantErr:   true,
		},
		{
			name: "not owned",
			id:   "pi_999",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Intent{}, nil)
			},
			wantCode: http.StatusNotFound,
			wantMsg:  "Payment intent not found",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)
			tt.setupMock(f)

			res, err := f.svc.GetIntent(actorContext("user-1"), tt.id)
			if tt.wantErr {
				assertFailure(t, err, tt.wantCode, tt.wantMsg)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "pi_123", res.ID)
			assert.Equal(t, 2, res.Participants)
		})
	}
}

func TestPaymentService_Confirm(t *testing.T) {
	succeeded := &gateway.Intent{ID: "pi_123", Status: gateway.StatusSucceeded, Amount: 1000000}
	linked := "booking-9"

	tests := []struct {
		name      string
		req       dto.ConfirmRequest
		setupMock func(f fixture)
		wantCode  int
		wantMsg   string
		wantErr   bool
	}{
		{
			name: "creates a confirmed booking for a fresh intent",
			req:  dto.ConfirmRequest{PaymentIntentID: "pi_123"},
			setupMock: func(f fixture) {
				f.gateway.EXPECT().GetIntent(gomock.Any(), "pi_123").Return(succeeded, nil)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedIntent(nil), nil)
				f.bookingRepo.EXPECT().Reserve(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(ctx context.Context, slot bookingModel.Slot, write func(tx *sqlx.Tx) error) error {
						assert.Equal(t, 2, slot.Participants)

						return runReserve(ctx, slot, write)
					})
				f.bookingRepo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, _ *sqlx.Tx, b bookingModel.Booking) error {
						assert.Equal(t, bookingModel.StatusConfirmed, b.Status)
						assert.Equal(t, bookingModel.PaymentPaid, b.PaymentStatus)
						assert.InDelta(t, 10000.0, b.TotalAmount, 0.001)
						require.NotNil(t, b.ConfirmationCode)
						assert.Regexp(t, `^AC\d{8}[A-Z0-9]{4}$`, *b.ConfirmationCode)

						return nil
					})
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, model.StatusSucceeded, fields[model.FieldStatus])
						assert.NotEmpty(t, fields[model.FieldBookingID])

						return nil
					})
			},
		},
		{
			name: "confirms the linked pending booking",
			req:  dto.ConfirmRequest{PaymentIntentID: "pi_123"},
			setupMock: func(f fixture) {
				f.gateway.EXPECT().GetIntent(gomock.Any(), "pi_123").Return(succeeded, nil)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedIntent(&linked), nil)
				f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingModel.Booking{
					ID: linked, UserID: "user-1", Status: bookingModel.StatusPending,
				}, nil)
				f.transactor.EXPECT().WithTx(gomock.Any(), gomock.Any()).DoAndReturn(runTx)
				f.bookingRepo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, bookingModel.StatusConfirmed, fields[bookingModel.FieldStatus])
						assert.Equal(t, "pi_123", fields[bookingModel.FieldPaymentIntentID])

						return nil
					})
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "payment not completed",
			req:  dto.ConfirmRequest{PaymentIntentID: "pi_123"},
			setupMock: func(f fixture) {
				f.gateway.EXPECT().GetIntent(gomock.Any(), "pi_123").
					Return(&gateway.Intent{ID: "pi_123", Status: "requires_action"}, nil)
			},
			wantCode: http.StatusBadRequest,
			wantMsg:  "Payment not completed",
			wantErr:  true,
		},
		{
			name: "intent of another user",
			req:  dto.ConfirmRequest{PaymentIntentID: "pi_123"},
			setupMock: func(f fixture) {
				f.gateway.EXPECT().GetIntent(gomock.Any(), "pi_123").Return(succeeded, nil)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Intent{}, nil)
			},
			wantCode: http.StatusNotFound,
			wantMsg:  "Payment intent not found",
			wantErr:  true,
		},
		{
			name: "booking already confirmed",
			req:  dto.ConfirmRequest{PaymentIntentID: "pi_123", BookingID: linked},
			setupMock: func(f fixture) {
				f.gateway.EXPECT().GetIntent(gomock.Any(), "pi_123").Return(succeeded, nil)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedIntent(nil), nil)
				f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingModel.Booking{
					ID: linked, UserID: "user-1", Status: bookingModel.StatusConfirmed,
				}, nil)
			},
			wantCode: http.StatusConflict,
			wantMsg:  "Booking already exists",
			wantErr:  true,
		},
		{
			name: "slot filled while paying",
			req:  dto.ConfirmRequest{PaymentIntentID: "pi_123"},
			setupMock: func(f fixture) {
				f.gateway.EXPECT().GetIntent(gomock.Any(), "pi_123").Return(succeeded, nil)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedIntent(nil), nil)
				f.bookingRepo.EXPECT().Reserve(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(&bookingModel.CapacityError{Remaining: 1})
			},
			wantCode: http.StatusBadRequest,
			wantMsg:  "Only 1 spots available for this date",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)
			tt.setupMock(f)

			res, err := f.svc.Confirm(actorContext("user-1"), tt.req)
			if tt.wantErr {
				assertFailure(t, err, tt.wantCode, tt.wantMsg)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, bookingModel.StatusConfirmed, res.Booking.Status)
			assert.Equal(t, "pi_123", res.PaymentIntent.ID)
			assert.InDelta(t, 10000.0, res.PaymentIntent.Amount, 0.001)
		})
	}
}

func TestPaymentService_HandleWebhook(t *testing.T) {
	linked := "booking-9"
	payload := []byte(`{}`)

	tests := []struct {
		name      string
		signature string
		setupMock func(f fixture)
		wantCode  int
		wantMsg   string
		wantErr   bool
	}{
		{
			name:      "missing signature",
			setupMock: func(_ fixture) {},
			wantCode:  http.StatusBadRequest,
			wantMsg:   "Missing stripe-signature header",
			wantErr:   true,
		},
		{
			name:      "invalid signature",
			signature: "t=1,v1=bad",
			setupMock: func(f fixture) {
				f.gateway.EXPECT().ParseWebhook(payload, "t=1,v1=bad").Return(nil, gateway.ErrInvalidSignature)
			},
			wantCode: http.StatusBadRequest,
			wantMsg:  "Invalid signature",
			wantErr:  true,
		},
		{
			name:      "secret not configured",
			signature: "t=1,v1=sig",
			setupMock: func(f fixture) {
				f.gateway.EXPECT().ParseWebhook(payload, "t=1,v1=sig").Return(nil, gateway.ErrWebhookSecretMissing)
			},
			wantCode: http.StatusInternalServerError,
			wantMsg:  "Webhook configuration error",
			wantErr:  true,
		},
		{
			name:      "intent failed updates the stored status",
			signature: "t=1,v1=sig",
			setupMock: func(f fixture) {
				f.gateway.EXPECT().ParseWebhook(payload, "t=1,v1=sig").Return(&gateway.Event{
					ID: "evt_1", Type: gateway.EventIntentFailed, Intent: &gateway.Intent{ID: "pi_123"},
				}, nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, model.StatusFailed, fields[model.FieldStatus])

						return nil
					})
			},
		},
		{
			name:      "dispute marks the booking disputed",
			signature: "t=1,v1=sig",
			setupMock: func(f fixture) {
				f.gateway.EXPECT().ParseWebhook(payload, "t=1,v1=sig").Return(&gateway.Event{
					ID: "evt_2", Type: gateway.EventDisputeCreated,
					Dispute: &gateway.Dispute{ID: "dp_1", PaymentIntentID: "pi_123", Reason: "fraudulent"},
				}, nil)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedIntent(&linked), nil)
				f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).
					Return(bookingModel.Booking{ID: linked, Status: bookingModel.StatusConfirmed}, nil)
				f.bookingRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, bookingModel.StatusDisputed, fields[bookingModel.FieldStatus])
						assert.Equal(t, "Dispute created: fraudulent", fields[bookingModel.FieldNotes])

						return nil
					})
			},
		},
		{
			name:      "dispute on a completed booking forces it disputed",
			signature: "t=1,v1=sig",
			setupMock: func(f fixture) {
				f.gateway.EXPECT().ParseWebhook(payload, "t=1,v1=sig").Return(&gateway.Event{
					ID: "evt_3", Type: gateway.EventDisputeCreated,
					Dispute: &gateway.Dispute{ID: "dp_1", PaymentIntentID: "pi_123", Reason: "fraudulent"},
				}, nil)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedIntent(&linked), nil)
				f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).
					Return(bookingModel.Booking{ID: linked, Status: bookingModel.StatusCompleted}, nil)
				f.bookingRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, bookingModel.StatusDisputed, fields[bookingModel.FieldStatus])
						assert.Equal(t, "Dispute created: fraudulent", fields[bookingModel.FieldNotes])

						return nil
					})
			},
		},
		{
			name:      "refund on a disputed booking forces it cancelled",
			signature: "t=1,v1=sig",
			setupMock: func(f fixture) {
				f.gateway.EXPECT().ParseWebhook(payload, "t=1,v1=sig").Return(&gateway.Event{
					ID: "evt_3b", Type: gateway.EventRefundCreated,
					Refund: &gateway.Refund{ID: "re_2", PaymentIntentID: "pi_123", Amount: 10000},
				}, nil)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedIntent(&linked), nil)
				f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).
					Return(bookingModel.Booking{ID: linked, Status: bookingModel.StatusDisputed}, nil)
				f.bookingRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, bookingModel.StatusCancelled, fields[bookingModel.FieldStatus])
						assert.Equal(t, bookingModel.PaymentRefunded, fields[bookingModel.FieldPaymentStatus])
						assert.Equal(t, "Refund processed: 100 LKR", fields[bookingModel.FieldNotes])

						return nil
					})
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:      "refund on a completed booking forces it cancelled",
			signature: "t=1,v1=sig",
			setupMock: func(f fixture) {
				f.gateway.EXPECT().ParseWebhook(payload, "t=1,v1=sig").Return(&gateway.Event{
					ID: "evt_3c", Type: gateway.EventRefundCreated,
					Refund: &gateway.Refund{ID: "re_2", PaymentIntentID: "pi_123", Amount: 10000},
				}, nil)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedIntent(&linked), nil)
				f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).
					Return(bookingModel.Booking{ID: linked, Status: bookingModel.StatusCompleted}, nil)
				f.bookingRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, bookingModel.StatusCancelled, fields[bookingModel.FieldStatus])
						assert.Equal(t, bookingModel.PaymentRefunded, fields[bookingModel.FieldPaymentStatus])
						assert.Equal(t, "Refund processed: 100 LKR", fields[bookingModel.FieldNotes])

						return nil
					})
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:      "refund cancels the booking and marks the intent refunded",
			signature: "t=1,v1=sig",
			setupMock: func(f fixture) {
				f.gateway.EXPECT().ParseWebhook(payload, "t=1,v1=sig").Return(&gateway.Event{
					ID: "evt_4", Type: gateway.EventRefundCreated,
					Refund: &gateway.Refund{ID: "re_1", PaymentIntentID: "pi_123", Amount: 450050},
				}, nil)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedIntent(&linked), nil)
				f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).
					Return(bookingModel.Booking{ID: linked, Status: bookingModel.StatusConfirmed}, nil)
				f.bookingRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, bookingModel.StatusCancelled, fields[bookingModel.FieldStatus])
						assert.Equal(t, bookingModel.PaymentRefunded, fields[bookingModel.FieldPaymentStatus])
						assert.Equal(t, "Refund processed: 4500.5 LKR", fields[bookingModel.FieldNotes])

						return nil
					})
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, model.StatusRefunded, fields[model.FieldStatus])

						return nil
					})
			},
		},
		{
			name:      "unhandled event type",
			signature: "t=1,v1=sig",
			setupMock: func(f fixture) {
				f.gateway.EXPECT().ParseWebhook(payload, "t=1,v1=sig").
					Return(&gateway.Event{ID: "evt_5", Type: "customer.created"}, nil)
			},
		},
		{
			name:      "storage failure is returned for a retry",
			signature: "t=1,v1=sig",
			setupMock: func(f fixture) {
				f.gateway.EXPECT().ParseWebhook(payload, "t=1,v1=sig").Return(&gateway.Event{
					ID: "evt_6", Type: gateway.EventIntentSucceeded, Intent: &gateway.Intent{ID: "pi_123"},
				}, nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)
			tt.setupMock(f)

			err := f.svc.HandleWebhook(context.Background(), payload, tt.signature)
			if tt.wantErr {
				assertFailure(t, err, tt.wantCode, tt.wantMsg)

				return
			}

			require.NoError(t, err)
		})
	}
}
