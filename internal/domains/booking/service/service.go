package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"tourbook/config"
	"tourbook/infras/metrics"
	"tourbook/infras/otel"
	"tourbook/internal/domains/booking/model"
	"tourbook/internal/domains/booking/model/dto"
	"tourbook/internal/domains/booking/repository"
	tourModel "tourbook/internal/domains/tour/model"
	tourRepo "tourbook/internal/domains/tour/repository"
	"tourbook/shared"
	"tourbook/shared/constant"
	gDto "tourbook/shared/dto"
	"tourbook/shared/failure"
	gModel "tourbook/shared/model"
	"tourbook/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const originDirect = "direct"

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, status string) (dto.GetBookingsResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateBookingRequest) (dto.BookingResponse, error)
	Cancel(ctx context.Context, id string) (dto.BookingResponse, error)
}

type serviceImpl struct {
	repo     repository.Booking
	tourRepo tourRepo.Tour
	cfg      *config.Config
	otel     otel.Otel
}

func New(repo repository.Booking, tourRepo tourRepo.Tour, cfg *config.Config, otel otel.Otel) Booking {
	return &serviceImpl{
		repo:     repo,
		tourRepo: tourRepo,
		cfg:      cfg,
		otel:     otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Booking.Create")
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
		return res, failure.BadRequestFromString(fmt.Sprintf("Tour can only accommodate %d participants", tour.MaxParticipants)) // nolint:wrapcheck
	}

	booking, err := req.ToModel(userID, model.CalendarDate(date), tour.Price)
	if err != nil {
		log.Error().Err(err).Msg("failed to build booking")

		return res, fmt.Errorf("failed to build booking: %w", err)
	}

	slot := model.Slot{TourID: tour.ID, Date: booking.BookingDate, Participants: booking.Participants}

	err = s.repo.Reserve(ctx, slot, func(tx *sqlx.Tx) error {
		return s.repo.InsertTx(ctx, tx, booking) //nolint:wrapcheck
	})
	if fail := model.ReserveFailure(err); fail != nil {
		return res, fail
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to create booking")

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	metrics.RecordBookingCreated(originDirect)

	booking.TourTitle = &tour.Title
	booking.TourLocation = &tour.Location
	booking.TourDuration = &tour.Duration
	booking.TourPrice = &tour.Price

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, status string) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Booking.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, _ := shared.Actor(ctx)

	filter := shared.FilterByID(userID, model.FieldUserID, model.TableName)
	if status != "" {
		filter.Add(gDto.Filter{Field: model.FieldStatus, Value: status, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	req.SortBy = model.TableName + "." + constant.FieldCreatedAt
	req.SortDir = gDto.SortDirDesc

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, req.Page, req.Limit, total)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Booking.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.visible(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, id string, req dto.UpdateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Booking.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, role := shared.Actor(ctx)

	booking, err := s.visible(ctx, id)
	if err != nil {
		return res, err
	}

	if model.IsTerminal(booking.Status) {
		return res, failure.BadRequestFromString("Cannot modify completed or cancelled bookings") // nolint:wrapcheck
	}

	if req.IsEmpty() {
		return res, failure.BadRequestFromString("No fields to update") // nolint:wrapcheck
	}

	fields := map[string]any{
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: actor,
	}

	if req.Status != nil && *req.Status != booking.Status {
		if role != constant.RoleAdmin {
			return res, failure.Forbidden("Only admins can change booking status") // nolint:wrapcheck
		}

		if !model.CanTransition(booking.Status, *req.Status, model.ActorAdmin) {
			return res, failure.BadRequestFromString(fmt.Sprintf("Cannot change booking status from %s to %s", booking.Status, *req.Status)) // nolint:wrapcheck
		}

		fields[model.FieldStatus] = *req.Status
	}

	slot := model.Slot{
		TourID:           booking.TourID,
		Date:             booking.BookingDate,
		Participants:     booking.Participants,
		ExcludeBookingID: booking.ID,
	}
	reserve := false

	if req.BookingDate != nil {
		date, err := timezone.ParseDate(*req.BookingDate)
		if err != nil {
			return res, failure.BadRequest(err) // nolint:wrapcheck
		}

		if timezone.IsPastDate(date) {
			return res, failure.BadRequestFromString("Cannot modify booking date to a past date") // nolint:wrapcheck
		}

		slot.Date = model.CalendarDate(date)
		fields[model.FieldBookingDate] = slot.Date
		reserve = true
	}

	if req.Participants != nil && *req.Participants != booking.Participants {
		if booking.TourPrice == nil {
			return res, failure.NotFound("Tour not found or not available") // nolint:wrapcheck
		}

		slot.Participants = *req.Participants
		fields[model.FieldParticipants] = *req.Participants
		fields[model.FieldTotalAmount] = *booking.TourPrice * float64(*req.Participants)
		reserve = true
	}

	if req.SpecialRequests != nil {
		fields[model.FieldSpecialRequests] = *req.SpecialRequests
	}

	if req.ContactInfo != nil {
		contact, err := gModel.Encode(req.ContactInfo)
		if err != nil {
			log.Error().Err(err).Msg("failed to encode contact info")

			return res, fmt.Errorf("failed to encode contact info: %w", err)
		}

		fields[model.FieldContactInfo] = contact
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	if reserve {
		err = s.repo.Reserve(ctx, slot, func(tx *sqlx.Tx) error {
			return s.repo.UpdateTx(ctx, tx, fields, filter) //nolint:wrapcheck
		})
	} else {
		err = s.repo.Update(ctx, fields, filter)
	}

	if fail := model.ReserveFailure(err); fail != nil {
		return res, fail
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to update booking")

		return res, fmt.Errorf("failed to update booking: %w", err)
	}

	if to, ok := fields[model.FieldStatus].(string); ok {
		metrics.RecordBookingTransition(booking.Status, to)
	}

	updated, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get updated booking")

		return res, fmt.Errorf("failed to get updated booking: %w", err)
	}

	res.FromModel(updated)

	return res, nil
}

func (s *serviceImpl) Cancel(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Booking.Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, role := shared.Actor(ctx)

	booking, err := s.visible(ctx, id)
	if err != nil {
		return res, err
	}

	switch booking.Status {
	case model.StatusCompleted:
		return res, failure.BadRequestFromString("Cannot cancel completed bookings") // nolint:wrapcheck
	case model.StatusCancelled:
		return res, failure.BadRequestFromString("Booking is already cancelled") // nolint:wrapcheck
	}

	by := model.ActorOwner
	if role == constant.RoleAdmin {
		by = model.ActorAdmin
	}

	if !model.CanTransition(booking.Status, model.StatusCancelled, by) {
		return res, failure.BadRequestFromString(fmt.Sprintf("Cannot cancel %s bookings", booking.Status)) // nolint:wrapcheck
	}

	if !model.CanCancelAt(booking.StartsAt(timezone.GetLocation()), timezone.Now()) {
		return res, failure.BadRequestFromString("Cannot cancel booking less than 24 hours before the tour date") // nolint:wrapcheck
	}

	paymentStatus := model.PaymentCancelled
	if booking.PaymentStatus == model.PaymentPaid {
		paymentStatus = model.PaymentRefunded
	}

	fields := map[string]any{
		model.FieldStatus:        model.StatusCancelled,
		model.FieldPaymentStatus: paymentStatus,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: actor,
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to cancel booking")

		return res, fmt.Errorf("failed to cancel booking: %w", err)
	}

	metrics.RecordBookingTransition(booking.Status, model.StatusCancelled)

	booking.Status = model.StatusCancelled
	booking.PaymentStatus = paymentStatus

	res.FromModel(booking)

	return res, nil
}

// visible loads a booking the caller owns, or any booking for an admin. Anything else reads as not found.
func (s *serviceImpl) visible(ctx context.Context, id string) (model.Booking, error) {
	actor, role := shared.Actor(ctx)

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == "" || (booking.UserID != actor && role != constant.RoleAdmin) {
		return model.Booking{}, failure.NotFound("Booking not found") // nolint:wrapcheck
	}

	return booking, nil
}
