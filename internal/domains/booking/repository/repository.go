package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tourbook/infras/otel"
	"tourbook/infras/postgres"
	"tourbook/internal/domains/booking/model"
	"tourbook/shared/constant"
	gDto "tourbook/shared/dto"
	"tourbook/shared/logger"
	gRepo "tourbook/shared/repository"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	lockTourQuery = `SELECT max_participants FROM tours WHERE id = $1 AND is_active = TRUE FOR UPDATE`

	bookedParticipantsQuery = `
SELECT COALESCE(SUM(participants), 0) FROM bookings
WHERE tour_id = $1 AND booking_date = CAST($2 AS DATE) AND status = ANY($3) AND id::text <> $4`

	statsQuery = `
SELECT
	COUNT(*) AS total_bookings,
	COUNT(*) FILTER (WHERE status = 'confirmed') AS confirmed_bookings,
	COUNT(*) FILTER (WHERE status = 'completed') AS completed_bookings,
	COALESCE(SUM(total_amount), 0) AS total_spent
FROM bookings WHERE user_id = $1`
)

type Booking interface {
	InsertTx(ctx context.Context, tx *sqlx.Tx, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, tx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	Reserve(ctx context.Context, slot model.Slot, write func(tx *sqlx.Tx) error) error
	Stats(ctx context.Context, userID string) (model.Stats, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// Reserve locks the tour row, checks the slot against the remaining capacity for
// its date and runs write in the same transaction. It returns
// model.ErrTourUnavailable for a missing or inactive tour and a
// *model.CapacityError when the slot does not fit.
func (r *repositoryImpl) Reserve(ctx context.Context, slot model.Slot, write func(tx *sqlx.Tx) error) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Reserve")
	defer scope.End()

	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		var maxParticipants int

		err := tx.GetContext(ctx, &maxParticipants, lockTourQuery, slot.TourID)
		if errors.Is(err, sql.ErrNoRows) {
			return model.ErrTourUnavailable
		}

		if err != nil {
			return fmt.Errorf("failed to lock tour: %w", err)
		}

		var booked int

		err = tx.GetContext(ctx, &booked, bookedParticipantsQuery,
			slot.TourID,
			slot.Date.Format(constant.DateOnlyLayout),
			pq.Array(model.ActiveStatuses),
			slot.ExcludeBookingID,
		)
		if err != nil {
			return fmt.Errorf("failed to sum booked participants: %w", err)
		}

		if remaining := maxParticipants - booked; slot.Participants > remaining {
			return &model.CapacityError{Remaining: max(remaining, 0)}
		}

		return write(tx)
	})
	if err != nil {
		var capacityErr *model.CapacityError
		if !errors.Is(err, model.ErrTourUnavailable) && !errors.As(err, &capacityErr) {
			logger.ErrorWithStack(err)
			scope.TraceError(err)
		}

		return err //nolint:wrapcheck
	}

	return nil
}

func (r *repositoryImpl) Stats(ctx context.Context, userID string) (model.Stats, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Stats")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, statsQuery)

	var stats model.Stats

	if err := r.db.Read.GetContext(ctx, &stats, statsQuery, userID); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return stats, fmt.Errorf("failed to get booking stats: %w", err)
	}

	return stats, nil
}
