package model_test

import (
	"errors"
	"net/http"
	"regexp"
	"testing"
	"time"

	"tourbook/internal/domains/booking/model"
	"tourbook/shared/failure"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		actor    model.Actor
		want     bool
	}{
		{model.StatusPending, model.StatusConfirmed, model.ActorAdmin, true},
		{model.StatusConfirmed, model.StatusCompleted, model.ActorAdmin, true},
		{model.StatusPending, model.StatusCompleted, model.ActorAdmin, false},
		{model.StatusPending, model.StatusConfirmed, model.ActorPayment, true},
		{model.StatusConfirmed, model.StatusConfirmed, model.ActorPayment, false},
		{model.StatusPending, model.StatusConfirmed, model.ActorOwner, false},
		{model.StatusConfirmed, model.StatusCancelled, model.ActorOwner, true},
		{model.StatusCompleted, model.StatusCancelled, model.ActorOwner, false},
		{model.StatusDisputed, model.StatusCancelled, model.ActorOwner, true},
		{model.StatusDisputed, model.StatusCancelled, model.ActorAdmin, true},
		{model.StatusDisputed, model.StatusConfirmed, model.ActorAdmin, false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to+" by "+string(tt.actor), func(t *testing.T) {
			assert.Equal(t, tt.want, model.CanTransition(tt.from, tt.to, tt.actor))
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, model.IsTerminal(model.StatusPending))
	assert.False(t, model.IsTerminal(model.StatusConfirmed))
	assert.True(t, model.IsTerminal(model.StatusCompleted))
	assert.True(t, model.IsTerminal(model.StatusCancelled))
	assert.True(t, model.IsTerminal(model.StatusDisputed))
}

func TestCanCancelAt(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	assert.True(t, model.CanCancelAt(date, date.Add(-25*time.Hour)))
	assert.False(t, model.CanCancelAt(date, date.Add(-24*time.Hour)))
	assert.False(t, model.CanCancelAt(date, date.Add(-2*time.Hour)))
}

func TestCalendarDate(t *testing.T) {
	colombo := time.FixedZone("Asia/Colombo", 5*3600+1800)
	local := time.Date(2026, 3, 10, 0, 0, 0, 0, colombo)

	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), model.CalendarDate(local))

	booking := model.Booking{BookingDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, local, booking.StartsAt(colombo))
}

func TestNewConfirmationCode(t *testing.T) {
	at := time.UnixMilli(1735689600123)

	code := model.NewConfirmationCode(at)

	assert.Regexp(t, regexp.MustCompile(`^AC89600123[A-Z0-9]{4}$`), code)
	assert.NotEqual(t, code, model.NewConfirmationCode(at.Add(time.Millisecond)))
}

func TestReserveFailure(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, failure.GetCode(model.ReserveFailure(model.ErrTourUnavailable)))

	err := model.ReserveFailure(&model.CapacityError{Remaining: 3})
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	assert.EqualError(t, err, "Only 3 spots available for this date")

	assert.NoError(t, model.ReserveFailure(nil))
	assert.NoError(t, model.ReserveFailure(errors.New("db down")))
}
