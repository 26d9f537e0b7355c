package model

import (
	"crypto/rand"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"tourbook/shared/failure"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusDisputed  = "disputed"
)

// Actor is the party requesting a status change.
type Actor string

const (
	ActorAdmin   Actor = "admin"
	ActorOwner   Actor = "owner"
	ActorPayment Actor = "payment"
)

type transition struct {
	from  string
	to    string
	actor Actor
}

var transitions = []transition{
	{StatusPending, StatusConfirmed, ActorAdmin},
	{StatusConfirmed, StatusCompleted, ActorAdmin},
	{StatusPending, StatusConfirmed, ActorPayment},
	{StatusPending, StatusCancelled, ActorOwner},
	{StatusConfirmed, StatusCancelled, ActorOwner},
	{StatusPending, StatusCancelled, ActorAdmin},
	{StatusConfirmed, StatusCancelled, ActorAdmin},
	{StatusDisputed, StatusCancelled, ActorOwner},
	{StatusDisputed, StatusCancelled, ActorAdmin},
}

// CanTransition reports whether actor may move a booking from one status to another.
// Gateway webhooks are not listed: disputes and refunds overwrite the status from any state.
func CanTransition(from, to string, actor Actor) bool {
	return slices.Contains(transitions, transition{from, to, actor})
}

// IsTerminal reports whether the booking details can no longer be modified.
func IsTerminal(status string) bool {
	return status == StatusCompleted || status == StatusCancelled || status == StatusDisputed
}

// IsActive reports whether the booking still holds capacity on its tour.
func IsActive(status string) bool {
	return status == StatusPending || status == StatusConfirmed
}

// ActiveStatuses are the statuses counted against a tour's capacity.
var ActiveStatuses = []string{StatusPending, StatusConfirmed}

var ErrTourUnavailable = errors.New("tour not found or not available")

// Slot identifies the capacity a booking claims on a tour date.
type Slot struct {
	TourID           string
	Date             time.Time
	Participants     int
	ExcludeBookingID string
}

// CapacityError reports that a slot does not fit the remaining capacity.
type CapacityError struct {
	Remaining int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("only %d spots available", e.Remaining)
}

const (
	confirmationPrefix   = "AC"
	confirmationAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	confirmationSuffix   = 4
	confirmationDigits   = 8
)

// NewConfirmationCode builds "AC" + the last 8 digits of the millisecond timestamp + 4 random characters.
func NewConfirmationCode(at time.Time) string {
	millis := strconv.FormatInt(at.UnixMilli(), 10)
	if len(millis) > confirmationDigits {
		millis = millis[len(millis)-confirmationDigits:]
	}

	suffix := make([]byte, confirmationSuffix)
	random := make([]byte, confirmationSuffix)

	_, _ = rand.Read(random)

	for i, b := range random {
		suffix[i] = confirmationAlphabet[int(b)%len(confirmationAlphabet)]
	}

	return confirmationPrefix + millis + string(suffix)
}

// CancellationWindow is how far ahead of the tour date a booking may still be cancelled.
const CancellationWindow = 24 * time.Hour

// CanCancelAt reports whether a booking for date may be cancelled at the given instant.
// The window is exclusive: exactly 24 hours before the tour is too late.
func CanCancelAt(date, at time.Time) bool {
	return date.Sub(at) > CancellationWindow
}

// CalendarDate keeps only the calendar day of t, as UTC midnight, so it is stored in a DATE column unshifted.
func CalendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// StartsAt is midnight of the booking date in loc.
func (b Booking) StartsAt(loc *time.Location) time.Time {
	return time.Date(b.BookingDate.Year(), b.BookingDate.Month(), b.BookingDate.Day(), 0, 0, 0, 0, loc)
}

// ReserveFailure maps the reservation errors to client-facing failures and returns nil for anything else.
func ReserveFailure(err error) error {
	var capacityErr *CapacityError

	switch {
	case errors.Is(err, ErrTourUnavailable):
		return failure.NotFound("Tour not found or not available") // nolint:wrapcheck
	case errors.As(err, &capacityErr):
		return failure.BadRequestFromString(fmt.Sprintf("Only %d spots available for this date", capacityErr.Remaining)) // nolint:wrapcheck
	default:
		return nil
	}
}
