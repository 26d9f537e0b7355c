package model

import (
	"time"

	"tourbook/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID               = "id"
	FieldUserID           = "user_id"
	FieldTourID           = "tour_id"
	FieldBookingDate      = "booking_date"
	FieldParticipants     = "participants"
	FieldTotalAmount      = "total_amount"
	FieldStatus           = "status"
	FieldPaymentStatus    = "payment_status"
	FieldPaymentIntentID  = "payment_intent_id"
	FieldConfirmationCode = "confirmation_code"
	FieldSpecialRequests  = "special_requests"
	FieldContactInfo      = "contact_info"
	FieldNotes            = "notes"
)

const (
	PaymentPending   = "pending"
	PaymentPaid      = "paid"
	PaymentRefunded  = "refunded"
	PaymentCancelled = "cancelled"
)

type Booking struct {
	ID               string         `db:"id"`
	UserID           string         `db:"user_id"`
	TourID           string         `db:"tour_id"`
	BookingDate      time.Time      `db:"booking_date"`
	Participants     int            `db:"participants"`
	TotalAmount      float64        `db:"total_amount"`
	Status           string         `db:"status"`
	PaymentStatus    string         `db:"payment_status"`
	PaymentIntentID  *string        `db:"payment_intent_id"`
	ConfirmationCode *string        `db:"confirmation_code"`
	SpecialRequests  *string        `db:"special_requests"`
	ContactInfo      model.JSONText `db:"contact_info"`
	Notes            *string        `db:"notes"`
	model.Metadata

	TourTitle      *string  `db:"tour_title"       table:"tours" column:"title"`
	TourLocation   *string  `db:"tour_location"    table:"tours" column:"location"`
	TourDuration   *int     `db:"tour_duration"    table:"tours" column:"duration"`
	TourPrice      *float64 `db:"tour_price"       table:"tours" column:"price"`
	TourProviderID *string  `db:"tour_provider_id" table:"tours" column:"provider_id"`
}

func (Booking) GetJoinQuery() string {
	return "LEFT JOIN tours ON tours.id = bookings.tour_id"
}

// Stats aggregates a user's bookings for the profile page.
type Stats struct {
	TotalBookings     int     `db:"total_bookings"`
	ConfirmedBookings int     `db:"confirmed_bookings"`
	CompletedBookings int     `db:"completed_bookings"`
	TotalSpent        float64 `db:"total_spent"`
}
