package model

import (
	"time"

	"tourbook/shared/model"
)

const (
	TableName  = "payment_intents"
	EntityName = "payment_intent"

	FieldID        = "id"
	FieldUserID    = "user_id"
	FieldTourID    = "tour_id"
	FieldBookingID = "booking_id"
	FieldStatus    = "status"
)

const (
	StatusPending   = "requires_payment_method"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
	StatusCanceled  = "canceled"
	StatusRefunded  = "refunded"
)

const Platform = "tourbook"

// Intent is the locally stored copy of a gateway payment intent.
type Intent struct {
	ID           string    `db:"id"`
	UserID       string    `db:"user_id"`
	TourID       string    `db:"tour_id"`
	BookingID    *string   `db:"booking_id"`
	Amount       float64   `db:"amount"`
	Currency     string    `db:"currency"`
	Status       string    `db:"status"`
	Participants int       `db:"participants"`
	BookingDate  time.Time `db:"booking_date"`
	model.Metadata

	TourTitle    *string  `db:"tour_title"    table:"tours" column:"title"`
	TourLocation *string  `db:"tour_location" table:"tours" column:"location"`
	TourPrice    *float64 `db:"tour_price"    table:"tours" column:"price"`
}

func (Intent) GetJoinQuery() string {
	return "LEFT JOIN tours ON tours.id = payment_intents.tour_id"
}
