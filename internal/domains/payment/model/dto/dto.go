package dto

import (
	bookingDto "tourbook/internal/domains/booking/model/dto"
	"tourbook/internal/domains/payment/model"
	"tourbook/shared/constant"
	gDto "tourbook/shared/dto"
)

const DisplayCurrency = "LKR"

type CreateIntentRequest struct {
	TourID       string  `json:"tour_id"      validate:"required,uuid"`
	Participants int     `json:"participants" validate:"required,min=1,max=50"`
	BookingDate  string  `json:"booking_date" validate:"required,notpast"`
	Amount       float64 `json:"amount"       validate:"required,gte=100"`
}

type CreateIntentResponse struct {
	ClientSecret    string  `json:"client_secret"`
	PaymentIntentID string  `json:"payment_intent_id"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
}

type TourSummary struct {
	Title    *string  `json:"title"`
	Location *string  `json:"location"`
	Price    *float64 `json:"price"`
}

type IntentResponse struct {
	ID           string       `json:"id"`
	UserID       string       `json:"user_id"`
	TourID       string       `json:"tour_id"`
	BookingID    *string      `json:"booking_id"`
	Amount       float64      `json:"amount"`
	Currency     string       `json:"currency"`
	Status       string       `json:"status"`
	Participants int          `json:"participants"`
	BookingDate  string       `json:"booking_date"`
	Tour         *TourSummary `json:"tours,omitempty"`
	gDto.Metadata
}

func (r *IntentResponse) FromModel(model model.Intent) {
	r.ID = model.ID
	r.UserID = model.UserID
	r.TourID = model.TourID
	r.BookingID = model.BookingID
	r.Amount = model.Amount
	r.Currency = model.Currency
	r.Status = model.Status
	r.Participants = model.Participants
	r.BookingDate = model.BookingDate.Format(constant.DateOnlyLayout)

	if model.TourTitle != nil {
		r.Tour = &TourSummary{Title: model.TourTitle, Location: model.TourLocation, Price: model.TourPrice}
	}

	r.Metadata.FromModel(model.Metadata)
}

type ConfirmRequest struct {
	PaymentIntentID string `json:"payment_intent_id" validate:"required,max=255"`
	BookingID       string `json:"booking_id"        validate:"omitempty,uuid"`
}

type GatewayIntent struct {
	ID     string  `json:"id"`
	Status string  `json:"status"`
	Amount float64 `json:"amount"`
}

type ConfirmResponse struct {
	Booking       bookingDto.BookingResponse `json:"booking"`
	PaymentIntent GatewayIntent              `json:"payment_intent"`
}

type WebhookResponse struct {
	Received bool `json:"received"`
}
