package dto

import (
	"time"

	"tourbook/internal/domains/booking/model"
	"tourbook/shared/constant"
	gDto "tourbook/shared/dto"
	gModel "tourbook/shared/model"
	"tourbook/shared/timezone"

	"github.com/google/uuid"
)

type EmergencyContact struct {
	Name         string `json:"name"         validate:"required,min=2,max=100,safetext"`
	Phone        string `json:"phone"        validate:"required,min=10,phone"`
	Relationship string `json:"relationship" validate:"required,min=2,max=50,safetext"`
}

type ParticipantDetail struct {
	Name                string `json:"name"                           validate:"required,min=2,max=100,safetext"`
	Age                 int    `json:"age"                            validate:"required,min=1,max=120"`
	DietaryRestrictions string `json:"dietary_restrictions,omitempty" validate:"omitempty,max=500,safetext"`
	MedicalConditions   string `json:"medical_conditions,omitempty"   validate:"omitempty,max=500,safetext"`
}

// ContactInfo is stored as JSON text in bookings.contact_info.
type ContactInfo struct {
	Phone               string              `json:"phone,omitempty"                validate:"omitempty,min=10,phone"`
	EmergencyContact    *EmergencyContact   `json:"emergency_contact,omitempty"    validate:"omitempty"`
	ParticipantDetails  []ParticipantDetail `json:"participant_details,omitempty"  validate:"omitempty,dive"`
	DietaryRestrictions []string            `json:"dietary_restrictions,omitempty" validate:"omitempty,dive,max=200,safetext"`
	AccessibilityNeeds  string              `json:"accessibility_needs,omitempty"  validate:"omitempty,max=500,safetext"`
}

type CreateBookingRequest struct {
	TourID             string              `json:"tour_id"             validate:"required,uuid"`
	BookingDate        string              `json:"booking_date"        validate:"required,notpast"`
	Participants       int                 `json:"participants"        validate:"required,min=1,max=50"`
	SpecialRequests    *string             `json:"special_requests"    validate:"omitempty,max=1000,safetext"`
	ContactPhone       string              `json:"contact_phone"       validate:"required,min=10,phone"`
	EmergencyContact   *EmergencyContact   `json:"emergency_contact"   validate:"omitempty"`
	ParticipantDetails []ParticipantDetail `json:"participant_details" validate:"omitempty,dive"`
}

// ToModel builds a pending booking priced at price per participant.
func (r *CreateBookingRequest) ToModel(userID string, date time.Time, price float64) (model.Booking, error) {
	contact, err := gModel.Encode(ContactInfo{
		Phone:              r.ContactPhone,
		EmergencyContact:   r.EmergencyContact,
		ParticipantDetails: r.ParticipantDetails,
	})
	if err != nil {
		return model.Booking{}, err //nolint:wrapcheck
	}

	return model.Booking{
		ID:              uuid.NewString(),
		UserID:          userID,
		TourID:          r.TourID,
		BookingDate:     date,
		Participants:    r.Participants,
		TotalAmount:     price * float64(r.Participants),
		Status:          model.StatusPending,
		PaymentStatus:   model.PaymentPending,
		SpecialRequests: r.SpecialRequests,
		ContactInfo:     contact,
		Metadata:        gModel.NewMetadata(userID, timezone.Now()),
	}, nil
}

type UpdateBookingRequest struct {
	Participants    *int         `json:"participants,omitempty"     validate:"omitempty,min=1,max=50"`
	BookingDate     *string      `json:"booking_date,omitempty"     validate:"omitempty"`
	SpecialRequests *string      `json:"special_requests,omitempty" validate:"omitempty,max=1000,safetext"`
	ContactInfo     *ContactInfo `json:"contact_info,omitempty"     validate:"omitempty"`
	Status          *string      `json:"status,omitempty"           validate:"omitempty,oneof=confirmed completed"`
}

// IsEmpty reports whether the request changes nothing.
func (r *UpdateBookingRequest) IsEmpty() bool {
	return r.Participants == nil && r.BookingDate == nil && r.SpecialRequests == nil && r.ContactInfo == nil && r.Status == nil
}

type TourSummary struct {
	ID       string   `json:"id"`
	Title    *string  `json:"title"`
	Location *string  `json:"location"`
	Duration *int     `json:"duration,omitempty"`
	Price    *float64 `json:"price,omitempty"`
}

type BookingResponse struct {
	ID               string          `json:"id"`
	UserID           string          `json:"user_id"`
	TourID           string          `json:"tour_id"`
	BookingDate      string          `json:"booking_date"`
	Participants     int             `json:"participants"`
	TotalAmount      float64         `json:"total_amount"`
	Status           string          `json:"status"`
	PaymentStatus    string          `json:"payment_status"`
	PaymentIntentID  *string         `json:"payment_intent_id"`
	ConfirmationCode *string         `json:"confirmation_code"`
	SpecialRequests  *string         `json:"special_requests"`
	ContactInfo      gModel.JSONText `json:"contact_info"`
	Notes            *string         `json:"notes,omitempty"`
	Tour             *TourSummary    `json:"tour,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.UserID = model.UserID
	r.TourID = model.TourID
	r.BookingDate = model.BookingDate.Format(constant.DateOnlyLayout)
	r.Participants = model.Participants
	r.TotalAmount = model.TotalAmount
	r.Status = model.Status
	r.PaymentStatus = model.PaymentStatus
	r.PaymentIntentID = model.PaymentIntentID
	r.ConfirmationCode = model.ConfirmationCode
	r.SpecialRequests = model.SpecialRequests
	r.ContactInfo = model.ContactInfo
	r.Notes = model.Notes

	if model.TourTitle != nil {
		r.Tour = &TourSummary{
			ID:       model.TourID,
			Title:    model.TourTitle,
			Location: model.TourLocation,
			Duration: model.TourDuration,
			Price:    model.TourPrice,
		}
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings   []BookingResponse `json:"bookings"`
	Pagination gDto.Pagination   `json:"pagination"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, page, limit, total int) {
	r.Pagination = gDto.NewPagination(page, limit, total)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}
