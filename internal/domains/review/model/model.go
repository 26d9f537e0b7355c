package model

import "tourbook/shared/model"

const (
	TableName  = "reviews"
	EntityName = "review"

	FieldID         = "id"
	FieldUserID     = "user_id"
	FieldTourID     = "tour_id"
	FieldProviderID = "provider_id"
	FieldBookingID  = "booking_id"
	FieldRating     = "rating"
	FieldIsVerified = "is_verified"
)

type Review struct {
	ID         string           `db:"id"`
	UserID     string           `db:"user_id"`
	TourID     *string          `db:"tour_id"`
	ProviderID *string          `db:"provider_id"`
	BookingID  string           `db:"booking_id"`
	Rating     int              `db:"rating"`
	Title      string           `db:"title"`
	Comment    string           `db:"comment"`
	Images     model.StringList `db:"images"`
	IsVerified bool             `db:"is_verified"`
	model.Metadata

	ReviewerName *string `db:"reviewer_name" table:"users"             column:"full_name"`
	TourTitle    *string `db:"tour_title"    table:"tours"             column:"title"`
	TourLocation *string `db:"tour_location" table:"tours"             column:"location"`
	ProviderName *string `db:"provider_name" table:"service_providers" column:"business_name"`
}

func (Review) GetJoinQuery() string {
	return "LEFT JOIN users ON users.id = reviews.user_id " +
		"LEFT JOIN tours ON tours.id = reviews.tour_id " +
		"LEFT JOIN service_providers ON service_providers.id = reviews.provider_id"
}
