package model

import "tourbook/shared/model"

const (
	TableName  = "service_providers"
	EntityName = "provider"

	FieldID           = "id"
	FieldUserID       = "user_id"
	FieldBusinessName = "business_name"
	FieldBusinessType = "business_type"
	FieldEmail        = "email"
	FieldCity         = "city"
	FieldRating       = "rating"
	FieldReviewsCount = "reviews_count"
	FieldIsVerified   = "is_verified"
	FieldIsActive     = "is_active"
)

const (
	ServiceTableName  = "provider_services"
	ServiceEntityName = "provider_service"
	AmenityTableName  = "provider_amenities"
	AmenityEntity     = "provider_amenity"

	FieldProviderID = "provider_id"
)

const (
	TypeHotel        = "hotel"
	TypeRestaurant   = "restaurant"
	TypeTourOperator = "tour_operator"
	TypeTransport    = "transport"
	TypeActivity     = "activity"
)

type Provider struct {
	ID           string  `db:"id"`
	UserID       string  `db:"user_id"`
	BusinessName string  `db:"business_name"`
	BusinessType string  `db:"business_type"`
	Description  *string `db:"description"`
	Phone        string  `db:"phone"`
	Email        string  `db:"email"`
	Address      string  `db:"address"`
	City         string  `db:"city"`
	Website      *string `db:"website"`
	Rating       float64 `db:"rating"`
	ReviewsCount int     `db:"reviews_count"`
	IsVerified   bool    `db:"is_verified"`
	IsActive     bool    `db:"is_active"`
	model.Metadata

	OwnerName  *string `db:"owner_name"  table:"users" column:"full_name"`
	OwnerEmail *string `db:"owner_email" table:"users" column:"email"`
}

func (Provider) GetJoinQuery() string {
	return "LEFT JOIN users ON users.id = service_providers.user_id"
}

type Service struct {
	ID          string  `db:"id"`
	ProviderID  string  `db:"provider_id"`
	Name        string  `db:"name"`
	Description *string `db:"description"`
	Price       float64 `db:"price"`
	Category    string  `db:"category"`
	IsActive    bool    `db:"is_active"`
	model.Metadata
}

type Amenity struct {
	ID          string `db:"id"`
	ProviderID  string `db:"provider_id"`
	Name        string `db:"name"`
	IsAvailable bool   `db:"is_available"`
	model.Metadata
}
