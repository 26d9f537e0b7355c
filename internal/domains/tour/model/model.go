package model

import "tourbook/shared/model"

const (
	TableName  = "tours"
	EntityName = "tour"

	FieldID              = "id"
	FieldProviderID      = "provider_id"
	FieldTitle           = "title"
	FieldDescription     = "description"
	FieldPrice           = "price"
	FieldDuration        = "duration"
	FieldMaxParticipants = "max_participants"
	FieldCategory        = "category"
	FieldLocation        = "location"
	FieldImages          = "images"
	FieldRating          = "rating"
	FieldReviewsCount    = "reviews_count"
	FieldIsActive        = "is_active"
)

// Sort keys accepted by the tour listing.
const (
	SortPriceAsc     = "price_asc"
	SortPriceDesc    = "price_desc"
	SortDurationAsc  = "duration_asc"
	SortDurationDesc = "duration_desc"
	SortNewest       = "newest"
	SortRating       = "rating"
)

type Tour struct {
	ID              string           `db:"id"`
	ProviderID      string           `db:"provider_id"`
	Title           string           `db:"title"`
	Description     string           `db:"description"`
	Price           float64          `db:"price"`
	Duration        int              `db:"duration"`
	MaxParticipants int              `db:"max_participants"`
	Category        string           `db:"category"`
	Location        string           `db:"location"`
	Images          model.StringList `db:"images"`
	Itinerary       model.StringList `db:"itinerary"`
	Inclusions      model.StringList `db:"inclusions"`
	Exclusions      model.StringList `db:"exclusions"`
	Rating          float64          `db:"rating"`
	ReviewsCount    int              `db:"reviews_count"`
	IsActive        bool             `db:"is_active"`
	model.Metadata

	ProviderName     *string  `db:"provider_name"     table:"service_providers" column:"business_name"`
	ProviderCity     *string  `db:"provider_city"     table:"service_providers" column:"city"`
	ProviderPhone    *string  `db:"provider_phone"    table:"service_providers" column:"phone"`
	ProviderEmail    *string  `db:"provider_email"    table:"service_providers" column:"email"`
	ProviderRating   *float64 `db:"provider_rating"   table:"service_providers" column:"rating"`
	ProviderUserID   *string  `db:"provider_user_id"  table:"service_providers" column:"user_id"`
	ProviderVerified *bool    `db:"provider_verified" table:"service_providers" column:"is_verified"`
}

func (Tour) GetJoinQuery() string {
	return "LEFT JOIN service_providers ON service_providers.id = tours.provider_id"
}

// OwnedBy reports whether userID owns the provider profile behind the tour.
func (t Tour) OwnedBy(userID string) bool {
	return t.ProviderUserID != nil && *t.ProviderUserID == userID
}
