package dto

import (
	"net/http"

	"tourbook/internal/domains/review/model"
	"tourbook/shared"
	gDto "tourbook/shared/dto"
	gModel "tourbook/shared/model"
	"tourbook/shared/timezone"

	"github.com/google/uuid"
)

type CreateReviewRequest struct {
	BookingID  string   `json:"booking_id"  validate:"required,uuid"`
	TourID     *string  `json:"tour_id"     validate:"omitempty,uuid"`
	ProviderID *string  `json:"provider_id" validate:"omitempty,uuid"`
	Rating     int      `json:"rating"      validate:"required,min=1,max=5"`
	Title      string   `json:"title"       validate:"required,min=1,max=200,safetext"`
	Comment    string   `json:"comment"     validate:"required,min=10,max=2000,safetext"`
	Images     []string `json:"images"      validate:"omitempty,max=5,dive,url"`
}

// MatchesBooking reports whether the optional tour and provider ids agree with the reviewed booking.
func (r *CreateReviewRequest) MatchesBooking(tourID string, providerID *string) bool {
	if r.TourID != nil && *r.TourID != tourID {
		return false
	}

	if r.ProviderID != nil && (providerID == nil || *r.ProviderID != *providerID) {
		return false
	}

	return true
}

// ToModel builds a verified review attached to the booking's tour and provider.
func (r *CreateReviewRequest) ToModel(userID string, tourID, providerID *string) model.Review {
	return model.Review{
		ID:         uuid.NewString(),
		UserID:     userID,
		TourID:     tourID,
		ProviderID: providerID,
		BookingID:  r.BookingID,
		Rating:     r.Rating,
		Title:      r.Title,
		Comment:    r.Comment,
		Images:     r.Images,
		IsVerified: true,
		Metadata:   gModel.NewMetadata(userID, timezone.Now()),
	}
}

type ReviewResponse struct {
	ID           string   `json:"id"`
	UserID       string   `json:"user_id"`
	TourID       *string  `json:"tour_id"`
	ProviderID   *string  `json:"provider_id"`
	BookingID    string   `json:"booking_id"`
	Rating       int      `json:"rating"`
	Title        string   `json:"title"`
	Comment      string   `json:"comment"`
	Images       []string `json:"images"`
	IsVerified   bool     `json:"is_verified"`
	ReviewerName *string  `json:"reviewer_name"`
	TourTitle    *string  `json:"tour_title,omitempty"`
	TourLocation *string  `json:"tour_location,omitempty"`
	ProviderName *string  `json:"provider_name,omitempty"`
	gDto.Metadata
}

func (r *ReviewResponse) FromModel(model model.Review) {
	r.ID = model.ID
	r.UserID = model.UserID
	r.TourID = model.TourID
	r.ProviderID = model.ProviderID
	r.BookingID = model.BookingID
	r.Rating = model.Rating
	r.Title = model.Title
	r.Comment = model.Comment
	r.IsVerified = model.IsVerified
	r.ReviewerName = model.ReviewerName
	r.TourTitle = model.TourTitle
	r.TourLocation = model.TourLocation
	r.ProviderName = model.ProviderName

	r.Images = model.Images
	if r.Images == nil {
		r.Images = []string{}
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetReviewsResponse struct {
	Reviews    []ReviewResponse `json:"reviews"`
	Pagination gDto.Pagination  `json:"pagination"`
}

func (r *GetReviewsResponse) FromModels(models []model.Review, page, limit, total int) {
	r.Pagination = gDto.NewPagination(page, limit, total)

	r.Reviews = make([]ReviewResponse, len(models))
	for i, mod := range models {
		r.Reviews[i].FromModel(mod)
	}
}

// ReviewQuery holds the listing filters accepted by GET /reviews.
type ReviewQuery struct {
	TourID     string `json:"tour_id"     validate:"omitempty,uuid"`
	ProviderID string `json:"provider_id" validate:"omitempty,uuid"`
	RatingMin  *int   `json:"rating_min"  validate:"omitempty,min=1,max=5"`
	Verified   bool   `json:"verified"`
}

func (q *ReviewQuery) FromRequest(r *http.Request) {
	query := r.URL.Query()

	q.TourID = query.Get(model.FieldTourID)
	q.ProviderID = query.Get(model.FieldProviderID)
	q.RatingMin = shared.ConvertStringToInt(query.Get("rating_min"))

	if verified := shared.ConvertStringToBool(query.Get("verified")); verified != nil {
		q.Verified = *verified
	}
}

func (q *ReviewQuery) FilterGroup() gDto.FilterGroup {
	group := gDto.NewFilterGroup()

	if q.TourID != "" {
		group.Add(gDto.Filter{Field: model.FieldTourID, Value: q.TourID, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if q.ProviderID != "" {
		group.Add(gDto.Filter{Field: model.FieldProviderID, Value: q.ProviderID, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if q.RatingMin != nil {
		group.Add(gDto.Filter{ArgName: "rating_min", Field: model.FieldRating, Value: *q.RatingMin, Operator: gDto.FilterOperatorGreaterEq, Table: model.TableName})
	}

	if q.Verified {
		group.Add(gDto.Filter{Field: model.FieldIsVerified, Value: true, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	return group
}
