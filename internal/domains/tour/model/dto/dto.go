package dto

import (
	"mime/multipart"
	"net/http"

	reviewModel "tourbook/internal/domains/review/model"
	"tourbook/internal/domains/tour/catalogue"
	"tourbook/internal/domains/tour/model"
	"tourbook/shared"
	"tourbook/shared/constant"
	gDto "tourbook/shared/dto"
	gModel "tourbook/shared/model"
	"tourbook/shared/timezone"

	"github.com/google/uuid"
)

type CreateTourRequest struct {
	Title           string   `json:"title"            validate:"required,min=1,max=200,safetext"`
	Description     string   `json:"description"      validate:"required,min=10,max=5000,safetext"`
	Price           float64  `json:"price"            validate:"required,gt=0,lte=1000000"`
	Duration        int      `json:"duration"         validate:"required,gt=0,lte=365"`
	MaxParticipants int      `json:"max_participants" validate:"required,gt=0,lte=1000"`
	Category        string   `json:"category"         validate:"required,max=50,safetext"`
	Location        string   `json:"location"         validate:"required,max=200,location"`
	Images          []string `json:"images"           validate:"omitempty,dive,url"`
	Itinerary       []string `json:"itinerary"        validate:"omitempty,dive,max=1000,safetext"`
	Inclusions      []string `json:"inclusions"       validate:"omitempty,dive,max=200,safetext"`
	Exclusions      []string `json:"exclusions"       validate:"omitempty,dive,max=200,safetext"`
	ProviderID      string   `json:"provider_id"      validate:"omitempty,uuid"`
}

func (r *CreateTourRequest) ToModel(providerID, actor string) model.Tour {
	return model.Tour{
		ID:              uuid.NewString(),
		ProviderID:      providerID,
		Title:           r.Title,
		Description:     r.Description,
		Price:           r.Price,
		Duration:        r.Duration,
		MaxParticipants: r.MaxParticipants,
		Category:        r.Category,
		Location:        r.Location,
		Images:          r.Images,
		Itinerary:       r.Itinerary,
		Inclusions:      r.Inclusions,
		Exclusions:      r.Exclusions,
		IsActive:        true,
		Metadata:        gModel.NewMetadata(actor, timezone.Now()),
	}
}

type UpdateTourRequest struct {
	Title           *string           `db:"title"            json:"title,omitempty"            validate:"omitempty,min=1,max=200,safetext"`
	Description     *string           `db:"description"      json:"description,omitempty"      validate:"omitempty,min=10,max=5000,safetext"`
	Price           *float64          `db:"price"            json:"price,omitempty"            validate:"omitempty,gt=0,lte=1000000"`
	Duration        *int              `db:"duration"         json:"duration,omitempty"         validate:"omitempty,gt=0,lte=365"`
	MaxParticipants *int              `db:"max_participants" json:"max_participants,omitempty" validate:"omitempty,gt=0,lte=1000"`
	Category        *string           `db:"category"         json:"category,omitempty"         validate:"omitempty,max=50,safetext"`
	Location        *string           `db:"location"         json:"location,omitempty"         validate:"omitempty,max=200,location"`
	Images          gModel.StringList `db:"images"           json:"images,omitempty"           validate:"omitempty,dive,url"`
	Itinerary       gModel.StringList `db:"itinerary"        json:"itinerary,omitempty"        validate:"omitempty,dive,max=1000,safetext"`
	Inclusions      gModel.StringList `db:"inclusions"       json:"inclusions,omitempty"       validate:"omitempty,dive,max=200,safetext"`
	Exclusions      gModel.StringList `db:"exclusions"       json:"exclusions,omitempty"       validate:"omitempty,dive,max=200,safetext"`
	IsActive        *bool             `db:"is_active"        json:"is_active,omitempty"`
}

// IsEmpty reports whether the request changes nothing.
func (r *UpdateTourRequest) IsEmpty() bool {
	return r.Title == nil && r.Description == nil && r.Price == nil && r.Duration == nil &&
		r.MaxParticipants == nil && r.Category == nil && r.Location == nil && r.Images == nil &&
		r.Itinerary == nil && r.Inclusions == nil && r.Exclusions == nil && r.IsActive == nil
}

type ProviderSummary struct {
	ID           string   `json:"id"`
	BusinessName *string  `json:"business_name"`
	City         *string  `json:"city"`
	Phone        *string  `json:"phone,omitempty"`
	Email        *string  `json:"email,omitempty"`
	Rating       *float64 `json:"rating"`
	IsVerified   *bool    `json:"is_verified,omitempty"`
}

type TourResponse struct {
	ID              string           `json:"id"`
	ProviderID      string           `json:"provider_id"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Price           float64          `json:"price"`
	Duration        int              `json:"duration"`
	MaxParticipants int              `json:"max_participants"`
	Category        string           `json:"category"`
	Location        string           `json:"location"`
	Images          []string         `json:"images"`
	Itinerary       []string         `json:"itinerary"`
	Inclusions      []string         `json:"inclusions"`
	Exclusions      []string         `json:"exclusions"`
	Rating          float64          `json:"rating"`
	ReviewsCount    int              `json:"reviews_count"`
	IsActive        bool             `json:"is_active"`
	Provider        *ProviderSummary `json:"service_providers,omitempty"`
	gDto.Metadata
}

func (r *TourResponse) FromModel(model model.Tour) {
	r.ID = model.ID
	r.ProviderID = model.ProviderID
	r.Title = model.Title
	r.Description = model.Description
	r.Price = model.Price
	r.Duration = model.Duration
	r.MaxParticipants = model.MaxParticipants
	r.Category = model.Category
	r.Location = model.Location
	r.Images = orEmpty(model.Images)
	r.Itinerary = orEmpty(model.Itinerary)
	r.Inclusions = orEmpty(model.Inclusions)
	r.Exclusions = orEmpty(model.Exclusions)
	r.Rating = model.Rating
	r.ReviewsCount = model.ReviewsCount
	r.IsActive = model.IsActive

	if model.ProviderName != nil {
		r.Provider = &ProviderSummary{
			ID:           model.ProviderID,
			BusinessName: model.ProviderName,
			City:         model.ProviderCity,
			Rating:       model.ProviderRating,
		}
	}

	r.Metadata.FromModel(model.Metadata)
}

type ReviewSummary struct {
	ID           string  `json:"id"`
	Rating       int     `json:"rating"`
	Title        string  `json:"title"`
	Comment      string  `json:"comment"`
	ReviewerName *string `json:"reviewer_name"`
	CreatedAt    string  `json:"created_at"`
}

type TourDetailResponse struct {
	TourResponse
	Amenities []string        `json:"amenities"`
	Reviews   []ReviewSummary `json:"reviews"`
}

// FromModel fills the detail view, including provider contact details.
func (r *TourDetailResponse) FromModel(tour model.Tour, reviews []reviewModel.Review, amenities []string) {
	r.TourResponse.FromModel(tour)

	if r.Provider != nil {
		r.Provider.Phone = tour.ProviderPhone
		r.Provider.Email = tour.ProviderEmail
		r.Provider.IsVerified = tour.ProviderVerified
	}

	r.Amenities = orEmpty(amenities)

	r.Reviews = make([]ReviewSummary, len(reviews))
	for i, review := range reviews {
		r.Reviews[i] = ReviewSummary{
			ID:           review.ID,
			Rating:       review.Rating,
			Title:        review.Title,
			Comment:      review.Comment,
			ReviewerName: review.ReviewerName,
			CreatedAt:    timezone.Format(review.CreatedAt, constant.DateFormat),
		}
	}
}

type GetToursResponse struct {
	Tours      []TourResponse  `json:"tours"`
	Pagination gDto.Pagination `json:"pagination"`
}

func (r *GetToursResponse) FromModels(models []model.Tour, page, limit, total int) {
	r.Pagination = gDto.NewPagination(page, limit, total)

	r.Tours = make([]TourResponse, len(models))
	for i, mod := range models {
		r.Tours[i].FromModel(mod)
	}
}

// TourQuery holds the listing filters accepted by GET /tours.
type TourQuery struct {
	Category string   `json:"category" validate:"omitempty,max=50,safesearch"`
	Location string   `json:"location" validate:"omitempty,max=100,safesearch"`
	Search   string   `json:"search"   validate:"omitempty,max=100,safesearch"`
	PriceMin *float64 `json:"price_min" validate:"omitempty,gte=0"`
	PriceMax *float64 `json:"price_max" validate:"omitempty,gte=0"`
	Duration *int     `json:"duration"  validate:"omitempty,gt=0"`
	Sort     string   `json:"sort"      validate:"omitempty,oneof=price_asc price_desc duration_asc duration_desc newest rating"`
}

func (q *TourQuery) FromRequest(r *http.Request) {
	query := r.URL.Query()

	q.Category = query.Get(model.FieldCategory)
	q.Location = query.Get(model.FieldLocation)
	q.Search = query.Get(constant.RequestParamSearch)
	q.PriceMin = shared.ConvertStringToFloat(query.Get("price_min"))
	q.PriceMax = shared.ConvertStringToFloat(query.Get("price_max"))
	q.Duration = shared.ConvertStringToInt(query.Get(model.FieldDuration))
	q.Sort = query.Get(constant.RequestParamSort)
}

// FilterGroup builds the listing filter. Only active tours are listed.
func (q *TourQuery) FilterGroup() gDto.FilterGroup {
	group := gDto.NewFilterGroup(gDto.Filter{
		Field:    model.FieldIsActive,
		Value:    true,
		Operator: gDto.FilterOperatorEq,
		Table:    model.TableName,
	})

	if q.Category != "" {
		group.Add(gDto.Filter{Field: model.FieldCategory, Value: q.Category, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if q.Location != "" {
		group.Add(gDto.Filter{Field: model.FieldLocation, Value: q.Location, Operator: gDto.FilterOperatorLike, Table: model.TableName})
	}

	if q.PriceMin != nil {
		group.Add(gDto.Filter{ArgName: "price_min", Field: model.FieldPrice, Value: *q.PriceMin, Operator: gDto.FilterOperatorGreaterEq, Table: model.TableName})
	}

	if q.PriceMax != nil {
		group.Add(gDto.Filter{ArgName: "price_max", Field: model.FieldPrice, Value: *q.PriceMax, Operator: gDto.FilterOperatorLessEq, Table: model.TableName})
	}

	if q.Duration != nil {
		group.Add(gDto.Filter{Field: model.FieldDuration, Value: *q.Duration, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if q.Search != "" {
		group.Add(gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorOr,
			Filters: []any{
				gDto.Filter{ArgName: "search_title", Field: model.FieldTitle, Value: q.Search, Operator: gDto.FilterOperatorLike, Table: model.TableName},
				gDto.Filter{ArgName: "search_description", Field: model.FieldDescription, Value: q.Search, Operator: gDto.FilterOperatorLike, Table: model.TableName},
				gDto.Filter{ArgName: "search_location", Field: model.FieldLocation, Value: q.Search, Operator: gDto.FilterOperatorLike, Table: model.TableName},
			},
		})
	}

	return group
}

// ApplySort maps the sort key onto params. Unknown keys sort by rating.
func (q *TourQuery) ApplySort(params *gDto.QueryParams) {
	column, dir := model.FieldRating, gDto.SortDirDesc

	switch q.Sort {
	case model.SortPriceAsc:
		column, dir = model.FieldPrice, gDto.SortDirAsc
	case model.SortPriceDesc:
		column, dir = model.FieldPrice, gDto.SortDirDesc
	case model.SortDurationAsc:
		column, dir = model.FieldDuration, gDto.SortDirAsc
	case model.SortDurationDesc:
		column, dir = model.FieldDuration, gDto.SortDirDesc
	case model.SortNewest:
		column, dir = constant.FieldCreatedAt, gDto.SortDirDesc
	}

	params.SortBy = model.TableName + "." + column
	params.SortDir = dir
}

type SeededTour struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type SeedResponse struct {
	Count int          `json:"count"`
	Tours []SeededTour `json:"tours,omitempty"`
}

// FromCatalogue converts catalogue entries into tours owned by providerID.
func FromCatalogue(entries []catalogue.Entry, providerID, actor string) []model.Tour {
	tours := make([]model.Tour, len(entries))
	now := timezone.Now()

	for i, entry := range entries {
		tours[i] = model.Tour{
			ID:              uuid.NewString(),
			ProviderID:      providerID,
			Title:           entry.Title,
			Description:     entry.Description,
			Price:           entry.Price,
			Duration:        entry.Duration,
			MaxParticipants: entry.MaxParticipants,
			Category:        entry.Category,
			Location:        entry.Location,
			Images:          entry.Images,
			Itinerary:       entry.Itinerary,
			Inclusions:      entry.Inclusions,
			Exclusions:      entry.Exclusions,
			Rating:          entry.Rating,
			ReviewsCount:    entry.ReviewsCount,
			IsActive:        true,
			Metadata:        gModel.NewMetadata(actor, now),
		}
	}

	return tours
}

type UploadImageRequest struct {
	Image     *multipart.FileHeader `json:"image" swaggerignore:"true" validate:"required,mimetypes=image/png image/jpg image/jpeg image/webp,maxfilesize=5"`
	ImageFile multipart.File        `json:"-"`
}

type UploadImageResponse struct {
	URL    string   `json:"url"`
	Images []string `json:"images"`
}

func orEmpty(list []string) []string {
	if list == nil {
		return []string{}
	}

	return list
}
