package dto

import (
	"net/http"

	"tourbook/internal/domains/provider/model"
	"tourbook/shared"
	"tourbook/shared/constant"
	gDto "tourbook/shared/dto"
	gModel "tourbook/shared/model"
	"tourbook/shared/timezone"

	"github.com/google/uuid"
)

type BusinessInfo struct {
	BusinessName string `json:"business_name" validate:"required,min=2,max=200,safetext"`
	BusinessType string `json:"business_type" validate:"required,oneof=hotel restaurant tour_operator transport activity"`
	Description  string `json:"description"   validate:"required,min=10,max=2000,safetext"`
}

type ContactInfo struct {
	Phone   string `json:"phone"   validate:"required,min=10,phone"`
	Email   string `json:"email"   validate:"required,email"`
	Address string `json:"address" validate:"required,min=5,max=500,safetext"`
	City    string `json:"city"    validate:"required,min=2,max=100,location"`
	Website string `json:"website" validate:"omitempty,url"`
}

type ServiceRequest struct {
	Name        string  `json:"name"        validate:"required,max=200,safetext"`
	Description string  `json:"description" validate:"omitempty,max=1000,safetext"`
	Price       float64 `json:"price"       validate:"gte=0"`
	Category    string  `json:"category"    validate:"required,max=100"`
}

type RegisterProviderRequest struct {
	UserID       string           `json:"user_id"       validate:"omitempty,uuid"`
	BusinessInfo BusinessInfo     `json:"business_info" validate:"required"`
	ContactInfo  ContactInfo      `json:"contact_info"  validate:"required"`
	Services     []ServiceRequest `json:"services"      validate:"omitempty,dive"`
	Amenities    []string         `json:"amenities"     validate:"omitempty,dive,required,max=100"`
}

func (r *RegisterProviderRequest) ToModel(userID, actor string) model.Provider {
	var website *string
	if r.ContactInfo.Website != "" {
		website = &r.ContactInfo.Website
	}

	description := r.BusinessInfo.Description

	return model.Provider{
		ID:           uuid.NewString(),
		UserID:       userID,
		BusinessName: r.BusinessInfo.BusinessName,
		BusinessType: r.BusinessInfo.BusinessType,
		Description:  &description,
		Phone:        r.ContactInfo.Phone,
		Email:        r.ContactInfo.Email,
		Address:      r.ContactInfo.Address,
		City:         r.ContactInfo.City,
		Website:      website,
		IsActive:     true,
		Metadata:     gModel.NewMetadata(actor, timezone.Now()),
	}
}

func (r *RegisterProviderRequest) ToServices(providerID, actor string) []model.Service {
	services := make([]model.Service, 0, len(r.Services))

	for _, svc := range r.Services {
		var description *string
		if svc.Description != "" {
			description = &svc.Description
		}

		services = append(services, model.Service{
			ID:          uuid.NewString(),
			ProviderID:  providerID,
			Name:        svc.Name,
			Description: description,
			Price:       svc.Price,
			Category:    svc.Category,
			IsActive:    true,
			Metadata:    gModel.NewMetadata(actor, timezone.Now()),
		})
	}

	return services
}

func (r *RegisterProviderRequest) ToAmenities(providerID, actor string) []model.Amenity {
	amenities := make([]model.Amenity, 0, len(r.Amenities))

	for _, name := range r.Amenities {
		amenities = append(amenities, model.Amenity{
			ID:          uuid.NewString(),
			ProviderID:  providerID,
			Name:        name,
			IsAvailable: true,
			Metadata:    gModel.NewMetadata(actor, timezone.Now()),
		})
	}

	return amenities
}

type UpdateProviderRequest struct {
	IsActive   *bool `db:"is_active"   json:"is_active"             validate:"required"`
	IsVerified *bool `db:"is_verified" json:"is_verified,omitempty"`
}

type Owner struct {
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
}

type ProviderResponse struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id"`
	BusinessName string  `json:"business_name"`
	BusinessType string  `json:"business_type"`
	Description  *string `json:"description"`
	Phone        string  `json:"phone"`
	Email        string  `json:"email"`
	Address      string  `json:"address"`
	City         string  `json:"city"`
	Website      *string `json:"website"`
	Rating       float64 `json:"rating"`
	ReviewsCount int     `json:"reviews_count"`
	IsVerified   bool    `json:"is_verified"`
	IsActive     bool    `json:"is_active"`
	Owner        *Owner  `json:"users,omitempty"`
	gDto.Metadata
}

func (r *ProviderResponse) FromModel(model model.Provider) {
	r.ID = model.ID
	r.UserID = model.UserID
	r.BusinessName = model.BusinessName
	r.BusinessType = model.BusinessType
	r.Description = model.Description
	r.Phone = model.Phone
	r.Email = model.Email
	r.Address = model.Address
	r.City = model.City
	r.Website = model.Website
	r.Rating = model.Rating
	r.ReviewsCount = model.ReviewsCount
	r.IsVerified = model.IsVerified
	r.IsActive = model.IsActive

	if model.OwnerName != nil || model.OwnerEmail != nil {
		r.Owner = &Owner{FullName: model.OwnerName, Email: model.OwnerEmail}
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetProvidersResponse struct {
	Providers  []ProviderResponse `json:"providers"`
	Pagination gDto.Pagination    `json:"pagination"`
}

func (r *GetProvidersResponse) FromModels(models []model.Provider, page, limit, total int) {
	r.Pagination = gDto.NewPagination(page, limit, total)

	r.Providers = make([]ProviderResponse, len(models))
	for i, mod := range models {
		r.Providers[i].FromModel(mod)
	}
}

// ProviderQuery holds the listing filters accepted by GET /providers.
type ProviderQuery struct {
	Search       string `json:"search"        validate:"omitempty,max=100,safesearch"`
	BusinessType string `json:"business_type" validate:"omitempty,oneof=hotel restaurant tour_operator transport activity"`
	IsActive     *bool  `json:"is_active"`
}

func (q *ProviderQuery) FromRequest(r *http.Request) {
	query := r.URL.Query()

	q.Search = query.Get(constant.RequestParamSearch)
	q.BusinessType = query.Get(model.FieldBusinessType)
	q.IsActive = shared.ConvertStringToBool(query.Get(model.FieldIsActive))
}

func (q *ProviderQuery) FilterGroup() gDto.FilterGroup {
	group := gDto.NewFilterGroup()

	if q.BusinessType != "" {
		group.Add(gDto.Filter{Field: model.FieldBusinessType, Value: q.BusinessType, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if q.IsActive != nil {
		group.Add(gDto.Filter{Field: model.FieldIsActive, Value: *q.IsActive, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if q.Search != "" {
		group.Add(gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorOr,
			Filters: []any{
				gDto.Filter{ArgName: "search_name", Field: model.FieldBusinessName, Value: q.Search, Operator: gDto.FilterOperatorLike, Table: model.TableName},
				gDto.Filter{ArgName: "search_email", Field: model.FieldEmail, Value: q.Search, Operator: gDto.FilterOperatorLike, Table: model.TableName},
				gDto.Filter{ArgName: "search_city", Field: model.FieldCity, Value: q.Search, Operator: gDto.FilterOperatorLike, Table: model.TableName},
			},
		})
	}

	return group
}
