package dto

import (
	"tourbook/internal/domains/preference/model"
	gDto "tourbook/shared/dto"
	gModel "tourbook/shared/model"
	"tourbook/shared/timezone"

	"github.com/google/uuid"
)

type UpsertPreferenceRequest struct {
	BudgetRange         string   `json:"budget_range"         validate:"required,oneof=budget mid_range luxury"`
	PreferredActivities []string `json:"preferred_activities" validate:"required,min=1,dive,required,max=50"`
	AccommodationType   string   `json:"accommodation_type"   validate:"required,oneof=hotel guesthouse resort homestay"`
	GroupSize           int      `json:"group_size"           validate:"required,min=1,max=50"`
	TravelDuration      int      `json:"travel_duration"      validate:"required,min=1,max=30"`
	AccessibilityNeeds  bool     `json:"accessibility_needs"`
	DietaryRestrictions []string `json:"dietary_restrictions" validate:"omitempty,dive,max=100"`
}

func (r *UpsertPreferenceRequest) ToModel(userID string) model.Preference {
	return model.Preference{
		ID:                  uuid.NewString(),
		UserID:              userID,
		BudgetRange:         r.BudgetRange,
		PreferredActivities: r.PreferredActivities,
		AccommodationType:   r.AccommodationType,
		GroupSize:           r.GroupSize,
		TravelDuration:      r.TravelDuration,
		AccessibilityNeeds:  r.AccessibilityNeeds,
		DietaryRestrictions: r.DietaryRestrictions,
		Metadata:            gModel.NewMetadata(userID, timezone.Now()),
	}
}

type UpdatePreferenceRequest struct {
	BudgetRange         *string           `db:"budget_range"         json:"budget_range,omitempty"         validate:"omitempty,oneof=budget mid_range luxury"`
	PreferredActivities gModel.StringList `db:"preferred_activities" json:"preferred_activities,omitempty" validate:"omitempty,min=1,dive,required,max=50"`
	AccommodationType   *string           `db:"accommodation_type"   json:"accommodation_type,omitempty"   validate:"omitempty,oneof=hotel guesthouse resort homestay"`
	GroupSize           *int              `db:"group_size"           json:"group_size,omitempty"           validate:"omitempty,min=1,max=50"`
	TravelDuration      *int              `db:"travel_duration"      json:"travel_duration,omitempty"      validate:"omitempty,min=1,max=30"`
	AccessibilityNeeds  *bool             `db:"accessibility_needs"  json:"accessibility_needs,omitempty"`
	DietaryRestrictions gModel.StringList `db:"dietary_restrictions" json:"dietary_restrictions,omitempty" validate:"omitempty,dive,max=100"`
}

// IsEmpty reports whether the request changes nothing.
func (r *UpdatePreferenceRequest) IsEmpty() bool {
	return r.BudgetRange == nil && r.PreferredActivities == nil && r.AccommodationType == nil &&
		r.GroupSize == nil && r.TravelDuration == nil && r.AccessibilityNeeds == nil && r.DietaryRestrictions == nil
}

type PreferenceResponse struct {
	ID                  string   `json:"id"`
	UserID              string   `json:"user_id"`
	BudgetRange         string   `json:"budget_range"`
	PreferredActivities []string `json:"preferred_activities"`
	AccommodationType   string   `json:"accommodation_type"`
	GroupSize           int      `json:"group_size"`
	TravelDuration      int      `json:"travel_duration"`
	AccessibilityNeeds  bool     `json:"accessibility_needs"`
	DietaryRestrictions []string `json:"dietary_restrictions"`
	gDto.Metadata
}

func (r *PreferenceResponse) FromModel(model model.Preference) {
	r.ID = model.ID
	r.UserID = model.UserID
	r.BudgetRange = model.BudgetRange
	r.PreferredActivities = orEmpty(model.PreferredActivities)
	r.AccommodationType = model.AccommodationType
	r.GroupSize = model.GroupSize
	r.TravelDuration = model.TravelDuration
	r.AccessibilityNeeds = model.AccessibilityNeeds
	r.DietaryRestrictions = orEmpty(model.DietaryRestrictions)
	r.Metadata.FromModel(model.Metadata)
}

func orEmpty(list []string) []string {
	if list == nil {
		return []string{}
	}

	return list
}
