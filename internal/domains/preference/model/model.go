package model

import "tourbook/shared/model"

const (
	TableName  = "user_preferences"
	EntityName = "preference"

	FieldID                  = "id"
	FieldUserID              = "user_id"
	FieldBudgetRange         = "budget_range"
	FieldPreferredActivities = "preferred_activities"
	FieldAccommodationType   = "accommodation_type"
	FieldGroupSize           = "group_size"
	FieldTravelDuration      = "travel_duration"
	FieldAccessibilityNeeds  = "accessibility_needs"
	FieldDietaryRestrictions = "dietary_restrictions"
)

const (
	BudgetLow    = "budget"
	BudgetMedium = "mid_range"
	BudgetLuxury = "luxury"
)

type Preference struct {
	ID                  string           `db:"id"`
	UserID              string           `db:"user_id"`
	BudgetRange         string           `db:"budget_range"`
	PreferredActivities model.StringList `db:"preferred_activities"`
	AccommodationType   string           `db:"accommodation_type"`
	GroupSize           int              `db:"group_size"`
	TravelDuration      int              `db:"travel_duration"`
	AccessibilityNeeds  bool             `db:"accessibility_needs"`
	DietaryRestrictions model.StringList `db:"dietary_restrictions"`
	model.Metadata
}
