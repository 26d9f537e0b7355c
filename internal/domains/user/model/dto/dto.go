package dto

import (
	"net/http"

	bookingModel "tourbook/internal/domains/booking/model"
	prefDto "tourbook/internal/domains/preference/model/dto"
	providerDto "tourbook/internal/domains/provider/model/dto"
	"tourbook/internal/domains/user/model"
	"tourbook/shared"
	"tourbook/shared/constant"
	gDto "tourbook/shared/dto"
	"tourbook/shared/timezone"
)

type UserResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	FullName  string  `json:"full_name"`
	Phone     *string `json:"phone"`
	Country   *string `json:"country"`
	Role      string  `json:"role"`
	Active    bool    `json:"active"`
	LastLogin *string `json:"last_login,omitempty"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(model model.User) {
	r.ID = model.ID
	r.Email = model.Email
	r.FullName = model.FullName
	r.Phone = model.Phone
	r.Country = model.Country
	r.Role = model.Role
	r.Active = model.Active

	if model.LastLogin != nil {
		lastLogin := timezone.Format(*model.LastLogin, constant.DateFormat)
		r.LastLogin = &lastLogin
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetUsersResponse struct {
	Users      []UserResponse  `json:"users"`
	Pagination gDto.Pagination `json:"pagination"`
}

func (r *GetUsersResponse) FromModels(models []model.User, page, limit, total int) {
	r.Pagination = gDto.NewPagination(page, limit, total)

	r.Users = make([]UserResponse, len(models))
	for i, mod := range models {
		r.Users[i].FromModel(mod)
	}
}

type UpdateProfileRequest struct {
	FullName *string `db:"full_name" json:"full_name"         validate:"required,min=2,max=100,safetext"`
	Phone    *string `db:"phone"     json:"phone,omitempty"   validate:"omitempty,phone"`
	Country  *string `db:"country"   json:"country,omitempty" validate:"omitempty,max=100,safetext"`
}

type Stats struct {
	TotalBookings     int     `json:"total_bookings"`
	ConfirmedBookings int     `json:"confirmed_bookings"`
	CompletedBookings int     `json:"completed_bookings"`
	TotalSpent        float64 `json:"total_spent"`
}

func (s *Stats) FromModel(model bookingModel.Stats) {
	s.TotalBookings = model.TotalBookings
	s.ConfirmedBookings = model.ConfirmedBookings
	s.CompletedBookings = model.CompletedBookings
	s.TotalSpent = model.TotalSpent
}

type ProfileResponse struct {
	Profile     UserResponse                  `json:"profile"`
	Preferences *prefDto.PreferenceResponse   `json:"preferences"`
	Provider    *providerDto.ProviderResponse `json:"provider"`
	Stats       Stats                         `json:"stats"`
}

// UserQuery holds the admin listing filters accepted by GET /users.
type UserQuery struct {
	Search          string `json:"search"           validate:"omitempty,max=100,safesearch"`
	UserType        string `json:"user_type"        validate:"omitempty,oneof=tourist provider admin"`
	WithoutProvider bool   `json:"without_provider"`
}

func (q *UserQuery) FromRequest(r *http.Request) {
	query := r.URL.Query()

	q.Search = query.Get(constant.RequestParamSearch)
	q.UserType = query.Get("user_type")

	if without := shared.ConvertStringToBool(query.Get("without_provider")); without != nil {
		q.WithoutProvider = *without
	}
}

func (q *UserQuery) FilterGroup() gDto.FilterGroup {
	group := gDto.NewFilterGroup()

	if q.UserType != "" {
		group.Add(gDto.Filter{Field: model.FieldRole, Value: q.UserType, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if q.WithoutProvider {
		group.Add(gDto.Filter{Value: model.WithoutProviderQuery, Operator: gDto.FilterPlainQuery})
	}

	if q.Search != "" {
		group.Add(gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorOr,
			Filters: []any{
				gDto.Filter{ArgName: "search_name", Field: model.FieldFullName, Value: q.Search, Operator: gDto.FilterOperatorLike, Table: model.TableName},
				gDto.Filter{ArgName: "search_email", Field: model.FieldEmail, Value: q.Search, Operator: gDto.FilterOperatorLike, Table: model.TableName},
			},
		})
	}

	return group
}
