package user

import (
	"net/http"

	"tourbook/infras/otel"
	"tourbook/internal/domains/user/model"
	"tourbook/internal/domains/user/model/dto"
	"tourbook/internal/domains/user/service"
	"tourbook/shared/constant"
	gDto "tourbook/shared/dto"
	"tourbook/shared/validator"
	"tourbook/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.User
	otel    otel.Otel
}

func New(service service.User, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/users", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetUsers)
		routerGroup.Get("/profile", handler.GetProfile)
		routerGroup.Put("/profile", handler.UpdateProfile)
		routerGroup.Delete("/profile", handler.DeleteProfile)
	})
}

// GetUsers retrieves all users based on query parameters.
// @Summary Get all users
// @Description Admin only. Retrieve users with optional filtering and pagination.
// @Tags User
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size, max 50"
// @Param search query string false "Search in full name and email"
// @Param user_type query string false "Role (tourist, provider, admin)"
// @Param without_provider query bool false "Only users without a provider profile"
// @Param sort_by query string false "created_at, full_name or email"
// @Param sort_dir query string false "ASC or DESC"
// @Success 200 {object} response.Data[dto.GetUsersResponse] "List of users"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/users [get]
// @Security BearerAuth
func (handler *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetUsers")
	defer scope.End()

	query := dto.UserQuery{}
	query.FromRequest(r)

	if err := validator.ValidateStruct(&query); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.RestrictSort(model.TableName, constant.FieldCreatedAt, gDto.SortDirDesc,
		constant.FieldCreatedAt, model.FieldFullName, model.FieldEmail)

	users, err := handler.service.GetAll(ctx, queryParams, query.FilterGroup())
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get users")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Users retrieved successfully")

	response.WithJSON(w, http.StatusOK, users)
}

// GetProfile returns the caller's profile.
// @Summary Get my profile
// @Description Includes preferences, the provider profile and booking stats.
// @Tags User
// @Produce json
// @Success 200 {object} response.Data[dto.ProfileResponse]
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/users/profile [get]
// @Security BearerAuth
func (handler *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetProfile")
	defer scope.End()

	profile, err := handler.service.GetProfile(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get profile")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, profile)
}

// UpdateProfile updates the caller's profile.
// @Summary Update my profile
// @Tags User
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Update Profile Request"
// @Success 200 {object} response.Data[dto.UserResponse] "Profile updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/users/profile [put]
// @Security BearerAuth
func (handler *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateProfile")
	defer scope.End()

	req := dto.UpdateProfileRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	user, err := handler.service.UpdateProfile(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update profile")

		response.WithError(w, err)

		return
	}

	response.WithData(w, http.StatusOK, user, "Profile updated successfully")
}

// DeleteProfile deletes the caller's account.
// @Summary Delete my account
// @Description Blocked while the user has pending or confirmed bookings.
// @Tags User
// @Produce json
// @Success 200 {object} response.Message "Account deleted successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/users/profile [delete]
// @Security BearerAuth
func (handler *Handler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteProfile")
	defer scope.End()

	if err := handler.service.DeleteProfile(ctx); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete profile")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Account deleted successfully")
}
