package provider

import (
	"net/http"

	"tourbook/infras/otel"
	"tourbook/internal/domains/provider/model"
	"tourbook/internal/domains/provider/model/dto"
	"tourbook/internal/domains/provider/service"
	"tourbook/shared/constant"
	gDto "tourbook/shared/dto"
	"tourbook/shared/failure"
	"tourbook/shared/validator"
	"tourbook/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Provider
	otel    otel.Otel
}

func New(service service.Provider, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(r chi.Router) {
	r.Route("/providers", func(r chi.Router) {
		r.Get("/", handler.GetProviders)
		r.Post("/", handler.RegisterProvider)
		r.Put("/", handler.UpdateProvider)
		r.Put("/{id}", handler.UpdateProvider)
	})
}

// GetProviders lists provider profiles.
// @Summary List providers
// @Tags Provider
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size, max 50"
// @Param search query string false "Search in business name, email and city"
// @Param business_type query string false "Business type"
// @Param is_active query bool false "Active flag"
// @Param sort_by query string false "created_at, business_name or rating"
// @Param sort_dir query string false "ASC or DESC"
// @Success 200 {object} response.Data[dto.GetProvidersResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/providers [get]
// @Security BearerAuth
func (handler *Handler) GetProviders(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Provider.GetProviders")
	defer scope.End()

	query := dto.ProviderQuery{}
	query.FromRequest(r)

	if err := validator.ValidateStruct(&query); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	params := gDto.QueryParams{}
	params.FromRequest(r, true)
	params.RestrictSort(model.TableName, constant.FieldCreatedAt, gDto.SortDirDesc,
		constant.FieldCreatedAt, model.FieldBusinessName, model.FieldRating)

	res, err := handler.service.GetAll(ctx, params, query.FilterGroup())
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get providers")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// RegisterProvider creates a provider profile.
// @Summary Register a provider
// @Description Admins may register any user. Other callers register themselves. The user is promoted to provider.
// @Tags Provider
// @Accept json
// @Produce json
// @Param request body dto.RegisterProviderRequest true "Register Provider Request"
// @Success 201 {object} response.Data[dto.ProviderResponse] "Service provider registered successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/providers [post]
// @Security BearerAuth
func (handler *Handler) RegisterProvider(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Provider.RegisterProvider")
	defer scope.End()

	req := dto.RegisterProviderRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Register(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to register provider")

		response.WithError(w, err)

		return
	}

	response.WithData(w, http.StatusCreated, res, "Service provider registered successfully")
}

// UpdateProvider sets a provider's status.
// @Summary Update provider status
// @Description The ID comes from the path or from the id query parameter.
// @Tags Provider
// @Accept json
// @Produce json
// @Param id path string true "Provider ID"
// @Param request body dto.UpdateProviderRequest true "Update Provider Request"
// @Success 200 {object} response.Data[dto.ProviderResponse] "Provider updated successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/providers/{id} [put]
// @Security BearerAuth
func (handler *Handler) UpdateProvider(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Provider.UpdateProvider")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	if id == "" {
		id = r.URL.Query().Get(constant.RequestParamID)
	}

	if id == "" {
		response.WithError(w, failure.BadRequestFromString("Provider ID is required"))

		return
	}

	if err := validator.ValidateVar(id, "uuid"); err != nil {
		scope.TraceError(err)
		response.WithError(w, failure.BadRequestFromString("Invalid provider ID"))

		return
	}

	req := dto.UpdateProviderRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.UpdateStatus(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to update provider")

		response.WithError(w, err)

		return
	}

	response.WithData(w, http.StatusOK, res, "Provider updated successfully")
}
