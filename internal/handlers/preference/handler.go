package preference

import (
	"net/http"

	"tourbook/infras/otel"
	"tourbook/internal/domains/preference/model/dto"
	"tourbook/internal/domains/preference/service"
	recommendationDto "tourbook/internal/domains/recommendation/model/dto"
	recommendationService "tourbook/internal/domains/recommendation/service"
	"tourbook/shared"
	"tourbook/shared/constant"
	"tourbook/shared/validator"
	"tourbook/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service        service.Preference
	recommendation recommendationService.Recommendation
	otel           otel.Otel
}

func New(service service.Preference, recommendation recommendationService.Recommendation, otel otel.Otel) Handler {
	return Handler{
		service:        service,
		recommendation: recommendation,
		otel:           otel,
	}
}

func (handler *Handler) Router(r chi.Router) {
	r.Route("/preferences", func(r chi.Router) {
		r.Get("/", handler.GetPreferences)
		r.Post("/", handler.UpsertPreferences)
		r.Put("/", handler.UpdatePreferences)
		r.Delete("/", handler.DeletePreferences)
		r.Get("/recommendations", handler.GetRecommendations)
	})
}

// GetPreferences returns the caller's travel preferences.
// @Summary Get my preferences
// @Description Returns data null when the questionnaire has not been completed.
// @Tags Preference
// @Produce json
// @Success 200 {object} response.Data[dto.PreferenceResponse]
// @Failure 500 {object} response.Error
// @Router /api/preferences [get]
// @Security BearerAuth
func (handler *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Preference.Get")
	defer scope.End()

	res, err := handler.service.Get(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get preferences")

		response.WithError(w, err)

		return
	}

	if res == nil {
		response.WithData(w, http.StatusOK, nil, "No preferences found")

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// UpsertPreferences creates or replaces the caller's preferences.
// @Summary Save my preferences
// @Tags Preference
// @Accept json
// @Produce json
// @Param request body dto.UpsertPreferenceRequest true "Preferences"
// @Success 200 {object} response.Data[dto.PreferenceResponse] "Preferences saved successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/preferences [post]
// @Security BearerAuth
func (handler *Handler) UpsertPreferences(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Preference.Upsert")
	defer scope.End()

	req := dto.UpsertPreferenceRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Upsert(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to save preferences")

		response.WithError(w, err)

		return
	}

	response.WithData(w, http.StatusOK, res, "Preferences saved successfully")
}

// UpdatePreferences partially updates the caller's preferences.
// @Summary Update my preferences
// @Tags Preference
// @Accept json
// @Produce json
// @Param request body dto.UpdatePreferenceRequest true "Preference fields"
// @Success 200 {object} response.Data[dto.PreferenceResponse] "Preferences updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/preferences [put]
// @Security BearerAuth
func (handler *Handler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Preference.Update")
	defer scope.End()

	req := dto.UpdatePreferenceRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Update(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update preferences")

		response.WithError(w, err)

		return
	}

	response.WithData(w, http.StatusOK, res, "Preferences updated successfully")
}

// DeletePreferences removes the caller's preferences.
// @Summary Delete my preferences
// @Tags Preference
// @Produce json
// @Success 200 {object} response.Message "Preferences deleted successfully"
// @Failure 500 {object} response.Error
// @Router /api/preferences [delete]
// @Security BearerAuth
func (handler *Handler) DeletePreferences(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Preference.Delete")
	defer scope.End()

	if err := handler.service.Delete(ctx); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete preferences")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Preferences deleted successfully")
}

// GetRecommendations ranks active tours against the caller's preferences.
// @Summary Get tour recommendations
// @Tags Preference
// @Produce json
// @Param limit query int false "Number of recommendations (default 20, max 50)"
// @Success 200 {object} response.Data[recommendationDto.RecommendationsResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/preferences/recommendations [get]
// @Security BearerAuth
func (handler *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Preference.GetRecommendations")
	defer scope.End()

	limit := 0
	if requested := shared.ConvertStringToInt(r.URL.Query().Get(constant.RequestParamLimit)); requested != nil {
		limit = *requested
	}

	res, err := handler.recommendation.Get(ctx, recommendationDto.ClampLimit(limit))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get recommendations")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}
