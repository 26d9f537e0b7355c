package tour

import (
	"net/http"

	"tourbook/infras/otel"
	"tourbook/internal/domains/tour/model/dto"
	"tourbook/internal/domains/tour/service"
	"tourbook/shared/constant"
	gDto "tourbook/shared/dto"
	"tourbook/shared/failure"
	"tourbook/shared/validator"
	"tourbook/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Tour
	otel    otel.Otel
}

func New(service service.Tour, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(r chi.Router) {
	r.Route("/tours", func(r chi.Router) {
		r.Get("/", handler.GetTours)
		r.Post("/", handler.CreateTour)
		r.Get("/{id}", handler.GetTour)
		r.Put("/{id}", handler.UpdateTour)
		r.Delete("/{id}", handler.DeleteTour)
		r.Post("/{id}/images", handler.UploadImage)
	})

	r.Route("/seed/tours", func(r chi.Router) {
		r.Post("/", handler.SeedTours)
		r.Delete("/", handler.UnseedTours)
	})
}

// GetTours lists active tours.
// @Summary List tours
// @Description Active tours only, filtered and sorted. Sort keys: price_asc, price_desc, duration_asc, duration_desc, newest, rating.
// @Tags Tour
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size, max 50"
// @Param category query string false "Category"
// @Param location query string false "Location (partial match)"
// @Param price_min query number false "Minimum price"
// @Param price_max query number false "Maximum price"
// @Param duration query int false "Duration in hours"
// @Param search query string false "Search in title, description and location"
// @Param sort query string false "Sort key"
// @Success 200 {object} response.Data[dto.GetToursResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/tours [get]
func (handler *Handler) GetTours(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Tour.GetTours")
	defer scope.End()

	query := dto.TourQuery{}
	query.FromRequest(r)

	if err := validator.ValidateStruct(&query); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("invalid tour query")

		response.WithError(w, err)

		return
	}

	params := gDto.QueryParams{}
	params.FromRequest(r, true)
	query.ApplySort(&params)

	res, err := handler.service.GetAll(ctx, params, query.FilterGroup())
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get tours")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// CreateTour creates a tour.
// @Summary Create a tour
// @Description Providers create tours under their own profile. Admins must pass provider_id.
// @Tags Tour
// @Accept json
// @Produce json
// @Param request body dto.CreateTourRequest true "Create Tour Request"
// @Success 201 {object} response.Data[dto.TourResponse] "Tour created successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/tours [post]
// @Security BearerAuth
func (handler *Handler) CreateTour(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Tour.CreateTour")
	defer scope.End()

	req := dto.CreateTourRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create tour")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Tour created " + res.ID)

	response.WithData(w, http.StatusCreated, res, "Tour created successfully")
}

// GetTour returns an active tour with its provider and latest reviews.
// @Summary Get a tour
// @Tags Tour
// @Produce json
// @Param id path string true "Tour ID"
// @Success 200 {object} response.Data[dto.TourDetailResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/tours/{id} [get]
func (handler *Handler) GetTour(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Tour.GetTour")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateVar(id, "required,uuid"); err != nil {
		scope.TraceError(err)
		response.WithError(w, failure.BadRequestFromString("Invalid tour ID"))

		return
	}

	res, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to get tour")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// UpdateTour partially updates a tour.
// @Summary Update a tour
// @Description Owner provider or admin.
// @Tags Tour
// @Accept json
// @Produce json
// @Param id path string true "Tour ID"
// @Param request body dto.UpdateTourRequest true "Update Tour Request"
// @Success 200 {object} response.Data[dto.TourResponse] "Tour updated successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/tours/{id} [put]
// @Security BearerAuth
func (handler *Handler) UpdateTour(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Tour.UpdateTour")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateVar(id, "required,uuid"); err != nil {
		scope.TraceError(err)
		response.WithError(w, failure.BadRequestFromString("Invalid tour ID"))

		return
	}

	req := dto.UpdateTourRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Update(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to update tour")

		response.WithError(w, err)

		return
	}

	response.WithData(w, http.StatusOK, res, "Tour updated successfully")
}

// DeleteTour deactivates a tour.
// @Summary Deactivate a tour
// @Description Soft delete. Tours with pending or confirmed bookings cannot be deactivated.
// @Tags Tour
// @Produce json
// @Param id path string true "Tour ID"
// @Success 200 {object} response.Message "Tour deactivated successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/tours/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteTour(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Tour.DeleteTour")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateVar(id, "required,uuid"); err != nil {
		scope.TraceError(err)
		response.WithError(w, failure.BadRequestFromString("Invalid tour ID"))

		return
	}

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to delete tour")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Tour deactivated successfully")
}

// UploadImage adds an image to a tour.
// @Summary Upload a tour image
// @Tags Tour
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Tour ID"
// @Param file formData file true "Image file (png, jpg, jpeg, webp; max 5 MB)"
// @Success 201 {object} response.Data[dto.UploadImageResponse] "Image uploaded successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/tours/{id}/images [post]
// @Security BearerAuth
func (handler *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Tour.UploadImage")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateVar(id, "required,uuid"); err != nil {
		scope.TraceError(err)
		response.WithError(w, failure.BadRequestFromString("Invalid tour ID"))

		return
	}

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")

		response.WithError(w, failure.BadRequestFromString("Invalid multipart form"))

		return
	}

	file, fileHeader, err := r.FormFile(constant.FormFile)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get file from form")

		response.WithError(w, failure.BadRequestFromString("Image file is required"))

		return
	}
	defer file.Close()

	req := dto.UploadImageRequest{
		Image:     fileHeader,
		ImageFile: file,
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	res, err := handler.service.UploadImage(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to upload tour image")

		response.WithError(w, err)

		return
	}

	response.WithData(w, http.StatusCreated, res, "Image uploaded successfully")
}

// SeedTours loads the sample catalogue.
// @Summary Seed sample tours
// @Description Admin only. Skipped when any tour exists.
// @Tags Seed
// @Produce json
// @Success 201 {object} response.Data[dto.SeedResponse]
// @Success 200 {object} response.Data[dto.SeedResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/seed/tours [post]
// @Security BearerAuth
func (handler *Handler) SeedTours(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Tour.SeedTours")
	defer scope.End()

	res, created, message, err := handler.service.Seed(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to seed tours")

		response.WithError(w, err)

		return
	}

	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}

	response.WithData(w, code, res, message)
}

// UnseedTours deletes every tour.
// @Summary Delete all tours
// @Tags Seed
// @Produce json
// @Success 200 {object} response.Message
// @Failure 500 {object} response.Error
// @Router /api/seed/tours [delete]
// @Security BearerAuth
func (handler *Handler) UnseedTours(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Tour.UnseedTours")
	defer scope.End()

	if err := handler.service.Unseed(ctx); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete tours")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "All tours deleted successfully")
}
