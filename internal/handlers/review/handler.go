package review

import (
	"net/http"

	"tourbook/infras/otel"
	"tourbook/internal/domains/review/model/dto"
	"tourbook/internal/domains/review/service"
	"tourbook/shared/constant"
	gDto "tourbook/shared/dto"
	"tourbook/shared/validator"
	"tourbook/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Review
	otel    otel.Otel
}

func New(service service.Review, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(r chi.Router) {
	r.Route("/reviews", func(r chi.Router) {
		r.Get("/", handler.GetReviews)
		r.Post("/", handler.CreateReview)
	})
}

// GetReviews lists reviews.
// @Summary List reviews
// @Tags Review
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size, max 50"
// @Param tour_id query string false "Tour ID"
// @Param provider_id query string false "Provider ID"
// @Param rating_min query int false "Minimum rating (1-5)"
// @Param verified query bool false "Only verified reviews"
// @Success 200 {object} response.Data[dto.GetReviewsResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/reviews [get]
func (handler *Handler) GetReviews(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Review.GetReviews")
	defer scope.End()

	query := dto.ReviewQuery{}
	query.FromRequest(r)

	if err := validator.ValidateStruct(&query); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	params := gDto.QueryParams{}
	params.FromRequest(r, true)

	res, err := handler.service.GetAll(ctx, params, query.FilterGroup())
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get reviews")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// CreateReview reviews a completed booking.
// @Summary Create a review
// @Description One review per completed booking. Refreshes the tour and provider rating.
// @Tags Review
// @Accept json
// @Produce json
// @Param request body dto.CreateReviewRequest true "Create Review Request"
// @Success 201 {object} response.Data[dto.ReviewResponse] "Review created successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/reviews [post]
// @Security BearerAuth
func (handler *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Review.CreateReview")
	defer scope.End()

	req := dto.CreateReviewRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create review")

		response.WithError(w, err)

		return
	}

	response.WithData(w, http.StatusCreated, res, "Review created successfully")
}
