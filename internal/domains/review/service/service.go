package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"tourbook/config"
	"tourbook/infras/otel"
	bookingModel "tourbook/internal/domains/booking/model"
	bookingRepo "tourbook/internal/domains/booking/repository"
	providerRepo "tourbook/internal/domains/provider/repository"
	recService "tourbook/internal/domains/recommendation/service"
	"tourbook/internal/domains/review/model"
	"tourbook/internal/domains/review/model/dto"
	"tourbook/internal/domains/review/repository"
	tourRepo "tourbook/internal/domains/tour/repository"
	"tourbook/shared"
	"tourbook/shared/cache"
	"tourbook/shared/constant"
	gDto "tourbook/shared/dto"
	"tourbook/shared/failure"
	gRepo "tourbook/shared/repository"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetAllReview = "review:gets"
	cacheCountReview  = "review:count"

	// Tour listings, details and rankings carry the rating rollups a review changes.
	cacheTour = "tour"
)

type Review interface {
	Create(ctx context.Context, req dto.CreateReviewRequest) (dto.ReviewResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetReviewsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
}

type serviceImpl struct {
	repo         repository.Review
	bookingRepo  bookingRepo.Booking
	tourRepo     tourRepo.Tour
	providerRepo providerRepo.Provider
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(repo repository.Review, bookingRepo bookingRepo.Booking, tourRepo tourRepo.Tour, providerRepo providerRepo.Provider,
	cfg *config.Config, cache cache.RedisCache, otel otel.Otel,
) Review {
	return &serviceImpl{
		repo:         repo,
		bookingRepo:  bookingRepo,
		tourRepo:     tourRepo,
		providerRepo: providerRepo,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateReviewRequest) (res dto.ReviewResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Review.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, _ := shared.Actor(ctx)

	booking, err := s.bookingRepo.Get(ctx, shared.FilterByID(req.BookingID, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == "" || booking.UserID != userID {
		return res, failure.NotFound("Booking not found") // nolint:wrapcheck
	}

	if booking.Status != bookingModel.StatusCompleted {
		return res, failure.BadRequestFromString("Can only review completed bookings") // nolint:wrapcheck
	}

	if !req.MatchesBooking(booking.TourID, booking.TourProviderID) {
		return res, failure.BadRequestFromString("Review must target the booked tour and provider") // nolint:wrapcheck
	}

	exist, err := s.repo.Exist(ctx, shared.FilterByID(req.BookingID, model.FieldBookingID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check existing review")

		return res, fmt.Errorf("failed to check existing review: %w", err)
	}

	if exist {
		return res, failure.Conflict("You have already reviewed this booking") // nolint:wrapcheck
	}

	review := req.ToModel(userID, &booking.TourID, booking.TourProviderID)

	err = s.repo.Insert(ctx, review)
	if gRepo.IsUniqueViolation(err) {
		return res, failure.Conflict("You have already reviewed this booking") // nolint:wrapcheck
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to create review")

		return res, fmt.Errorf("failed to create review: %w", err)
	}

	s.refreshRatings(ctx, review)
	s.invalidate(ctx)

	res.FromModel(review)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetReviewsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Review.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	req.SortBy = model.TableName + "." + constant.FieldCreatedAt
	req.SortDir = gDto.SortDirDesc

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllReview, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reviews")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reviews")

		return res, fmt.Errorf("failed to count reviews: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reviews")

		return res, fmt.Errorf("failed to get reviews: %w", err)
	}

	res.FromModels(models, req.Page, req.Limit, total)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reviews to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Review.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountReview, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reviews")

		return res, fmt.Errorf("failed to count reviews: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save review count to cache")
		}
	}()

	return res, nil
}

// refreshRatings recomputes the rating rollups. The review is already stored, so failures are logged only.
func (s *serviceImpl) refreshRatings(ctx context.Context, review model.Review) {
	if review.TourID != nil {
		if err := s.tourRepo.RefreshRating(ctx, *review.TourID); err != nil {
			log.Error().Err(err).Str("tour", *review.TourID).Msg("failed to refresh tour rating")
		}
	}

	if review.ProviderID != nil {
		if err := s.providerRepo.RefreshRating(ctx, *review.ProviderID); err != nil {
			log.Error().Err(err).Str("provider", *review.ProviderID).Msg("failed to refresh provider rating")
		}
	}
}

func (s *serviceImpl) invalidate(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllReview)
		shared.InvalidateCaches(c, s.cache, cacheCountReview)
		shared.InvalidateCaches(c, s.cache, cacheTour)
		shared.InvalidateCaches(c, s.cache, recService.CachePrefix)
	}()
}
