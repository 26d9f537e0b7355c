package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"path"

	"tourbook/config"
	"tourbook/infras/otel"
	"tourbook/infras/s3"
	bookingModel "tourbook/internal/domains/booking/model"
	bookingRepo "tourbook/internal/domains/booking/repository"
	providerModel "tourbook/internal/domains/provider/model"
	providerRepo "tourbook/internal/domains/provider/repository"
	reviewModel "tourbook/internal/domains/review/model"
	reviewRepo "tourbook/internal/domains/review/repository"
	"tourbook/internal/domains/tour/catalogue"
	"tourbook/internal/domains/tour/model"
	"tourbook/internal/domains/tour/model/dto"
	"tourbook/internal/domains/tour/repository"
	"tourbook/shared"
	"tourbook/shared/cache"
	"tourbook/shared/constant"
	gDto "tourbook/shared/dto"
	"tourbook/shared/failure"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetAllTour = "tour:gets"
	cacheCountTour  = "tour:count"
	cacheTour       = "tour:get"

	// Recommendations embed tour data, so tour writes drop them too.
	cacheRecommendation = "recommendation"

	latestReviewsLimit = 10
)

type Tour interface {
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetToursResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.TourDetailResponse, error)
	Create(ctx context.Context, req dto.CreateTourRequest) (dto.TourResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateTourRequest) (dto.TourResponse, error)
	Delete(ctx context.Context, id string) error
	UploadImage(ctx context.Context, id string, req dto.UploadImageRequest) (dto.UploadImageResponse, error)
	Seed(ctx context.Context) (res dto.SeedResponse, created bool, message string, err error)
	Unseed(ctx context.Context) error
}

type serviceImpl struct {
	repo         repository.Tour
	providerRepo providerRepo.Provider
	reviewRepo   reviewRepo.Review
	bookingRepo  bookingRepo.Booking
	storage      s3.Storage
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(repo repository.Tour, providerRepo providerRepo.Provider, reviewRepo reviewRepo.Review, bookingRepo bookingRepo.Booking,
	storage s3.Storage, cfg *config.Config, cache cache.RedisCache, otel otel.Otel,
) Tour {
	return &serviceImpl{
		repo:         repo,
		providerRepo: providerRepo,
		reviewRepo:   reviewRepo,
		bookingRepo:  bookingRepo,
		storage:      storage,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetToursResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Tour.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllTour, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for tours")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count tours")

		return res, fmt.Errorf("failed to count tours: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get tours")

		return res, fmt.Errorf("failed to get tours: %w", err)
	}

	res.FromModels(models, req.Page, req.Limit, total)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save tours to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Tour.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountTour, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count tours")

		return res, fmt.Errorf("failed to count tours: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save tour count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.TourDetailResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Tour.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheTour, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for tour")

		return res, nil
	}

	tour, err := s.repo.Get(ctx, activeTour(id))
	if err != nil {
		log.Error().Err(err).Msg("failed to get tour")

		return res, fmt.Errorf("failed to get tour: %w", err)
	}

	if tour.ID == "" {
		return res, failure.NotFound("Tour not found") // nolint:wrapcheck
	}

	reviews, err := s.reviewRepo.GetAll(ctx, gDto.QueryParams{
		Page:    1,
		Limit:   latestReviewsLimit,
		SortBy:  reviewModel.TableName + "." + constant.FieldCreatedAt,
		SortDir: gDto.SortDirDesc,
	}, shared.FilterByID(id, reviewModel.FieldTourID, reviewModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get tour reviews")

		return res, fmt.Errorf("failed to get tour reviews: %w", err)
	}

	amenities, err := s.providerRepo.GetAmenities(ctx, tour.ProviderID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get provider amenities")

		return res, fmt.Errorf("failed to get provider amenities: %w", err)
	}

	names := make([]string, 0, len(amenities))
	for _, amenity := range amenities {
		if amenity.IsAvailable {
			names = append(names, amenity.Name)
		}
	}

	res.FromModel(tour, reviews, names)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save tour to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateTourRequest) (res dto.TourResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Tour.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, role := shared.Actor(ctx)

	var providerID string

	switch role {
	case constant.RoleProvider:
		provider, err := s.providerRepo.Get(ctx, shared.FilterByID(actor, providerModel.FieldUserID, providerModel.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to get provider profile")

			return res, fmt.Errorf("failed to get provider profile: %w", err)
		}

		if provider.ID == "" {
			return res, failure.BadRequestFromString("Provider profile not found") // nolint:wrapcheck
		}

		providerID = provider.ID
	case constant.RoleAdmin:
		if req.ProviderID == "" {
			return res, failure.BadRequestFromString("Provider ID is required") // nolint:wrapcheck
		}

		exist, err := s.providerRepo.Exist(ctx, shared.FilterByID(req.ProviderID, providerModel.FieldID, providerModel.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to check provider")

			return res, fmt.Errorf("failed to check provider: %w", err)
		}

		if !exist {
			return res, failure.BadRequestFromString("Provider profile not found") // nolint:wrapcheck
		}

		providerID = req.ProviderID
	default:
		return res, failure.Forbidden("Only service providers and admins can create tours") // nolint:wrapcheck
	}

	tour := req.ToModel(providerID, actor)

	if err = s.repo.Insert(ctx, tour); err != nil {
		log.Error().Err(err).Msg("failed to create tour")

		return res, fmt.Errorf("failed to create tour: %w", err)
	}

	s.invalidate(ctx, "")

	res.FromModel(tour)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, id string, req dto.UpdateTourRequest) (res dto.TourResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Tour.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, role := shared.Actor(ctx)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	tour, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get tour")

		return res, fmt.Errorf("failed to get tour: %w", err)
	}

	if tour.ID == "" {
		return res, failure.NotFound("Tour not found") // nolint:wrapcheck
	}

	if role != constant.RoleAdmin && !tour.OwnedBy(actor) {
		return res, failure.Forbidden("Not authorized to update this tour") // nolint:wrapcheck
	}

	if req.IsEmpty() {
		return res, failure.BadRequestFromString("No fields to update") // nolint:wrapcheck
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req, actor), filter); err != nil {
		log.Error().Err(err).Msg("failed to update tour")

		return res, fmt.Errorf("failed to update tour: %w", err)
	}

	s.invalidate(ctx, id)

	updated, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get updated tour")

		return res, fmt.Errorf("failed to get updated tour: %w", err)
	}

	res.FromModel(updated)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Tour.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, role := shared.Actor(ctx)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	tour, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get tour")

		return fmt.Errorf("failed to get tour: %w", err)
	}

	if tour.ID == "" {
		return failure.NotFound("Tour not found") // nolint:wrapcheck
	}

	if role != constant.RoleAdmin && !tour.OwnedBy(actor) {
		return failure.Forbidden("Not authorized to delete this tour") // nolint:wrapcheck
	}

	active, err := s.bookingRepo.Exist(ctx, gDto.NewFilterGroup(
		gDto.Filter{
			Field:    bookingModel.FieldTourID,
			Value:    id,
			Operator: gDto.FilterOperatorEq,
			Table:    bookingModel.TableName,
		},
		gDto.Filter{
			Field:    bookingModel.FieldStatus,
			Value:    bookingModel.ActiveStatuses,
			Operator: gDto.FilterOperatorIn,
			Table:    bookingModel.TableName,
		},
	))
	if err != nil {
		log.Error().Err(err).Msg("failed to check active bookings")

		return fmt.Errorf("failed to check active bookings: %w", err)
	}

	if active {
		return failure.BadRequestFromString("Cannot delete tour with active bookings. Please cancel bookings first.") // nolint:wrapcheck
	}

	deactivate := false

	if err = s.repo.Update(ctx, shared.TransformFields(dto.UpdateTourRequest{IsActive: &deactivate}, actor), filter); err != nil {
		log.Error().Err(err).Msg("failed to delete tour")

		return fmt.Errorf("failed to delete tour: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) UploadImage(ctx context.Context, id string, req dto.UploadImageRequest) (res dto.UploadImageResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Tour.UploadImage")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, role := shared.Actor(ctx)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	tour, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get tour")

		return res, fmt.Errorf("failed to get tour: %w", err)
	}

	if tour.ID == "" {
		return res, failure.NotFound("Tour not found") // nolint:wrapcheck
	}

	if role != constant.RoleAdmin && !tour.OwnedBy(actor) {
		return res, failure.Forbidden("Not authorized to update this tour") // nolint:wrapcheck
	}

	fileName := uuid.NewString() + path.Ext(req.Image.Filename)
	contentType := req.Image.Header.Get(constant.RequestHeaderContentType)

	url, err := s.storage.Upload(ctx, path.Join(model.EntityName, id), fileName, contentType, req.ImageFile, req.Image.Size)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload tour image")

		return res, fmt.Errorf("failed to upload tour image: %w", err)
	}

	images := append(tour.Images, url)

	if err = s.repo.Update(ctx, shared.TransformFields(dto.UpdateTourRequest{Images: images}, actor), filter); err != nil {
		log.Error().Err(err).Msg("failed to attach tour image")

		if delErr := s.storage.Delete(ctx, url); delErr != nil {
			log.Error().Err(delErr).Str("url", url).Msg("failed to remove orphaned tour image")
		}

		return res, fmt.Errorf("failed to attach tour image: %w", err)
	}

	s.invalidate(ctx, id)

	res.URL = url
	res.Images = images

	return res, nil
}

func (s *serviceImpl) Seed(ctx context.Context) (res dto.SeedResponse, created bool, message string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Tour.Seed")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, _ := shared.Actor(ctx)

	existing, err := s.repo.Count(ctx, gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to count tours")

		return res, false, "", fmt.Errorf("failed to count tours: %w", err)
	}

	if existing > 0 {
		res.Count = existing

		return res, false, fmt.Sprintf("Database already contains %d tours. Seeding skipped.", existing), nil
	}

	providers, err := s.providerRepo.GetAll(ctx, gDto.QueryParams{
		Limit:   1,
		SortBy:  providerModel.TableName + "." + constant.FieldCreatedAt,
		SortDir: gDto.SortDirAsc,
	}, gDto.NewFilterGroup(gDto.Filter{
		Field:    providerModel.FieldIsActive,
		Value:    true,
		Operator: gDto.FilterOperatorEq,
		Table:    providerModel.TableName,
	}))
	if err != nil {
		log.Error().Err(err).Msg("failed to get provider for seeding")

		return res, false, "", fmt.Errorf("failed to get provider for seeding: %w", err)
	}

	if len(providers) == 0 {
		return res, false, "", failure.BadRequestFromString("No active service provider found. Register a provider before seeding tours.") // nolint:wrapcheck
	}

	entries, err := catalogue.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load tour catalogue")

		return res, false, "", fmt.Errorf("failed to load tour catalogue: %w", err)
	}

	tours := dto.FromCatalogue(entries, providers[0].ID, actor)

	if err = s.repo.InsertBulk(ctx, tours); err != nil {
		log.Error().Err(err).Msg("failed to seed tours")

		return res, false, "", fmt.Errorf("failed to seed tours: %w", err)
	}

	s.invalidate(ctx, "")

	res.Count = len(tours)
	res.Tours = make([]dto.SeededTour, len(tours))

	for i, tour := range tours {
		res.Tours[i] = dto.SeededTour{ID: tour.ID, Title: tour.Title}
	}

	return res, true, fmt.Sprintf("Successfully seeded %d sample tours", len(tours)), nil
}

func (s *serviceImpl) Unseed(ctx context.Context) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Tour.Unseed")
	defer scope.End()
	defer scope.TraceIfError(err)

	err = s.repo.Delete(ctx, gDto.NewFilterGroup(gDto.Filter{Value: "TRUE", Operator: gDto.FilterPlainQuery}))
	if err != nil {
		log.Error().Err(err).Msg("failed to delete tours")

		return fmt.Errorf("failed to delete tours: %w", err)
	}

	s.invalidate(ctx, "")

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllTour)
		shared.InvalidateCaches(c, s.cache, cacheCountTour)
		shared.InvalidateCaches(c, s.cache, cacheRecommendation)

		if id != "" {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheTour, id)); err != nil {
				log.Error().Err(err).Str("tour", id).Msg("failed to delete tour cache")
			}
		}
	}()
}

func activeTour(id string) gDto.FilterGroup {
	return gDto.NewFilterGroup(
		gDto.Filter{Field: model.FieldID, Value: id, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		gDto.Filter{Field: model.FieldIsActive, Value: true, Operator: gDto.FilterOperatorEq, Table: model.TableName},
	)
}
