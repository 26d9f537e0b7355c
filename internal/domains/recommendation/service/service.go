package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"tourbook/config"
	"tourbook/infras/metrics"
	"tourbook/infras/otel"
	prefModel "tourbook/internal/domains/preference/model"
	prefRepo "tourbook/internal/domains/preference/repository"
	"tourbook/internal/domains/recommendation/model/dto"
	"tourbook/internal/domains/recommendation/scorer"
	tourModel "tourbook/internal/domains/tour/model"
	tourRepo "tourbook/internal/domains/tour/repository"
	"tourbook/shared"
	"tourbook/shared/cache"
	"tourbook/shared/constant"
	gDto "tourbook/shared/dto"
	"tourbook/shared/failure"

	"github.com/rs/zerolog/log"
)

// CachePrefix namespaces cached rankings; tour writes clear it.
const CachePrefix = "recommendation"

type Recommendation interface {
	Get(ctx context.Context, limit int) (dto.RecommendationsResponse, error)
}

type serviceImpl struct {
	prefRepo prefRepo.Preference
	tourRepo tourRepo.Tour
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(prefRepo prefRepo.Preference, tourRepo tourRepo.Tour, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Recommendation {
	return &serviceImpl{
		prefRepo: prefRepo,
		tourRepo: tourRepo,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

// fingerprint changes whenever an answer that feeds the scorer changes.
func fingerprint(p prefModel.Preference) string {
	return shared.Hash(
		p.BudgetRange,
		strconv.Itoa(p.TravelDuration),
		strconv.Itoa(p.GroupSize),
		strings.Join(p.PreferredActivities, ","),
	)
}

func (s *serviceImpl) Get(ctx context.Context, limit int) (res dto.RecommendationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Recommendation.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, _ := shared.Actor(ctx)
	limit = dto.ClampLimit(limit)

	prefs, err := s.prefRepo.Get(ctx, gDto.NewFilterGroup(gDto.Filter{
		Field:    prefModel.FieldUserID,
		Value:    userID,
		Operator: gDto.FilterOperatorEq,
		Table:    prefModel.TableName,
	}))
	if err != nil {
		log.Error().Err(err).Msg("failed to get preference")

		return res, fmt.Errorf("failed to get preference: %w", err)
	}

	if prefs.ID == "" {
		return res, failure.NotFound("User preferences not found. Please complete the preference questionnaire first.") // nolint:wrapcheck
	}

	recommendations, err := s.ranking(ctx, userID, prefs)
	if err != nil {
		return res, err
	}

	if len(recommendations) > limit {
		recommendations = recommendations[:limit]
	}

	res.Recommendations = recommendations
	res.Preferences.FromModel(prefs)
	res.Total = len(recommendations)

	return res, nil
}

// ranking returns the full ranking for prefs, from cache when the answers have not changed.
func (s *serviceImpl) ranking(ctx context.Context, userID string, prefs prefModel.Preference) ([]dto.Recommendation, error) {
	cacheKey := shared.BuildCacheKey(CachePrefix, userID, fingerprint(prefs))

	var cached []dto.Recommendation
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for recommendations")
		metrics.RecordRecommendationCache(true)

		return cached, nil
	}

	metrics.RecordRecommendationCache(false)

	tours, err := s.tourRepo.GetAll(ctx, gDto.QueryParams{
		SortBy:  tourModel.TableName + "." + tourModel.FieldRating,
		SortDir: gDto.SortDirDesc,
	}, gDto.NewFilterGroup(gDto.Filter{
		Field:    tourModel.FieldIsActive,
		Value:    true,
		Operator: gDto.FilterOperatorEq,
		Table:    tourModel.TableName,
	}))
	if err != nil {
		log.Error().Err(err).Msg("failed to get tours")

		return nil, fmt.Errorf("failed to get tours: %w", err)
	}

	recommendations := dto.FromRanked(scorer.Rank(tours, prefs, dto.MaxLimit))

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, recommendations, s.cfg.Cache.RecommendationTTL); err != nil {
			log.Error().Err(err).Msg("failed to save recommendations to cache")
		}
	}()

	return recommendations, nil
}
