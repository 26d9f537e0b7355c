package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"tourbook/config"
	"tourbook/infras/otel"
	"tourbook/internal/domains/preference/model"
	"tourbook/internal/domains/preference/model/dto"
	"tourbook/internal/domains/preference/repository"
	"tourbook/shared"
	"tourbook/shared/cache"
	"tourbook/shared/constant"
	gDto "tourbook/shared/dto"
	"tourbook/shared/failure"

	"github.com/rs/zerolog/log"
)

const cacheGetPreference = "preference:get"

type Preference interface {
	Get(ctx context.Context) (*dto.PreferenceResponse, error)
	Upsert(ctx context.Context, req dto.UpsertPreferenceRequest) (dto.PreferenceResponse, error)
	Update(ctx context.Context, req dto.UpdatePreferenceRequest) (dto.PreferenceResponse, error)
	Delete(ctx context.Context) error
}

type serviceImpl struct {
	repo  repository.Preference
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Preference, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Preference {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func byUser(userID string) gDto.FilterGroup {
	return gDto.NewFilterGroup(gDto.Filter{
		Field:    model.FieldUserID,
		Value:    userID,
		Operator: gDto.FilterOperatorEq,
		Table:    model.TableName,
	})
}

// Get returns nil when the caller has not answered the questionnaire yet.
func (s *serviceImpl) Get(ctx context.Context) (res *dto.PreferenceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Preference.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := shared.Actor(ctx)
	cacheKey := shared.BuildCacheKey(cacheGetPreference, user)

	cached := dto.PreferenceResponse{}
	if err = s.cache.Get(ctx, cacheKey, &cached); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for preference")

		return &cached, nil
	}

	preference, err := s.repo.Get(ctx, byUser(user))
	if err != nil {
		log.Error().Err(err).Msg("failed to get preference")

		return nil, fmt.Errorf("failed to get preference: %w", err)
	}

	if preference.ID == "" {
		return nil, nil
	}

	res = &dto.PreferenceResponse{}
	res.FromModel(preference)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save preference to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Upsert(ctx context.Context, req dto.UpsertPreferenceRequest) (res dto.PreferenceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Preference.Upsert")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := shared.Actor(ctx)

	preference := req.ToModel(user)
	if err = s.repo.Upsert(ctx, preference); err != nil {
		log.Error().Err(err).Msg("failed to save preference")

		return res, fmt.Errorf("failed to save preference: %w", err)
	}

	s.invalidate(ctx, user)

	res.FromModel(preference)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdatePreferenceRequest) (res dto.PreferenceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Preference.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.IsEmpty() {
		return res, failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := shared.Actor(ctx)
	filter := byUser(user)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if preference exists")

		return res, fmt.Errorf("failed to check if preference exists: %w", err)
	}

	if !exist {
		return res, failure.NotFound("Preferences not found") // nolint:wrapcheck
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req, user), filter); err != nil {
		log.Error().Err(err).Msg("failed to update preference")

		return res, fmt.Errorf("failed to update preference: %w", err)
	}

	s.invalidate(ctx, user)

	preference, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get preference")

		return res, fmt.Errorf("failed to get preference: %w", err)
	}

	res.FromModel(preference)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Preference.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := shared.Actor(ctx)

	if err = s.repo.Delete(ctx, byUser(user)); err != nil {
		log.Error().Err(err).Msg("failed to delete preference")

		return fmt.Errorf("failed to delete preference: %w", err)
	}

	s.invalidate(ctx, user)

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, user string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetPreference, user)); err != nil {
			log.Error().Err(err).Msg("failed to delete preference from cache")
		}
	}()
}
