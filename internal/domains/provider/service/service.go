package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"tourbook/config"
	"tourbook/infras/otel"
	"tourbook/internal/domains/provider/model"
	"tourbook/internal/domains/provider/model/dto"
	"tourbook/internal/domains/provider/repository"
	userModel "tourbook/internal/domains/user/model"
	userRepo "tourbook/internal/domains/user/repository"
	"tourbook/shared"
	"tourbook/shared/cache"
	"tourbook/shared/constant"
	gDto "tourbook/shared/dto"
	"tourbook/shared/failure"
	gRepo "tourbook/shared/repository"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetAllProvider = "provider:gets"
	cacheCountProvider  = "provider:count"
)

type Provider interface {
	Register(ctx context.Context, req dto.RegisterProviderRequest) (dto.ProviderResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetProvidersResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	UpdateStatus(ctx context.Context, id string, req dto.UpdateProviderRequest) (dto.ProviderResponse, error)
}

type serviceImpl struct {
	repo       repository.Provider
	userRepo   userRepo.User
	transactor gRepo.Transactor
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
}

func New(repo repository.Provider, userRepo userRepo.User, transactor gRepo.Transactor, cfg *config.Config,
	cache cache.RedisCache, otel otel.Otel,
) Provider {
	return &serviceImpl{
		repo:       repo,
		userRepo:   userRepo,
		transactor: transactor,
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
	}
}

func (s *serviceImpl) Register(ctx context.Context, req dto.RegisterProviderRequest) (res dto.ProviderResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Provider.Register")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, role := shared.Actor(ctx)

	target := req.UserID
	if target == "" {
		target = actor
	}

	if target != actor && role != constant.RoleAdmin {
		return res, failure.Forbidden("Access denied") // nolint:wrapcheck
	}

	user, err := s.userRepo.Get(ctx, shared.FilterByID(target, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == "" {
		return res, failure.NotFound("User not found") // nolint:wrapcheck
	}

	exist, err := s.repo.Exist(ctx, gDto.NewFilterGroup(gDto.Filter{
		Field:    model.FieldUserID,
		Value:    target,
		Operator: gDto.FilterOperatorEq,
		Table:    model.TableName,
	}))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if provider exists")

		return res, fmt.Errorf("failed to check if provider exists: %w", err)
	}

	if exist {
		return res, failure.Conflict("User already has a provider profile") // nolint:wrapcheck
	}

	provider := req.ToModel(target, actor)

	err = s.transactor.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.repo.InsertTx(ctx, tx, provider); err != nil {
			return err //nolint:wrapcheck
		}

		if user.Role != constant.RoleTourist {
			return nil
		}

		promote := map[string]any{
			userModel.FieldRole:      constant.RoleProvider,
			constant.FieldModifiedAt: provider.ModifiedAt,
			constant.FieldModifiedBy: actor,
		}

		return s.userRepo.UpdateTx(ctx, tx, promote, shared.FilterByID(target, userModel.FieldID, userModel.TableName)) //nolint:wrapcheck
	})
	if gRepo.IsUniqueViolation(err) {
		return res, failure.Conflict("User already has a provider profile") // nolint:wrapcheck
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to register provider")

		return res, fmt.Errorf("failed to register provider: %w", err)
	}

	if err := s.repo.InsertServices(ctx, req.ToServices(provider.ID, actor)); err != nil {
		log.Error().Err(err).Str("provider", provider.ID).Msg("failed to insert provider services")
	}

	if err := s.repo.InsertAmenities(ctx, req.ToAmenities(provider.ID, actor)); err != nil {
		log.Error().Err(err).Str("provider", provider.ID).Msg("failed to insert provider amenities")
	}

	s.invalidate(ctx)

	res.FromModel(provider)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetProvidersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Provider.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllProvider, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for providers")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count providers")

		return res, fmt.Errorf("failed to count providers: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get providers")

		return res, fmt.Errorf("failed to get providers: %w", err)
	}

	res.FromModels(models, req.Page, req.Limit, total)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save providers to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Provider.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountProvider, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count providers")

		return res, fmt.Errorf("failed to count providers: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save provider count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) UpdateStatus(ctx context.Context, id string, req dto.UpdateProviderRequest) (res dto.ProviderResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Provider.UpdateStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, role := shared.Actor(ctx)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	provider, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get provider")

		return res, fmt.Errorf("failed to get provider: %w", err)
	}

	if provider.ID == "" {
		return res, failure.NotFound("Provider not found") // nolint:wrapcheck
	}

	if provider.UserID != actor && role != constant.RoleAdmin {
		return res, failure.Forbidden("Access denied") // nolint:wrapcheck
	}

	if role != constant.RoleAdmin {
		req.IsVerified = nil
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req, actor), filter); err != nil {
		log.Error().Err(err).Msg("failed to update provider")

		return res, fmt.Errorf("failed to update provider: %w", err)
	}

	s.invalidate(ctx)

	if req.IsActive != nil {
		provider.IsActive = *req.IsActive
	}

	if req.IsVerified != nil {
		provider.IsVerified = *req.IsVerified
	}

	res.FromModel(provider)

	return res, nil
}

func (s *serviceImpl) invalidate(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllProvider)
		shared.InvalidateCaches(c, s.cache, cacheCountProvider)
	}()
}
