package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"tourbook/config"
	"tourbook/infras/otel"
	bookingModel "tourbook/internal/domains/booking/model"
	bookingRepo "tourbook/internal/domains/booking/repository"
	prefModel "tourbook/internal/domains/preference/model"
	prefDto "tourbook/internal/domains/preference/model/dto"
	prefRepo "tourbook/internal/domains/preference/repository"
	providerModel "tourbook/internal/domains/provider/model"
	providerDto "tourbook/internal/domains/provider/model/dto"
	providerRepo "tourbook/internal/domains/provider/repository"
	"tourbook/internal/domains/user/model"
	"tourbook/internal/domains/user/model/dto"
	"tourbook/internal/domains/user/repository"
	"tourbook/shared"
	"tourbook/shared/constant"
	gDto "tourbook/shared/dto"
	"tourbook/shared/failure"

	"github.com/rs/zerolog/log"
)

type User interface {
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetUsersResponse, error)
	GetProfile(ctx context.Context) (dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest) (dto.UserResponse, error)
	DeleteProfile(ctx context.Context) error
}

type serviceImpl struct {
	repo         repository.User
	prefRepo     prefRepo.Preference
	providerRepo providerRepo.Provider
	bookingRepo  bookingRepo.Booking
	cfg          *config.Config
	otel         otel.Otel
}

func New(repo repository.User, prefRepo prefRepo.Preference, providerRepo providerRepo.Provider, bookingRepo bookingRepo.Booking,
	cfg *config.Config, otel otel.Otel,
) User {
	return &serviceImpl{
		repo:         repo,
		prefRepo:     prefRepo,
		providerRepo: providerRepo,
		bookingRepo:  bookingRepo,
		cfg:          cfg,
		otel:         otel,
	}
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetUsersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".User.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count users")

		return res, fmt.Errorf("failed to count users: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get users")

		return res, fmt.Errorf("failed to get users: %w", err)
	}

	res.FromModels(models, req.Page, req.Limit, total)

	return res, nil
}

func (s *serviceImpl) GetProfile(ctx context.Context) (res dto.ProfileResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".User.GetProfile")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, _ := shared.Actor(ctx)

	user, err := s.repo.Get(ctx, shared.FilterByID(userID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == "" {
		return res, failure.NotFound("Profile not found") // nolint:wrapcheck
	}

	res.Profile.FromModel(user)

	preference, err := s.prefRepo.Get(ctx, gDto.NewFilterGroup(gDto.Filter{
		Field:    prefModel.FieldUserID,
		Value:    userID,
		Operator: gDto.FilterOperatorEq,
		Table:    prefModel.TableName,
	}))
	if err != nil {
		log.Error().Err(err).Msg("failed to get preference")

		return res, fmt.Errorf("failed to get preference: %w", err)
	}

	if preference.ID != "" {
		res.Preferences = &prefDto.PreferenceResponse{}
		res.Preferences.FromModel(preference)
	}

	provider, err := s.providerRepo.Get(ctx, gDto.NewFilterGroup(gDto.Filter{
		Field:    providerModel.FieldUserID,
		Value:    userID,
		Operator: gDto.FilterOperatorEq,
		Table:    providerModel.TableName,
	}))
	if err != nil {
		log.Error().Err(err).Msg("failed to get provider")

		return res, fmt.Errorf("failed to get provider: %w", err)
	}

	if provider.ID != "" {
		res.Provider = &providerDto.ProviderResponse{}
		res.Provider.FromModel(provider)
	}

	stats, err := s.bookingRepo.Stats(ctx, userID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking stats")

		return res, fmt.Errorf("failed to get booking stats: %w", err)
	}

	res.Stats.FromModel(stats)

	return res, nil
}

func (s *serviceImpl) UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".User.UpdateProfile")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, _ := shared.Actor(ctx)
	filter := shared.FilterByID(userID, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if user exists")

		return res, fmt.Errorf("failed to check if user exists: %w", err)
	}

	if !exist {
		return res, failure.NotFound("Profile not found") // nolint:wrapcheck
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req, userID), filter); err != nil {
		log.Error().Err(err).Msg("failed to update profile")

		return res, fmt.Errorf("failed to update profile: %w", err)
	}

	user, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	res.FromModel(user)

	return res, nil
}

func (s *serviceImpl) DeleteProfile(ctx context.Context) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".User.DeleteProfile")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, _ := shared.Actor(ctx)

	active, err := s.bookingRepo.Exist(ctx, gDto.NewFilterGroup(
		gDto.Filter{
			Field:    bookingModel.FieldUserID,
			Value:    userID,
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
		return failure.BadRequestFromString("Cannot delete account with active bookings. Please cancel or complete your bookings first.") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(userID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete user")

		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}
