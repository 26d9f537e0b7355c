package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"strings"

	"tourbook/config"
	"tourbook/infras/jwt"
	"tourbook/infras/otel"
	"tourbook/internal/domains/auth/model/dto"
	userModel "tourbook/internal/domains/user/model"
	userDto "tourbook/internal/domains/user/model/dto"
	userRepo "tourbook/internal/domains/user/repository"
	"tourbook/shared"
	"tourbook/shared/constant"
	gDto "tourbook/shared/dto"
	"tourbook/shared/failure"
	"tourbook/shared/password"
	gRepo "tourbook/shared/repository"
	"tourbook/shared/timezone"

	"github.com/rs/zerolog/log"
)

const invalidCredentials = "Invalid email or password"

type Auth interface {
	Register(ctx context.Context, req dto.RegisterRequest) (dto.SessionResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (dto.SessionResponse, error)
	Refresh(ctx context.Context, refreshToken string) (dto.SessionResponse, error)
	SetupAdmin(ctx context.Context, req dto.RegisterRequest) (userDto.UserResponse, error)
}

type serviceImpl struct {
	userRepo   userRepo.User
	cfg        *config.Config
	otel       otel.Otel
	jwtService jwt.JWT
}

func New(userRepo userRepo.User, cfg *config.Config, otel otel.Otel, jwt jwt.JWT) Auth {
	return &serviceImpl{
		userRepo:   userRepo,
		cfg:        cfg,
		otel:       otel,
		jwtService: jwt,
	}
}

func byEmail(email string) gDto.FilterGroup {
	return gDto.NewFilterGroup(gDto.Filter{
		Field:    userModel.FieldEmail,
		Operator: gDto.FilterOperatorEq,
		Value:    strings.ToLower(strings.TrimSpace(email)),
		Table:    userModel.TableName,
	})
}

func (s *serviceImpl) Register(ctx context.Context, req dto.RegisterRequest) (res dto.SessionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Auth.Register")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, err := s.createUser(ctx, req, constant.RoleTourist, "")
	if err != nil {
		return res, err
	}

	return s.session(user)
}

func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.SessionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Auth.Login")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, err := s.userRepo.Get(ctx, byEmail(req.Email))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == "" {
		log.Warn().Str("email", req.Email).Msg("login attempt with non-existent email")

		return res, failure.Unauthorized(invalidCredentials) // nolint:wrapcheck
	}

	if err := password.Verify(req.Password, user.Password); err != nil {
		log.Warn().Str("email", req.Email).Msg("login attempt with wrong password")

		return res, failure.Unauthorized(invalidCredentials) // nolint:wrapcheck
	}

	if !user.Active {
		return res, failure.Forbidden("Account is deactivated") // nolint:wrapcheck
	}

	res, err = s.session(user)
	if err != nil {
		return res, err
	}

	now := timezone.Now()
	fields := map[string]any{
		userModel.FieldLastLogin: now,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: user.ID,
	}

	if err := s.userRepo.Update(ctx, fields, shared.FilterByID(user.ID, userModel.FieldID, userModel.TableName)); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to update last login")
	}

	return res, nil
}

// Refresh issues a new pair from a refresh token. The user row is read again so a changed role or a
// deactivation applies to the new tokens.
func (s *serviceImpl) Refresh(ctx context.Context, refreshToken string) (res dto.SessionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Auth.Refresh")
	defer scope.End()
	defer scope.TraceIfError(err)

	if refreshToken == "" {
		return res, failure.Unauthorized("Refresh token required") // nolint:wrapcheck
	}

	claims, err := s.jwtService.ValidateToken(refreshToken, jwt.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("failed to validate refresh token")

		return res, failure.Unauthorized("Invalid refresh token") // nolint:wrapcheck
	}

	user, err := s.userRepo.Get(ctx, shared.FilterByID(claims.UserID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == "" || !user.Active {
		return res, failure.Unauthorized("Invalid refresh token") // nolint:wrapcheck
	}

	return s.session(user)
}

func (s *serviceImpl) SetupAdmin(ctx context.Context, req dto.RegisterRequest) (res userDto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Auth.SetupAdmin")
	defer scope.End()
	defer scope.TraceIfError(err)

	admins, err := s.userRepo.Count(ctx, gDto.NewFilterGroup(gDto.Filter{
		Field:    userModel.FieldRole,
		Operator: gDto.FilterOperatorEq,
		Value:    constant.RoleAdmin,
		Table:    userModel.TableName,
	}))
	if err != nil {
		log.Error().Err(err).Msg("failed to count admins")

		return res, fmt.Errorf("failed to count admins: %w", err)
	}

	if admins > 0 {
		return res, failure.Conflict("Admin user already exists") // nolint:wrapcheck
	}

	user, err := s.createUser(ctx, req, constant.RoleAdmin, constant.ContextSystem)
	if err != nil {
		return res, err
	}

	res.FromModel(user)

	return res, nil
}

func (s *serviceImpl) createUser(ctx context.Context, req dto.RegisterRequest, role, actor string) (userModel.User, error) {
	exists, err := s.userRepo.Exist(ctx, byEmail(req.Email))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if user exists")

		return userModel.User{}, fmt.Errorf("failed to check if user exists: %w", err)
	}

	if exists {
		return userModel.User{}, failure.Conflict("Email already registered") // nolint:wrapcheck
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return userModel.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := req.ToUserModel(role, hashed, actor)

	if err = s.userRepo.Insert(ctx, user); err != nil {
		if gRepo.IsUniqueViolation(err) {
			return user, failure.Conflict("Email already registered") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create user")

		return user, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (s *serviceImpl) session(user userModel.User) (res dto.SessionResponse, err error) {
	pair, err := s.jwtService.GenerateTokenPair(user.ID, user.Email, user.Role)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	res.FromTokenPair(pair, user)

	return res, nil
}
