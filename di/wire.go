//go:build wireinject
// +build wireinject

package di

import (
	"tourbook/config"
	"tourbook/infras/jwt"
	"tourbook/infras/otel"
	"tourbook/infras/payment"
	"tourbook/infras/postgres"
	"tourbook/infras/redis"
	"tourbook/infras/s3"
	"tourbook/permissions"
	"tourbook/shared/cache"
	gRepo "tourbook/shared/repository"
	"tourbook/transport/http"
	"tourbook/transport/http/middleware"
	"tourbook/transport/http/router"

	"github.com/google/wire"

	authService "tourbook/internal/domains/auth/service"
	bookingRepository "tourbook/internal/domains/booking/repository"
	bookingService "tourbook/internal/domains/booking/service"
	paymentRepository "tourbook/internal/domains/payment/repository"
	paymentService "tourbook/internal/domains/payment/service"
	preferenceRepository "tourbook/internal/domains/preference/repository"
	preferenceService "tourbook/internal/domains/preference/service"
	providerRepository "tourbook/internal/domains/provider/repository"
	providerService "tourbook/internal/domains/provider/service"
	recommendationService "tourbook/internal/domains/recommendation/service"
	reviewRepository "tourbook/internal/domains/review/repository"
	reviewService "tourbook/internal/domains/review/service"
	tourRepository "tourbook/internal/domains/tour/repository"
	tourService "tourbook/internal/domains/tour/service"
	userRepository "tourbook/internal/domains/user/repository"
	userService "tourbook/internal/domains/user/service"

	authHandler "tourbook/internal/handlers/auth"
	bookingHandler "tourbook/internal/handlers/booking"
	paymentHandler "tourbook/internal/handlers/payment"
	preferenceHandler "tourbook/internal/handlers/preference"
	providerHandler "tourbook/internal/handlers/provider"
	reviewHandler "tourbook/internal/handlers/review"
	tourHandler "tourbook/internal/handlers/tour"
	userHandler "tourbook/internal/handlers/user"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	s3.New,
	payment.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	gRepo.NewTransactor,
)

var repositories = wire.NewSet(
	userRepository.New,
	providerRepository.New,
	tourRepository.New,
	bookingRepository.New,
	reviewRepository.New,
	preferenceRepository.New,
	paymentRepository.New,
)

var services = wire.NewSet(
	authService.New,
	userService.New,
	providerService.New,
	tourService.New,
	bookingService.New,
	reviewService.New,
	preferenceService.New,
	recommendationService.New,
	paymentService.New,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	tourHandler.New,
	bookingHandler.New,
	reviewHandler.New,
	providerHandler.New,
	userHandler.New,
	preferenceHandler.New,
	paymentHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		repositories,
		services,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
