//go:build wireinject
// +build wireinject

package di

import (
	"libraryhub/config"
	"libraryhub/infras/identity"
	"libraryhub/infras/kafka"
	"libraryhub/infras/otel"
	"libraryhub/infras/postgres"
	"libraryhub/infras/redis"
	"libraryhub/infras/s3"
	"libraryhub/permissions"
	"libraryhub/shared/cache"
	gRepo "libraryhub/shared/repository"
	"libraryhub/transport/http"
	"libraryhub/transport/http/middleware"
	"libraryhub/transport/http/router"

	customerRepository "libraryhub/internal/domains/customer/repository"
	customerService "libraryhub/internal/domains/customer/service"
	reservationRepository "libraryhub/internal/domains/reservation/repository"
	reservationService "libraryhub/internal/domains/reservation/service"
	roomRepository "libraryhub/internal/domains/room/repository"
	roomService "libraryhub/internal/domains/room/service"

	adminHandler "libraryhub/internal/handlers/admin"
	customerHandler "libraryhub/internal/handlers/customer"
	reservationHandler "libraryhub/internal/handlers/reservation"
	roomHandler "libraryhub/internal/handlers/room"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	kafka.New,
	kafka.NewPublisher,
	s3.New,
	identity.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	gRepo.NewTransactor,
)

var customerDomain = wire.NewSet(
	customerRepository.New,
	customerService.New,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
)

var reservationDomain = wire.NewSet(
	reservationRepository.New,
	reservationRepository.NewOwner,
	reservationService.New,
)

var domains = wire.NewSet(
	customerDomain,
	roomDomain,
	reservationDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	customerHandler.New,
	roomHandler.New,
	reservationHandler.New,
	adminHandler.New,
	router.New,
)

func InitializeService() (*http.HTTP, func(), error) {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}, nil, nil
}
