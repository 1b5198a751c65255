package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"net/http"

	"libraryhub/infras/otel"
	"libraryhub/internal/domains/customer/model"
	"libraryhub/internal/domains/customer/model/dto"
	"libraryhub/internal/domains/customer/repository"
	"libraryhub/shared"
	"libraryhub/shared/constant"
	"libraryhub/shared/failure"
	gRepo "libraryhub/shared/repository"

	"github.com/rs/zerolog/log"
)

type Customer interface {
	Sync(ctx context.Context, req dto.SyncCustomerRequest) (dto.SyncCustomerResponse, error)
	Me(ctx context.Context) (dto.CustomerResponse, error)
	Resolve(ctx context.Context, email string) (model.Customer, error)
	GetByID(ctx context.Context, id int64) (model.Customer, error)
}

type serviceImpl struct {
	repo repository.Customer
	otel otel.Otel
}

func New(repo repository.Customer, otel otel.Otel) Customer {
	return &serviceImpl{
		repo: repo,
		otel: otel,
	}
}

// Resolve maps a verified email to its customer record.
func (s *serviceImpl) Resolve(ctx context.Context, email string) (res model.Customer, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Resolve")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if email == constant.Empty {
		return res, failure.Unauthorized("missing user email from token") //nolint:wrapcheck
	}

	res, err = s.repo.Get(ctx, shared.FilterByID(email, model.FieldEmail, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to look up customer")

		return res, fmt.Errorf("failed to look up customer: %w", err)
	}

	if res.ID == 0 {
		return res, failure.NotFound("customer not found") //nolint:wrapcheck
	}

	return res, nil
}

func (s *serviceImpl) GetByID(ctx context.Context, id int64) (res model.Customer, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetByID")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	res, err = s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get customer")

		return res, fmt.Errorf("failed to get customer: %w", err)
	}

	if res.ID == 0 {
		return res, failure.NotFound("customer not found") //nolint:wrapcheck
	}

	return res, nil
}

func (s *serviceImpl) Sync(ctx context.Context, req dto.SyncCustomerRequest) (res dto.SyncCustomerResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Sync")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	email, _ := ctx.Value(constant.ContextKeyUserEmail).(string)

	existing, err := s.Resolve(ctx, email)
	if err == nil {
		res.Customer.FromModel(existing)

		return res, nil
	}

	if failure.GetCode(err) != http.StatusNotFound {
		return res, err
	}

	customer := req.ToModel(email)

	customer.ID, err = s.repo.InsertReturning(ctx, customer)
	if gRepo.IsUniqueViolation(err) {
		log.Warn().Str("email", email).Msg("customer created concurrently, returning existing record")

		existing, err = s.Resolve(ctx, email)
		if err != nil {
			return res, err
		}

		res.Customer.FromModel(existing)

		return res, nil
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to create customer")

		return res, fmt.Errorf("failed to create customer: %w", err)
	}

	log.Info().Int64("customer_id", customer.ID).Msg("customer synced from identity provider")

	res.Created = true
	res.Customer.FromModel(customer)

	return res, nil
}

func (s *serviceImpl) Me(ctx context.Context) (res dto.CustomerResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Me")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	email, _ := ctx.Value(constant.ContextKeyUserEmail).(string)

	customer, err := s.Resolve(ctx, email)
	if err != nil {
		return res, err
	}

	res.FromModel(customer)

	return res, nil
}
