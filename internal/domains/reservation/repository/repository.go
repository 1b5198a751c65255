package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"libraryhub/infras/otel"
	"libraryhub/infras/postgres"
	"libraryhub/internal/domains/reservation/model"
	gDto "libraryhub/shared/dto"
	gRepo "libraryhub/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Reservation interface {
	InsertReturningTx(ctx context.Context, tx *sqlx.Tx, model model.Reservation) (int64, error)
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Reservation, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Reservation, error)
	CountTx(ctx context.Context, tx *sqlx.Tx, filter gDto.FilterGroup) (int, error)
	DeleteTx(ctx context.Context, tx *sqlx.Tx, filter gDto.FilterGroup) (int64, error)
}

// Owner reads reservations joined with their customer.
type Owner interface {
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.ReservationWithOwner, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Reservation]
}

func New(db *postgres.Connection, otel otel.Otel) Reservation {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Reservation](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

type ownerRepositoryImpl struct {
	gRepo.Repository[model.ReservationWithOwner]
}

func NewOwner(db *postgres.Connection, otel otel.Otel) Owner {
	return &ownerRepositoryImpl{
		Repository: gRepo.NewRepository[model.ReservationWithOwner](model.OwnerEntityName, model.TableName, model.FieldID, db, otel),
	}
}
