package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"

	"libraryhub/config"
	"libraryhub/infras/kafka"
	"libraryhub/infras/otel"
	customerService "libraryhub/internal/domains/customer/service"
	"libraryhub/internal/domains/reservation/model"
	"libraryhub/internal/domains/reservation/model/dto"
	"libraryhub/internal/domains/reservation/repository"
	roomModel "libraryhub/internal/domains/room/model"
	roomRepo "libraryhub/internal/domains/room/repository"
	"libraryhub/shared"
	"libraryhub/shared/cache"
	"libraryhub/shared/constant"
	gDto "libraryhub/shared/dto"
	"libraryhub/shared/failure"
	gRepo "libraryhub/shared/repository"
	"libraryhub/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

var (
	errReservationVanished  = errors.New("reservation removed concurrently")
	errRoomStatusNotUpdated = errors.New("room status not updated")
)

type Reservation interface {
	Create(ctx context.Context, req dto.CreateReservationRequest) (dto.CreateReservationResponse, error)
	CreateForCustomer(ctx context.Context, req dto.CreateForCustomerRequest) (dto.CreateReservationResponse, error)
	ListMine(ctx context.Context) (dto.ListReservationsResponse, error)
	Cancel(ctx context.Context, id int64) error
	CancelAsAdmin(ctx context.Context, id int64) error
	ListByRoom(ctx context.Context, roomID int64) (dto.RoomReservationsResponse, error)
	ClearRoom(ctx context.Context, roomID int64) (dto.ClearRoomResponse, error)
	Overview(ctx context.Context) (dto.OverviewResponse, error)
}

type serviceImpl struct {
	repo       repository.Reservation
	ownerRepo  repository.Owner
	roomRepo   roomRepo.Room
	customer   customerService.Customer
	transactor gRepo.Transactor
	publisher  kafka.Publisher
	cache      cache.RedisCache
	cfg        *config.Config
	otel       otel.Otel
}

func New(
	repo repository.Reservation,
	ownerRepo repository.Owner,
	roomRepo roomRepo.Room,
	customer customerService.Customer,
	transactor gRepo.Transactor,
	publisher kafka.Publisher,
	cache cache.RedisCache,
	cfg *config.Config,
	otel otel.Otel,
) Reservation {
	return &serviceImpl{
		repo:       repo,
		ownerRepo:  ownerRepo,
		roomRepo:   roomRepo,
		customer:   customer,
		transactor: transactor,
		publisher:  publisher,
		cache:      cache,
		cfg:        cfg,
		otel:       otel,
	}
}

// Create books a room for the calling customer and marks the room Occupied in the same transaction.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateReservationRequest) (res dto.CreateReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	email, _ := ctx.Value(constant.ContextKeyUserEmail).(string)

	customer, err := s.customer.Resolve(ctx, email)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	return s.create(ctx, req, customer.ID, email)
}

func (s *serviceImpl) CreateForCustomer(ctx context.Context, req dto.CreateForCustomerRequest) (res dto.CreateReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateForCustomer")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserEmail).(string)

	customer, err := s.customer.GetByID(ctx, req.CustomerID)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	return s.create(ctx, req.CreateReservationRequest, customer.ID, user)
}

func (s *serviceImpl) create(ctx context.Context, req dto.CreateReservationRequest, customerID int64, user string) (res dto.CreateReservationResponse, err error) {
	reservation, err := req.ToModel(customerID, user)
	if err != nil {
		return res, failure.BadRequest(err) //nolint:wrapcheck
	}

	err = s.transactor.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		if err := s.lockRoom(ctx, tx, reservation.RoomID); err != nil {
			return err
		}

		id, err := s.repo.InsertReturningTx(ctx, tx, reservation)
		if err != nil {
			return fmt.Errorf("failed to insert reservation: %w", err)
		}

		reservation.ID = id

		return s.setRoomStatus(ctx, tx, reservation.RoomID, roomModel.StatusOccupied, user)
	})
	if err != nil {
		logUnexpected(err, "failed to create reservation")

		return res, err
	}

	log.Info().
		Int64("reservation_id", reservation.ID).
		Int64("room_id", reservation.RoomID).
		Int64("customer_id", customerID).
		Msg("reservation created")

	s.afterWrite(ctx, model.NewEvent(model.EventTypeCreated, reservation, roomModel.StatusOccupied, user))

	res.ID = reservation.ID

	return res, nil
}

// ListMine returns the caller's reservations, newest date first.
func (s *serviceImpl) ListMine(ctx context.Context) (res dto.ListReservationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListMine")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	email, _ := ctx.Value(constant.ContextKeyUserEmail).(string)

	customer, err := s.customer.Resolve(ctx, email)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	models, err := s.repo.GetAll(ctx,
		gDto.QueryParams{OrderBy: model.OrderByDateDesc},
		shared.FilterByID(customer.ID, model.FieldCustomerID, model.TableName),
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to list reservations")

		return res, fmt.Errorf("failed to list reservations: %w", err)
	}

	res.FromModels(models)

	return res, nil
}

// Cancel deletes a reservation owned by the caller and recomputes the room status.
func (s *serviceImpl) Cancel(ctx context.Context, id int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute("reservation.id", id)

	email, _ := ctx.Value(constant.ContextKeyUserEmail).(string)

	customer, err := s.customer.Resolve(ctx, email)
	if err != nil {
		return err //nolint:wrapcheck
	}

	owned, err := s.repo.Get(ctx, gDto.And(
		gDto.Eq(model.TableName, model.FieldID, id),
		gDto.Eq(model.TableName, model.FieldCustomerID, customer.ID),
	))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return fmt.Errorf("failed to get reservation: %w", err)
	}

	if owned.ID == 0 {
		log.Warn().Int64("reservation_id", id).Int64("customer_id", customer.ID).Msg("cancel refused, reservation not owned by caller")

		return failure.Forbidden("not allowed to cancel this reservation") //nolint:wrapcheck
	}

	status, err := s.remove(ctx, owned, email)
	if err != nil {
		logUnexpected(err, "failed to cancel reservation")

		return err
	}

	s.afterWrite(ctx, model.NewEvent(model.EventTypeCancelled, owned, status, email))

	return nil
}

// CancelAsAdmin deletes any reservation. The room status is recomputed exactly as for Cancel.
func (s *serviceImpl) CancelAsAdmin(ctx context.Context, id int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CancelAsAdmin")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute("reservation.id", id)

	user, _ := ctx.Value(constant.ContextKeyUserEmail).(string)

	reservation, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == 0 {
		return failure.NotFound("reservation not found") //nolint:wrapcheck
	}

	status, err := s.remove(ctx, reservation, user)
	if err != nil {
		logUnexpected(err, "failed to cancel reservation as admin")

		return err
	}

	s.afterWrite(ctx, model.NewEvent(model.EventTypeCancelled, reservation, status, user))

	return nil
}

func (s *serviceImpl) ListByRoom(ctx context.Context, roomID int64) (res dto.RoomReservationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListByRoom")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName), roomModel.FieldID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == 0 {
		return res, failure.NotFound("room not found") //nolint:wrapcheck
	}

	models, err := s.ownerRepo.GetAll(ctx,
		gDto.QueryParams{OrderBy: model.OrderByDateDesc},
		shared.FilterByID(roomID, model.FieldRoomID, model.TableName),
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to list room reservations")

		return res, fmt.Errorf("failed to list room reservations: %w", err)
	}

	res.FromModels(roomID, models)

	return res, nil
}

// ClearRoom deletes every reservation of a room, leaving it Available.
func (s *serviceImpl) ClearRoom(ctx context.Context, roomID int64) (res dto.ClearRoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ClearRoom")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserEmail).(string)

	var (
		deleted int64
		status  string
	)

	err = s.transactor.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		if err := s.lockRoom(ctx, tx, roomID); err != nil {
			return err
		}

		deleted, err = s.repo.DeleteTx(ctx, tx, shared.FilterByID(roomID, model.FieldRoomID, model.TableName))
		if err != nil {
			return fmt.Errorf("failed to delete room reservations: %w", err)
		}

		status, err = s.recomputeRoomStatus(ctx, tx, roomID, user)

		return err
	})
	if err != nil {
		logUnexpected(err, "failed to clear room reservations")

		return res, err
	}

	log.Info().Int64("room_id", roomID).Int64("deleted", deleted).Msg("room reservations cleared")

	s.afterWrite(ctx, model.NewEvent(model.EventTypeRoomCleared, model.Reservation{RoomID: roomID}, status, user))

	return dto.ClearRoomResponse{RoomID: roomID, Deleted: deleted, RoomStatus: status}, nil
}

// Overview lists every room with all of its reservations and their owners.
func (s *serviceImpl) Overview(ctx context.Context) (res dto.OverviewResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Overview")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	rooms, err := s.roomRepo.GetAll(ctx,
		gDto.QueryParams{OrderBy: []string{roomModel.TableName + "." + roomModel.FieldID + " " + gDto.SortDirAsc}},
		gDto.FilterGroup{},
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to get rooms")

		return res, fmt.Errorf("failed to get rooms: %w", err)
	}

	reservations, err := s.ownerRepo.GetAll(ctx, gDto.QueryParams{OrderBy: model.OrderByDateDesc}, gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservations")

		return res, fmt.Errorf("failed to get reservations: %w", err)
	}

	byRoom := make(map[int64][]dto.OwnedReservationResponse, len(rooms))

	for _, reservation := range reservations {
		var item dto.OwnedReservationResponse

		item.FromModel(reservation)
		byRoom[reservation.RoomID] = append(byRoom[reservation.RoomID], item)
	}

	res.Rooms = make([]dto.RoomOverview, len(rooms))

	for i, room := range rooms {
		res.Rooms[i].RoomResponse.FromModel(room)

		res.Rooms[i].Reservations = byRoom[room.ID]
		if res.Rooms[i].Reservations == nil {
			res.Rooms[i].Reservations = []dto.OwnedReservationResponse{}
		}
	}

	return res, nil
}

// remove deletes one reservation and recomputes its room status in a single transaction.
func (s *serviceImpl) remove(ctx context.Context, reservation model.Reservation, user string) (status string, err error) {
	err = s.transactor.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		if err := s.lockRoom(ctx, tx, reservation.RoomID); err != nil {
			return err
		}

		affected, err := s.repo.DeleteTx(ctx, tx, shared.FilterByID(reservation.ID, model.FieldID, model.TableName))
		if err != nil {
			return fmt.Errorf("failed to delete reservation: %w", err)
		}

		if affected == 0 {
			return fmt.Errorf("reservation %d: %w", reservation.ID, errReservationVanished)
		}

		status, err = s.recomputeRoomStatus(ctx, tx, reservation.RoomID, user)

		return err
	})

	return status, err //nolint:wrapcheck
}

// lockRoom takes the room row lock. Every reservation write locks the room before touching reservations.
func (s *serviceImpl) lockRoom(ctx context.Context, tx *sqlx.Tx, roomID int64) error {
	room, err := s.roomRepo.GetForUpdateTx(ctx, tx, shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName), roomModel.FieldID)
	if err != nil {
		return fmt.Errorf("failed to lock room: %w", err)
	}

	if room.ID == 0 {
		return failure.NotFound("room not found") //nolint:wrapcheck
	}

	return nil
}

// recomputeRoomStatus re-scans the room's reservations dated today or later.
func (s *serviceImpl) recomputeRoomStatus(ctx context.Context, tx *sqlx.Tx, roomID int64, user string) (string, error) {
	upcoming, err := s.repo.CountTx(ctx, tx, gDto.And(
		gDto.Eq(model.TableName, model.FieldRoomID, roomID),
		gDto.GreaterEq(model.TableName, model.FieldReservationDate, timezone.Today()),
	))
	if err != nil {
		return constant.Empty, fmt.Errorf("failed to count upcoming reservations: %w", err)
	}

	status := roomModel.StatusFor(upcoming)

	return status, s.setRoomStatus(ctx, tx, roomID, status, user)
}

func (s *serviceImpl) setRoomStatus(ctx context.Context, tx *sqlx.Tx, roomID int64, status, user string) error {
	fields := map[string]any{
		roomModel.FieldStatus:    status,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	affected, err := s.roomRepo.UpdateTx(ctx, tx, fields, shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		return fmt.Errorf("failed to update room status: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("room %d: %w", roomID, errRoomStatusNotUpdated)
	}

	return nil
}

// afterWrite runs once the transaction has committed. Room cache generations are bumped
// before returning; the event is published in the background.
func (s *serviceImpl) afterWrite(ctx context.Context, event model.Event) {
	shared.BumpGenerations(ctx, s.cache, roomModel.GenerationKeys(event.RoomID)...)

	s.publisher.Publish(ctx, s.cfg.Kafka.Topics.Reservation, event.ToMessage())
}

func logUnexpected(err error, msg string) {
	if failure.IsFailure(err) {
		return
	}

	log.Error().Err(err).Msg(msg)
}
