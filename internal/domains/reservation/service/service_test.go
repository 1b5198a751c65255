package service_test

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"testing"
	"time"

	"libraryhub/config"
	"libraryhub/infras/kafka"
	kafkaMocks "libraryhub/infras/kafka/mocks"
	"libraryhub/infras/otel/mocks"
	customerMocks "libraryhub/internal/domains/customer/mocks"
	customerModel "libraryhub/internal/domains/customer/model"
	reservationMocks "libraryhub/internal/domains/reservation/mocks"
	"libraryhub/internal/domains/reservation/model"
	"libraryhub/internal/domains/reservation/model/dto"
	"libraryhub/internal/domains/reservation/service"
	roomMocks "libraryhub/internal/domains/room/mocks"
	roomModel "libraryhub/internal/domains/room/model"
	cacheMocks "libraryhub/shared/cache/mocks"
	"libraryhub/shared/constant"
	gDto "libraryhub/shared/dto"
	"libraryhub/shared/failure"
	gRepo "libraryhub/shared/repository"
	repoMocks "libraryhub/shared/repository/mocks"
	"libraryhub/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	emailA = "a@library.test"
	topic  = "library.reservations"
)

type fixture struct {
	repo      *reservationMocks.MockReservation
	owner     *reservationMocks.MockOwner
	rooms     *roomMocks.MockRoom
	customers *customerMocks.MockCustomerService
	tx        *repoMocks.MockTransactor
	kafka     *kafkaMocks.MockClient
	cache     *cacheMocks.MockRedisCache
	tracer    *mocks.Recorder
	events    chan kafka.Message
	svc       service.Reservation
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Kafka.Topics.Reservation = topic

	f := fixture{
		repo:      reservationMocks.NewMockReservation(ctrl),
		owner:     reservationMocks.NewMockOwner(ctrl),
		rooms:     roomMocks.NewMockRoom(ctrl),
		customers: customerMocks.NewMockCustomerService(ctrl),
		tx:        repoMocks.NewMockTransactor(ctrl),
		kafka:     kafkaMocks.NewMockClient(ctrl),
		cache:     cacheMocks.NewMockRedisCache(ctrl),
		tracer:    mocks.NewRecorder(),
		events:    make(chan kafka.Message, 4),
	}

	f.kafka.EXPECT().
		SendMessages(gomock.Any(), topic, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
			for _, msg := range messages {
				f.events <- msg
			}

			return nil
		}).
		AnyTimes()

	publisher, drain := kafka.NewPublisher(f.kafka)
	t.Cleanup(drain)

	f.svc = service.New(f.repo, f.owner, f.rooms, f.customers, f.tx, publisher, f.cache, cfg, f.tracer)

	return f
}

// expectTx runs the callback without a real transaction.
func (f fixture) expectTx() *gomock.Call {
	return f.tx.EXPECT().
		WithinTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn gRepo.TxFunc) error {
			return fn(ctx, nil)
		})
}

func (f fixture) expectCaller(id int64) {
	f.customers.EXPECT().Resolve(gomock.Any(), emailA).Return(customerModel.Customer{ID: id, Email: emailA}, nil)
}

func (f fixture) expectRoomLock(roomID int64, found bool) {
	room := roomModel.Room{}
	if found {
		room.ID = roomID
	}

	f.rooms.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), roomModel.FieldID).Return(room, nil)
}

func (f fixture) expectRoomStatus(t *testing.T, want string) {
	t.Helper()

	f.rooms.EXPECT().
		UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) (int64, error) {
			assert.Equal(t, want, fields[roomModel.FieldStatus])
			assert.Contains(t, fields, constant.FieldModifiedAt)

			return 1, nil
		})
}

func (f fixture) expectUpcoming(t *testing.T, roomID int64, count int) {
	t.Helper()

	f.repo.EXPECT().
		CountTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, filter gDto.FilterGroup) (int, error) {
			_, args := filter.GetWhereClause()

			assert.Equal(t, roomID, args[model.FieldRoomID])
			assert.Equal(t, timezone.Today(), args[model.FieldReservationDate])

			return count, nil
		})
}

func (f fixture) expectInvalidate(roomID int64) {
	f.cache.EXPECT().Bump(gomock.Any(), "room:generation:"+formatID(roomID)).Return(nil)
	f.cache.EXPECT().Bump(gomock.Any(), roomModel.CacheGenerationRoom).Return(nil)
}

func (f fixture) nextEvent(t *testing.T) model.Event {
	t.Helper()

	select {
	case msg := <-f.events:
		event, ok := msg.Value.(model.Event)
		require.True(t, ok)
		assert.Equal(t, formatID(event.RoomID), msg.Key)

		return event
	case <-time.After(time.Second):
		t.Fatal("no reservation event published")
	}

	return model.Event{}
}

func callerCtx() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserEmail, emailA)
}

func createRequest() dto.CreateReservationRequest {
	return dto.CreateReservationRequest{
		RoomID:           3,
		TopicDescription: "thesis review",
		ReservationDate:  "2024-05-01",
		StartTime:        "09:00",
		EndTime:          "10:00",
		GroupSize:        4,
	}
}

func TestReservationService_Create(t *testing.T) {
	t.Run("room becomes occupied", func(t *testing.T) {
		f := newFixture(t)

		f.expectCaller(7)
		f.expectTx()
		f.expectRoomLock(3, true)
		f.repo.EXPECT().
			InsertReturningTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, r model.Reservation) (int64, error) {
				assert.Equal(t, int64(7), r.CustomerID)
				assert.Equal(t, int64(3), r.RoomID)
				assert.Equal(t, "2024-05-01", r.ReservationDate.Format(time.DateOnly))
				assert.Equal(t, "09:00", r.StartTime)
				assert.Equal(t, 4, r.GroupSize)
				assert.Equal(t, emailA, r.CreatedBy)

				return 42, nil
			})
		f.expectRoomStatus(t, roomModel.StatusOccupied)
		f.expectInvalidate(3)

		res, err := f.svc.Create(callerCtx(), createRequest())

		require.NoError(t, err)
		assert.Equal(t, int64(42), res.ID)

		event := f.nextEvent(t)
		assert.Equal(t, model.EventTypeCreated, event.Type)
		assert.Equal(t, int64(42), event.ReservationID)
		assert.Equal(t, roomModel.StatusOccupied, event.RoomStatus)
	})

	t.Run("unknown customer performs no writes", func(t *testing.T) {
		f := newFixture(t)

		f.customers.EXPECT().Resolve(gomock.Any(), emailA).Return(customerModel.Customer{}, failure.NotFound("customer not found"))

		_, err := f.svc.Create(callerCtx(), createRequest())

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
		assert.EqualError(t, err, "customer not found")
		assert.Equal(t, []error{err}, f.tracer.Errors("service.Create"))
	})

	t.Run("unknown room", func(t *testing.T) {
		f := newFixture(t)

		f.expectCaller(7)
		f.expectTx()
		f.expectRoomLock(3, false)

		_, err := f.svc.Create(callerCtx(), createRequest())

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
		assert.EqualError(t, err, "room not found")
	})

	t.Run("insert failure leaves room untouched", func(t *testing.T) {
		f := newFixture(t)

		f.expectCaller(7)
		f.expectTx()
		f.expectRoomLock(3, true)
		f.repo.EXPECT().InsertReturningTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), errors.New("disk full"))

		_, err := f.svc.Create(callerCtx(), createRequest())

		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
		assert.ErrorContains(t, err, "failed to insert reservation")
	})

	t.Run("status update failure fails the whole unit", func(t *testing.T) {
		f := newFixture(t)

		f.expectCaller(7)
		f.expectTx()
		f.expectRoomLock(3, true)
		f.repo.EXPECT().InsertReturningTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(42), nil)
		f.rooms.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), errors.New("deadlock detected"))

		_, err := f.svc.Create(callerCtx(), createRequest())

		assert.ErrorContains(t, err, "failed to update room status")
	})
}

func TestReservationService_CreateForCustomer(t *testing.T) {
	t.Run("links event and owner", func(t *testing.T) {
		f := newFixture(t)
		eventID := int64(5)

		req := dto.CreateForCustomerRequest{CustomerID: 8, CreateReservationRequest: createRequest()}
		req.EventID = &eventID

		f.customers.EXPECT().GetByID(gomock.Any(), int64(8)).Return(customerModel.Customer{ID: 8}, nil)
		f.expectTx()
		f.expectRoomLock(3, true)
		f.repo.EXPECT().
			InsertReturningTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, r model.Reservation) (int64, error) {
				assert.Equal(t, int64(8), r.CustomerID)
				require.NotNil(t, r.EventID)
				assert.Equal(t, int64(5), *r.EventID)

				return 43, nil
			})
		f.expectRoomStatus(t, roomModel.StatusOccupied)
		f.expectInvalidate(3)

		res, err := f.svc.CreateForCustomer(callerCtx(), req)

		require.NoError(t, err)
		assert.Equal(t, int64(43), res.ID)
	})

	t.Run("unknown customer", func(t *testing.T) {
		f := newFixture(t)

		f.customers.EXPECT().GetByID(gomock.Any(), int64(99)).Return(customerModel.Customer{}, failure.NotFound("customer not found"))

		_, err := f.svc.CreateForCustomer(callerCtx(), dto.CreateForCustomerRequest{CustomerID: 99, CreateReservationRequest: createRequest()})

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestReservationService_ListMine(t *testing.T) {
	f := newFixture(t)

	f.expectCaller(7)
	f.repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Reservation, error) {
			where, args := filter.GetWhereClause()

			assert.Equal(t, "(reservations.customer_id = :customer_id)", where)
			assert.Equal(t, int64(7), args[model.FieldCustomerID])
			assert.Equal(t, model.OrderByDateDesc, params.OrderBy)

			return []model.Reservation{
				{ID: 2, CustomerID: 7, RoomID: 3, ReservationDate: date(t, "2024-06-01"), StartTime: "13:00:00", EndTime: "14:30:00"},
				{ID: 1, CustomerID: 7, RoomID: 3, ReservationDate: date(t, "2024-05-01"), StartTime: "09:00:00", EndTime: "10:00:00"},
			}, nil
		})

	res, err := f.svc.ListMine(callerCtx())

	require.NoError(t, err)
	require.Len(t, res.Reservations, 2)
	assert.Equal(t, "2024-06-01", res.Reservations[0].ReservationDate)
	assert.Equal(t, "13:00", res.Reservations[0].StartTime)
	assert.Equal(t, "14:30", res.Reservations[0].EndTime)

	t.Run("empty list is success", func(t *testing.T) {
		f := newFixture(t)

		f.expectCaller(7)
		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Reservation{}, nil)

		res, err := f.svc.ListMine(callerCtx())

		require.NoError(t, err)
		assert.NotNil(t, res.Reservations)
		assert.Empty(t, res.Reservations)
	})
}

func TestReservationService_Cancel(t *testing.T) {
	owned := model.Reservation{ID: 42, RoomID: 3, CustomerID: 7}

	tests := []struct {
		name       string
		upcoming   int
		wantStatus string
	}{
		{name: "last upcoming reservation frees the room", upcoming: 0, wantStatus: roomModel.StatusAvailable},
		{name: "other upcoming reservations keep the room occupied", upcoming: 1, wantStatus: roomModel.StatusOccupied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.expectCaller(7)
			f.repo.EXPECT().
				Get(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, filter gDto.FilterGroup, _ ...string) (model.Reservation, error) {
					_, args := filter.GetWhereClause()

					assert.Equal(t, int64(42), args[model.FieldID])
					assert.Equal(t, int64(7), args[model.FieldCustomerID])

					return owned, nil
				})
			f.expectTx()
			f.expectRoomLock(3, true)
			f.repo.EXPECT().DeleteTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil)
			f.expectUpcoming(t, 3, tt.upcoming)
			f.expectRoomStatus(t, tt.wantStatus)
			f.expectInvalidate(3)

			err := f.svc.Cancel(callerCtx(), 42)

			require.NoError(t, err)

			event := f.nextEvent(t)
			assert.Equal(t, model.EventTypeCancelled, event.Type)
			assert.Equal(t, tt.wantStatus, event.RoomStatus)
		})
	}

	t.Run("reservation of another customer is forbidden", func(t *testing.T) {
		f := newFixture(t)

		f.expectCaller(8)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Reservation{}, nil)

		err := f.svc.Cancel(callerCtx(), 42)

		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("unknown customer", func(t *testing.T) {
		f := newFixture(t)

		f.customers.EXPECT().Resolve(gomock.Any(), emailA).Return(customerModel.Customer{}, failure.NotFound("customer not found"))

		err := f.svc.Cancel(callerCtx(), 42)

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("delete affecting no rows is an internal error", func(t *testing.T) {
		f := newFixture(t)

		f.expectCaller(7)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(owned, nil)
		f.expectTx()
		f.expectRoomLock(3, true)
		f.repo.EXPECT().DeleteTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), nil)

		err := f.svc.Cancel(callerCtx(), 42)

		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
		assert.ErrorContains(t, err, "removed concurrently")
		require.Len(t, f.tracer.Errors("service.Cancel"), 1)
		assert.ErrorIs(t, f.tracer.Errors("service.Cancel")[0], err)
	})
}

func TestReservationService_CancelAsAdmin(t *testing.T) {
	t.Run("unknown reservation", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Reservation{}, nil)

		err := f.svc.CancelAsAdmin(callerCtx(), 42)

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
		assert.EqualError(t, err, "reservation not found")
	})

	t.Run("recomputes room status without ownership check", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Reservation{ID: 42, RoomID: 3, CustomerID: 9}, nil)
		f.expectTx()
		f.expectRoomLock(3, true)
		f.repo.EXPECT().DeleteTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil)
		f.expectUpcoming(t, 3, 0)
		f.expectRoomStatus(t, roomModel.StatusAvailable)
		f.expectInvalidate(3)

		err := f.svc.CancelAsAdmin(callerCtx(), 42)

		require.NoError(t, err)
		assert.Equal(t, int64(9), f.nextEvent(t).CustomerID)
	})
}

func TestReservationService_ListByRoom(t *testing.T) {
	t.Run("unknown room", func(t *testing.T) {
		f := newFixture(t)

		f.rooms.EXPECT().Get(gomock.Any(), gomock.Any(), roomModel.FieldID).Return(roomModel.Room{}, nil)

		_, err := f.svc.ListByRoom(context.Background(), 3)

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("includes owner names", func(t *testing.T) {
		f := newFixture(t)

		f.rooms.EXPECT().Get(gomock.Any(), gomock.Any(), roomModel.FieldID).Return(roomModel.Room{ID: 3}, nil)
		f.owner.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.ReservationWithOwner{
			{Reservation: model.Reservation{ID: 42, RoomID: 3, CustomerID: 7}, FirstName: "Ada", LastName: "Lovelace"},
		}, nil)

		res, err := f.svc.ListByRoom(context.Background(), 3)

		require.NoError(t, err)
		assert.Equal(t, int64(3), res.RoomID)
		require.Len(t, res.Reservations, 1)
		assert.Equal(t, "Ada", res.Reservations[0].FirstName)
		assert.Equal(t, int64(42), res.Reservations[0].ID)
	})
}

func TestReservationService_ClearRoom(t *testing.T) {
	f := newFixture(t)

	f.expectTx()
	f.expectRoomLock(3, true)
	f.repo.EXPECT().
		DeleteTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, filter gDto.FilterGroup) (int64, error) {
			_, args := filter.GetWhereClause()
			assert.Equal(t, int64(3), args[model.FieldRoomID])

			return 3, nil
		})
	f.expectUpcoming(t, 3, 0)
	f.expectRoomStatus(t, roomModel.StatusAvailable)
	f.expectInvalidate(3)

	res, err := f.svc.ClearRoom(callerCtx(), 3)

	require.NoError(t, err)
	assert.Equal(t, dto.ClearRoomResponse{RoomID: 3, Deleted: 3, RoomStatus: roomModel.StatusAvailable}, res)
	assert.Equal(t, model.EventTypeRoomCleared, f.nextEvent(t).Type)

	t.Run("unknown room", func(t *testing.T) {
		f := newFixture(t)

		f.expectTx()
		f.expectRoomLock(4, false)

		_, err := f.svc.ClearRoom(callerCtx(), 4)

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestReservationService_Overview(t *testing.T) {
	f := newFixture(t)

	f.rooms.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]roomModel.Room{
		{ID: 1, Capacity: 4, Status: roomModel.StatusAvailable},
		{ID: 3, Capacity: 8, Status: roomModel.StatusOccupied},
	}, nil)
	f.owner.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.ReservationWithOwner{
		{Reservation: model.Reservation{ID: 43, RoomID: 3}, FirstName: "Grace"},
		{Reservation: model.Reservation{ID: 42, RoomID: 3}, FirstName: "Ada"},
	}, nil)

	res, err := f.svc.Overview(context.Background())

	require.NoError(t, err)
	require.Len(t, res.Rooms, 2)
	assert.Empty(t, res.Rooms[0].Reservations)
	assert.NotNil(t, res.Rooms[0].Reservations)
	require.Len(t, res.Rooms[1].Reservations, 2)
	assert.Equal(t, int64(43), res.Rooms[1].Reservations[0].ID)
	assert.Equal(t, roomModel.StatusOccupied, res.Rooms[1].Status)
}

func date(t *testing.T, value string) time.Time {
	t.Helper()

	parsed, err := time.Parse(time.DateOnly, value)
	require.NoError(t, err)

	return parsed
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
