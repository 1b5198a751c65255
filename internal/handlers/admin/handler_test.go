package admin_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	otelMocks "libraryhub/infras/otel/mocks"
	reservationMocks "libraryhub/internal/domains/reservation/mocks"
	reservationDto "libraryhub/internal/domains/reservation/model/dto"
	roomMocks "libraryhub/internal/domains/room/mocks"
	"libraryhub/internal/domains/room/model"
	roomDto "libraryhub/internal/domains/room/model/dto"
	"libraryhub/internal/handlers/admin"
	"libraryhub/shared/constant"
	"libraryhub/shared/failure"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	router      http.Handler
	room        *roomMocks.MockRoomService
	reservation *reservationMocks.MockReservationService
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	f := fixture{
		room:        roomMocks.NewMockRoomService(ctrl),
		reservation: reservationMocks.NewMockReservationService(ctrl),
	}

	handler := admin.New(f.room, f.reservation, otelMocks.NewOtel())

	router := chi.NewRouter()
	handler.Router(router)
	f.router = router

	return f
}

func (f fixture) serve(method, target, contentType string, body *bytes.Buffer) *httptest.ResponseRecorder {
	if body == nil {
		body = &bytes.Buffer{}
	}

	req := httptest.NewRequest(method, target, body)
	req.Header.Set(constant.RequestHeaderContentType, contentType)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	return rec
}

func jsonBody(raw string) *bytes.Buffer {
	return bytes.NewBufferString(raw)
}

func TestCreateReservation(t *testing.T) {
	body := `{"customer_id":8,"room_id":3,"reservation_date":"2030-05-01","start_time":"09:00","end_time":"10:00","group_size":2}`

	t.Run("created for the named customer", func(t *testing.T) {
		f := newFixture(t)

		f.reservation.EXPECT().
			CreateForCustomer(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, req reservationDto.CreateForCustomerRequest) (reservationDto.CreateReservationResponse, error) {
				assert.Equal(t, int64(8), req.CustomerID)
				assert.Equal(t, int64(3), req.RoomID)

				return reservationDto.CreateReservationResponse{ID: 11}, nil
			})

		rec := f.serve(http.MethodPost, "/admin/reservations", constant.ContentTypeJSON, jsonBody(body))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.JSONEq(t, `{"data":{"id":11}}`, rec.Body.String())
	})

	t.Run("customer is required", func(t *testing.T) {
		f := newFixture(t)

		rec := f.serve(http.MethodPost, "/admin/reservations", constant.ContentTypeJSON,
			jsonBody(strings.Replace(body, `"customer_id":8,`, "", 1)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCreateRoom(t *testing.T) {
	t.Run("json body", func(t *testing.T) {
		f := newFixture(t)

		f.room.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, req roomDto.CreateRoomRequest) error {
				assert.Equal(t, int64(101), req.ID)
				assert.Equal(t, 6, req.Capacity)
				assert.Nil(t, req.Image)

				return nil
			})

		rec := f.serve(http.MethodPost, "/admin/rooms", constant.ContentTypeJSON, jsonBody(`{"room_id":101,"capacity":6}`))

		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("multipart form without image", func(t *testing.T) {
		f := newFixture(t)

		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		require.NoError(t, writer.WriteField("room_id", "102"))
		require.NoError(t, writer.WriteField("capacity", "4"))
		require.NoError(t, writer.Close())

		f.room.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, req roomDto.CreateRoomRequest) error {
				assert.Equal(t, int64(102), req.ID)
				assert.Equal(t, 4, req.Capacity)

				return nil
			})

		rec := f.serve(http.MethodPost, "/admin/rooms", writer.FormDataContentType(), body)

		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("duplicate room", func(t *testing.T) {
		f := newFixture(t)

		f.room.EXPECT().Create(gomock.Any(), gomock.Any()).Return(failure.Conflict("room 101 already exists"))

		rec := f.serve(http.MethodPost, "/admin/rooms", constant.ContentTypeJSON, jsonBody(`{"room_id":101,"capacity":6}`))

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("missing capacity", func(t *testing.T) {
		f := newFixture(t)

		rec := f.serve(http.MethodPost, "/admin/rooms", constant.ContentTypeJSON, jsonBody(`{"room_id":101}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateRoom(t *testing.T) {
	f := newFixture(t)

	f.room.EXPECT().
		UpdateCapacity(gomock.Any(), int64(101), gomock.Any()).
		DoAndReturn(func(_ any, _ int64, req roomDto.UpdateRoomRequest) error {
			require.NotNil(t, req.Capacity)
			assert.Equal(t, 12, *req.Capacity)

			return nil
		})

	rec := f.serve(http.MethodPut, "/admin/rooms/101", constant.ContentTypeJSON, jsonBody(`{"capacity":12}`))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteRoom(t *testing.T) {
	t.Run("room with reservations", func(t *testing.T) {
		f := newFixture(t)

		f.room.EXPECT().Delete(gomock.Any(), int64(101)).
			Return(failure.BadRequestFromString("cannot delete room with existing reservations"))

		rec := f.serve(http.MethodDelete, "/admin/rooms/101", constant.ContentTypeJSON, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("deleted", func(t *testing.T) {
		f := newFixture(t)

		f.room.EXPECT().Delete(gomock.Any(), int64(101)).Return(nil)

		rec := f.serve(http.MethodDelete, "/admin/rooms/101", constant.ContentTypeJSON, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestOverview(t *testing.T) {
	f := newFixture(t)

	f.reservation.EXPECT().Overview(gomock.Any()).Return(reservationDto.OverviewResponse{
		Rooms: []reservationDto.RoomOverview{
			{
				RoomResponse: roomDto.RoomResponse{ID: 101, Capacity: 6, Status: model.StatusAvailable},
				Reservations: []reservationDto.OwnedReservationResponse{},
			},
		},
	}, nil)

	rec := f.serve(http.MethodGet, "/admin/rooms", constant.ContentTypeJSON, nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			Rooms []map[string]any `json:"rooms"`
		} `json:"data"`
	}

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data.Rooms, 1)
	assert.Equal(t, model.StatusAvailable, body.Data.Rooms[0]["status"])
	assert.Equal(t, []any{}, body.Data.Rooms[0]["reservations"])
}

func TestRoomReservations(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		f := newFixture(t)

		f.reservation.EXPECT().ListByRoom(gomock.Any(), int64(101)).
			Return(reservationDto.RoomReservationsResponse{RoomID: 101}, nil)

		rec := f.serve(http.MethodGet, "/admin/rooms/101/reservations", constant.ContentTypeJSON, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("clear", func(t *testing.T) {
		f := newFixture(t)

		f.reservation.EXPECT().ClearRoom(gomock.Any(), int64(101)).
			Return(reservationDto.ClearRoomResponse{RoomID: 101, Deleted: 3, RoomStatus: model.StatusAvailable}, nil)

		rec := f.serve(http.MethodDelete, "/admin/rooms/101/reservations", constant.ContentTypeJSON, nil)

		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Data reservationDto.ClearRoomResponse `json:"data"`
		}

		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, int64(3), body.Data.Deleted)
		assert.Equal(t, model.StatusAvailable, body.Data.RoomStatus)
	})

	t.Run("clear fails on the store", func(t *testing.T) {
		f := newFixture(t)

		f.reservation.EXPECT().ClearRoom(gomock.Any(), int64(101)).
			Return(reservationDto.ClearRoomResponse{}, errors.New("connection reset"))

		rec := f.serve(http.MethodDelete, "/admin/rooms/101/reservations", constant.ContentTypeJSON, nil)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
