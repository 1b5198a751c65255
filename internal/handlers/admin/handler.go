package admin

import (
	"net/http"
	"strconv"
	"strings"

	"libraryhub/infras/otel"
	reservationDto "libraryhub/internal/domains/reservation/model/dto"
	reservationService "libraryhub/internal/domains/reservation/service"
	roomDto "libraryhub/internal/domains/room/model/dto"
	roomService "libraryhub/internal/domains/room/service"
	"libraryhub/shared"
	"libraryhub/shared/constant"
	"libraryhub/shared/failure"
	"libraryhub/shared/validator"
	"libraryhub/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// Handler serves the administrator surface. Access is gated by the RBAC middleware.
type Handler struct {
	room        roomService.Room
	reservation reservationService.Reservation
	otel        otel.Otel
}

func New(room roomService.Room, reservation reservationService.Reservation, otel otel.Otel) Handler {
	return Handler{
		room:        room,
		reservation: reservation,
		otel:        otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Post("/admin/reservations", handler.CreateReservation)
	router.Get("/admin/rooms", handler.Overview)
	router.Post("/admin/rooms", handler.CreateRoom)
	router.Put("/admin/rooms/{id}", handler.UpdateRoom)
	router.Delete("/admin/rooms/{id}", handler.DeleteRoom)
	router.Get("/admin/rooms/{id}/reservations", handler.ListRoomReservations)
	router.Delete("/admin/rooms/{id}/reservations", handler.ClearRoomReservations)
}

// CreateReservation books a room on behalf of a customer.
// @Summary Create a reservation for a customer
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body reservationDto.CreateForCustomerRequest true "Reservation"
// @Success 201 {object} response.Data[reservationDto.CreateReservationResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/admin/reservations [post]
// @Security BearerAuth
func (handler *Handler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AdminCreateReservation")
	defer scope.End()

	var req reservationDto.CreateForCustomerRequest

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	res, err := handler.reservation.CreateForCustomer(ctx, req)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, res)
}

// Overview lists every room with its reservations.
// @Summary Rooms with their reservations
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Data[reservationDto.OverviewResponse]
// @Failure 403 {object} response.Error
// @Router /v1/admin/rooms [get]
// @Security BearerAuth
func (handler *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Overview")
	defer scope.End()

	res, err := handler.reservation.Overview(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to build room overview")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// CreateRoom adds a room. Accepts multipart form data (with an optional image) or JSON.
// @Summary Create a room
// @Tags Admin
// @Accept multipart/form-data
// @Produce json
// @Param room_id formData integer true "Room number"
// @Param capacity formData integer true "Capacity"
// @Param image formData file false "Room image"
// @Success 201 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/admin/rooms [post]
// @Security BearerAuth
func (handler *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateRoom")
	defer scope.End()

	var req roomDto.CreateRoomRequest

	if strings.HasPrefix(r.Header.Get(constant.RequestHeaderContentType), constant.ContentTypeMultipartFormData) {
		if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
			scope.TraceError(err)
			response.WithError(w, failure.BadRequest(err))

			return
		}

		req.ID, _ = strconv.ParseInt(r.FormValue("room_id"), 10, 64)
		req.Capacity, _ = strconv.Atoi(r.FormValue("capacity"))

		file, fileHeader, err := r.FormFile("image")
		if err == nil {
			req.Image = fileHeader
			req.ImageFile = file

			defer file.Close()
		}

		err = validator.ValidateStruct(&req)
		if err != nil {
			scope.TraceError(err)
			response.WithError(w, err)

			return
		}
	} else if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	if err := handler.room.Create(ctx, req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusCreated, "Room created successfully")
}

// UpdateRoom changes a room's capacity.
// @Summary Update room capacity
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Room ID"
// @Param request body roomDto.UpdateRoomRequest true "Capacity"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/admin/rooms/{id} [put]
// @Security BearerAuth
func (handler *Handler) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateRoom")
	defer scope.End()

	id, err := shared.ParseID(chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	var req roomDto.UpdateRoomRequest

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	if err := handler.room.UpdateCapacity(ctx, id, req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Room updated successfully")
}

// DeleteRoom removes a room that has no reservations.
// @Summary Delete a room
// @Tags Admin
// @Produce json
// @Param id path int true "Room ID"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/admin/rooms/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteRoom")
	defer scope.End()

	id, err := shared.ParseID(chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	if err := handler.room.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Room deleted successfully")
}

// ListRoomReservations lists the reservations of one room with their owners.
// @Summary Reservations of a room
// @Tags Admin
// @Produce json
// @Param id path int true "Room ID"
// @Success 200 {object} response.Data[reservationDto.RoomReservationsResponse]
// @Failure 404 {object} response.Error
// @Router /v1/admin/rooms/{id}/reservations [get]
// @Security BearerAuth
func (handler *Handler) ListRoomReservations(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ListRoomReservations")
	defer scope.End()

	id, err := shared.ParseID(chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	res, err := handler.reservation.ListByRoom(ctx, id)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// ClearRoomReservations deletes every reservation of a room and frees it.
// @Summary Clear a room's reservations
// @Tags Admin
// @Produce json
// @Param id path int true "Room ID"
// @Success 200 {object} response.Data[reservationDto.ClearRoomResponse]
// @Failure 404 {object} response.Error
// @Router /v1/admin/rooms/{id}/reservations [delete]
// @Security BearerAuth
func (handler *Handler) ClearRoomReservations(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ClearRoomReservations")
	defer scope.End()

	id, err := shared.ParseID(chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	res, err := handler.reservation.ClearRoom(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("room_id", id).Msg("failed to clear room reservations")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}
