package dto

import (
	"fmt"
	"time"

	"libraryhub/internal/domains/reservation/model"
	roomDto "libraryhub/internal/domains/room/model/dto"
	"libraryhub/shared/constant"
	gDto "libraryhub/shared/dto"
	gModel "libraryhub/shared/model"
	"libraryhub/shared/timezone"
)

const clockWithSeconds = "15:04:05"

type CreateReservationRequest struct {
	RoomID           int64  `json:"room_id"           validate:"required,min=1"`
	TopicDescription string `json:"topic_description" validate:"omitempty,max=255"`
	ReservationDate  string `json:"reservation_date"  validate:"required,datetime=2006-01-02"`
	StartTime        string `json:"start_time"        validate:"required,clock"`
	EndTime          string `json:"end_time"          validate:"required,clock,clockafter=StartTime"`
	GroupSize        int    `json:"group_size"        validate:"required,min=1"`
	EventID          *int64 `json:"event_id"          validate:"omitempty,min=1"`
}

// ToModel binds the request to the customer that will own the reservation.
func (c *CreateReservationRequest) ToModel(customerID int64, user string) (model.Reservation, error) {
	date, err := time.Parse(constant.DateOnlyFormat, c.ReservationDate)
	if err != nil {
		return model.Reservation{}, fmt.Errorf("invalid reservation date %q: %w", c.ReservationDate, err)
	}

	return model.Reservation{
		RoomID:           c.RoomID,
		CustomerID:       customerID,
		EventID:          c.EventID,
		TopicDescription: c.TopicDescription,
		ReservationDate:  date,
		StartTime:        c.StartTime,
		EndTime:          c.EndTime,
		GroupSize:        c.GroupSize,
		Metadata:         gModel.NewMetadata(timezone.Now(), user),
	}, nil
}

// CreateForCustomerRequest is the administrator variant, naming the owner explicitly.
type CreateForCustomerRequest struct {
	CustomerID int64 `json:"customer_id" validate:"required,min=1"`
	CreateReservationRequest
}

type CreateReservationResponse struct {
	ID int64 `json:"id"`
}

type ReservationResponse struct {
	ID               int64  `json:"id"`
	RoomID           int64  `json:"room_id"`
	CustomerID       int64  `json:"customer_id"`
	EventID          *int64 `json:"event_id"`
	TopicDescription string `json:"topic_description"`
	ReservationDate  string `json:"reservation_date"`
	StartTime        string `json:"start_time"`
	EndTime          string `json:"end_time"`
	GroupSize        int    `json:"group_size"`
	gDto.Metadata
}

func (r *ReservationResponse) FromModel(model model.Reservation) {
	r.ID = model.ID
	r.RoomID = model.RoomID
	r.CustomerID = model.CustomerID
	r.EventID = model.EventID
	r.TopicDescription = model.TopicDescription
	r.ReservationDate = model.ReservationDate.Format(constant.DateOnlyFormat)
	r.StartTime = clock(model.StartTime)
	r.EndTime = clock(model.EndTime)
	r.GroupSize = model.GroupSize
	r.Metadata.FromModel(model.Metadata)
}

// clock trims the seconds Postgres appends to TIME values.
func clock(value string) string {
	parsed, err := time.Parse(clockWithSeconds, value)
	if err != nil {
		return value
	}

	return parsed.Format(constant.ClockFormat)
}

type ListReservationsResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
}

func (r *ListReservationsResponse) FromModels(models []model.Reservation) {
	r.Reservations = make([]ReservationResponse, len(models))
	for i, mod := range models {
		r.Reservations[i].FromModel(mod)
	}
}

type OwnedReservationResponse struct {
	ReservationResponse
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (r *OwnedReservationResponse) FromModel(model model.ReservationWithOwner) {
	r.ReservationResponse.FromModel(model.Reservation)
	r.FirstName = model.FirstName
	r.LastName = model.LastName
}

type RoomReservationsResponse struct {
	RoomID       int64                      `json:"room_id"`
	Reservations []OwnedReservationResponse `json:"reservations"`
}

func (r *RoomReservationsResponse) FromModels(roomID int64, models []model.ReservationWithOwner) {
	r.RoomID = roomID
	r.Reservations = make([]OwnedReservationResponse, len(models))

	for i, mod := range models {
		r.Reservations[i].FromModel(mod)
	}
}

type RoomOverview struct {
	roomDto.RoomResponse
	Reservations []OwnedReservationResponse `json:"reservations"`
}

type OverviewResponse struct {
	Rooms []RoomOverview `json:"rooms"`
}

type ClearRoomResponse struct {
	RoomID     int64  `json:"room_id"`
	Deleted    int64  `json:"deleted"`
	RoomStatus string `json:"room_status"`
}
