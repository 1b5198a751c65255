package model

import (
	"strconv"
	"time"

	"libraryhub/infras/kafka"
	"libraryhub/shared/timezone"

	"github.com/google/uuid"
)

const (
	EventTypeCreated     = "reservation.created"
	EventTypeCancelled   = "reservation.cancelled"
	EventTypeRoomCleared = "reservation.room_cleared"
)

// Event is published after a reservation write commits.
type Event struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	ReservationID int64     `json:"reservation_id,omitempty"`
	RoomID        int64     `json:"room_id"`
	CustomerID    int64     `json:"customer_id,omitempty"`
	RoomStatus    string    `json:"room_status"`
	Actor         string    `json:"actor"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func NewEvent(eventType string, reservation Reservation, roomStatus, actor string) Event {
	return Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		ReservationID: reservation.ID,
		RoomID:        reservation.RoomID,
		CustomerID:    reservation.CustomerID,
		RoomStatus:    roomStatus,
		Actor:         actor,
		OccurredAt:    timezone.Now(),
	}
}

// ToMessage keys the message by room so events for one room stay ordered within a partition.
func (e Event) ToMessage() kafka.Message {
	return kafka.Message{
		Key:   strconv.FormatInt(e.RoomID, 10),
		Value: e,
	}
}
