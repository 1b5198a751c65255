package model

import (
	"time"

	"libraryhub/shared/model"
)

const (
	TableName  = "reservations"
	EntityName = "reservation"

	FieldID               = "id"
	FieldRoomID           = "room_id"
	FieldCustomerID       = "customer_id"
	FieldEventID          = "event_id"
	FieldTopicDescription = "topic_description"
	FieldReservationDate  = "reservation_date"
	FieldStartTime        = "start_time"
	FieldEndTime          = "end_time"
	FieldGroupSize        = "group_size"
)

const (
	OwnerTableName  = "customers"
	OwnerEntityName = "reservation_owner"
)

// Newest first, used by every reservation listing.
var OrderByDateDesc = []string{
	TableName + "." + FieldReservationDate + " DESC",
	TableName + "." + FieldStartTime + " DESC",
	TableName + "." + FieldID + " DESC",
}

// Reservation books a room for a customer on one date between StartTime and EndTime.
// StartTime and EndTime hold the TIME columns as HH:MM[:SS] text.
type Reservation struct {
	ID               int64     `db:"id"                generated:"true"`
	RoomID           int64     `db:"room_id"`
	CustomerID       int64     `db:"customer_id"`
	EventID          *int64    `db:"event_id"`
	TopicDescription string    `db:"topic_description"`
	ReservationDate  time.Time `db:"reservation_date"`
	StartTime        string    `db:"start_time"`
	EndTime          string    `db:"end_time"`
	GroupSize        int       `db:"group_size"`
	model.Metadata
}

// ReservationWithOwner is a reservation joined with the name of the customer who holds it.
type ReservationWithOwner struct {
	Reservation
	FirstName string `db:"first_name" table:"customers"`
	LastName  string `db:"last_name"  table:"customers"`
}

func (ReservationWithOwner) GetJoinQuery() string {
	return "JOIN customers ON customers.id = reservations.customer_id"
}
