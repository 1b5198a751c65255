package model

import (
	"strconv"

	"libraryhub/shared/model"
)

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID       = "id"
	FieldCapacity = "capacity"
	FieldStatus   = "status"
	FieldImage    = "image"
)

const (
	StatusAvailable = "Available"
	StatusOccupied  = "Occupied"
)

// Cache prefixes for room reads. Read keys embed a generation counter; writes bump it.
const (
	CacheGetRoom        = "room:get"
	CacheGetAllRoom     = "room:gets"
	CacheGenerationRoom = "room:generation"
)

// GenerationKey is the counter embedded in the cache key of a single room.
func GenerationKey(id int64) string {
	return CacheGenerationRoom + ":" + strconv.FormatInt(id, 10)
}

// GenerationKeys are the counters a write touching room id must bump: its own and the listing's.
func GenerationKeys(id int64) []string {
	return []string{GenerationKey(id), CacheGenerationRoom}
}

// Room is a bookable study room. ID is chosen by the administrator.
// Status is derived from reservations and only reservation writes change it.
type Room struct {
	ID       int64  `db:"id"`
	Capacity int    `db:"capacity"`
	Status   string `db:"status"`
	Image    string `db:"image"`
	model.Metadata
}

// StatusFor returns the status a room must carry given how many upcoming reservations reference it.
func StatusFor(upcoming int) string {
	if upcoming > 0 {
		return StatusOccupied
	}

	return StatusAvailable
}
