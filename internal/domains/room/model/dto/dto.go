package dto

import (
	"mime/multipart"

	"libraryhub/internal/domains/room/model"
	"libraryhub/shared"
	gDto "libraryhub/shared/dto"
	gModel "libraryhub/shared/model"
	"libraryhub/shared/timezone"
)

type CreateRoomRequest struct {
	ID        int64                 `json:"room_id"  validate:"required,min=1"`
	Capacity  int                   `json:"capacity" validate:"required,min=1"`
	Image     *multipart.FileHeader `json:"image"    validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile multipart.File        `json:"-"`
}

// ToModel builds a new room. New rooms always start Available.
func (c *CreateRoomRequest) ToModel(user string, imageURL string) model.Room {
	return model.Room{
		ID:       c.ID,
		Capacity: c.Capacity,
		Status:   model.StatusAvailable,
		Image:    imageURL,
		Metadata: gModel.NewMetadata(timezone.Now(), user),
	}
}

type UpdateRoomRequest struct {
	Capacity *int `db:"capacity" json:"capacity" validate:"required,min=1"`
}

type RoomResponse struct {
	ID       int64  `json:"room_id"`
	Capacity int    `json:"capacity"`
	Status   string `json:"status"`
	Image    string `json:"image,omitempty"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.Capacity = model.Capacity
	r.Status = model.Status
	r.Image = model.Image
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}
