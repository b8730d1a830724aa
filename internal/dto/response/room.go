package response

import (
	"cinema-ticketing/internal/data/entity"
)

type RoomResponse struct {
	ID       string `json:"id"`
	Number   int    `json:"number"`
	Rows     int    `json:"rows"`
	Columns  int    `json:"columns"`
	Capacity int    `json:"capacity"`
}

func RoomToResponse(room *entity.Room) RoomResponse {
	return RoomResponse{
		ID:       room.ID.String(),
		Number:   room.Number,
		Rows:     room.Rows,
		Columns:  room.Columns,
		Capacity: room.Capacity(),
	}
}
