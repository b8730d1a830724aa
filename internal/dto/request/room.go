package request

type RoomRequest struct {
	Number  int `json:"number" validate:"required,min=1"`
	Rows    int `json:"rows" validate:"required,min=1"`
	Columns int `json:"columns" validate:"required,min=1"`
}
