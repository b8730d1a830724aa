package request

type CreateSessionRequest struct {
	RoomID    string  `json:"room_id" validate:"required,uuid"`
	MovieID   string  `json:"movie_id" validate:"required,uuid"`
	ShowDate  string  `json:"show_date" validate:"required,datetime=2006-01-02"`
	StartTime string  `json:"start_time" validate:"required,datetime=15:04"`
	Price     float64 `json:"price" validate:"gte=0"`
}

type UpdateSessionRequest struct {
	ShowDate  string `json:"show_date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" validate:"required,datetime=15:04"`
}
