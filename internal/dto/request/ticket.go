package request

type CreateTicketRequest struct {
	SessionID string `json:"session_id" validate:"required,uuid"`
	SeatRow   int    `json:"seat_row" validate:"required,min=1"`
	SeatCol   int    `json:"seat_col" validate:"required,min=1"`
}
