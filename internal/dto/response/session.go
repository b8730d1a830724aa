package response

import (
	"time"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/internal/data/repository"
)

type SessionResponse struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"room_id"`
	MovieID   string    `json:"movie_id"`
	ShowDate  string    `json:"show_date"`
	StartTime string    `json:"start_time"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	Price     float64   `json:"price"`
}

func SessionToResponse(session *entity.Session) SessionResponse {
	return SessionResponse{
		ID:        session.ID.String(),
		RoomID:    session.RoomID.String(),
		MovieID:   session.MovieID.String(),
		ShowDate:  session.ShowDate.Format("2006-01-02"),
		StartTime: session.StartTime.Format("15:04"),
		StartsAt:  session.StartsAt,
		EndsAt:    session.EndsAt,
		Price:     session.Price,
	}
}

// SeatMapResponse is the occupancy view used by seat-map rendering.
type SeatMapResponse struct {
	SessionID      string               `json:"session_id"`
	Rows           int                  `json:"rows"`
	Columns        int                  `json:"columns"`
	AvailableSeats int                  `json:"available_seats"`
	Occupied       []repository.SeatRef `json:"occupied"`
}
