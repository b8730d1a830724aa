package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is one scheduled showing of a movie in a room. RoomID and MovieID
// are set at creation and never change. StartsAt/EndsAt are derived from
// ShowDate + StartTime + the movie's duration and persisted so the overlap
// exclusion constraint can see them.
type Session struct {
	Base
	RoomID    uuid.UUID `db:"room_id"`
	MovieID   uuid.UUID `db:"movie_id"`
	ShowDate  time.Time `db:"show_date"`
	StartTime time.Time `db:"start_time"`
	StartsAt  time.Time `db:"starts_at"`
	EndsAt    time.Time `db:"ends_at"`
	Price     float64   `db:"price"`
}

// Overlaps reports half-open interval intersection: touching endpoints do
// not conflict.
func (s *Session) Overlaps(start, end time.Time) bool {
	return start.Before(s.EndsAt) && end.After(s.StartsAt)
}
