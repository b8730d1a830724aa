package entity

import (
	"github.com/google/uuid"
)

// Ticket claims one seat (row, col) in one session for one user. All fields
// are set at creation; tickets are only ever deleted, never updated.
type Ticket struct {
	BaseSimple
	SessionID uuid.UUID `db:"session_id"`
	UserID    uuid.UUID `db:"user_id"`
	SeatRow   int       `db:"seat_row"`
	SeatCol   int       `db:"seat_col"`
}
