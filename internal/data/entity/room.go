package entity

// Room is a physical screening room with a rectangular seat grid.
// Number is unique across all rooms.
type Room struct {
	Base
	Number  int `db:"room_number"`
	Rows    int `db:"seat_rows"`
	Columns int `db:"seat_cols"`
}

func (r *Room) Capacity() int {
	return r.Rows * r.Columns
}

// InGrid reports whether the 1-based seat coordinate exists in this room.
func (r *Room) InGrid(row, col int) bool {
	return row >= 1 && row <= r.Rows && col >= 1 && col <= r.Columns
}
