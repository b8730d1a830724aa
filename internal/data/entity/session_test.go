package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionOverlaps(t *testing.T) {
	base := time.Date(2026, time.September, 2, 18, 0, 0, 0, time.UTC)
	session := &Session{
		StartsAt: base,
		EndsAt:   base.Add(2 * time.Hour),
	}

	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		overlaps bool
	}{
		{"identical", base, base.Add(2 * time.Hour), true},
		{"contained", base.Add(30 * time.Minute), base.Add(time.Hour), true},
		{"starts inside", base.Add(time.Hour), base.Add(3 * time.Hour), true},
		{"ends inside", base.Add(-time.Hour), base.Add(time.Hour), true},
		{"covers", base.Add(-time.Hour), base.Add(3 * time.Hour), true},
		{"back to back after", base.Add(2 * time.Hour), base.Add(4 * time.Hour), false},
		{"back to back before", base.Add(-2 * time.Hour), base, false},
		{"disjoint", base.Add(5 * time.Hour), base.Add(7 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overlaps, session.Overlaps(tt.start, tt.end))
		})
	}
}

func TestRoomGrid(t *testing.T) {
	room := &Room{Rows: 3, Columns: 4}

	assert.Equal(t, 12, room.Capacity())

	assert.True(t, room.InGrid(1, 1))
	assert.True(t, room.InGrid(3, 4))
	assert.False(t, room.InGrid(0, 1))
	assert.False(t, room.InGrid(1, 0))
	assert.False(t, room.InGrid(4, 1))
	assert.False(t, room.InGrid(1, 5))
}
