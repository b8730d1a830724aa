package repository

import (
	"cinema-ticketing/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User      UserRepository
	AuthToken AuthTokenRepository
	Room      RoomRepository
	Movie     MovieRepository
	Session   SessionRepository
	Ticket    TicketRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:      NewUserRepository(db, log),
		AuthToken: NewAuthTokenRepository(db, log),
		Room:      NewRoomRepository(db, log),
		Movie:     NewMovieRepository(db, log),
		Session:   NewSessionRepository(db, log),
		Ticket:    NewTicketRepository(db, log),
	}
}
