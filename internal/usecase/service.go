package usecase

import (
	"cinema-ticketing/internal/data/repository"
	"cinema-ticketing/pkg/database"
	"cinema-ticketing/pkg/utils"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

type Service struct {
	Auth    AuthService
	User    UserService
	Room    RoomService
	Movie   MovieService
	Session SessionService
	Ticket  TicketService
}

func NewService(
	db database.PgxIface,
	repo *repository.Repository,
	notifier CancellationNotifier,
	source CatalogSource,
	clock clockwork.Clock,
	config *utils.Config,
	log *zap.Logger,
) *Service {
	return &Service{
		Auth:    NewAuthService(repo, clock, config.Auth, log),
		User:    NewUserService(repo, clock, log),
		Room:    NewRoomService(repo, clock, log),
		Movie:   NewMovieService(repo, source, clock, log),
		Session: NewSessionService(db, repo, notifier, clock, log),
		Ticket:  NewTicketService(db, repo, clock, log),
	}
}
