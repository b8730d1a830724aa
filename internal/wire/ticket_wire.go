package wire

import (
	"cinema-ticketing/internal/adaptor"
	"cinema-ticketing/internal/data/repository"
	"cinema-ticketing/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

func wireTicket(
	r chi.Router,
	ticketHandler *adaptor.TicketHandler,
	repo *repository.Repository,
	clock clockwork.Clock,
	log *zap.Logger,
) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthToken(repo.AuthToken, repo.User, clock, log))

		r.Post("/api/tickets", ticketHandler.CreateTicket)
		r.Get("/api/tickets/{id}", ticketHandler.GetTicketByID)
		r.Delete("/api/tickets/{id}", ticketHandler.DeleteTicket)
	})
}
