package wire

import (
	"cinema-ticketing/internal/adaptor"
	"cinema-ticketing/internal/data/repository"
	"cinema-ticketing/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

func wireSession(
	r chi.Router,
	sessionHandler *adaptor.SessionHandler,
	ticketHandler *adaptor.TicketHandler,
	repo *repository.Repository,
	clock clockwork.Clock,
	log *zap.Logger,
) {
	// Public
	r.Get("/api/sessions/{id}", sessionHandler.GetSessionByID)
	r.Get("/api/sessions/{id}/seats", sessionHandler.GetSeatMap)

	// Admin
	r.Route("/api/admin/sessions", func(r chi.Router) {
		r.Use(middleware.AuthToken(repo.AuthToken, repo.User, clock, log))
		r.Use(middleware.Admin(log))

		r.Post("/", sessionHandler.CreateSession)
		r.Put("/{id}", sessionHandler.UpdateSession)
		r.Delete("/{id}", sessionHandler.DeleteSession)
		r.Get("/{id}/tickets", ticketHandler.GetTicketsBySession)
	})
}
