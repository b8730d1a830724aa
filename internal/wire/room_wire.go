package wire

import (
	"cinema-ticketing/internal/adaptor"
	"cinema-ticketing/internal/data/repository"
	"cinema-ticketing/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

func wireRoom(
	r chi.Router,
	roomHandler *adaptor.RoomHandler,
	sessionHandler *adaptor.SessionHandler,
	repo *repository.Repository,
	clock clockwork.Clock,
	log *zap.Logger,
) {
	// Public
	r.Get("/api/rooms", roomHandler.GetRooms)
	r.Get("/api/rooms/{id}", roomHandler.GetRoomByID)
	r.Get("/api/rooms/number/{number}", roomHandler.GetRoomByNumber)
	r.Get("/api/rooms/{id}/sessions", sessionHandler.GetSessionsByRoom)

	// Admin
	r.Route("/api/admin/rooms", func(r chi.Router) {
		r.Use(middleware.AuthToken(repo.AuthToken, repo.User, clock, log))
		r.Use(middleware.Admin(log))

		r.Post("/", roomHandler.CreateRoom)
		r.Put("/{id}", roomHandler.UpdateRoom)
		r.Delete("/{id}", roomHandler.DeleteRoom)
		r.Get("/{id}/sessions", sessionHandler.GetAllSessionsByRoom)
	})
}
