package wire

import (
	"cinema-ticketing/internal/adaptor"
	"cinema-ticketing/internal/data/repository"
	"cinema-ticketing/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

func wireMovie(
	r chi.Router,
	movieHandler *adaptor.MovieHandler,
	sessionHandler *adaptor.SessionHandler,
	repo *repository.Repository,
	clock clockwork.Clock,
	log *zap.Logger,
) {
	// Public
	r.Get("/api/movies", movieHandler.GetMovies)
	r.Get("/api/movies/{id}", movieHandler.GetMovieByID)
	r.Get("/api/movies/{id}/sessions", sessionHandler.GetSessionsByMovie)

	// Admin
	r.Route("/api/admin/movies", func(r chi.Router) {
		r.Use(middleware.AuthToken(repo.AuthToken, repo.User, clock, log))
		r.Use(middleware.Admin(log))

		r.Get("/", movieHandler.GetAllMovies)
		r.Post("/import", movieHandler.ImportMovie)
		r.Put("/{id}/status", movieHandler.SetMovieStatus)
		r.Delete("/{id}", movieHandler.DeleteMovie)
		r.Get("/{id}/sessions", sessionHandler.GetAllSessionsByMovie)
	})
}
