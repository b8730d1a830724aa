package wire

import (
	"net/http"

	"cinema-ticketing/internal/adaptor"
	"cinema-ticketing/internal/data/repository"
	"cinema-ticketing/internal/usecase"
	"cinema-ticketing/pkg/database"
	"cinema-ticketing/pkg/middleware"
	"cinema-ticketing/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

type App struct {
	Router *chi.Mux
}

// Wiring connects repositories, services, handlers and routes.
func Wiring(
	db database.PgxIface,
	repo *repository.Repository,
	notifier usecase.CancellationNotifier,
	source usecase.CatalogSource,
	clock clockwork.Clock,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(db, repo, notifier, source, clock, config, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, repo, clock, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	clock clockwork.Clock,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	wireAuth(r, handler.Auth, repo, clock, logger)
	wireUser(r, handler.User, handler.Ticket, repo, clock, logger)
	wireRoom(r, handler.Room, handler.Session, repo, clock, logger)
	wireMovie(r, handler.Movie, handler.Session, repo, clock, logger)
	wireSession(r, handler.Session, handler.Ticket, repo, clock, logger)
	wireTicket(r, handler.Ticket, repo, clock, logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
