package adaptor

import (
	"net/http"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/internal/usecase"
	"cinema-ticketing/pkg/apperr"
	"cinema-ticketing/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth    *AuthHandler
	User    *UserHandler
	Room    *RoomHandler
	Movie   *MovieHandler
	Session *SessionHandler
	Ticket  *TicketHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(service.Auth, log),
		User:    NewUserHandler(service.User, log),
		Room:    NewRoomHandler(service.Room, log),
		Movie:   NewMovieHandler(service.Movie, log),
		Session: NewSessionHandler(service.Session, log),
		Ticket:  NewTicketHandler(service.Ticket, log),
	}
}

// actorFromContext rebuilds the authenticated actor stored by the auth
// middleware. ok is false when the request never passed authentication.
func actorFromContext(r *http.Request) (usecase.Actor, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		return usecase.Actor{}, false
	}

	role, ok := utils.GetRoleFromContext(r.Context())
	if !ok {
		return usecase.Actor{}, false
	}

	return usecase.Actor{ID: userID, Role: entity.UserRole(role)}, true
}

// handleServiceError maps a service error to an HTTP response by its kind.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case apperr.KindInvalidArgument:
		log.Warn(operation+" failed - invalid input", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case apperr.KindConflict, apperr.KindStateConflict:
		log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, err.Error())

	case apperr.KindPermissionDenied:
		log.Warn(operation+" failed - permission denied", zap.Error(err))
		utils.ResponseForbidden(w, err.Error())

	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
