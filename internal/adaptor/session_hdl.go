package adaptor

import (
	"encoding/json"
	"net/http"

	"cinema-ticketing/internal/dto/request"
	"cinema-ticketing/internal/usecase"
	"cinema-ticketing/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type SessionHandler struct {
	service usecase.SessionService
	log     *zap.Logger
}

func NewSessionHandler(service usecase.SessionService, log *zap.Logger) *SessionHandler {
	return &SessionHandler{
		service: service,
		log:     log.With(zap.String("handler", "session")),
	}
}

// GetSessionByID handles GET /api/sessions/{id} (public)
func (h *SessionHandler) GetSessionByID(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	if sessionID == "" {
		utils.ResponseBadRequest(w, "Session ID is required", nil)
		return
	}

	session, err := h.service.GetSessionByID(r.Context(), sessionID)
	if err != nil {
		handleServiceError(w, h.log, err, "get session by ID")
		return
	}

	utils.ResponseSuccess(w, "success", session)
}

// GetSeatMap handles GET /api/sessions/{id}/seats (public)
func (h *SessionHandler) GetSeatMap(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	if sessionID == "" {
		utils.ResponseBadRequest(w, "Session ID is required", nil)
		return
	}

	seatMap, err := h.service.GetSeatMap(r.Context(), sessionID)
	if err != nil {
		handleServiceError(w, h.log, err, "get seat map")
		return
	}

	utils.ResponseSuccess(w, "success", seatMap)
}

// GetSessionsByRoom handles GET /api/rooms/{id}/sessions (public, future only)
func (h *SessionHandler) GetSessionsByRoom(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	if roomID == "" {
		utils.ResponseBadRequest(w, "Room ID is required", nil)
		return
	}

	sessions, err := h.service.GetFutureSessionsByRoom(r.Context(), roomID)
	if err != nil {
		handleServiceError(w, h.log, err, "get sessions by room")
		return
	}

	utils.ResponseSuccess(w, "success", sessions)
}

// GetSessionsByMovie handles GET /api/movies/{id}/sessions (public, future only)
func (h *SessionHandler) GetSessionsByMovie(w http.ResponseWriter, r *http.Request) {
	movieID := chi.URLParam(r, "id")
	if movieID == "" {
		utils.ResponseBadRequest(w, "Movie ID is required", nil)
		return
	}

	sessions, err := h.service.GetFutureSessionsByMovie(r.Context(), movieID)
	if err != nil {
		handleServiceError(w, h.log, err, "get sessions by movie")
		return
	}

	utils.ResponseSuccess(w, "success", sessions)
}

// GetAllSessionsByRoom handles GET /api/admin/rooms/{id}/sessions (admin only)
func (h *SessionHandler) GetAllSessionsByRoom(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	roomID := chi.URLParam(r, "id")
	if roomID == "" {
		utils.ResponseBadRequest(w, "Room ID is required", nil)
		return
	}

	sessions, err := h.service.GetSessionsByRoom(r.Context(), actor, roomID)
	if err != nil {
		handleServiceError(w, h.log, err, "get all sessions by room")
		return
	}

	utils.ResponseSuccess(w, "success", sessions)
}

// GetAllSessionsByMovie handles GET /api/admin/movies/{id}/sessions (admin only)
func (h *SessionHandler) GetAllSessionsByMovie(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	movieID := chi.URLParam(r, "id")
	if movieID == "" {
		utils.ResponseBadRequest(w, "Movie ID is required", nil)
		return
	}

	sessions, err := h.service.GetSessionsByMovie(r.Context(), actor, movieID)
	if err != nil {
		handleServiceError(w, h.log, err, "get all sessions by movie")
		return
	}

	utils.ResponseSuccess(w, "success", sessions)
}

// CreateSession handles POST /api/admin/sessions (admin only)
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	session, err := h.service.CreateSession(r.Context(), actor, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create session")
		return
	}

	utils.ResponseCreated(w, "success", session)
}

// UpdateSession handles PUT /api/admin/sessions/{id} (admin only)
func (h *SessionHandler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	sessionID := chi.URLParam(r, "id")
	if sessionID == "" {
		utils.ResponseBadRequest(w, "Session ID is required", nil)
		return
	}

	var req request.UpdateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	session, err := h.service.UpdateSession(r.Context(), actor, sessionID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update session")
		return
	}

	utils.ResponseSuccess(w, "success", session)
}

// DeleteSession handles DELETE /api/admin/sessions/{id} (admin only)
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	sessionID := chi.URLParam(r, "id")
	if sessionID == "" {
		utils.ResponseBadRequest(w, "Session ID is required", nil)
		return
	}

	if err := h.service.DeleteSession(r.Context(), actor, sessionID); err != nil {
		handleServiceError(w, h.log, err, "delete session")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
