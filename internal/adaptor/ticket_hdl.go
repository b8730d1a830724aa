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

type TicketHandler struct {
	service usecase.TicketService
	log     *zap.Logger
}

func NewTicketHandler(service usecase.TicketService, log *zap.Logger) *TicketHandler {
	return &TicketHandler{
		service: service,
		log:     log.With(zap.String("handler", "ticket")),
	}
}

// CreateTicket handles POST /api/tickets (protected)
func (h *TicketHandler) CreateTicket(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	ticket, err := h.service.CreateTicket(r.Context(), actor, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create ticket")
		return
	}

	utils.ResponseCreated(w, "success", ticket)
}

// GetMyTickets handles GET /api/user/tickets (protected)
func (h *TicketHandler) GetMyTickets(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	tickets, err := h.service.GetMyTickets(r.Context(), actor)
	if err != nil {
		handleServiceError(w, h.log, err, "get my tickets")
		return
	}

	utils.ResponseSuccess(w, "success", tickets)
}

// GetTicketByID handles GET /api/tickets/{id} (protected)
func (h *TicketHandler) GetTicketByID(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	ticketID := chi.URLParam(r, "id")
	if ticketID == "" {
		utils.ResponseBadRequest(w, "Ticket ID is required", nil)
		return
	}

	ticket, err := h.service.GetTicketByID(r.Context(), actor, ticketID)
	if err != nil {
		handleServiceError(w, h.log, err, "get ticket by ID")
		return
	}

	utils.ResponseSuccess(w, "success", ticket)
}

// DeleteTicket handles DELETE /api/tickets/{id} (protected)
func (h *TicketHandler) DeleteTicket(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	ticketID := chi.URLParam(r, "id")
	if ticketID == "" {
		utils.ResponseBadRequest(w, "Ticket ID is required", nil)
		return
	}

	if err := h.service.DeleteTicket(r.Context(), actor, ticketID); err != nil {
		handleServiceError(w, h.log, err, "delete ticket")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// GetTicketsBySession handles GET /api/admin/sessions/{id}/tickets (admin only)
func (h *TicketHandler) GetTicketsBySession(w http.ResponseWriter, r *http.Request) {
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

	tickets, err := h.service.GetTicketsBySession(r.Context(), actor, sessionID)
	if err != nil {
		handleServiceError(w, h.log, err, "get tickets by session")
		return
	}

	utils.ResponseSuccess(w, "success", tickets)
}
