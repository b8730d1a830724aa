package response

import (
	"time"

	"cinema-ticketing/internal/data/entity"
)

type TicketResponse struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	SeatRow   int       `json:"seat_row"`
	SeatCol   int       `json:"seat_col"`
	CreatedAt time.Time `json:"created_at"`
}

func TicketToResponse(ticket *entity.Ticket) TicketResponse {
	return TicketResponse{
		ID:        ticket.ID.String(),
		SessionID: ticket.SessionID.String(),
		UserID:    ticket.UserID.String(),
		SeatRow:   ticket.SeatRow,
		SeatCol:   ticket.SeatCol,
		CreatedAt: ticket.CreatedAt,
	}
}

func TicketsToResponse(tickets []*entity.Ticket) []TicketResponse {
	responses := make([]TicketResponse, len(tickets))
	for i, ticket := range tickets {
		responses[i] = TicketToResponse(ticket)
	}
	return responses
}
