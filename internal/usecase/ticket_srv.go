package usecase

import (
	"context"
	"fmt"
	"time"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/internal/data/repository"
	"cinema-ticketing/internal/dto/request"
	"cinema-ticketing/internal/dto/response"
	"cinema-ticketing/pkg/apperr"
	"cinema-ticketing/pkg/database"
	"cinema-ticketing/pkg/utils"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

const (
	// A user may hold at most this many seats per session.
	maxTicketsPerUserPerSession = 10

	// Tickets can be cancelled until this long before the session starts.
	cancellationCutoff = time.Hour
)

// TicketService is the booking engine: atomic seat allocation and the
// cancellation policy window.
type TicketService interface {
	CreateTicket(ctx context.Context, actor Actor, req *request.CreateTicketRequest) (*response.TicketResponse, error)
	GetTicketByID(ctx context.Context, actor Actor, ticketID string) (*response.TicketResponse, error)
	GetMyTickets(ctx context.Context, actor Actor) ([]response.TicketResponse, error)
	GetTicketsBySession(ctx context.Context, actor Actor, sessionID string) ([]response.TicketResponse, error)
	DeleteTicket(ctx context.Context, actor Actor, ticketID string) error
}

type ticketService struct {
	db    database.PgxIface
	repo  *repository.Repository
	clock clockwork.Clock
	log   *zap.Logger
}

func NewTicketService(db database.PgxIface, repo *repository.Repository, clock clockwork.Clock, log *zap.Logger) TicketService {
	return &ticketService{
		db:    db,
		repo:  repo,
		clock: clock,
		log:   log.With(zap.String("service", "ticket")),
	}
}

// CreateTicket claims one seat. The session row lock serializes all claims
// for the session, so every check below sees the latest occupancy; the unique
// seat index backs the lock up should two transactions ever slip through.
func (s *ticketService) CreateTicket(ctx context.Context, actor Actor, req *request.CreateTicketRequest) (*response.TicketResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.InvalidArgument("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		return nil, apperr.InvalidArgument("invalid session ID format %s", req.SessionID)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin ticket create: %w", err)
	}
	defer tx.Rollback(ctx)

	session, err := s.repo.Session.LockByID(ctx, tx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("lock session %s: %w", req.SessionID, err)
	}
	if session == nil {
		return nil, apperr.NotFound("session %s not found", req.SessionID)
	}

	room, err := s.repo.Room.FindByID(ctx, session.RoomID)
	if err != nil {
		return nil, fmt.Errorf("get room of session %s: %w", req.SessionID, err)
	}
	if room == nil {
		return nil, apperr.Internal("session has no resolvable room", nil)
	}

	sold, err := s.repo.Ticket.CountBySession(ctx, tx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("count tickets of session %s: %w", req.SessionID, err)
	}
	if sold >= room.Capacity() {
		return nil, apperr.Conflict("no seats available in session %s", req.SessionID)
	}

	if !s.clock.Now().Before(session.StartsAt) {
		return nil, apperr.Conflict("session %s has already started", req.SessionID)
	}

	if !room.InGrid(req.SeatRow, req.SeatCol) {
		return nil, apperr.InvalidArgument("seat (%d,%d) is outside the %dx%d grid",
			req.SeatRow, req.SeatCol, room.Rows, room.Columns)
	}

	taken, err := s.repo.Ticket.SeatTaken(ctx, tx, sessionID, req.SeatRow, req.SeatCol)
	if err != nil {
		return nil, fmt.Errorf("check seat (%d,%d): %w", req.SeatRow, req.SeatCol, err)
	}
	if taken {
		return nil, apperr.Conflict("seat (%d,%d) is already occupied", req.SeatRow, req.SeatCol)
	}

	held, err := s.repo.Ticket.CountByUserAndSession(ctx, tx, actor.ID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("count tickets of user %s: %w", actor.ID.String(), err)
	}
	if held >= maxTicketsPerUserPerSession {
		return nil, apperr.Conflict("ticket limit of %d per session reached", maxTicketsPerUserPerSession)
	}

	ticket := &entity.Ticket{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: s.clock.Now(),
		},
		SessionID: sessionID,
		UserID:    actor.ID,
		SeatRow:   req.SeatRow,
		SeatCol:   req.SeatCol,
	}

	if err := s.repo.Ticket.Create(ctx, tx, ticket); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperr.Conflict("seat (%d,%d) is already occupied", req.SeatRow, req.SeatCol)
		}
		return nil, fmt.Errorf("create ticket: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit ticket create: %w", err)
	}

	s.log.Info("Ticket created",
		zap.String("ticket_id", ticket.ID.String()),
		zap.String("session_id", sessionID.String()),
		zap.String("user_id", actor.ID.String()),
		zap.Int("seat_row", req.SeatRow),
		zap.Int("seat_col", req.SeatCol),
	)

	resp := response.TicketToResponse(ticket)
	return &resp, nil
}

func (s *ticketService) GetTicketByID(ctx context.Context, actor Actor, ticketID string) (*response.TicketResponse, error) {
	id, err := uuid.Parse(ticketID)
	if err != nil {
		return nil, apperr.InvalidArgument("invalid ticket ID format %s", ticketID)
	}

	ticket, err := s.repo.Ticket.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get ticket %s: %w", ticketID, err)
	}
	if ticket == nil {
		return nil, apperr.NotFound("ticket %s not found", ticketID)
	}

	if ticket.UserID != actor.ID && !actor.IsAdmin() {
		return nil, apperr.PermissionDenied("ticket %s belongs to another user", ticketID)
	}

	resp := response.TicketToResponse(ticket)
	return &resp, nil
}

func (s *ticketService) GetMyTickets(ctx context.Context, actor Actor) ([]response.TicketResponse, error) {
	tickets, err := s.repo.Ticket.FindByUserID(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("get tickets of user %s: %w", actor.ID.String(), err)
	}

	return response.TicketsToResponse(tickets), nil
}

func (s *ticketService) GetTicketsBySession(ctx context.Context, actor Actor, sessionID string) ([]response.TicketResponse, error) {
	if !actor.IsAdmin() {
		return nil, apperr.PermissionDenied("only administrators can list tickets of a session")
	}

	id, err := uuid.Parse(sessionID)
	if err != nil {
		return nil, apperr.InvalidArgument("invalid session ID format %s", sessionID)
	}

	session, err := s.repo.Session.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", sessionID, err)
	}
	if session == nil {
		return nil, apperr.NotFound("session %s not found", sessionID)
	}

	tickets, err := s.repo.Ticket.FindBySessionID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get tickets of session %s: %w", sessionID, err)
	}

	return response.TicketsToResponse(tickets), nil
}

// DeleteTicket cancels a booking. Owners are held to the cutoff; admins can
// cancel any ticket at any time.
func (s *ticketService) DeleteTicket(ctx context.Context, actor Actor, ticketID string) error {
	id, err := uuid.Parse(ticketID)
	if err != nil {
		return apperr.InvalidArgument("invalid ticket ID format %s", ticketID)
	}

	ticket, err := s.repo.Ticket.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get ticket %s: %w", ticketID, err)
	}
	if ticket == nil {
		return apperr.NotFound("ticket %s not found", ticketID)
	}

	if ticket.UserID != actor.ID && !actor.IsAdmin() {
		return apperr.PermissionDenied("ticket %s belongs to another user", ticketID)
	}

	owner, err := s.repo.User.FindByID(ctx, ticket.UserID)
	if err != nil {
		return fmt.Errorf("get owner of ticket %s: %w", ticketID, err)
	}
	if owner == nil {
		return apperr.Internal("ticket has no resolvable owner", nil)
	}

	session, err := s.repo.Session.FindByID(ctx, ticket.SessionID)
	if err != nil {
		return fmt.Errorf("get session of ticket %s: %w", ticketID, err)
	}
	if session == nil {
		return apperr.Internal("ticket has no resolvable session", nil)
	}

	if !actor.IsAdmin() {
		deadline := session.StartsAt.Add(-cancellationCutoff)
		if !s.clock.Now().Before(deadline) {
			return apperr.StateConflict("tickets can only be cancelled up to %s before the session starts", cancellationCutoff)
		}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin ticket delete: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock keeps the delete ordered against concurrent claims on the
	// same session.
	locked, err := s.repo.Session.LockByID(ctx, tx, ticket.SessionID)
	if err != nil {
		return fmt.Errorf("lock session of ticket %s: %w", ticketID, err)
	}
	if locked == nil {
		return apperr.Internal("ticket has no resolvable session", nil)
	}

	if err := s.repo.Ticket.Delete(ctx, tx, id); err != nil {
		return fmt.Errorf("delete ticket %s: %w", ticketID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit ticket delete: %w", err)
	}

	s.log.Info("Ticket cancelled",
		zap.String("ticket_id", ticketID),
		zap.String("session_id", ticket.SessionID.String()),
		zap.String("user_id", ticket.UserID.String()),
		zap.Bool("admin_override", actor.IsAdmin() && ticket.UserID != actor.ID),
	)

	return nil
}
