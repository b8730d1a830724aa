package repository

import (
	"context"
	"fmt"
	"time"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// SeatRef is one occupied (row, col) pair in a session.
type SeatRef struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// TicketHolder is a user holding at least one ticket for a session, resolved
// during cascading deletion so cancellation notices can be dispatched.
type TicketHolder struct {
	UserID uuid.UUID
	Email  string
}

type TicketRepository interface {
	// Create runs inside the caller's transaction. The unique index on
	// (session_id, seat_row, seat_col) rejects the loser of a seat race.
	Create(ctx context.Context, q database.Queryer, ticket *entity.Ticket) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Ticket, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Ticket, error)
	FindBySessionID(ctx context.Context, sessionID uuid.UUID) ([]*entity.Ticket, error)
	OccupiedSeats(ctx context.Context, q database.Queryer, sessionID uuid.UUID) ([]SeatRef, error)
	SeatTaken(ctx context.Context, q database.Queryer, sessionID uuid.UUID, row, col int) (bool, error)
	CountBySession(ctx context.Context, q database.Queryer, sessionID uuid.UUID) (int, error)
	CountByUserAndSession(ctx context.Context, q database.Queryer, userID, sessionID uuid.UUID) (int, error)
	Delete(ctx context.Context, q database.Queryer, id uuid.UUID) error
	DeleteBySession(ctx context.Context, q database.Queryer, sessionID uuid.UUID) (int64, error)
	HoldersBySession(ctx context.Context, q database.Queryer, sessionID uuid.UUID) ([]TicketHolder, error)
	// ExistsFutureByUser reports whether the user holds a ticket for a
	// session that has not started yet; such users cannot be deleted.
	ExistsFutureByUser(ctx context.Context, userID uuid.UUID, now time.Time) (bool, error)
}

type ticketRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTicketRepository(db database.PgxIface, log *zap.Logger) TicketRepository {
	return &ticketRepository{
		db:  db,
		log: log.With(zap.String("repository", "ticket")),
	}
}

const ticketColumns = `id, session_id, user_id, seat_row, seat_col, created_at`

func scanTicket(row pgx.Row) (*entity.Ticket, error) {
	var ticket entity.Ticket
	err := row.Scan(
		&ticket.ID,
		&ticket.SessionID,
		&ticket.UserID,
		&ticket.SeatRow,
		&ticket.SeatCol,
		&ticket.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) Create(ctx context.Context, q database.Queryer, ticket *entity.Ticket) error {
	query := `
		INSERT INTO tickets (id, session_id, user_id, seat_row, seat_col, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := q.Exec(ctx, query,
		ticket.ID,
		ticket.SessionID,
		ticket.UserID,
		ticket.SeatRow,
		ticket.SeatCol,
		ticket.CreatedAt,
	)

	if err != nil {
		if database.IsUniqueViolation(err) {
			// Seat race lost; let the service map this to a conflict.
			return fmt.Errorf("seat (%d,%d) in session %s: %w",
				ticket.SeatRow, ticket.SeatCol, ticket.SessionID.String(), err)
		}
		r.log.Error("Failed to create ticket",
			zap.Error(err),
			zap.String("session_id", ticket.SessionID.String()),
			zap.String("user_id", ticket.UserID.String()),
			zap.Int("seat_row", ticket.SeatRow),
			zap.Int("seat_col", ticket.SeatCol),
		)
		return fmt.Errorf("create ticket in session %s: %w", ticket.SessionID.String(), err)
	}

	return nil
}

func (r *ticketRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`

	ticket, err := scanTicket(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find ticket by ID",
			zap.Error(err),
			zap.String("ticket_id", id.String()),
		)
		return nil, fmt.Errorf("find ticket by ID %s: %w", id.String(), err)
	}

	return ticket, nil
}

func (r *ticketRepository) findMany(ctx context.Context, query string, arg any) ([]*entity.Ticket, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []*entity.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ticket row: %w", err)
		}
		tickets = append(tickets, ticket)
	}

	return tickets, nil
}

func (r *ticketRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE user_id = $1 ORDER BY created_at DESC`

	tickets, err := r.findMany(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to find tickets by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find tickets by user ID %s: %w", userID.String(), err)
	}

	return tickets, nil
}

func (r *ticketRepository) FindBySessionID(ctx context.Context, sessionID uuid.UUID) ([]*entity.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE session_id = $1 ORDER BY seat_row, seat_col`

	tickets, err := r.findMany(ctx, query, sessionID)
	if err != nil {
		r.log.Error("Failed to find tickets by session ID",
			zap.Error(err),
			zap.String("session_id", sessionID.String()),
		)
		return nil, fmt.Errorf("find tickets by session ID %s: %w", sessionID.String(), err)
	}

	return tickets, nil
}

func (r *ticketRepository) OccupiedSeats(ctx context.Context, q database.Queryer, sessionID uuid.UUID) ([]SeatRef, error) {
	query := `SELECT seat_row, seat_col FROM tickets WHERE session_id = $1 ORDER BY seat_row, seat_col`

	rows, err := q.Query(ctx, query, sessionID)
	if err != nil {
		r.log.Error("Failed to load occupied seats",
			zap.Error(err),
			zap.String("session_id", sessionID.String()),
		)
		return nil, fmt.Errorf("load occupied seats for session %s: %w", sessionID.String(), err)
	}
	defer rows.Close()

	var seats []SeatRef
	for rows.Next() {
		var seat SeatRef
		if err := rows.Scan(&seat.Row, &seat.Col); err != nil {
			return nil, fmt.Errorf("scan seat row: %w", err)
		}
		seats = append(seats, seat)
	}

	return seats, nil
}

func (r *ticketRepository) SeatTaken(ctx context.Context, q database.Queryer, sessionID uuid.UUID, row, col int) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM tickets WHERE session_id = $1 AND seat_row = $2 AND seat_col = $3)`

	var taken bool
	err := q.QueryRow(ctx, query, sessionID, row, col).Scan(&taken)
	if err != nil {
		r.log.Error("Failed to check seat occupancy",
			zap.Error(err),
			zap.String("session_id", sessionID.String()),
			zap.Int("seat_row", row),
			zap.Int("seat_col", col),
		)
		return false, fmt.Errorf("check seat (%d,%d) in session %s: %w", row, col, sessionID.String(), err)
	}

	return taken, nil
}

func (r *ticketRepository) CountBySession(ctx context.Context, q database.Queryer, sessionID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM tickets WHERE session_id = $1`

	var count int
	err := q.QueryRow(ctx, query, sessionID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count tickets by session",
			zap.Error(err),
			zap.String("session_id", sessionID.String()),
		)
		return 0, fmt.Errorf("count tickets in session %s: %w", sessionID.String(), err)
	}

	return count, nil
}

func (r *ticketRepository) CountByUserAndSession(ctx context.Context, q database.Queryer, userID, sessionID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM tickets WHERE user_id = $1 AND session_id = $2`

	var count int
	err := q.QueryRow(ctx, query, userID, sessionID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count user tickets in session",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("session_id", sessionID.String()),
		)
		return 0, fmt.Errorf("count tickets of user %s in session %s: %w",
			userID.String(), sessionID.String(), err)
	}

	return count, nil
}

func (r *ticketRepository) Delete(ctx context.Context, q database.Queryer, id uuid.UUID) error {
	query := `DELETE FROM tickets WHERE id = $1`

	result, err := q.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete ticket",
			zap.Error(err),
			zap.String("ticket_id", id.String()),
		)
		return fmt.Errorf("delete ticket %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("ticket %s not found", id.String())
	}

	return nil
}

func (r *ticketRepository) DeleteBySession(ctx context.Context, q database.Queryer, sessionID uuid.UUID) (int64, error) {
	query := `DELETE FROM tickets WHERE session_id = $1`

	result, err := q.Exec(ctx, query, sessionID)
	if err != nil {
		r.log.Error("Failed to delete tickets by session",
			zap.Error(err),
			zap.String("session_id", sessionID.String()),
		)
		return 0, fmt.Errorf("delete tickets of session %s: %w", sessionID.String(), err)
	}

	return result.RowsAffected(), nil
}

func (r *ticketRepository) HoldersBySession(ctx context.Context, q database.Queryer, sessionID uuid.UUID) ([]TicketHolder, error) {
	query := `
		SELECT DISTINCT u.id, u.email
		FROM tickets t
		JOIN users u ON u.id = t.user_id
		WHERE t.session_id = $1
	`

	rows, err := q.Query(ctx, query, sessionID)
	if err != nil {
		r.log.Error("Failed to resolve ticket holders",
			zap.Error(err),
			zap.String("session_id", sessionID.String()),
		)
		return nil, fmt.Errorf("resolve ticket holders of session %s: %w", sessionID.String(), err)
	}
	defer rows.Close()

	var holders []TicketHolder
	for rows.Next() {
		var holder TicketHolder
		if err := rows.Scan(&holder.UserID, &holder.Email); err != nil {
			return nil, fmt.Errorf("scan ticket holder row: %w", err)
		}
		holders = append(holders, holder)
	}

	return holders, nil
}

func (r *ticketRepository) ExistsFutureByUser(ctx context.Context, userID uuid.UUID, now time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM tickets t
			JOIN sessions s ON s.id = t.session_id
			WHERE t.user_id = $1 AND s.starts_at > $2
		)
	`

	var exists bool
	err := r.db.QueryRow(ctx, query, userID, now).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check future tickets by user",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return false, fmt.Errorf("check future tickets of user %s: %w", userID.String(), err)
	}

	return exists, nil
}
