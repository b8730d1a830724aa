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

// SessionService is the scheduling engine: it owns showtime intervals, the
// per-room overlap invariant, and cascading session deletion.
type SessionService interface {
	GetSessionByID(ctx context.Context, sessionID string) (*response.SessionResponse, error)
	GetSeatMap(ctx context.Context, sessionID string) (*response.SeatMapResponse, error)

	// Public listings only show sessions that have not started yet.
	GetFutureSessionsByRoom(ctx context.Context, roomID string) ([]response.SessionResponse, error)
	GetFutureSessionsByMovie(ctx context.Context, movieID string) ([]response.SessionResponse, error)

	// Admin listings include past sessions.
	GetSessionsByRoom(ctx context.Context, actor Actor, roomID string) ([]response.SessionResponse, error)
	GetSessionsByMovie(ctx context.Context, actor Actor, movieID string) ([]response.SessionResponse, error)

	CreateSession(ctx context.Context, actor Actor, req *request.CreateSessionRequest) (*response.SessionResponse, error)
	UpdateSession(ctx context.Context, actor Actor, sessionID string, req *request.UpdateSessionRequest) (*response.SessionResponse, error)
	DeleteSession(ctx context.Context, actor Actor, sessionID string) error
}

type sessionService struct {
	db       database.PgxIface
	repo     *repository.Repository
	notifier CancellationNotifier
	clock    clockwork.Clock
	log      *zap.Logger
}

func NewSessionService(db database.PgxIface, repo *repository.Repository, notifier CancellationNotifier, clock clockwork.Clock, log *zap.Logger) SessionService {
	return &sessionService{
		db:       db,
		repo:     repo,
		notifier: notifier,
		clock:    clock,
		log:      log.With(zap.String("service", "session")),
	}
}

// showtimeBounds derives the half-open [start, end) interval of a showing
// from its date, start time of day and the movie's duration.
func showtimeBounds(showDate, startTime time.Time, durationMinutes int) (time.Time, time.Time) {
	start := time.Date(
		showDate.Year(), showDate.Month(), showDate.Day(),
		startTime.Hour(), startTime.Minute(), 0, 0,
		showDate.Location(),
	)
	return start, start.Add(time.Duration(durationMinutes) * time.Minute)
}

// FutureSessions filters sessions to those starting strictly after now.
// Pure; exported for the public listing paths.
func FutureSessions(sessions []*entity.Session, now time.Time) []*entity.Session {
	var future []*entity.Session
	for _, session := range sessions {
		if session.StartsAt.After(now) {
			future = append(future, session)
		}
	}
	return future
}

func (s *sessionService) GetSessionByID(ctx context.Context, sessionID string) (*response.SessionResponse, error) {
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

	resp := response.SessionToResponse(session)
	return &resp, nil
}

func (s *sessionService) GetSeatMap(ctx context.Context, sessionID string) (*response.SeatMapResponse, error) {
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

	room, err := s.repo.Room.FindByID(ctx, session.RoomID)
	if err != nil {
		return nil, fmt.Errorf("get room of session %s: %w", sessionID, err)
	}
	if room == nil {
		return nil, apperr.Internal("session has no resolvable room", nil)
	}

	occupied, err := s.repo.Ticket.OccupiedSeats(ctx, s.db, id)
	if err != nil {
		return nil, fmt.Errorf("get occupancy of session %s: %w", sessionID, err)
	}

	return &response.SeatMapResponse{
		SessionID:      session.ID.String(),
		Rows:           room.Rows,
		Columns:        room.Columns,
		AvailableSeats: room.Capacity() - len(occupied),
		Occupied:       occupied,
	}, nil
}

func (s *sessionService) sessionsByRoom(ctx context.Context, roomID string) ([]*entity.Session, error) {
	id, err := uuid.Parse(roomID)
	if err != nil {
		return nil, apperr.InvalidArgument("invalid room ID format %s", roomID)
	}

	room, err := s.repo.Room.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get room %s: %w", roomID, err)
	}
	if room == nil {
		return nil, apperr.NotFound("room %s not found", roomID)
	}

	sessions, err := s.repo.Session.FindByRoomID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get sessions of room %s: %w", roomID, err)
	}

	return sessions, nil
}

func (s *sessionService) sessionsByMovie(ctx context.Context, movieID string) ([]*entity.Session, error) {
	id, err := uuid.Parse(movieID)
	if err != nil {
		return nil, apperr.InvalidArgument("invalid movie ID format %s", movieID)
	}

	movie, err := s.repo.Movie.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get movie %s: %w", movieID, err)
	}
	if movie == nil {
		return nil, apperr.NotFound("movie %s not found", movieID)
	}

	sessions, err := s.repo.Session.FindByMovieID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get sessions of movie %s: %w", movieID, err)
	}

	return sessions, nil
}

func sessionsToResponse(sessions []*entity.Session) []response.SessionResponse {
	responses := make([]response.SessionResponse, len(sessions))
	for i, session := range sessions {
		responses[i] = response.SessionToResponse(session)
	}
	return responses
}

func (s *sessionService) GetFutureSessionsByRoom(ctx context.Context, roomID string) ([]response.SessionResponse, error) {
	sessions, err := s.sessionsByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return sessionsToResponse(FutureSessions(sessions, s.clock.Now())), nil
}

func (s *sessionService) GetFutureSessionsByMovie(ctx context.Context, movieID string) ([]response.SessionResponse, error) {
	sessions, err := s.sessionsByMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}
	return sessionsToResponse(FutureSessions(sessions, s.clock.Now())), nil
}

func (s *sessionService) GetSessionsByRoom(ctx context.Context, actor Actor, roomID string) ([]response.SessionResponse, error) {
	if !actor.IsAdmin() {
		return nil, apperr.PermissionDenied("only administrators can list all sessions of a room")
	}

	sessions, err := s.sessionsByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return sessionsToResponse(sessions), nil
}

func (s *sessionService) GetSessionsByMovie(ctx context.Context, actor Actor, movieID string) ([]response.SessionResponse, error) {
	if !actor.IsAdmin() {
		return nil, apperr.PermissionDenied("only administrators can list all sessions of a movie")
	}

	sessions, err := s.sessionsByMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}
	return sessionsToResponse(sessions), nil
}

func (s *sessionService) CreateSession(ctx context.Context, actor Actor, req *request.CreateSessionRequest) (*response.SessionResponse, error) {
	if !actor.IsAdmin() {
		return nil, apperr.PermissionDenied("only administrators can create sessions")
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.InvalidArgument("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	roomID, err := uuid.Parse(req.RoomID)
	if err != nil {
		return nil, apperr.InvalidArgument("invalid room ID format %s", req.RoomID)
	}

	movieID, err := uuid.Parse(req.MovieID)
	if err != nil {
		return nil, apperr.InvalidArgument("invalid movie ID format %s", req.MovieID)
	}

	showDate, startTime, err := parseShowtime(req.ShowDate, req.StartTime)
	if err != nil {
		return nil, err
	}

	movie, err := s.repo.Movie.FindByID(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("get movie %s: %w", req.MovieID, err)
	}
	if movie == nil {
		return nil, apperr.NotFound("movie %s not found", req.MovieID)
	}

	start, end := showtimeBounds(showDate, startTime, movie.DurationInMinutes)
	if !start.After(s.clock.Now()) {
		return nil, apperr.InvalidArgument("session start must be in the future")
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin session create: %w", err)
	}
	defer tx.Rollback(ctx)

	// The room row lock serializes scheduling per room; two concurrent
	// creates for the same room cannot both pass the overlap check.
	room, err := s.repo.Room.LockByID(ctx, tx, roomID)
	if err != nil {
		return nil, fmt.Errorf("lock room %s: %w", req.RoomID, err)
	}
	if room == nil {
		return nil, apperr.NotFound("room %s not found", req.RoomID)
	}

	overlaps, err := s.repo.Session.HasOverlap(ctx, tx, roomID, start, end, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("check overlap in room %s: %w", req.RoomID, err)
	}
	if overlaps {
		return nil, apperr.Conflict("session overlaps another session in room %d", room.Number)
	}

	now := s.clock.Now()
	session := &entity.Session{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		RoomID:    roomID,
		MovieID:   movieID,
		ShowDate:  showDate,
		StartTime: startTime,
		StartsAt:  start,
		EndsAt:    end,
		Price:     req.Price,
	}

	if err := s.repo.Session.Create(ctx, tx, session); err != nil {
		if database.IsExclusionViolation(err) {
			// Constraint backstop; another transaction won the room.
			return nil, apperr.Conflict("session overlaps another session in room %d", room.Number)
		}
		return nil, fmt.Errorf("create session: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit session create: %w", err)
	}

	s.log.Info("Session created",
		zap.String("session_id", session.ID.String()),
		zap.String("room_id", roomID.String()),
		zap.String("movie_id", movieID.String()),
		zap.Time("starts_at", start),
		zap.Time("ends_at", end),
	)

	resp := response.SessionToResponse(session)
	return &resp, nil
}

func (s *sessionService) UpdateSession(ctx context.Context, actor Actor, sessionID string, req *request.UpdateSessionRequest) (*response.SessionResponse, error) {
	if !actor.IsAdmin() {
		return nil, apperr.PermissionDenied("only administrators can update sessions")
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.InvalidArgument("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	id, err := uuid.Parse(sessionID)
	if err != nil {
		return nil, apperr.InvalidArgument("invalid session ID format %s", sessionID)
	}

	showDate, startTime, err := parseShowtime(req.ShowDate, req.StartTime)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin session update: %w", err)
	}
	defer tx.Rollback(ctx)

	session, err := s.repo.Session.LockByID(ctx, tx, id)
	if err != nil {
		return nil, fmt.Errorf("lock session %s: %w", sessionID, err)
	}
	if session == nil {
		return nil, apperr.NotFound("session %s not found", sessionID)
	}

	sold, err := s.repo.Ticket.CountBySession(ctx, tx, id)
	if err != nil {
		return nil, fmt.Errorf("count tickets of session %s: %w", sessionID, err)
	}
	if sold > 0 {
		return nil, apperr.StateConflict("cannot modify a session with sold tickets")
	}

	movie, err := s.repo.Movie.FindByID(ctx, session.MovieID)
	if err != nil {
		return nil, fmt.Errorf("get movie of session %s: %w", sessionID, err)
	}
	if movie == nil {
		return nil, apperr.Internal("session has no resolvable movie", nil)
	}

	room, err := s.repo.Room.LockByID(ctx, tx, session.RoomID)
	if err != nil {
		return nil, fmt.Errorf("lock room of session %s: %w", sessionID, err)
	}
	if room == nil {
		return nil, apperr.Internal("session has no resolvable room", nil)
	}

	start, end := showtimeBounds(showDate, startTime, movie.DurationInMinutes)
	if !start.After(s.clock.Now()) {
		return nil, apperr.InvalidArgument("session start must be in the future")
	}

	overlaps, err := s.repo.Session.HasOverlap(ctx, tx, session.RoomID, start, end, id)
	if err != nil {
		return nil, fmt.Errorf("check overlap in room %s: %w", session.RoomID.String(), err)
	}
	if overlaps {
		return nil, apperr.Conflict("session overlaps another session in room %d", room.Number)
	}

	session.ShowDate = showDate
	session.StartTime = startTime
	session.StartsAt = start
	session.EndsAt = end
	session.UpdatedAt = s.clock.Now()

	if err := s.repo.Session.Update(ctx, tx, session); err != nil {
		if database.IsExclusionViolation(err) {
			return nil, apperr.Conflict("session overlaps another session in room %d", room.Number)
		}
		return nil, fmt.Errorf("update session %s: %w", sessionID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit session update: %w", err)
	}

	s.log.Info("Session updated",
		zap.String("session_id", sessionID),
		zap.Time("starts_at", start),
		zap.Time("ends_at", end),
	)

	resp := response.SessionToResponse(session)
	return &resp, nil
}

// DeleteSession tears a session down regardless of the cancellation cutoff:
// it resolves the affected ticket holders, removes every ticket and the
// session in one transaction, then dispatches cancellation notices
// best-effort after the commit.
func (s *sessionService) DeleteSession(ctx context.Context, actor Actor, sessionID string) error {
	if !actor.IsAdmin() {
		return apperr.PermissionDenied("only administrators can delete sessions")
	}

	id, err := uuid.Parse(sessionID)
	if err != nil {
		return apperr.InvalidArgument("invalid session ID format %s", sessionID)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin session delete: %w", err)
	}
	defer tx.Rollback(ctx)

	session, err := s.repo.Session.LockByID(ctx, tx, id)
	if err != nil {
		return fmt.Errorf("lock session %s: %w", sessionID, err)
	}
	if session == nil {
		return apperr.NotFound("session %s not found", sessionID)
	}

	holders, err := s.repo.Ticket.HoldersBySession(ctx, tx, id)
	if err != nil {
		return fmt.Errorf("resolve ticket holders of session %s: %w", sessionID, err)
	}

	released, err := s.repo.Ticket.DeleteBySession(ctx, tx, id)
	if err != nil {
		return fmt.Errorf("release tickets of session %s: %w", sessionID, err)
	}

	if err := s.repo.Session.Delete(ctx, tx, id); err != nil {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit session delete: %w", err)
	}

	s.log.Info("Session deleted",
		zap.String("session_id", sessionID),
		zap.Int64("tickets_released", released),
		zap.Int("holders_notified", len(holders)),
	)

	// Fire-and-forget: notification failures are logged, never propagated.
	go s.notifyHolders(holders, session)

	return nil
}

func (s *sessionService) notifyHolders(holders []repository.TicketHolder, session *entity.Session) {
	for _, holder := range holders {
		if err := s.notifier.NotifyCancellation(holder.Email, session.ShowDate, session.StartTime); err != nil {
			s.log.Warn("Failed to send cancellation notice",
				zap.Error(err),
				zap.String("session_id", session.ID.String()),
				zap.String("user_id", holder.UserID.String()),
			)
		}
	}
}

func parseShowtime(showDate, startTime string) (time.Time, time.Time, error) {
	date, err := time.Parse("2006-01-02", showDate)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.InvalidArgument("invalid show date %s", showDate)
	}

	start, err := time.Parse("15:04", startTime)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.InvalidArgument("invalid start time %s", startTime)
	}

	return date, start, nil
}
