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

type SessionRepository interface {
	// Create runs inside the caller's transaction so the overlap check and
	// the insert are one atomic step per room.
	Create(ctx context.Context, q database.Queryer, session *entity.Session) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Session, error)
	LockByID(ctx context.Context, q database.Queryer, id uuid.UUID) (*entity.Session, error)
	FindByRoomID(ctx context.Context, roomID uuid.UUID) ([]*entity.Session, error)
	FindByMovieID(ctx context.Context, movieID uuid.UUID) ([]*entity.Session, error)
	// HasOverlap runs the half-open interval intersection test against every
	// other session in the room. excludeID skips the session being updated.
	HasOverlap(ctx context.Context, q database.Queryer, roomID uuid.UUID, start, end time.Time, excludeID uuid.UUID) (bool, error)
	Update(ctx context.Context, q database.Queryer, session *entity.Session) error
	Delete(ctx context.Context, q database.Queryer, id uuid.UUID) error
	CountByRoomID(ctx context.Context, roomID uuid.UUID) (int64, error)
	CountByMovieID(ctx context.Context, movieID uuid.UUID) (int64, error)
}

type sessionRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSessionRepository(db database.PgxIface, log *zap.Logger) SessionRepository {
	return &sessionRepository{
		db:  db,
		log: log.With(zap.String("repository", "session")),
	}
}

const sessionColumns = `id, room_id, movie_id, show_date, start_time, starts_at, ends_at,
		price, created_at, updated_at`

func scanSession(row pgx.Row) (*entity.Session, error) {
	var session entity.Session
	err := row.Scan(
		&session.ID,
		&session.RoomID,
		&session.MovieID,
		&session.ShowDate,
		&session.StartTime,
		&session.StartsAt,
		&session.EndsAt,
		&session.Price,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) Create(ctx context.Context, q database.Queryer, session *entity.Session) error {
	query := `
		INSERT INTO sessions (id, room_id, movie_id, show_date, start_time, starts_at, ends_at,
			price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := q.Exec(ctx, query,
		session.ID,
		session.RoomID,
		session.MovieID,
		session.ShowDate,
		session.StartTime,
		session.StartsAt,
		session.EndsAt,
		session.Price,
		session.CreatedAt,
		session.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create session",
			zap.Error(err),
			zap.String("room_id", session.RoomID.String()),
			zap.String("movie_id", session.MovieID.String()),
			zap.Time("starts_at", session.StartsAt),
		)
		return fmt.Errorf("create session in room %s: %w", session.RoomID.String(), err)
	}

	return nil
}

func (r *sessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`

	session, err := scanSession(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find session by ID",
			zap.Error(err),
			zap.String("session_id", id.String()),
		)
		return nil, fmt.Errorf("find session by ID %s: %w", id.String(), err)
	}

	return session, nil
}

func (r *sessionRepository) LockByID(ctx context.Context, q database.Queryer, id uuid.UUID) (*entity.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1 FOR UPDATE`

	session, err := scanSession(q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to lock session",
			zap.Error(err),
			zap.String("session_id", id.String()),
		)
		return nil, fmt.Errorf("lock session %s: %w", id.String(), err)
	}

	return session, nil
}

func (r *sessionRepository) findMany(ctx context.Context, query string, arg any) ([]*entity.Session, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*entity.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		sessions = append(sessions, session)
	}

	return sessions, nil
}

func (r *sessionRepository) FindByRoomID(ctx context.Context, roomID uuid.UUID) ([]*entity.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE room_id = $1 ORDER BY starts_at`

	sessions, err := r.findMany(ctx, query, roomID)
	if err != nil {
		r.log.Error("Failed to find sessions by room ID",
			zap.Error(err),
			zap.String("room_id", roomID.String()),
		)
		return nil, fmt.Errorf("find sessions by room ID %s: %w", roomID.String(), err)
	}

	return sessions, nil
}

func (r *sessionRepository) FindByMovieID(ctx context.Context, movieID uuid.UUID) ([]*entity.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE movie_id = $1 ORDER BY starts_at`

	sessions, err := r.findMany(ctx, query, movieID)
	if err != nil {
		r.log.Error("Failed to find sessions by movie ID",
			zap.Error(err),
			zap.String("movie_id", movieID.String()),
		)
		return nil, fmt.Errorf("find sessions by movie ID %s: %w", movieID.String(), err)
	}

	return sessions, nil
}

func (r *sessionRepository) HasOverlap(ctx context.Context, q database.Queryer, roomID uuid.UUID, start, end time.Time, excludeID uuid.UUID) (bool, error) {
	// Half-open intervals: touching endpoints do not conflict.
	query := `
		SELECT EXISTS (
			SELECT 1 FROM sessions
			WHERE room_id = $1 AND id <> $2 AND starts_at < $4 AND ends_at > $3
		)
	`

	var overlaps bool
	err := q.QueryRow(ctx, query, roomID, excludeID, start, end).Scan(&overlaps)
	if err != nil {
		r.log.Error("Failed to check session overlap",
			zap.Error(err),
			zap.String("room_id", roomID.String()),
			zap.Time("start", start),
			zap.Time("end", end),
		)
		return false, fmt.Errorf("check session overlap in room %s: %w", roomID.String(), err)
	}

	return overlaps, nil
}

func (r *sessionRepository) Update(ctx context.Context, q database.Queryer, session *entity.Session) error {
	query := `
		UPDATE sessions
		SET show_date = $2, start_time = $3, starts_at = $4, ends_at = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := q.Exec(ctx, query,
		session.ID,
		session.ShowDate,
		session.StartTime,
		session.StartsAt,
		session.EndsAt,
		session.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update session",
			zap.Error(err),
			zap.String("session_id", session.ID.String()),
		)
		return fmt.Errorf("update session %s: %w", session.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("session %s not found", session.ID.String())
	}

	return nil
}

func (r *sessionRepository) Delete(ctx context.Context, q database.Queryer, id uuid.UUID) error {
	query := `DELETE FROM sessions WHERE id = $1`

	result, err := q.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete session",
			zap.Error(err),
			zap.String("session_id", id.String()),
		)
		return fmt.Errorf("delete session %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("session %s not found", id.String())
	}

	r.log.Info("Session deleted", zap.String("session_id", id.String()))
	return nil
}

func (r *sessionRepository) CountByRoomID(ctx context.Context, roomID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM sessions WHERE room_id = $1`

	var count int64
	err := r.db.QueryRow(ctx, query, roomID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count sessions by room ID",
			zap.Error(err),
			zap.String("room_id", roomID.String()),
		)
		return 0, fmt.Errorf("count sessions by room ID %s: %w", roomID.String(), err)
	}

	return count, nil
}

func (r *sessionRepository) CountByMovieID(ctx context.Context, movieID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM sessions WHERE movie_id = $1`

	var count int64
	err := r.db.QueryRow(ctx, query, movieID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count sessions by movie ID",
			zap.Error(err),
			zap.String("movie_id", movieID.String()),
		)
		return 0, fmt.Errorf("count sessions by movie ID %s: %w", movieID.String(), err)
	}

	return count, nil
}
