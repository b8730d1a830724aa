package repository

import (
	"context"
	"fmt"
	"time"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type AuthTokenRepository interface {
	Create(ctx context.Context, token *entity.AuthToken) error
	// FindValid returns the token row if it exists and has not expired at
	// the given instant, (nil, nil) otherwise.
	FindValid(ctx context.Context, token string, now time.Time) (*entity.AuthToken, error)
	DeleteByToken(ctx context.Context, token string) error
}

type authTokenRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewAuthTokenRepository(db database.PgxIface, log *zap.Logger) AuthTokenRepository {
	return &authTokenRepository{
		db:  db,
		log: log.With(zap.String("repository", "auth_token")),
	}
}

func (r *authTokenRepository) Create(ctx context.Context, token *entity.AuthToken) error {
	query := `
		INSERT INTO auth_tokens (id, user_id, token, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query,
		token.ID,
		token.UserID,
		token.Token,
		token.ExpiresAt,
		token.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create auth token",
			zap.Error(err),
			zap.String("user_id", token.UserID.String()),
		)
		return fmt.Errorf("create auth token for user %s: %w", token.UserID.String(), err)
	}

	return nil
}

func (r *authTokenRepository) FindValid(ctx context.Context, token string, now time.Time) (*entity.AuthToken, error) {
	query := `
		SELECT id, user_id, token, expires_at, created_at
		FROM auth_tokens
		WHERE token = $1 AND expires_at > $2
	`

	var authToken entity.AuthToken
	err := r.db.QueryRow(ctx, query, token, now).Scan(
		&authToken.ID,
		&authToken.UserID,
		&authToken.Token,
		&authToken.ExpiresAt,
		&authToken.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find valid auth token", zap.Error(err))
		return nil, fmt.Errorf("find valid auth token: %w", err)
	}

	return &authToken, nil
}

func (r *authTokenRepository) DeleteByToken(ctx context.Context, token string) error {
	query := `DELETE FROM auth_tokens WHERE token = $1`

	if _, err := r.db.Exec(ctx, query, token); err != nil {
		r.log.Error("Failed to delete auth token", zap.Error(err))
		return fmt.Errorf("delete auth token: %w", err)
	}

	return nil
}
