package repository

import (
	"context"
	"fmt"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type MovieRepository interface {
	Create(ctx context.Context, movie *entity.Movie) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Movie, error)
	FindByTmdbID(ctx context.Context, tmdbID int64) (*entity.Movie, error)
	// FindAll lists movies; delisted rows are excluded unless includeDelisted.
	FindAll(ctx context.Context, includeDelisted bool) ([]*entity.Movie, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.MovieStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type movieRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewMovieRepository(db database.PgxIface, log *zap.Logger) MovieRepository {
	return &movieRepository{
		db:  db,
		log: log.With(zap.String("repository", "movie")),
	}
}

const movieColumns = `id, title, age_rating, release_date, duration_in_minutes, genres,
		director, cast_json, synopsis, poster_url, backdrop_url, tmdb_id, tmdb_rating,
		status, created_at, updated_at`

func scanMovie(row pgx.Row) (*entity.Movie, error) {
	var movie entity.Movie
	err := row.Scan(
		&movie.ID,
		&movie.Title,
		&movie.AgeRating,
		&movie.ReleaseDate,
		&movie.DurationInMinutes,
		&movie.Genres,
		&movie.Director,
		&movie.CastJSON,
		&movie.Synopsis,
		&movie.PosterURL,
		&movie.BackdropURL,
		&movie.TmdbID,
		&movie.TmdbRating,
		&movie.Status,
		&movie.CreatedAt,
		&movie.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

func (r *movieRepository) Create(ctx context.Context, movie *entity.Movie) error {
	query := `
		INSERT INTO movies (id, title, age_rating, release_date, duration_in_minutes, genres,
			director, cast_json, synopsis, poster_url, backdrop_url, tmdb_id, tmdb_rating,
			status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := r.db.Exec(ctx, query,
		movie.ID,
		movie.Title,
		movie.AgeRating,
		movie.ReleaseDate,
		movie.DurationInMinutes,
		movie.Genres,
		movie.Director,
		movie.CastJSON,
		movie.Synopsis,
		movie.PosterURL,
		movie.BackdropURL,
		movie.TmdbID,
		movie.TmdbRating,
		movie.Status,
		movie.CreatedAt,
		movie.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create movie",
			zap.Error(err),
			zap.String("title", movie.Title),
			zap.Int64("tmdb_id", movie.TmdbID),
		)
		return fmt.Errorf("create movie %q: %w", movie.Title, err)
	}

	return nil
}

func (r *movieRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE id = $1`

	movie, err := scanMovie(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find movie by ID",
			zap.Error(err),
			zap.String("movie_id", id.String()),
		)
		return nil, fmt.Errorf("find movie by ID %s: %w", id.String(), err)
	}

	return movie, nil
}

func (r *movieRepository) FindByTmdbID(ctx context.Context, tmdbID int64) (*entity.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE tmdb_id = $1`

	movie, err := scanMovie(r.db.QueryRow(ctx, query, tmdbID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find movie by TMDB ID",
			zap.Error(err),
			zap.Int64("tmdb_id", tmdbID),
		)
		return nil, fmt.Errorf("find movie by TMDB ID %d: %w", tmdbID, err)
	}

	return movie, nil
}

func (r *movieRepository) FindAll(ctx context.Context, includeDelisted bool) ([]*entity.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies`
	if !includeDelisted {
		query += ` WHERE status <> 'delisted'`
	}
	query += ` ORDER BY release_date DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list movies", zap.Error(err))
		return nil, fmt.Errorf("list movies: %w", err)
	}
	defer rows.Close()

	var movies []*entity.Movie
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			r.log.Error("Failed to scan movie row", zap.Error(err))
			return nil, fmt.Errorf("scan movie row: %w", err)
		}
		movies = append(movies, movie)
	}

	return movies, nil
}

func (r *movieRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.MovieStatus) error {
	query := `UPDATE movies SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update movie status",
			zap.Error(err),
			zap.String("movie_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update movie %s status to %s: %w", id.String(), string(status), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("movie %s not found", id.String())
	}

	return nil
}

func (r *movieRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM movies WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete movie",
			zap.Error(err),
			zap.String("movie_id", id.String()),
		)
		return fmt.Errorf("delete movie %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("movie %s not found", id.String())
	}

	r.log.Info("Movie deleted", zap.String("movie_id", id.String()))
	return nil
}
