package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cinema-ticketing/internal/catalog"
	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/internal/data/repository"
	"cinema-ticketing/internal/dto/request"
	"cinema-ticketing/internal/dto/response"
	"cinema-ticketing/pkg/apperr"
	"cinema-ticketing/pkg/utils"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

type MovieService interface {
	// GetMovies is the public listing; delisted movies are hidden.
	GetMovies(ctx context.Context) ([]response.MovieResponse, error)
	// GetAllMovies includes delisted movies for administrators.
	GetAllMovies(ctx context.Context, actor Actor) ([]response.MovieResponse, error)
	GetMovieByID(ctx context.Context, movieID string) (*response.MovieResponse, error)
	ImportMovie(ctx context.Context, actor Actor, req *request.ImportMovieRequest) (*response.MovieResponse, error)
	SetMovieStatus(ctx context.Context, actor Actor, movieID string, req *request.MovieStatusRequest) (*response.MovieResponse, error)
	DeleteMovie(ctx context.Context, actor Actor, movieID string) error
}

type movieService struct {
	repo   *repository.Repository
	source CatalogSource
	clock  clockwork.Clock
	log    *zap.Logger
}

func NewMovieService(repo *repository.Repository, source CatalogSource, clock clockwork.Clock, log *zap.Logger) MovieService {
	return &movieService{
		repo:   repo,
		source: source,
		clock:  clock,
		log:    log.With(zap.String("service", "movie")),
	}
}

func moviesToResponse(movies []*entity.Movie) []response.MovieResponse {
	responses := make([]response.MovieResponse, len(movies))
	for i, movie := range movies {
		responses[i] = response.MovieToResponse(movie)
	}
	return responses
}

func (s *movieService) GetMovies(ctx context.Context) ([]response.MovieResponse, error) {
	movies, err := s.repo.Movie.FindAll(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("get movies: %w", err)
	}
	return moviesToResponse(movies), nil
}

func (s *movieService) GetAllMovies(ctx context.Context, actor Actor) ([]response.MovieResponse, error) {
	if !actor.IsAdmin() {
		return nil, apperr.PermissionDenied("only administrators can list delisted movies")
	}

	movies, err := s.repo.Movie.FindAll(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("get movies: %w", err)
	}
	return moviesToResponse(movies), nil
}

func (s *movieService) GetMovieByID(ctx context.Context, movieID string) (*response.MovieResponse, error) {
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

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

// ImportMovie pulls metadata for one TMDb id from the external catalog and
// stores it locally. Imported movies start as upcoming and must be listed
// explicitly before sessions show publicly.
func (s *movieService) ImportMovie(ctx context.Context, actor Actor, req *request.ImportMovieRequest) (*response.MovieResponse, error) {
	if !actor.IsAdmin() {
		return nil, apperr.PermissionDenied("only administrators can import movies")
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.InvalidArgument("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	existing, err := s.repo.Movie.FindByTmdbID(ctx, req.TmdbID)
	if err != nil {
		return nil, fmt.Errorf("check TMDb id %d: %w", req.TmdbID, err)
	}
	if existing != nil {
		return nil, apperr.Conflict("movie with TMDb id %d is already imported", req.TmdbID)
	}

	detail, err := s.source.MovieDetail(ctx, req.TmdbID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, apperr.NotFound("movie with TMDb id %d not found in catalog", req.TmdbID)
		}
		return nil, fmt.Errorf("fetch movie %d from catalog: %w", req.TmdbID, err)
	}

	if detail.DurationInMinutes <= 0 {
		return nil, apperr.InvalidArgument("movie %d has no usable runtime", req.TmdbID)
	}

	castJSON, err := json.Marshal(detail.Cast)
	if err != nil {
		return nil, fmt.Errorf("encode cast of movie %d: %w", req.TmdbID, err)
	}

	now := s.clock.Now()
	movie := &entity.Movie{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Title:             detail.Title,
		AgeRating:         detail.AgeRating,
		ReleaseDate:       detail.ReleaseDate,
		DurationInMinutes: detail.DurationInMinutes,
		Genres:            detail.Genres,
		Director:          detail.Director,
		CastJSON:          string(castJSON),
		Synopsis:          detail.Synopsis,
		PosterURL:         detail.PosterURL,
		BackdropURL:       detail.BackdropURL,
		TmdbID:            detail.TmdbID,
		TmdbRating:        detail.Rating,
		Status:            entity.MovieStatusUpcoming,
	}

	if err := s.repo.Movie.Create(ctx, movie); err != nil {
		return nil, fmt.Errorf("create movie %d: %w", req.TmdbID, err)
	}

	s.log.Info("Movie imported",
		zap.String("movie_id", movie.ID.String()),
		zap.Int64("tmdb_id", movie.TmdbID),
		zap.String("title", movie.Title),
	)

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

func (s *movieService) SetMovieStatus(ctx context.Context, actor Actor, movieID string, req *request.MovieStatusRequest) (*response.MovieResponse, error) {
	if !actor.IsAdmin() {
		return nil, apperr.PermissionDenied("only administrators can change movie status")
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.InvalidArgument("validation failed: %s", utils.FormatValidationErrors(errs))
	}

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

	status := entity.MovieStatus(req.Status)
	if movie.Status != status {
		if err := s.repo.Movie.UpdateStatus(ctx, id, status); err != nil {
			return nil, fmt.Errorf("set status of movie %s: %w", movieID, err)
		}
		movie.Status = status
		movie.UpdatedAt = s.clock.Now()

		s.log.Info("Movie status changed",
			zap.String("movie_id", movieID),
			zap.String("status", req.Status),
		)
	}

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

func (s *movieService) DeleteMovie(ctx context.Context, actor Actor, movieID string) error {
	if !actor.IsAdmin() {
		return apperr.PermissionDenied("only administrators can delete movies")
	}

	id, err := uuid.Parse(movieID)
	if err != nil {
		return apperr.InvalidArgument("invalid movie ID format %s", movieID)
	}

	movie, err := s.repo.Movie.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get movie %s: %w", movieID, err)
	}
	if movie == nil {
		return apperr.NotFound("movie %s not found", movieID)
	}

	sessions, err := s.repo.Session.CountByMovieID(ctx, id)
	if err != nil {
		return fmt.Errorf("count sessions of movie %s: %w", movieID, err)
	}
	if sessions > 0 {
		return apperr.StateConflict("cannot delete a movie with scheduled sessions")
	}

	if err := s.repo.Movie.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete movie %s: %w", movieID, err)
	}

	s.log.Info("Movie deleted", zap.String("movie_id", movieID), zap.String("title", movie.Title))
	return nil
}
