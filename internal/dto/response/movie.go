package response

import (
	"encoding/json"

	"cinema-ticketing/internal/data/entity"
)

type MovieResponse struct {
	ID                string          `json:"id"`
	Title             string          `json:"title"`
	AgeRating         string          `json:"age_rating"`
	ReleaseDate       string          `json:"release_date"`
	DurationInMinutes int             `json:"duration_in_minutes"`
	Genres            string          `json:"genres"`
	Director          string          `json:"director"`
	Cast              json.RawMessage `json:"cast,omitempty"`
	Synopsis          string          `json:"synopsis"`
	PosterURL         string          `json:"poster_url"`
	BackdropURL       string          `json:"backdrop_url"`
	TmdbID            int64           `json:"tmdb_id"`
	TmdbRating        float64         `json:"tmdb_rating"`
	Status            string          `json:"status"`
}

func MovieToResponse(movie *entity.Movie) MovieResponse {
	resp := MovieResponse{
		ID:                movie.ID.String(),
		Title:             movie.Title,
		AgeRating:         movie.AgeRating,
		ReleaseDate:       movie.ReleaseDate.Format("2006-01-02"),
		DurationInMinutes: movie.DurationInMinutes,
		Genres:            movie.Genres,
		Director:          movie.Director,
		Synopsis:          movie.Synopsis,
		PosterURL:         movie.PosterURL,
		BackdropURL:       movie.BackdropURL,
		TmdbID:            movie.TmdbID,
		TmdbRating:        movie.TmdbRating,
		Status:            string(movie.Status),
	}
	if json.Valid([]byte(movie.CastJSON)) {
		resp.Cast = json.RawMessage(movie.CastJSON)
	}
	return resp
}
