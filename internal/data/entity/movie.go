package entity

import (
	"time"
)

type MovieStatus string

const (
	MovieStatusUpcoming MovieStatus = "upcoming"
	MovieStatusListed   MovieStatus = "listed"
	MovieStatusDelisted MovieStatus = "delisted"
)

// Movie metadata comes from the external catalog at import time; TmdbID is
// the uniqueness key against double imports.
type Movie struct {
	Base
	Title             string      `db:"title"`
	AgeRating         string      `db:"age_rating"`
	ReleaseDate       time.Time   `db:"release_date"`
	DurationInMinutes int         `db:"duration_in_minutes"`
	Genres            string      `db:"genres"`
	Director          string      `db:"director"`
	CastJSON          string      `db:"cast_json"`
	Synopsis          string      `db:"synopsis"`
	PosterURL         string      `db:"poster_url"`
	BackdropURL       string      `db:"backdrop_url"`
	TmdbID            int64       `db:"tmdb_id"`
	TmdbRating        float64     `db:"tmdb_rating"`
	Status            MovieStatus `db:"status"`
}
