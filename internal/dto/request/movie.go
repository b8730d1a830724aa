package request

type ImportMovieRequest struct {
	TmdbID int64 `json:"tmdb_id" validate:"required,min=1"`
}

type MovieStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=upcoming listed delisted"`
}
