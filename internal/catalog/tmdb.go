// Package catalog fetches movie metadata from the external TMDb catalog.
// The core only depends on the MovieDetail shape; everything TMDb-specific
// stays here.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cinema-ticketing/pkg/utils"

	"go.uber.org/zap"
)

// ErrNotFound marks a TMDb id that the catalog does not know.
var ErrNotFound = errors.New("movie not found in catalog")

// CastMember is one credited actor, kept for the movie detail page.
type CastMember struct {
	Name      string  `json:"name"`
	Character string  `json:"character"`
	PhotoURL  *string `json:"photo,omitempty"`
}

// MovieDetail is what the import flow needs from the external catalog.
type MovieDetail struct {
	TmdbID            int64
	Title             string
	AgeRating         string
	ReleaseDate       time.Time
	DurationInMinutes int
	Genres            string
	Director          string
	Cast              []CastMember
	Synopsis          string
	PosterURL         string
	BackdropURL       string
	Rating            float64
}

const (
	imageBaseURL    = "https://image.tmdb.org/t/p/w500"
	backdropBaseURL = "https://image.tmdb.org/t/p/original"
	maxCastMembers  = 10
)

// TmdbClient talks to the TMDb v3 API.
type TmdbClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     *zap.Logger
}

func NewTmdbClient(config utils.CatalogConfig, log *zap.Logger) *TmdbClient {
	return &TmdbClient{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		apiKey:  config.APIKey,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log.With(zap.String("component", "tmdb")),
	}
}

type tmdbMovieResponse struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	ReleaseDate  string  `json:"release_date"`
	Runtime      int     `json:"runtime"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	VoteAverage  float64 `json:"vote_average"`
	Genres       []struct {
		Name string `json:"name"`
	} `json:"genres"`
	Credits struct {
		Cast []struct {
			Name        string  `json:"name"`
			Character   string  `json:"character"`
			ProfilePath *string `json:"profile_path"`
		} `json:"cast"`
		Crew []struct {
			Name string `json:"name"`
			Job  string `json:"job"`
		} `json:"crew"`
	} `json:"credits"`
	ReleaseDates struct {
		Results []struct {
			ISO31661     string `json:"iso_3166_1"`
			ReleaseDates []struct {
				Certification string `json:"certification"`
			} `json:"release_dates"`
		} `json:"results"`
	} `json:"release_dates"`
}

// MovieDetail fetches full metadata for one movie by its TMDb id.
func (c *TmdbClient) MovieDetail(ctx context.Context, tmdbID int64) (*MovieDetail, error) {
	url := fmt.Sprintf("%s/movie/%d?api_key=%s&append_to_response=credits,release_dates",
		c.baseURL, tmdbID, c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Error("Catalog request failed", zap.Error(err), zap.Int64("tmdb_id", tmdbID))
		return nil, fmt.Errorf("fetch movie %d from catalog: %w", tmdbID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("movie %d: %w", tmdbID, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		c.log.Error("Catalog returned unexpected status",
			zap.Int("status", resp.StatusCode),
			zap.Int64("tmdb_id", tmdbID),
		)
		return nil, fmt.Errorf("catalog returned status %d for movie %d", resp.StatusCode, tmdbID)
	}

	var payload tmdbMovieResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode catalog response for movie %d: %w", tmdbID, err)
	}

	return c.toDetail(&payload)
}

func (c *TmdbClient) toDetail(payload *tmdbMovieResponse) (*MovieDetail, error) {
	releaseDate, err := time.Parse("2006-01-02", payload.ReleaseDate)
	if err != nil {
		return nil, fmt.Errorf("parse release date %q: %w", payload.ReleaseDate, err)
	}

	genres := make([]string, 0, len(payload.Genres))
	for _, g := range payload.Genres {
		genres = append(genres, g.Name)
	}

	directors := make([]string, 0, 2)
	for _, crew := range payload.Credits.Crew {
		if strings.EqualFold(crew.Job, "Director") {
			directors = append(directors, crew.Name)
		}
	}
	director := "Unknown"
	if len(directors) > 0 {
		director = strings.Join(directors, ", ")
	}

	cast := make([]CastMember, 0, maxCastMembers)
	for _, member := range payload.Credits.Cast {
		if len(cast) == maxCastMembers {
			break
		}
		cm := CastMember{Name: member.Name, Character: member.Character}
		if member.ProfilePath != nil {
			photo := imageBaseURL + *member.ProfilePath
			cm.PhotoURL = &photo
		}
		cast = append(cast, cm)
	}

	return &MovieDetail{
		TmdbID:            payload.ID,
		Title:             payload.Title,
		AgeRating:         c.certification(payload),
		ReleaseDate:       releaseDate,
		DurationInMinutes: payload.Runtime,
		Genres:            strings.Join(genres, ", "),
		Director:          director,
		Cast:              cast,
		Synopsis:          payload.Overview,
		PosterURL:         imageBaseURL + payload.PosterPath,
		BackdropURL:       backdropBaseURL + payload.BackdropPath,
		Rating:            payload.VoteAverage,
	}, nil
}

// certification picks the US certification, falling back to the first
// non-empty one.
func (c *TmdbClient) certification(payload *tmdbMovieResponse) string {
	fallback := "NR"
	for _, result := range payload.ReleaseDates.Results {
		for _, rd := range result.ReleaseDates {
			if rd.Certification == "" {
				continue
			}
			if result.ISO31661 == "US" {
				return rd.Certification
			}
			if fallback == "NR" {
				fallback = rd.Certification
			}
		}
	}
	return fallback
}
