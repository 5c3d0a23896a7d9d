// Package recommend decides which movies to suggest to a user from the
// user's watch history, falling back to popular movies.
//
// The decision runs in three tiers:
//
//  1. A user without history gets the popular movies.
//  2. Genres of rows rated at least LikedRating form the liked-genre set. If
//     it is empty the user gets the popular movies.
//  3. Otherwise the catalog is scanned for movies in a liked genre that the
//     user has no history row for.
//
// Popular movies come from the external metadata service when a credential
// is configured and from the local catalog (tmdb_rating >= PopularRating)
// otherwise, or when the external call fails.
package recommend

import (
	"context"
	"encoding/json"
	"log/slog"
	"movieapp/proj/internal/domain/models"
	"movieapp/proj/internal/metrics"
)

const (
	Limit         = 10
	LikedRating   = 4.0
	PopularRating = 7.0
)

type Source string

const (
	SourceCatalog  Source = "catalog"
	SourceExternal Source = "external"
)

// Result holds either catalog rows or the external payload, never both.
type Result struct {
	Source   Source
	Movies   []models.Movie
	External json.RawMessage
}

func catalogResult(movies []models.Movie) Result {
	if movies == nil {
		movies = []models.Movie{}
	}
	if len(movies) > Limit {
		movies = movies[:Limit]
	}
	return Result{Source: SourceCatalog, Movies: movies}
}

type History interface {
	ListForUser(ctx context.Context, userID int64) ([]models.UserMovie, error)
}

type Catalog interface {
	ScanByGenreExcludingIDs(ctx context.Context, genres []string, excludeIDs []int64, limit int) ([]models.Movie, error)
	ScanByMinRating(ctx context.Context, minRating float64, limit int) ([]models.Movie, error)
}

type PopularSource interface {
	Popular(ctx context.Context) (json.RawMessage, error)
}

type Config struct {
	// ExternalEnabled is true when a credential for the external metadata
	// service is configured.
	ExternalEnabled bool
}

type Engine struct {
	log     *slog.Logger
	history History
	catalog Catalog
	popular PopularSource
	cfg     Config
}

func New(log *slog.Logger, history History, catalog Catalog, popular PopularSource, cfg Config) *Engine {
	return &Engine{
		log:     log,
		history: history,
		catalog: catalog,
		popular: popular,
		cfg:     cfg,
	}
}

func (e *Engine) Recommend(ctx context.Context, userID int64) (Result, error) {
	const op = "recommend.Engine.Recommend"
	log := e.log.With("op", op, "user_id", userID)
	history, err := e.history.ListForUser(ctx, userID)
	if err != nil {
		log.Error("Error loading watch history", "errMsg", err.Error())
		return Result{}, err
	}
	if len(history) == 0 {
		log.Debug("empty history, using popular movies")
		return e.Popular(ctx)
	}
	genres := LikedGenres(history)
	if len(genres) == 0 {
		log.Debug("no liked genres, using popular movies")
		return e.Popular(ctx)
	}
	movies, err := e.catalog.ScanByGenreExcludingIDs(ctx, genres, HistoryMovieIDs(history), Limit)
	if err != nil {
		log.Error("Error scanning catalog by genre", "errMsg", err.Error())
		return Result{}, err
	}
	metrics.Recommendations.WithLabelValues("genre").Inc()
	return catalogResult(movies), nil
}

// Popular resolves the popular movies tier. A failing external call is
// logged and answered from the local catalog.
func (e *Engine) Popular(ctx context.Context) (Result, error) {
	const op = "recommend.Engine.Popular"
	log := e.log.With("op", op)
	if e.cfg.ExternalEnabled && e.popular != nil {
		payload, err := e.popular.Popular(ctx)
		if err == nil {
			metrics.Recommendations.WithLabelValues("external_popular").Inc()
			return Result{Source: SourceExternal, External: payload}, nil
		}
		log.Warn("external popular movies unavailable, using catalog", "errMsg", err.Error())
	}
	movies, err := e.catalog.ScanByMinRating(ctx, PopularRating, Limit)
	if err != nil {
		log.Error("Error scanning catalog by rating", "errMsg", err.Error())
		return Result{}, err
	}
	metrics.Recommendations.WithLabelValues("catalog_popular").Inc()
	return catalogResult(movies), nil
}

// LikedGenres returns the distinct genres of history rows with a rating of at
// least LikedRating, in first-seen order. Unrated rows and rows whose movie
// has no genre are ignored.
func LikedGenres(history []models.UserMovie) []string {
	var genres []string
	seen := make(map[string]struct{})
	for _, um := range history {
		if um.Rating == nil || *um.Rating < LikedRating {
			continue
		}
		if um.Movie == nil || um.Movie.Genre == nil || *um.Movie.Genre == "" {
			continue
		}
		genre := *um.Movie.Genre
		if _, ok := seen[genre]; ok {
			continue
		}
		seen[genre] = struct{}{}
		genres = append(genres, genre)
	}
	return genres
}

// HistoryMovieIDs returns the ids of every movie the user has a row for,
// regardless of rating or saved flag.
func HistoryMovieIDs(history []models.UserMovie) []int64 {
	ids := make([]int64, 0, len(history))
	seen := make(map[int64]struct{}, len(history))
	for _, um := range history {
		if _, ok := seen[um.MovieID]; ok {
			continue
		}
		seen[um.MovieID] = struct{}{}
		ids = append(ids, um.MovieID)
	}
	return ids
}
