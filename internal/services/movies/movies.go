package movies

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"movieapp/proj/internal/domain/fields"
	"movieapp/proj/internal/domain/filters"
	"movieapp/proj/internal/domain/models"
	"movieapp/proj/internal/services/recommend"
	"movieapp/proj/internal/storage"
)

type MoviesStorage interface {
	Get(ctx context.Context, id int64) (*models.Movie, error)
	Insert(ctx context.Context, movie *models.Movie) (*models.Movie, error)
	List(ctx context.Context, f filters.Filters) ([]models.Movie, error)
}

type WatchHistoryStorage interface {
	Insert(ctx context.Context, userID, movieID int64, rating *float64, isSaved fields.SavedFlag) (*models.UserMovie, error)
	ListForUser(ctx context.Context, userID int64) ([]models.UserMovie, error)
	Exists(ctx context.Context, userID, movieID int64) (bool, error)
}

type ExternalSearcher interface {
	Configured() bool
	Search(ctx context.Context, query string) (json.RawMessage, error)
}

type Recommender interface {
	Recommend(ctx context.Context, userID int64) (recommend.Result, error)
}

type Options struct {
	// AllowDuplicateHistory keeps every watch-history insert as a new row,
	// even when the user already has a row for the movie.
	AllowDuplicateHistory bool
}

type MovieService struct {
	log         *slog.Logger
	storage     MoviesStorage
	history     WatchHistoryStorage
	searcher    ExternalSearcher
	recommender Recommender
	opts        Options
}

func New(
	log *slog.Logger,
	storage MoviesStorage,
	history WatchHistoryStorage,
	searcher ExternalSearcher,
	recommender Recommender,
	opts Options,
) *MovieService {
	return &MovieService{
		log:         log,
		storage:     storage,
		history:     history,
		searcher:    searcher,
		recommender: recommender,
		opts:        opts,
	}
}

func (s *MovieService) Get(ctx context.Context, id int64) (*models.Movie, error) {
	const op = "movies.MovieService.Get"
	log := s.log.With("op", op, "id", id)
	movie, err := s.storage.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("movie not found")
			return nil, ErrMovieNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return movie, nil
}

type CreateParams struct {
	TMDBID     *int64
	Title      string
	Year       *int32
	Genre      *string
	Director   *string
	Poster     *string
	TMDBRating *float64
	Summary    *string
}

func (s *MovieService) Create(ctx context.Context, params CreateParams) (*models.Movie, error) {
	const op = "movies.MovieService.Create"
	log := s.log.With("op", op, "title", params.Title)
	movie, err := s.storage.Insert(ctx, &models.Movie{
		TMDBID:     params.TMDBID,
		Title:      params.Title,
		Year:       params.Year,
		Genre:      params.Genre,
		Director:   params.Director,
		Poster:     params.Poster,
		TMDBRating: params.TMDBRating,
		Summary:    params.Summary,
	})
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("movie already exists")
			return nil, ErrMovieAlreadyExists
		}
		log.Error(err.Error())
		return nil, err
	}
	return movie, nil
}

func (s *MovieService) List(ctx context.Context, f filters.Filters) ([]models.Movie, error) {
	const op = "movies.MovieService.List"
	log := s.log.With("op", op, "skip", f.Skip, "limit", f.Limit, "search", f.Search)
	movies, err := s.storage.List(ctx, f)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	if movies == nil {
		movies = []models.Movie{}
	}
	return movies, nil
}

type SearchStatus int

const (
	SearchOK SearchStatus = iota
	SearchNotConfigured
	SearchFailed
)

// SearchResult carries either the external payload or a human-readable
// error message. Failures of the external service are never returned as Go
// errors.
type SearchResult struct {
	Status  SearchStatus
	Payload json.RawMessage
	Error   string
}

func (s *MovieService) SearchExternal(ctx context.Context, query string) SearchResult {
	const op = "movies.MovieService.SearchExternal"
	log := s.log.With("op", op, "query", query)
	if s.searcher == nil || !s.searcher.Configured() {
		log.Info("external search requested without credential")
		return SearchResult{Status: SearchNotConfigured, Error: "TMDB API key not configured"}
	}
	payload, err := s.searcher.Search(ctx, query)
	if err != nil {
		log.Warn("external search failed", "errMsg", err.Error())
		return SearchResult{Status: SearchFailed, Error: "Request failed: " + err.Error()}
	}
	return SearchResult{Status: SearchOK, Payload: payload}
}

type WatchParams struct {
	MovieID int64
	Rating  *float64
	IsSaved fields.SavedFlag
}

func (s *MovieService) AddToWatchHistory(ctx context.Context, userID int64, params WatchParams) (*models.UserMovie, error) {
	const op = "movies.MovieService.AddToWatchHistory"
	log := s.log.With("op", op, "user_id", userID, "movie_id", params.MovieID)
	if !s.opts.AllowDuplicateHistory {
		exists, err := s.history.Exists(ctx, userID, params.MovieID)
		if err != nil {
			log.Error(err.Error())
			return nil, err
		}
		if exists {
			log.Info("movie already in watch history")
			return nil, ErrAlreadyInHistory
		}
	}
	userMovie, err := s.history.Insert(ctx, userID, params.MovieID, params.Rating, params.IsSaved)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidReference) {
			log.Info("movie not found")
			return nil, ErrMovieNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	movie, err := s.storage.Get(ctx, userMovie.MovieID)
	if err != nil {
		log.Error("Error loading watched movie: " + err.Error())
		return nil, err
	}
	userMovie.Movie = movie
	return userMovie, nil
}

func (s *MovieService) WatchHistory(ctx context.Context, userID int64) ([]models.UserMovie, error) {
	const op = "movies.MovieService.WatchHistory"
	log := s.log.With("op", op, "user_id", userID)
	history, err := s.history.ListForUser(ctx, userID)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	if history == nil {
		history = []models.UserMovie{}
	}
	return history, nil
}

func (s *MovieService) Recommendations(ctx context.Context, userID int64) (recommend.Result, error) {
	const op = "movies.MovieService.Recommendations"
	log := s.log.With("op", op, "user_id", userID)
	res, err := s.recommender.Recommend(ctx, userID)
	if err != nil {
		log.Error(err.Error())
		return recommend.Result{}, err
	}
	return res, nil
}
