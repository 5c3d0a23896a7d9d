// Package memory is an in-process implementation of the storage models with
// the same error semantics as the postgres one. Rows are kept in insertion
// order. It backs the service and HTTP tests; the server binary always runs
// on postgres.
package memory

import (
	"context"
	"movieapp/proj/internal/domain/fields"
	"movieapp/proj/internal/domain/filters"
	"movieapp/proj/internal/domain/models"
	"movieapp/proj/internal/storage"
	"slices"
	"strings"
	"sync"
	"time"
)

type db struct {
	mu         sync.RWMutex
	movies     []models.Movie
	userMovies []models.UserMovie
	users      []models.User
	now        func() time.Time
}

type Storage struct {
	Movie     *MovieStore
	UserMovie *UserMovieStore
	User      *UserStore
}

func New() *Storage {
	d := &db{now: time.Now}
	return &Storage{
		Movie:     &MovieStore{d},
		UserMovie: &UserMovieStore{d},
		User:      &UserStore{d},
	}
}

func (d *db) movie(id int64) (models.Movie, bool) {
	for _, m := range d.movies {
		if m.ID == id {
			return m, true
		}
	}
	return models.Movie{}, false
}

func (d *db) user(id int64) (models.User, bool) {
	for _, u := range d.users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

type MovieStore struct {
	d *db
}

func (s *MovieStore) Get(_ context.Context, id int64) (*models.Movie, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	m, ok := s.d.movie(id)
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &m, nil
}

func (s *MovieStore) Insert(_ context.Context, movie *models.Movie) (*models.Movie, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	if movie.TMDBID != nil {
		for _, m := range s.d.movies {
			if m.TMDBID != nil && *m.TMDBID == *movie.TMDBID {
				return nil, storage.ErrConflict
			}
		}
	}
	inserted := *movie
	inserted.ID = int64(len(s.d.movies) + 1)
	inserted.CreatedAt = s.d.now()
	s.d.movies = append(s.d.movies, inserted)
	return &inserted, nil
}

func (s *MovieStore) List(_ context.Context, f filters.Filters) ([]models.Movie, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	needle := strings.ToLower(f.Search)
	var matched []models.Movie
	for _, m := range s.d.movies {
		if needle == "" || strings.Contains(strings.ToLower(m.Title), needle) {
			matched = append(matched, m)
		}
	}
	return window(matched, f.Offset(), f.Limit), nil
}

func (s *MovieStore) ScanByGenreExcludingIDs(_ context.Context, genres []string, excludeIDs []int64, limit int) ([]models.Movie, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	out := []models.Movie{}
	for _, m := range s.d.movies {
		if len(out) == limit {
			break
		}
		if m.Genre == nil || !slices.Contains(genres, *m.Genre) || slices.Contains(excludeIDs, m.ID) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *MovieStore) ScanByMinRating(_ context.Context, minRating float64, limit int) ([]models.Movie, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	out := []models.Movie{}
	for _, m := range s.d.movies {
		if len(out) == limit {
			break
		}
		if m.TMDBRating != nil && *m.TMDBRating >= minRating {
			out = append(out, m)
		}
	}
	return out, nil
}

type UserMovieStore struct {
	d *db
}

func (s *UserMovieStore) Insert(_ context.Context, userID, movieID int64, rating *float64, isSaved fields.SavedFlag) (*models.UserMovie, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	if _, ok := s.d.movie(movieID); !ok {
		return nil, storage.ErrInvalidReference
	}
	if _, ok := s.d.user(userID); !ok {
		return nil, storage.ErrInvalidReference
	}
	um := models.UserMovie{
		ID:        int64(len(s.d.userMovies) + 1),
		UserID:    userID,
		MovieID:   movieID,
		Rating:    rating,
		IsSaved:   isSaved,
		WatchedAt: s.d.now(),
	}
	s.d.userMovies = append(s.d.userMovies, um)
	return &um, nil
}

func (s *UserMovieStore) ListForUser(_ context.Context, userID int64) ([]models.UserMovie, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	out := []models.UserMovie{}
	for _, um := range s.d.userMovies {
		if um.UserID != userID {
			continue
		}
		m, _ := s.d.movie(um.MovieID)
		um.Movie = &m
		out = append(out, um)
	}
	return out, nil
}

func (s *UserMovieStore) Exists(_ context.Context, userID, movieID int64) (bool, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	for _, um := range s.d.userMovies {
		if um.UserID == userID && um.MovieID == movieID {
			return true, nil
		}
	}
	return false, nil
}

type UserStore struct {
	d *db
}

func (s *UserStore) Insert(_ context.Context, email, username string, passwordHash []byte) (*models.User, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	for _, u := range s.d.users {
		if strings.EqualFold(u.Email, email) {
			return nil, storage.ErrConflict
		}
	}
	user := models.User{
		ID:           int64(len(s.d.users) + 1),
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    s.d.now(),
	}
	s.d.users = append(s.d.users, user)
	return &user, nil
}

func (s *UserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	u, ok := s.d.user(id)
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &u, nil
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	for _, u := range s.d.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *UserStore) List(_ context.Context, offset, limit int) ([]models.User, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	return window(s.d.users, offset, limit), nil
}

func window[T any](rows []T, offset, limit int) []T {
	out := []T{}
	if offset >= len(rows) {
		return out
	}
	end := len(rows)
	if limit >= 0 && offset+limit < end {
		end = offset + limit
	}
	return append(out, rows[offset:end]...)
}
