package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"movieapp/proj/internal/domain/models"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	catalog []models.Movie
	history map[int64][]models.UserMovie
	scanErr error
}

func (s *fakeStore) movie(id int64) *models.Movie {
	for i := range s.catalog {
		if s.catalog[i].ID == id {
			m := s.catalog[i]
			return &m
		}
	}
	return nil
}

func (s *fakeStore) watch(userID, movieID int64, rating *float64) {
	if s.history == nil {
		s.history = make(map[int64][]models.UserMovie)
	}
	s.history[userID] = append(s.history[userID], models.UserMovie{
		ID:      int64(len(s.history[userID]) + 1),
		UserID:  userID,
		MovieID: movieID,
		Rating:  rating,
		Movie:   s.movie(movieID),
	})
}

func (s *fakeStore) ListForUser(_ context.Context, userID int64) ([]models.UserMovie, error) {
	return s.history[userID], nil
}

func (s *fakeStore) ScanByGenreExcludingIDs(_ context.Context, genres []string, excludeIDs []int64, limit int) ([]models.Movie, error) {
	if s.scanErr != nil {
		return nil, s.scanErr
	}
	var out []models.Movie
	for _, m := range s.catalog {
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

func (s *fakeStore) ScanByMinRating(_ context.Context, minRating float64, limit int) ([]models.Movie, error) {
	if s.scanErr != nil {
		return nil, s.scanErr
	}
	var out []models.Movie
	for _, m := range s.catalog {
		if len(out) == limit {
			break
		}
		if m.TMDBRating != nil && *m.TMDBRating >= minRating {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakePopular struct {
	payload json.RawMessage
	err     error
	calls   int
}

func (p *fakePopular) Popular(context.Context) (json.RawMessage, error) {
	p.calls++
	return p.payload, p.err
}

func ptr[T any](v T) *T {
	return &v
}

func newMovie(id int64, genre string, rating float64) models.Movie {
	m := models.Movie{ID: id, Title: fmt.Sprintf("movie %d", id), TMDBRating: ptr(rating)}
	if genre != "" {
		m.Genre = ptr(genre)
	}
	return m
}

func newEngine(store *fakeStore, popular PopularSource, external bool) *Engine {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(log, store, store, popular, Config{ExternalEnabled: external})
}

func ids(movies []models.Movie) []int64 {
	out := make([]int64, 0, len(movies))
	for _, m := range movies {
		out = append(out, m.ID)
	}
	return out
}

func TestRecommendLikedGenre(t *testing.T) {
	store := &fakeStore{catalog: []models.Movie{
		newMovie(1, "Drama", 8.1),  // A
		newMovie(2, "Comedy", 6.0), // B
		newMovie(3, "Drama", 5.0),  // C
		newMovie(4, "Comedy", 9.0), // D
	}}
	store.watch(7, 1, ptr(4.5))
	store.watch(7, 2, ptr(2.0))

	popular := &fakePopular{payload: json.RawMessage(`{}`)}
	res, err := newEngine(store, popular, true).Recommend(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, SourceCatalog, res.Source)
	assert.Equal(t, []int64{3}, ids(res.Movies))
	assert.Zero(t, popular.calls)
}

func TestRecommendThresholdIsInclusive(t *testing.T) {
	store := &fakeStore{catalog: []models.Movie{
		newMovie(1, "Horror", 5.0),
		newMovie(2, "Horror", 5.0),
	}}
	store.watch(1, 1, ptr(4.0))
	res, err := newEngine(store, nil, false).Recommend(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, ids(res.Movies))
}

func TestRecommendExcludesWholeHistory(t *testing.T) {
	store := &fakeStore{catalog: []models.Movie{
		newMovie(1, "Drama", 5.0),
		newMovie(2, "Drama", 5.0),
		newMovie(3, "Drama", 5.0),
	}}
	store.watch(1, 1, ptr(5.0))
	// unrated and low rated rows still exclude their movie
	store.watch(1, 2, nil)
	store.watch(1, 1, ptr(1.0))
	res, err := newEngine(store, nil, false).Recommend(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, ids(res.Movies))
}

func TestRecommendCapsResult(t *testing.T) {
	store := &fakeStore{}
	for i := int64(1); i <= 25; i++ {
		store.catalog = append(store.catalog, newMovie(i, "Sci-Fi", 5.0))
	}
	store.watch(1, 1, ptr(5.0))
	res, err := newEngine(store, nil, false).Recommend(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, res.Movies, Limit)
	for _, m := range res.Movies {
		assert.Equal(t, "Sci-Fi", *m.Genre)
		assert.NotEqual(t, int64(1), m.ID)
	}
}

func TestRecommendFallsBackToPopular(t *testing.T) {
	catalog := []models.Movie{
		newMovie(1, "Drama", 6.9),
		newMovie(2, "Drama", 7.0),
		newMovie(3, "", 9.5),
		newMovie(4, "Comedy", 3.0),
	}
	testCases := []struct {
		name  string
		setup func(s *fakeStore)
	}{
		{name: "empty history", setup: func(s *fakeStore) {}},
		{name: "only low ratings", setup: func(s *fakeStore) {
			s.watch(1, 1, ptr(3.9))
			s.watch(1, 4, ptr(1.0))
		}},
		{name: "unrated rows", setup: func(s *fakeStore) {
			s.watch(1, 1, nil)
		}},
		{name: "liked movie without genre", setup: func(s *fakeStore) {
			s.watch(1, 3, ptr(5.0))
		}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeStore{catalog: catalog}
			tc.setup(store)
			engine := newEngine(store, nil, false)

			res, err := engine.Recommend(context.Background(), 1)
			require.NoError(t, err)
			popular, err := engine.Popular(context.Background())
			require.NoError(t, err)
			assert.Equal(t, popular, res)
			assert.Equal(t, []int64{2, 3}, ids(res.Movies))
		})
	}
}

func TestPopular(t *testing.T) {
	store := &fakeStore{}
	for i := int64(1); i <= 30; i++ {
		store.catalog = append(store.catalog, newMovie(i, "Drama", float64(i%10)))
	}
	local, err := newEngine(store, nil, false).Popular(context.Background())
	require.NoError(t, err)

	t.Run("no credential uses catalog", func(t *testing.T) {
		popular := &fakePopular{payload: json.RawMessage(`{"results":[]}`)}
		res, err := newEngine(store, popular, false).Popular(context.Background())
		require.NoError(t, err)
		assert.Zero(t, popular.calls)
		assert.Equal(t, SourceCatalog, res.Source)
		assert.LessOrEqual(t, len(res.Movies), Limit)
		for _, m := range res.Movies {
			assert.GreaterOrEqual(t, *m.TMDBRating, PopularRating)
		}
	})
	t.Run("credential returns external payload verbatim", func(t *testing.T) {
		popular := &fakePopular{payload: json.RawMessage(`{"page":1,"results":[{"id":1}]}`)}
		res, err := newEngine(store, popular, true).Popular(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, popular.calls)
		assert.Equal(t, SourceExternal, res.Source)
		assert.Nil(t, res.Movies)
		assert.Equal(t, `{"page":1,"results":[{"id":1}]}`, string(res.External))
	})
	t.Run("external failure equals no credential path", func(t *testing.T) {
		popular := &fakePopular{err: errors.New("connection refused")}
		res, err := newEngine(store, popular, true).Popular(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, popular.calls)
		assert.Equal(t, local, res)
	})
}

func TestRecommendPropagatesStoreErrors(t *testing.T) {
	storeErr := errors.New("db down")
	store := &fakeStore{catalog: []models.Movie{newMovie(1, "Drama", 9)}, scanErr: storeErr}
	_, err := newEngine(store, nil, false).Recommend(context.Background(), 1)
	assert.ErrorIs(t, err, storeErr)

	store.watch(1, 1, ptr(5.0))
	_, err = newEngine(store, nil, false).Recommend(context.Background(), 1)
	assert.ErrorIs(t, err, storeErr)
}

func TestLikedGenres(t *testing.T) {
	drama := &models.Movie{Genre: ptr("Drama")}
	comedy := &models.Movie{Genre: ptr("Comedy")}
	history := []models.UserMovie{
		{MovieID: 1, Rating: ptr(5.0), Movie: drama},
		{MovieID: 2, Rating: ptr(4.2), Movie: drama},
		{MovieID: 3, Rating: ptr(4.0), Movie: comedy},
		{MovieID: 4, Rating: ptr(3.99), Movie: &models.Movie{Genre: ptr("Horror")}},
		{MovieID: 5, Movie: &models.Movie{Genre: ptr("Western")}},
	}
	assert.Equal(t, []string{"Drama", "Comedy"}, LikedGenres(history))
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, HistoryMovieIDs(history))
}
