package services

import (
	"context"
	"movieapp/proj/internal/config"
	"movieapp/proj/internal/lib/logger"
	"movieapp/proj/internal/services/movies"
	"movieapp/proj/internal/services/recommend"
	"movieapp/proj/internal/storage/memory"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncExecutor struct{}

func (syncExecutor) Add(task func()) { task() }

func newConfig() *config.Config {
	return &config.Config{
		AppSecret: "secret",
		Auth:      config.Auth{TokenTTL: time.Minute},
		Clients: config.ClientsConfig{
			TMDB: config.TMDB{BaseURL: "http://127.0.0.1:1", Timeout: time.Second},
		},
	}
}

func TestNewWithoutExternalCredential(t *testing.T) {
	svcs, err := New(logger.Discard(), newConfig(), FromMemory(memory.New()), syncExecutor{})
	require.NoError(t, err)
	assert.Nil(t, svcs.Auth.Mailer)

	res := svcs.Movies.SearchExternal(context.Background(), "inception")
	assert.Equal(t, movies.SearchNotConfigured, res.Status)

	rec, err := svcs.Recommend.Popular(context.Background())
	require.NoError(t, err)
	assert.Equal(t, recommend.SourceCatalog, rec.Source)
	assert.Empty(t, rec.Movies)
}

func TestNewUniqueWatchHistory(t *testing.T) {
	cfg := newConfig()
	cfg.WatchHistory.UniquePerMovie = true
	store := memory.New()
	svcs, err := New(logger.Discard(), cfg, FromMemory(store), syncExecutor{})
	require.NoError(t, err)

	ctx := context.Background()
	user, err := svcs.Auth.Register(ctx, "dozer@example.com", "dozer", "supersecret")
	require.NoError(t, err)
	movie, err := svcs.Movies.Create(ctx, movies.CreateParams{Title: "Heat"})
	require.NoError(t, err)

	_, err = svcs.Movies.AddToWatchHistory(ctx, user.ID, movies.WatchParams{MovieID: movie.ID})
	require.NoError(t, err)
	_, err = svcs.Movies.AddToWatchHistory(ctx, user.ID, movies.WatchParams{MovieID: movie.ID})
	assert.ErrorIs(t, err, movies.ErrAlreadyInHistory)
}

func TestNewRejectsBadTMDBURL(t *testing.T) {
	cfg := newConfig()
	cfg.Clients.TMDB.BaseURL = "://bad"
	_, err := New(logger.Discard(), cfg, FromMemory(memory.New()), syncExecutor{})
	assert.Error(t, err)
}
