package services

import (
	"log/slog"
	"movieapp/proj/internal/clients/tmdb"
	"movieapp/proj/internal/config"
	"movieapp/proj/internal/mails"
	"movieapp/proj/internal/services/auth"
	"movieapp/proj/internal/services/movies"
	"movieapp/proj/internal/services/recommend"
	"movieapp/proj/internal/storage/memory"
	pgmodels "movieapp/proj/internal/storage/postgres/models"
)

type MoviesRepository interface {
	movies.MoviesStorage
	recommend.Catalog
}

type WatchHistoryRepository interface {
	movies.WatchHistoryStorage
	recommend.History
}

// Repositories is the storage backend the services run on.
type Repositories struct {
	Movies       MoviesRepository
	WatchHistory WatchHistoryRepository
	Users        auth.UsersStorage
}

func FromPostgres(m *pgmodels.Models) Repositories {
	return Repositories{Movies: m.Movie, WatchHistory: m.UserMovie, Users: m.User}
}

func FromMemory(s *memory.Storage) Repositories {
	return Repositories{Movies: s.Movie, WatchHistory: s.UserMovie, Users: s.User}
}

type Services struct {
	Auth      *auth.AuthService
	Movies    *movies.MovieService
	Recommend *recommend.Engine
}

func New(log *slog.Logger, cfg *config.Config, repos Repositories, taskExecutor auth.TaskExecutor) (*Services, error) {
	tmdbClient, err := tmdb.New(
		log,
		cfg.Clients.TMDB.BaseURL,
		cfg.Clients.TMDB.APIKey,
		cfg.Clients.TMDB.Timeout,
	)
	if err != nil {
		return nil, err
	}
	if !tmdbClient.Configured() {
		log.Warn("TMDB API key is not set, external search and popular feed are disabled")
	}

	var mailer auth.MailProvider
	if cfg.SMTPServer.Enabled() {
		mailer = mails.New(
			cfg.SMTPServer.Host,
			cfg.SMTPServer.Port,
			cfg.SMTPServer.Timeout,
			cfg.SMTPServer.Username,
			cfg.SMTPServer.Password,
			cfg.SMTPServer.Sender,
			cfg.SMTPServer.RetriesCount,
		)
	}

	engine := recommend.New(
		log,
		repos.WatchHistory,
		repos.Movies,
		tmdbClient,
		recommend.Config{ExternalEnabled: tmdbClient.Configured()},
	)
	return &Services{
		Auth: auth.New(log, repos.Users, mailer, taskExecutor, auth.TokenConfig{
			Secret: cfg.AppSecret,
			TTL:    cfg.Auth.TokenTTL,
		}),
		Movies: movies.New(log, repos.Movies, repos.WatchHistory, tmdbClient, engine, movies.Options{
			AllowDuplicateHistory: !cfg.WatchHistory.UniquePerMovie,
		}),
		Recommend: engine,
	}, nil
}
