package models

import (
	"context"
	"errors"
	"movieapp/proj/internal/domain/fields"
	"movieapp/proj/internal/domain/models"
	"movieapp/proj/internal/storage"
	"movieapp/proj/internal/storage/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserMovieModel struct {
	DB *pgxpool.Pool
}

func (m *UserMovieModel) Insert(ctx context.Context, userID, movieID int64, rating *float64, isSaved fields.SavedFlag) (*models.UserMovie, error) {
	rows, _ := m.DB.Query(
		ctx,
		`INSERT INTO user_movies (user_id, movie_id, rating, is_saved) VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, movie_id, rating, is_saved, watched_at`,
		userID,
		movieID,
		rating,
		isSaved,
	)
	userMovie, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.UserMovie])
	if err != nil {
		var pgxErr *pgconn.PgError
		if errors.As(err, &pgxErr) && pgxErr.Code == postgres.ErrForeignKeyCode {
			return nil, storage.ErrInvalidReference
		}
		return nil, err
	}
	return &userMovie, nil
}

// ListForUser returns every watch-history row of the user together with the
// referenced movie, oldest first.
func (m *UserMovieModel) ListForUser(ctx context.Context, userID int64) ([]models.UserMovie, error) {
	rows, err := m.DB.Query(
		ctx,
		`SELECT um.id, um.user_id, um.movie_id, um.rating, um.is_saved, um.watched_at,
			m.id, m.tmdb_id, m.title, m.year, m.genre, m.director, m.poster, m.tmdb_rating, m.summary, m.created_at
		FROM user_movies um
		JOIN movies m ON m.id = um.movie_id
		WHERE um.user_id = $1
		ORDER BY um.id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.UserMovie, error) {
		var um models.UserMovie
		var movie models.Movie
		err := row.Scan(
			&um.ID, &um.UserID, &um.MovieID, &um.Rating, &um.IsSaved, &um.WatchedAt,
			&movie.ID, &movie.TMDBID, &movie.Title, &movie.Year, &movie.Genre, &movie.Director,
			&movie.Poster, &movie.TMDBRating, &movie.Summary, &movie.CreatedAt,
		)
		um.Movie = &movie
		return um, err
	})
}

func (m *UserMovieModel) Exists(ctx context.Context, userID, movieID int64) (bool, error) {
	var exists bool
	err := m.DB.QueryRow(
		ctx,
		"SELECT EXISTS (SELECT 1 FROM user_movies WHERE user_id = $1 AND movie_id = $2)",
		userID,
		movieID,
	).Scan(&exists)
	return exists, err
}
