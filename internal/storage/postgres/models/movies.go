package models

import (
	"context"
	"errors"
	"movieapp/proj/internal/domain/filters"
	"movieapp/proj/internal/domain/models"
	"movieapp/proj/internal/storage"
	"movieapp/proj/internal/storage/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const movieColumns = "id, tmdb_id, title, year, genre, director, poster, tmdb_rating, summary, created_at"

type MovieModel struct {
	DB *pgxpool.Pool
}

func (m *MovieModel) Get(ctx context.Context, id int64) (*models.Movie, error) {
	rows, err := m.DB.Query(ctx, "SELECT "+movieColumns+" FROM movies WHERE id = $1", id)
	if err != nil {
		return nil, err
	}
	movie, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Movie])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &movie, nil
}

func (m *MovieModel) Insert(ctx context.Context, movie *models.Movie) (*models.Movie, error) {
	rows, _ := m.DB.Query(
		ctx,
		`INSERT INTO movies (tmdb_id, title, year, genre, director, poster, tmdb_rating, summary)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING `+movieColumns,
		movie.TMDBID,
		movie.Title,
		movie.Year,
		movie.Genre,
		movie.Director,
		movie.Poster,
		movie.TMDBRating,
		movie.Summary,
	)
	inserted, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Movie])
	if err != nil {
		var pgxErr *pgconn.PgError
		if errors.As(err, &pgxErr) && pgxErr.Code == postgres.ErrConflictCode {
			return nil, storage.ErrConflict
		}
		return nil, err
	}
	return &inserted, nil
}

func (m *MovieModel) List(ctx context.Context, f filters.Filters) ([]models.Movie, error) {
	rows, _ := m.DB.Query(
		ctx,
		`SELECT `+movieColumns+` FROM movies
		WHERE ($1 = '' OR title ILIKE $1)
		ORDER BY id
		LIMIT $2 OFFSET $3`,
		f.SearchPattern(),
		f.Limit,
		f.Offset(),
	)
	return pgx.CollectRows(rows, pgx.RowToStructByName[models.Movie])
}

// ScanByGenreExcludingIDs returns up to limit movies whose genre is one of
// genres and whose id is not in excludeIDs. Rows come back in storage order.
func (m *MovieModel) ScanByGenreExcludingIDs(ctx context.Context, genres []string, excludeIDs []int64, limit int) ([]models.Movie, error) {
	if excludeIDs == nil {
		excludeIDs = []int64{}
	}
	rows, _ := m.DB.Query(
		ctx,
		`SELECT `+movieColumns+` FROM movies
		WHERE genre = ANY($1) AND NOT (id = ANY($2))
		LIMIT $3`,
		genres,
		excludeIDs,
		limit,
	)
	return pgx.CollectRows(rows, pgx.RowToStructByName[models.Movie])
}

// ScanByMinRating returns up to limit movies with tmdb_rating >= minRating,
// in storage order.
func (m *MovieModel) ScanByMinRating(ctx context.Context, minRating float64, limit int) ([]models.Movie, error) {
	rows, _ := m.DB.Query(
		ctx,
		"SELECT "+movieColumns+" FROM movies WHERE tmdb_rating >= $1 LIMIT $2",
		minRating,
		limit,
	)
	return pgx.CollectRows(rows, pgx.RowToStructByName[models.Movie])
}
