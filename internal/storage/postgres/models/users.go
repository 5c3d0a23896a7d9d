package models

import (
	"context"
	"errors"
	"movieapp/proj/internal/domain/models"
	"movieapp/proj/internal/storage"
	"movieapp/proj/internal/storage/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = "id, email, username, password_hash, is_active, created_at"

type UserModel struct {
	DB *pgxpool.Pool
}

func (m *UserModel) Insert(ctx context.Context, email, username string, passwordHash []byte) (*models.User, error) {
	rows, _ := m.DB.Query(
		ctx,
		"INSERT INTO users (email, username, password_hash) VALUES ($1, $2, $3) RETURNING "+userColumns,
		email,
		username,
		passwordHash,
	)
	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		var pgxErr *pgconn.PgError
		if errors.As(err, &pgxErr) && pgxErr.Code == postgres.ErrConflictCode {
			return nil, storage.ErrConflict
		}
		return nil, err
	}
	return &user, nil
}

func (m *UserModel) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return m.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
}

func (m *UserModel) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE lower(email) = lower($1)", email)
}

func (m *UserModel) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	rows, err := m.DB.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (m *UserModel) List(ctx context.Context, offset, limit int) ([]models.User, error) {
	rows, _ := m.DB.Query(
		ctx,
		"SELECT "+userColumns+" FROM users ORDER BY id LIMIT $1 OFFSET $2",
		limit,
		offset,
	)
	return pgx.CollectRows(rows, pgx.RowToStructByName[models.User])
}
