package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.up.sql
var migrationsFS embed.FS

type Storage struct {
	Conn *pgxpool.Pool
}

const (
	ErrConflictCode   = "23505"
	ErrForeignKeyCode = "23503"
)

func New(ctx context.Context, storagePath string, maxConns int, maxConnIdleTime time.Duration) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(storagePath)
	if err != nil {
		return nil, err
	}
	if maxConns > 0 {
		cfg.MaxConns = int32(maxConns)
	}
	if maxConnIdleTime > 0 {
		cfg.MaxConnIdleTime = maxConnIdleTime
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Storage{Conn: pool}, nil
}

// Migrate applies the embedded schema files in lexical order. Every file is
// idempotent, so running it against an already migrated database is a no-op.
func (s *Storage) Migrate(ctx context.Context) error {
	return Migrate(ctx, s.Conn)
}

func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	files, err := fs.Glob(migrationsFS, "migrations/*.up.sql")
	if err != nil {
		return err
	}
	sort.Strings(files)
	for _, name := range files {
		payload, err := migrationsFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := pool.Exec(ctx, string(payload)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}
	return nil
}

func (s *Storage) Close() {
	s.Conn.Close()
}
