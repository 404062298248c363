package staging

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolConfig sizes the PostgreSQL connection pool.
type PoolConfig struct {
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// NewPool opens a pgx pool for the staging table.
func NewPool(ctx context.Context, databaseURL string, pc PoolConfig) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if pc.MaxConns > 0 {
		cfg.MaxConns = pc.MaxConns
	}
	cfg.MinConns = pc.MinConns
	if pc.MaxConnLifetime > 0 {
		cfg.MaxConnLifetime = pc.MaxConnLifetime
	}
	if pc.MaxConnIdleTime > 0 {
		cfg.MaxConnIdleTime = pc.MaxConnIdleTime
	}
	cfg.ConnConfig.RuntimeParams["application_name"] = "rateaudit"
	cfg.ConnConfig.RuntimeParams["timezone"] = "UTC"

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

const createStagedFiles = `
CREATE TABLE IF NOT EXISTS staged_files (
	id         UUID PRIMARY KEY,
	name       TEXT NOT NULL,
	data       BYTEA NOT NULL,
	size       BIGINT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS staged_files_created_at_idx ON staged_files (created_at);
`

// PostgresStore stages uploads in the staged_files table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an open pool. Call EnsureSchema before first use.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the staged_files table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, createStagedFiles); err != nil {
		return fmt.Errorf("create staged_files: %w", err)
	}
	return nil
}

func (s *PostgresStore) Put(ctx context.Context, name string, data []byte) (*File, error) {
	f := &File{
		ID:   NewID(),
		Name: name,
		Data: data,
		Size: int64(len(data)),
	}

	err := s.pool.QueryRow(ctx,
		`INSERT INTO staged_files (id, name, data, size) VALUES ($1, $2, $3, $4) RETURNING created_at`,
		f.ID, f.Name, f.Data, f.Size,
	).Scan(&f.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert staged file: %w", err)
	}
	return f, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*File, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	f := &File{ID: id}
	err := s.pool.QueryRow(ctx,
		`SELECT name, data, size, created_at FROM staged_files WHERE id = $1`, id,
	).Scan(&f.Name, &f.Data, &f.Size, &f.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select staged file: %w", err)
	}
	return f, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx, `DELETE FROM staged_files WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete staged file: %w", err)
	}
	return nil
}

func (s *PostgresStore) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM staged_files WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge staged files: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
